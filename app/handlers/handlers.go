// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"errors"
	"log"

	"github.com/amirphl/helper-registry/app/dto"
	businessflow "github.com/amirphl/helper-registry/business_flow"
	"github.com/amirphl/helper-registry/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
)

func errorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func successResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// flowErrorResponse maps business errors onto HTTP statuses
func flowErrorResponse(c fiber.Ctx, err error, fallbackMessage, fallbackCode string) error {
	var be *businessflow.BusinessError
	if errors.As(err, &be) {
		switch be.Code {
		case businessflow.CodeValidation:
			return errorResponse(c, fiber.StatusBadRequest, be.Message, be.Code, businessflow.ValidationDetails(err))
		case businessflow.CodeHelperNotFound:
			return errorResponse(c, fiber.StatusNotFound, be.Message, be.Code, nil)
		case businessflow.CodeStorageUnavail:
			log.Printf("%s: %v", fallbackMessage, err)
			return errorResponse(c, fiber.StatusServiceUnavailable, "Storage is temporarily unavailable", be.Code, nil)
		case businessflow.CodePartialWrite, businessflow.CodePersistence:
			log.Printf("%s: %v", fallbackMessage, err)
			return errorResponse(c, fiber.StatusInternalServerError, fallbackMessage, be.Code, nil)
		}
	}
	log.Printf("%s: %v", fallbackMessage, err)
	return errorResponse(c, fiber.StatusInternalServerError, fallbackMessage, fallbackCode, nil)
}

func clientMetadata(c fiber.Ctx) *businessflow.ClientMetadata {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(requestID(c))
	return metadata
}

func requestID(c fiber.Ctx) string {
	if id := requestid.FromContext(c); id != "" {
		return id
	}
	return c.Get(businessflow.RequestIDKey)
}

// createRequestContext derives the context handed to flows. The caller must
// call the returned cancel func.
func createRequestContext(c fiber.Ctx) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), utils.RequestTimeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, requestID(c))
	return ctx, cancel
}
