// Package businessflow contains the business logic for the application.
package businessflow

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/amirphl/helper-registry/app/dto"
	"github.com/amirphl/helper-registry/config"
	"github.com/amirphl/helper-registry/models"
	"github.com/amirphl/helper-registry/utils"
	"github.com/go-playground/validator/v10"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds client information attached to write operations for logging
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// requestIDFrom prefers the metadata request id and falls back to the one
// carried by the context
func requestIDFrom(ctx context.Context, metadata *ClientMetadata) string {
	if metadata != nil && metadata.RequestID != "" {
		return metadata.RequestID
	}
	if id, ok := ctx.Value(utils.RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// ToHelperDTO converts a helper model to its full response shape
func ToHelperDTO(h models.Helper) dto.HelperDTO {
	return dto.HelperDTO{
		EmployeeID:    h.EmployeeID,
		FullName:      h.FullName,
		Email:         h.Email,
		Services:      nonNil(h.Services),
		Organization:  h.Organization,
		Languages:     nonNil(h.Languages),
		Gender:        h.Gender,
		PhonePrefix:   h.PhonePrefix,
		PhoneNumber:   h.PhoneNumber,
		VehicleType:   h.VehicleType,
		VehicleNumber: h.VehicleNumber,
		Photo:         h.Photo,
		KYCDocument:   h.KYCDocument,
		KYCDocType:    h.KYCDocType,
		OtherDocument: h.OtherDocument,
		OtherDocType:  h.OtherDocType,
		JoinedDate:    h.JoinedDate.UTC().Format(time.RFC3339),
	}
}

// ToHelperListingDTO projects a helper onto the listing shape
func ToHelperListingDTO(h models.Helper) dto.HelperListingDTO {
	return dto.HelperListingDTO{
		EmployeeID:   h.EmployeeID,
		FullName:     h.FullName,
		Services:     nonNil(h.Services),
		Organization: h.Organization,
		Photo:        h.Photo,
		PhoneNumber:  h.PhoneNumber,
	}
}

// ToSummaryListingDTO converts a summary row to the listing shape
func ToSummaryListingDTO(s models.EmployeeSummary) dto.HelperListingDTO {
	return dto.HelperListingDTO{
		EmployeeID:   s.EmployeeID,
		FullName:     s.FullName,
		Services:     nonNil(s.Services),
		Organization: s.Organization,
		Photo:        s.Photo,
		PhoneNumber:  s.PhoneNumber,
	}
}

// ToAuditLogDTO converts an audit entry to its response shape
func ToAuditLogDTO(a models.AuditLog) dto.AuditLogDTO {
	return dto.AuditLogDTO{
		ID:           a.ID,
		EmployeeID:   a.EmployeeID,
		Action:       a.Action,
		Description:  utils.StringValue(a.Description),
		IPAddress:    utils.StringValue(a.IPAddress),
		UserAgent:    utils.StringValue(a.UserAgent),
		RequestID:    utils.StringValue(a.RequestID),
		Metadata:     a.Metadata,
		Success:      !a.IsFailed(),
		ErrorMessage: utils.StringValue(a.ErrorMessage),
		CreatedAt:    a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func redisKey(cfg config.CacheConfig, key string) string {
	return cfg.RedisPrefix + key
}

// validateStruct runs struct validation and converts failures into a
// ValidationError carrying one message per field
func validateStruct(v *validator.Validate, req any) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return NewValidationError("Invalid request", err.Error())
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fieldKey(fe)] = validationMessage(fe)
	}
	return NewValidationError("Validation failed", details)
}

// fieldKey returns the json style name of the failing field, e.g. services[0]
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	if ns == "" {
		return fe.Field()
	}
	return strings.ToLower(ns[:1]) + ns[1:]
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s item(s)", fe.Field(), fe.Param())
		}
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	default:
		return fe.Field() + " is invalid"
	}
}
