package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amirphl/helper-registry/app/dto"
	"github.com/amirphl/helper-registry/app/services"
	businessflow "github.com/amirphl/helper-registry/business_flow"
	"github.com/amirphl/helper-registry/utils"
	"github.com/gofiber/fiber/v3"
)

// HelperHandlerInterface defines the contract for helper handlers
type HelperHandlerInterface interface {
	Create(c fiber.Ctx) error
	List(c fiber.Ctx) error
	GetByEmployeeID(c fiber.Ctx) error
	Search(c fiber.Ctx) error
	Export(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
	Reconcile(c fiber.Ctx) error
	AuditTrail(c fiber.Ctx) error
}

// HelperHandler handles helper registry HTTP requests
type HelperHandler struct {
	flow      businessflow.HelperFlow
	reconcile businessflow.SummaryReconcileFlow
	blobs     services.BlobStore
}

// NewHelperHandler creates a new helper handler. reconcile may be nil when
// the summary reconciler is disabled.
func NewHelperHandler(flow businessflow.HelperFlow, reconcile businessflow.SummaryReconcileFlow, blobs services.BlobStore) *HelperHandler {
	return &HelperHandler{
		flow:      flow,
		reconcile: reconcile,
		blobs:     blobs,
	}
}

func isMultipart(c fiber.Ctx) bool {
	return strings.HasPrefix(c.Get("Content-Type"), "multipart/form-data")
}

// bindJSONError answers a JSON body that could not be decoded
func bindJSONError(c fiber.Ctx, err error) error {
	if errors.Is(err, utils.ErrMalformedList) {
		return errorResponse(c, fiber.StatusBadRequest, "Malformed list field", businessflow.CodeValidation, err.Error())
	}
	return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
}

// readHelperForm parses a multipart helper submission and stores its files
func (h *HelperHandler) readHelperForm(c fiber.Ctx) (*helperForm, dto.HelperFileRefs, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, dto.HelperFileRefs{}, errorResponse(c, fiber.StatusBadRequest, "Invalid multipart form", "INVALID_REQUEST", err.Error())
	}

	fields, err := parseHelperForm(form)
	if err != nil {
		var fe *fieldError
		details := any(err.Error())
		if errors.As(err, &fe) {
			details = map[string]string{fe.Field: fe.Err.Error()}
		}
		return nil, dto.HelperFileRefs{}, errorResponse(c, fiber.StatusBadRequest, "Malformed list field", businessflow.CodeValidation, details)
	}

	ctx, cancel := createRequestContext(c)
	defer cancel()

	files, err := storeHelperFiles(ctx, h.blobs, form)
	if err != nil {
		return nil, dto.HelperFileRefs{}, errorResponse(c, fiber.StatusBadRequest, "File upload failed", "FILE_UPLOAD_FAILED", err.Error())
	}
	return fields, files, nil
}

// queryList collects a repeatable list query parameter. Each occurrence may
// itself be a JSON array or a comma separated list.
func queryList(c fiber.Ctx, key string) ([]string, error) {
	var values []string
	for _, raw := range c.Request().URI().QueryArgs().PeekMulti(key) {
		items, err := utils.ParseStringList(string(raw))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		values = append(values, items...)
	}
	return utils.UniqueStrings(values), nil
}

// Create Helper
// @Summary Register a helper
// @Description Allocates the next employee id and stores the helper with its summary. Accepts multipart form (with files) or JSON.
// @Tags Helpers
// @Accept mpfd
// @Accept json
// @Produce json
// @Param fullName formData string false "Full name"
// @Param services formData string false "Services as JSON array or comma separated list"
// @Param languages formData string false "Languages as JSON array or comma separated list"
// @Param photo formData file false "Photo (jpg/png/webp, <=10MB)"
// @Param kycDocument formData file false "KYC document (jpg/png/pdf, <=10MB)"
// @Param otherDocument formData file false "Other document (jpg/png/pdf, <=10MB)"
// @Param request body dto.CreateHelperRequest false "JSON alternative without files"
// @Success 201 {object} dto.APIResponse{data=dto.HelperDTO} "Helper created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Persistence error or partial write"
// @Failure 503 {object} dto.APIResponse "Storage unavailable"
// @Router /api/v1/helpers [post]
func (h *HelperHandler) Create(c fiber.Ctx) error {
	var req dto.CreateHelperRequest

	if isMultipart(c) {
		fields, files, errResp := h.readHelperForm(c)
		if fields == nil {
			return errResp
		}
		req = fields.createRequest(files)
	} else if err := c.Bind().JSON(&req); err != nil {
		return bindJSONError(c, err)
	}

	ctx, cancel := createRequestContext(c)
	defer cancel()

	result, err := h.flow.CreateHelper(ctx, &req, clientMetadata(c))
	if err != nil {
		return flowErrorResponse(c, err, "Failed to create helper", "CREATE_HELPER_FAILED")
	}

	return successResponse(c, fiber.StatusCreated, "Helper created successfully", result)
}

// List Helpers
// @Summary List helper summaries
// @Tags Helpers
// @Produce json
// @Param sortBy query string false "employeeId, fullName, services, organization, photo or phoneNumber"
// @Success 200 {object} dto.APIResponse{data=[]dto.HelperListingDTO}
// @Failure 503 {object} dto.APIResponse "Storage unavailable"
// @Router /api/v1/helpers [get]
func (h *HelperHandler) List(c fiber.Ctx) error {
	req := dto.ListHelpersRequest{SortBy: c.Query("sortBy")}

	ctx, cancel := createRequestContext(c)
	defer cancel()

	rows, err := h.flow.ListHelpers(ctx, &req)
	if err != nil {
		return flowErrorResponse(c, err, "Failed to list helpers", "LIST_HELPERS_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Helpers retrieved successfully", rows)
}

// Get Helpers By Employee ID
// @Summary Get the full helper records for an employee id
// @Tags Helpers
// @Produce json
// @Param employeeId path string true "Employee id, e.g. EMP10001"
// @Success 200 {object} dto.APIResponse{data=[]dto.HelperDTO} "Possibly empty"
// @Failure 503 {object} dto.APIResponse "Storage unavailable"
// @Router /api/v1/helpers/{employeeId} [get]
func (h *HelperHandler) GetByEmployeeID(c fiber.Ctx) error {
	ctx, cancel := createRequestContext(c)
	defer cancel()

	helpers, err := h.flow.GetHelpersByEmployeeID(ctx, c.Params("employeeId"))
	if err != nil {
		return flowErrorResponse(c, err, "Failed to fetch helper", "GET_HELPER_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Helper retrieved successfully", helpers)
}

func searchRequest(c fiber.Ctx) (*dto.SearchHelpersRequest, error) {
	services, err := queryList(c, "services")
	if err != nil {
		return nil, err
	}
	organizations, err := queryList(c, "organizations")
	if err != nil {
		return nil, err
	}
	return &dto.SearchHelpersRequest{
		SearchString:  c.Query("searchString"),
		Services:      services,
		Organizations: organizations,
		SortBy:        c.Query("sortBy"),
	}, nil
}

// Search Helpers
// @Summary Search helpers
// @Description searchString is matched literally and case-insensitively against employee id, full name and phone number.
// @Tags Helpers
// @Produce json
// @Param searchString query string false "Literal substring"
// @Param services query []string false "Any of these services" collectionFormat(multi)
// @Param organizations query []string false "One of these organizations" collectionFormat(multi)
// @Param sortBy query string false "employeeId, fullName, services, organization, photo or phoneNumber"
// @Success 200 {object} dto.APIResponse{data=[]dto.HelperListingDTO}
// @Failure 400 {object} dto.APIResponse "Malformed list parameter"
// @Failure 503 {object} dto.APIResponse "Storage unavailable"
// @Router /api/v1/helpers/search/filter [get]
func (h *HelperHandler) Search(c fiber.Ctx) error {
	req, err := searchRequest(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Malformed list parameter", businessflow.CodeValidation, err.Error())
	}

	ctx, cancel := createRequestContext(c)
	defer cancel()

	rows, err := h.flow.SearchHelpers(ctx, req)
	if err != nil {
		return flowErrorResponse(c, err, "Failed to search helpers", "SEARCH_HELPERS_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Helpers retrieved successfully", rows)
}

// Export Helpers
// @Summary Export search results as an Excel workbook
// @Tags Helpers
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param searchString query string false "Literal substring"
// @Param services query []string false "Any of these services" collectionFormat(multi)
// @Param organizations query []string false "One of these organizations" collectionFormat(multi)
// @Param sortBy query string false "employeeId, fullName, services, organization, photo or phoneNumber"
// @Success 200 {file} file
// @Failure 400 {object} dto.APIResponse "Malformed list parameter"
// @Failure 503 {object} dto.APIResponse "Storage unavailable"
// @Router /api/v1/helpers/search/export [get]
func (h *HelperHandler) Export(c fiber.Ctx) error {
	req, err := searchRequest(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Malformed list parameter", businessflow.CodeValidation, err.Error())
	}

	ctx, cancel := createRequestContext(c)
	defer cancel()

	filename, content, err := h.flow.ExportHelpers(ctx, req)
	if err != nil {
		return flowErrorResponse(c, err, "Failed to export helpers", "EXPORT_HELPERS_FAILED")
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Status(fiber.StatusOK).Send(content)
}

// Update Helper
// @Summary Replace a helper's fields
// @Description Every field is replaced. Files not uploaded with the request are cleared.
// @Tags Helpers
// @Accept mpfd
// @Accept json
// @Produce json
// @Param employeeId path string true "Employee id"
// @Param photo formData file false "Photo (jpg/png/webp, <=10MB)"
// @Param kycDocument formData file false "KYC document (jpg/png/pdf, <=10MB)"
// @Param otherDocument formData file false "Other document (jpg/png/pdf, <=10MB)"
// @Param request body dto.UpdateHelperRequest false "JSON alternative without files"
// @Success 200 {object} dto.APIResponse{data=dto.HelperDTO} "Helper updated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Helper not found"
// @Failure 500 {object} dto.APIResponse "Persistence error or partial write"
// @Failure 503 {object} dto.APIResponse "Storage unavailable"
// @Router /api/v1/helpers/{employeeId} [patch]
func (h *HelperHandler) Update(c fiber.Ctx) error {
	employeeID := c.Params("employeeId")
	var req dto.UpdateHelperRequest

	if isMultipart(c) {
		fields, files, errResp := h.readHelperForm(c)
		if fields == nil {
			return errResp
		}
		req = fields.updateRequest(employeeID, files)
	} else {
		if err := c.Bind().JSON(&req); err != nil {
			return bindJSONError(c, err)
		}
		req.EmployeeID = employeeID
	}

	ctx, cancel := createRequestContext(c)
	defer cancel()

	result, err := h.flow.UpdateHelper(ctx, &req, clientMetadata(c))
	if err != nil {
		return flowErrorResponse(c, err, "Failed to update helper", "UPDATE_HELPER_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Helper updated successfully", result)
}

// Delete Helper
// @Summary Delete every helper and summary with the employee id
// @Tags Helpers
// @Produce json
// @Param employeeId path string true "Employee id"
// @Success 200 {object} dto.APIResponse{data=dto.DeleteHelperResponse}
// @Failure 500 {object} dto.APIResponse "Partial write"
// @Failure 503 {object} dto.APIResponse "Storage unavailable"
// @Router /api/v1/helpers/{employeeId} [delete]
func (h *HelperHandler) Delete(c fiber.Ctx) error {
	ctx, cancel := createRequestContext(c)
	defer cancel()

	result, err := h.flow.DeleteHelper(ctx, c.Params("employeeId"), clientMetadata(c))
	if err != nil {
		return flowErrorResponse(c, err, "Failed to delete helper", "DELETE_HELPER_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Helper deleted successfully", result)
}

// Reconcile Summaries
// @Summary Rebuild employee summaries from helpers
// @Tags Helpers
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.SummaryReconcileReport}
// @Failure 503 {object} dto.APIResponse "Reconciler disabled or storage unavailable"
// @Router /api/v1/helpers/reconcile [post]
func (h *HelperHandler) Reconcile(c fiber.Ctx) error {
	if h.reconcile == nil {
		return errorResponse(c, fiber.StatusServiceUnavailable, "Summary reconciler is disabled", "RECONCILER_DISABLED", nil)
	}

	ctx, cancel := createRequestContext(c)
	defer cancel()

	report, err := h.reconcile.Reconcile(ctx)
	if err != nil {
		return flowErrorResponse(c, err, "Failed to reconcile summaries", "RECONCILE_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Summaries reconciled", report)
}

// Audit Trail
// @Summary List the audit entries of an employee id, newest first
// @Tags Helpers
// @Produce json
// @Param employeeId path string true "Employee id"
// @Success 200 {object} dto.APIResponse{data=[]dto.AuditLogDTO}
// @Failure 503 {object} dto.APIResponse "Storage unavailable"
// @Router /api/v1/helpers/{employeeId}/audit [get]
func (h *HelperHandler) AuditTrail(c fiber.Ctx) error {
	ctx, cancel := createRequestContext(c)
	defer cancel()

	result, err := h.flow.GetHelperAuditTrail(ctx, c.Params("employeeId"))
	if err != nil {
		return flowErrorResponse(c, err, "Failed to fetch audit trail", "AUDIT_TRAIL_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Audit trail retrieved successfully", result)
}
