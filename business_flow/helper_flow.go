package businessflow

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/amirphl/helper-registry/app/dto"
	"github.com/amirphl/helper-registry/app/services"
	"github.com/amirphl/helper-registry/models"
	"github.com/amirphl/helper-registry/repository"
	"github.com/amirphl/helper-registry/utils"
	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
)

// HelperFlow handles the helper registry use cases
type HelperFlow interface {
	CreateHelper(ctx context.Context, req *dto.CreateHelperRequest, metadata *ClientMetadata) (*dto.HelperDTO, error)
	ListHelpers(ctx context.Context, req *dto.ListHelpersRequest) ([]dto.HelperListingDTO, error)
	GetHelpersByEmployeeID(ctx context.Context, employeeID string) ([]dto.HelperDTO, error)
	SearchHelpers(ctx context.Context, req *dto.SearchHelpersRequest) ([]dto.HelperListingDTO, error)
	ExportHelpers(ctx context.Context, req *dto.SearchHelpersRequest) (string, []byte, error)
	UpdateHelper(ctx context.Context, req *dto.UpdateHelperRequest, metadata *ClientMetadata) (*dto.HelperDTO, error)
	DeleteHelper(ctx context.Context, employeeID string, metadata *ClientMetadata) (*dto.DeleteHelperResponse, error)
	GetHelperAuditTrail(ctx context.Context, employeeID string) ([]dto.AuditLogDTO, error)
}

// auditTrailLimit caps the entries returned for one employee id
const auditTrailLimit = 100

// HelperFlowImpl implements HelperFlow. Helper and summary writes are two
// separate statements; a failed summary write is reported as a partial write
// and left for the summary reconciler.
type HelperFlowImpl struct {
	sequenceRepo repository.SequenceCounterRepository
	helperRepo   repository.HelperRepository
	summaryRepo  repository.EmployeeSummaryRepository
	auditRepo    repository.AuditLogRepository
	cache        services.ListingCache
	validator    *validator.Validate
	logger       *log.Logger
}

// NewHelperFlow creates a helper flow. cache may be nil to disable listing caching.
func NewHelperFlow(
	sequenceRepo repository.SequenceCounterRepository,
	helperRepo repository.HelperRepository,
	summaryRepo repository.EmployeeSummaryRepository,
	auditRepo repository.AuditLogRepository,
	cache services.ListingCache,
	logger *log.Logger,
) HelperFlow {
	if logger == nil {
		logger = log.Default()
	}
	return &HelperFlowImpl{
		sequenceRepo: sequenceRepo,
		helperRepo:   helperRepo,
		summaryRepo:  summaryRepo,
		auditRepo:    auditRepo,
		cache:        cache,
		validator:    validator.New(),
		logger:       logger,
	}
}

// CreateHelper allocates an employee id, stores the helper and its summary
func (f *HelperFlowImpl) CreateHelper(ctx context.Context, req *dto.CreateHelperRequest, metadata *ClientMetadata) (*dto.HelperDTO, error) {
	if req == nil {
		return nil, NewValidationError("Request body is required", nil)
	}
	if err := validateStruct(f.validator, req); err != nil {
		return nil, err
	}

	seq, err := f.sequenceRepo.Next(ctx, models.EmployeeSequenceName)
	if err != nil {
		return nil, storeError("Failed to allocate employee id", err)
	}
	employeeIDsAllocated.Inc()

	helper := &models.Helper{
		EmployeeID:    FormatEmployeeID(seq),
		FullName:      req.FullName,
		Email:         req.Email,
		Services:      pq.StringArray(utils.UniqueStrings(req.Services)),
		Organization:  req.Organization,
		Languages:     pq.StringArray(utils.UniqueStrings(req.Languages)),
		Gender:        req.Gender,
		PhonePrefix:   req.PhonePrefix,
		PhoneNumber:   req.PhoneNumber,
		VehicleType:   req.VehicleType,
		VehicleNumber: req.VehicleNumber,
		Photo:         utils.StringValue(req.Files.Photo),
		KYCDocument:   utils.StringValue(req.Files.KYCDocument),
		KYCDocType:    req.KYCDocType,
		OtherDocument: utils.StringValue(req.Files.OtherDocument),
		OtherDocType:  req.OtherDocType,
		JoinedDate:    utils.UTCNow(),
	}

	if err := f.helperRepo.Save(ctx, helper); err != nil {
		return nil, storeError("Failed to save helper", err)
	}

	if err := f.summaryRepo.Upsert(ctx, helper.Summary()); err != nil {
		return nil, f.partialWrite(ctx, "create", helper.EmployeeID, metadata, err)
	}
	f.invalidateListings(ctx)
	f.audit(ctx, models.AuditActionHelperCreated, helper.EmployeeID, "Helper created", metadata, map[string]any{
		"organization": helper.Organization,
		"services":     []string(helper.Services),
	}, nil)

	result := ToHelperDTO(*helper)
	return &result, nil
}

// ListHelpers returns every summary ordered by the requested field
func (f *HelperFlowImpl) ListHelpers(ctx context.Context, req *dto.ListHelpersRequest) ([]dto.HelperListingDTO, error) {
	sortBy := ""
	if req != nil {
		sortBy = req.SortBy
	}
	orderBy, cacheKey := ResolveSort(sortBy)

	// generation is read before the rows so a write landing in between
	// keeps its invalidation
	cacheable := false
	var generation int64
	if f.cache != nil {
		rows, ok, err := f.cache.Get(ctx, cacheKey)
		switch {
		case err != nil:
			listingCacheLookups.WithLabelValues("error").Inc()
			f.logger.Printf("listing cache get failed: %v", err)
		case ok:
			listingCacheLookups.WithLabelValues("hit").Inc()
			return rows, nil
		default:
			listingCacheLookups.WithLabelValues("miss").Inc()
		}
		if generation, err = f.cache.Generation(ctx); err != nil {
			f.logger.Printf("listing cache generation failed: %v", err)
		} else {
			cacheable = true
		}
	}

	summaries, err := f.summaryRepo.ByFilter(ctx, models.EmployeeSummaryFilter{}, orderBy, 0, 0)
	if err != nil {
		return nil, storeError("Failed to list helpers", err)
	}

	rows := make([]dto.HelperListingDTO, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, ToSummaryListingDTO(*s))
	}

	if cacheable {
		stored, err := f.cache.Set(ctx, generation, cacheKey, rows)
		switch {
		case err != nil:
			f.logger.Printf("listing cache set failed: %v", err)
		case !stored:
			listingCacheLookups.WithLabelValues("stale").Inc()
		}
	}
	return rows, nil
}

// GetHelpersByEmployeeID returns all helpers with the id, possibly none
func (f *HelperFlowImpl) GetHelpersByEmployeeID(ctx context.Context, employeeID string) ([]dto.HelperDTO, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil, NewValidationError("employeeId is required", nil)
	}

	helpers, err := f.helperRepo.ByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, storeError("Failed to fetch helper", err)
	}

	result := make([]dto.HelperDTO, 0, len(helpers))
	for _, h := range helpers {
		result = append(result, ToHelperDTO(*h))
	}
	return result, nil
}

// SearchHelpers filters helpers by text, services and organizations
func (f *HelperFlowImpl) SearchHelpers(ctx context.Context, req *dto.SearchHelpersRequest) ([]dto.HelperListingDTO, error) {
	if req == nil {
		req = &dto.SearchHelpersRequest{}
	}
	filter := BuildHelperSearchFilter(req)
	orderBy, _ := ResolveSort(req.SortBy)

	helpers, err := f.helperRepo.Search(ctx, filter, orderBy)
	if err != nil {
		return nil, storeError("Failed to search helpers", err)
	}

	rows := make([]dto.HelperListingDTO, 0, len(helpers))
	for _, h := range helpers {
		rows = append(rows, ToHelperListingDTO(*h))
	}
	return rows, nil
}

// UpdateHelper replaces every mutable field of the helper and its summary.
// File references not supplied with the request are cleared.
func (f *HelperFlowImpl) UpdateHelper(ctx context.Context, req *dto.UpdateHelperRequest, metadata *ClientMetadata) (*dto.HelperDTO, error) {
	if req == nil {
		return nil, NewValidationError("Request body is required", nil)
	}
	req.EmployeeID = strings.TrimSpace(req.EmployeeID)
	if err := validateStruct(f.validator, req); err != nil {
		return nil, err
	}

	values := &models.Helper{
		FullName:      req.FullName,
		Email:         req.Email,
		Services:      pq.StringArray(utils.UniqueStrings(req.Services)),
		Organization:  req.Organization,
		Languages:     pq.StringArray(utils.UniqueStrings(req.Languages)),
		Gender:        req.Gender,
		PhonePrefix:   req.PhonePrefix,
		PhoneNumber:   req.PhoneNumber,
		VehicleType:   req.VehicleType,
		VehicleNumber: req.VehicleNumber,
		Photo:         utils.StringValue(req.Files.Photo),
		KYCDocument:   utils.StringValue(req.Files.KYCDocument),
		KYCDocType:    req.KYCDocType,
		OtherDocument: utils.StringValue(req.Files.OtherDocument),
		OtherDocType:  req.OtherDocType,
	}

	updated, err := f.helperRepo.ReplaceByEmployeeID(ctx, req.EmployeeID, values)
	if err != nil {
		return nil, storeError("Failed to update helper", err)
	}
	if updated == 0 {
		return nil, NewBusinessError(CodeHelperNotFound, "Helper not found", ErrHelperNotFound)
	}

	helpers, err := f.helperRepo.ByEmployeeID(ctx, req.EmployeeID)
	if err != nil {
		return nil, storeError("Failed to fetch updated helper", err)
	}
	if len(helpers) == 0 {
		// deleted between the update and the read
		return nil, NewBusinessError(CodeHelperNotFound, "Helper not found", ErrHelperNotFound)
	}
	helper := helpers[0]

	if err := f.summaryRepo.Upsert(ctx, helper.Summary()); err != nil {
		return nil, f.partialWrite(ctx, "update", req.EmployeeID, metadata, err)
	}
	f.invalidateListings(ctx)
	f.audit(ctx, models.AuditActionHelperUpdated, req.EmployeeID, "Helper updated", metadata, map[string]any{
		"rows_updated": updated,
		"version":      helper.Version,
	}, nil)

	result := ToHelperDTO(*helper)
	return &result, nil
}

// DeleteHelper removes all helpers and summaries with the id.
// Deleting an unknown id is acknowledged with zero counts.
func (f *HelperFlowImpl) DeleteHelper(ctx context.Context, employeeID string, metadata *ClientMetadata) (*dto.DeleteHelperResponse, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil, NewValidationError("employeeId is required", nil)
	}

	helpersDeleted, err := f.helperRepo.DeleteByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, storeError("Failed to delete helper", err)
	}

	summariesDeleted, err := f.summaryRepo.DeleteByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, f.partialWrite(ctx, "delete", employeeID, metadata, err)
	}
	f.invalidateListings(ctx)
	f.audit(ctx, models.AuditActionHelperDeleted, employeeID, "Helper deleted", metadata, map[string]any{
		"helpers_deleted":   helpersDeleted,
		"summaries_deleted": summariesDeleted,
	}, nil)

	return &dto.DeleteHelperResponse{
		EmployeeID:            employeeID,
		HelpersAcknowledged:   true,
		SummariesAcknowledged: true,
		HelpersDeleted:        helpersDeleted,
		SummariesDeleted:      summariesDeleted,
	}, nil
}

// partialWrite records a helper write whose summary write failed
func (f *HelperFlowImpl) partialWrite(ctx context.Context, operation, employeeID string, metadata *ClientMetadata, cause error) error {
	partialWrites.WithLabelValues(operation).Inc()

	entry, _ := json.Marshal(map[string]any{
		"time":        utils.UTCNowRFC3339(),
		"level":       "error",
		"event":       "partial_write_inconsistency",
		"operation":   operation,
		"employee_id": employeeID,
		"request_id":  requestIDFrom(ctx, metadata),
		"error":       cause.Error(),
	})
	f.logger.Println(string(entry))

	// helpers changed even though summaries did not
	f.invalidateListings(ctx)
	f.audit(ctx, models.AuditActionSummaryWriteFailed, employeeID, "Summary "+operation+" failed after helper write", metadata, map[string]any{
		"operation": operation,
	}, cause)

	return NewBusinessErrorf(CodePartialWrite, "Summary %s failed after helper write", errors.Join(ErrPartialWrite, cause), operation)
}

func (f *HelperFlowImpl) invalidateListings(ctx context.Context) {
	if f.cache == nil {
		return
	}
	if err := f.cache.Invalidate(ctx); err != nil {
		f.logger.Printf("listing cache invalidate failed: %v", err)
	}
}

// GetHelperAuditTrail returns the newest audit entries of an employee id
func (f *HelperFlowImpl) GetHelperAuditTrail(ctx context.Context, employeeID string) ([]dto.AuditLogDTO, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil, NewValidationError("employeeId is required", nil)
	}
	if f.auditRepo == nil {
		return []dto.AuditLogDTO{}, nil
	}

	entries, err := f.auditRepo.ByFilter(ctx, models.AuditLogFilter{EmployeeID: &employeeID}, "id DESC", auditTrailLimit, 0)
	if err != nil {
		return nil, storeError("Failed to fetch audit trail", err)
	}

	result := make([]dto.AuditLogDTO, 0, len(entries))
	for _, e := range entries {
		result = append(result, ToAuditLogDTO(*e))
	}
	return result, nil
}

// audit stores an audit entry for a write. A failed audit write is logged
// and never fails the request.
func (f *HelperFlowImpl) audit(ctx context.Context, action, employeeID, description string, metadata *ClientMetadata, details map[string]any, cause error) {
	if f.auditRepo == nil {
		return
	}

	entry := &models.AuditLog{
		EmployeeID:  employeeID,
		Action:      action,
		Description: &description,
		Success:     utils.ToPtr(cause == nil),
	}
	if metadata != nil {
		entry.IPAddress = utils.ToPtr(metadata.IPAddress)
		entry.UserAgent = utils.ToPtr(metadata.UserAgent)
	}
	if id := requestIDFrom(ctx, metadata); id != "" {
		entry.RequestID = &id
	}
	if cause != nil {
		entry.ErrorMessage = utils.ToPtr(cause.Error())
	}
	if len(details) > 0 {
		if raw, err := json.Marshal(details); err == nil {
			entry.Metadata = raw
		}
	}

	if err := f.auditRepo.Save(ctx, entry); err != nil {
		f.logger.Printf("audit log %s for %s failed: %v", action, employeeID, err)
	}
}
