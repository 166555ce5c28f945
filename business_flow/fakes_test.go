package businessflow

import (
	"context"
	"regexp"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/amirphl/helper-registry/app/dto"
	"github.com/amirphl/helper-registry/models"
)

// memoryStore backs the fake repositories with the same filter semantics the
// postgres repositories implement
type memoryStore struct {
	mu        sync.Mutex
	seq       int64
	nextID    uint
	helpers   []*models.Helper
	summaries []*models.EmployeeSummary

	seqErr     error
	helperErr  error
	summaryErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{}
}

func (s *memoryStore) id() uint {
	s.nextID++
	return s.nextID
}

func cloneHelper(h *models.Helper) *models.Helper {
	c := *h
	c.Services = slices.Clone(h.Services)
	c.Languages = slices.Clone(h.Languages)
	return &c
}

func cloneSummary(sm *models.EmployeeSummary) *models.EmployeeSummary {
	c := *sm
	c.Services = slices.Clone(sm.Services)
	return &c
}

func (s *memoryStore) summary(employeeID string) *models.EmployeeSummary {
	for _, sm := range s.summaries {
		if sm.EmployeeID == employeeID {
			return sm
		}
	}
	return nil
}

func helperColumn(h *models.Helper, col string) string {
	switch col {
	case "employee_id":
		return h.EmployeeID
	case "full_name":
		return h.FullName
	case "organization":
		return h.Organization
	case "photo":
		return h.Photo
	case "phone_number":
		return h.PhoneNumber
	case "services":
		return strings.Join(h.Services, ",")
	}
	return ""
}

func summaryColumn(sm *models.EmployeeSummary, col string) string {
	return helperColumn(&models.Helper{
		EmployeeID:   sm.EmployeeID,
		FullName:     sm.FullName,
		Organization: sm.Organization,
		Photo:        sm.Photo,
		PhoneNumber:  sm.PhoneNumber,
		Services:     sm.Services,
	}, col)
}

// orderColumn returns the first column of an ORDER BY clause
func orderColumn(orderBy string) string {
	col, _, _ := strings.Cut(strings.TrimSpace(orderBy), " ")
	return col
}

func matchesHelper(h *models.Helper, f models.HelperFilter) bool {
	if f.EmployeeID != nil && h.EmployeeID != *f.EmployeeID {
		return false
	}
	if f.SearchPattern != nil && *f.SearchPattern != "" {
		re := regexp.MustCompile("(?i)" + *f.SearchPattern)
		if !re.MatchString(h.EmployeeID) && !re.MatchString(h.FullName) && !re.MatchString(h.PhoneNumber) {
			return false
		}
	}
	if len(f.AnyServices) > 0 && !slices.ContainsFunc(h.Services, func(sv string) bool { return slices.Contains(f.AnyServices, sv) }) {
		return false
	}
	if len(f.Organizations) > 0 && !slices.Contains(f.Organizations, h.Organization) {
		return false
	}
	return true
}

type fakeSequenceRepo struct{ s *memoryStore }

func (r *fakeSequenceRepo) Next(_ context.Context, _ string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.seqErr != nil {
		return 0, r.s.seqErr
	}
	r.s.seq++
	return r.s.seq, nil
}

type fakeHelperRepo struct{ s *memoryStore }

func (r *fakeHelperRepo) ByFilter(_ context.Context, filter models.HelperFilter, orderBy string, _, _ int) ([]*models.Helper, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.helperErr != nil {
		return nil, r.s.helperErr
	}
	var out []*models.Helper
	for _, h := range r.s.helpers {
		if matchesHelper(h, filter) {
			out = append(out, cloneHelper(h))
		}
	}
	col := orderColumn(orderBy)
	sort.SliceStable(out, func(i, j int) bool {
		if col == "id" || col == "" {
			return out[i].ID < out[j].ID
		}
		return helperColumn(out[i], col) < helperColumn(out[j], col)
	})
	return out, nil
}

func (r *fakeHelperRepo) Save(_ context.Context, h *models.Helper) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.helperErr != nil {
		return r.s.helperErr
	}
	h.ID = r.s.id()
	if h.Version == 0 {
		h.Version = 1
	}
	r.s.helpers = append(r.s.helpers, cloneHelper(h))
	return nil
}

func (r *fakeHelperRepo) Count(ctx context.Context, filter models.HelperFilter) (int64, error) {
	rows, err := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), err
}

func (r *fakeHelperRepo) ByEmployeeID(ctx context.Context, employeeID string) ([]*models.Helper, error) {
	return r.ByFilter(ctx, models.HelperFilter{EmployeeID: &employeeID}, "id ASC", 0, 0)
}

func (r *fakeHelperRepo) Search(ctx context.Context, filter models.HelperFilter, orderBy string) ([]*models.Helper, error) {
	return r.ByFilter(ctx, filter, orderBy, 0, 0)
}

func (r *fakeHelperRepo) ReplaceByEmployeeID(_ context.Context, employeeID string, v *models.Helper) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.helperErr != nil {
		return 0, r.s.helperErr
	}
	var n int64
	for _, h := range r.s.helpers {
		if h.EmployeeID != employeeID {
			continue
		}
		id, joined, version := h.ID, h.JoinedDate, h.Version
		*h = *cloneHelper(v)
		h.ID, h.EmployeeID, h.JoinedDate, h.Version = id, employeeID, joined, version+1
		n++
	}
	return n, nil
}

func (r *fakeHelperRepo) DeleteByEmployeeID(_ context.Context, employeeID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.helperErr != nil {
		return 0, r.s.helperErr
	}
	before := len(r.s.helpers)
	r.s.helpers = slices.DeleteFunc(r.s.helpers, func(h *models.Helper) bool { return h.EmployeeID == employeeID })
	return int64(before - len(r.s.helpers)), nil
}

type fakeSummaryRepo struct{ s *memoryStore }

func (r *fakeSummaryRepo) ByFilter(_ context.Context, filter models.EmployeeSummaryFilter, orderBy string, _, _ int) ([]*models.EmployeeSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.summaryErr != nil {
		return nil, r.s.summaryErr
	}
	var out []*models.EmployeeSummary
	for _, sm := range r.s.summaries {
		if filter.EmployeeID == nil || sm.EmployeeID == *filter.EmployeeID {
			out = append(out, cloneSummary(sm))
		}
	}
	col := orderColumn(orderBy)
	sort.SliceStable(out, func(i, j int) bool {
		if col == "id" || col == "" {
			return out[i].ID < out[j].ID
		}
		return summaryColumn(out[i], col) < summaryColumn(out[j], col)
	})
	return out, nil
}

func (r *fakeSummaryRepo) Count(ctx context.Context, filter models.EmployeeSummaryFilter) (int64, error) {
	rows, err := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), err
}

func (r *fakeSummaryRepo) Upsert(_ context.Context, sm *models.EmployeeSummary) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.summaryErr != nil {
		return r.s.summaryErr
	}
	r.s.upsert(sm)
	return nil
}

// upsert mirrors the version guard of the postgres upsert and reports
// whether the row changed
func (s *memoryStore) upsert(sm *models.EmployeeSummary) bool {
	existing := s.summary(sm.EmployeeID)
	if existing == nil {
		c := cloneSummary(sm)
		c.ID = s.id()
		s.summaries = append(s.summaries, c)
		return true
	}
	if existing.SourceVersion > sm.SourceVersion {
		return false
	}
	id := existing.ID
	*existing = *cloneSummary(sm)
	existing.ID = id
	return true
}

func (r *fakeSummaryRepo) DeleteByEmployeeID(_ context.Context, employeeID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.summaryErr != nil {
		return 0, r.s.summaryErr
	}
	before := len(r.s.summaries)
	r.s.summaries = slices.DeleteFunc(r.s.summaries, func(sm *models.EmployeeSummary) bool {
		return sm.EmployeeID == employeeID
	})
	return int64(before - len(r.s.summaries)), nil
}

func (r *fakeSummaryRepo) RepairFromHelpers(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.summaryErr != nil {
		return 0, r.s.summaryErr
	}
	first := map[string]*models.Helper{}
	for _, h := range r.s.helpers {
		if cur, ok := first[h.EmployeeID]; !ok || h.ID < cur.ID {
			first[h.EmployeeID] = h
		}
	}
	var written int64
	for _, h := range first {
		want := h.Summary()
		if have := r.s.summary(h.EmployeeID); have != nil && sameSummary(have, want) {
			continue
		}
		if r.s.upsert(want) {
			written++
		}
	}
	return written, nil
}

func (r *fakeSummaryRepo) DeleteOrphans(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.summaryErr != nil {
		return 0, r.s.summaryErr
	}
	before := len(r.s.summaries)
	r.s.summaries = slices.DeleteFunc(r.s.summaries, func(sm *models.EmployeeSummary) bool {
		return !slices.ContainsFunc(r.s.helpers, func(h *models.Helper) bool { return h.EmployeeID == sm.EmployeeID })
	})
	return int64(before - len(r.s.summaries)), nil
}

func sameSummary(a, b *models.EmployeeSummary) bool {
	return a.EmployeeID == b.EmployeeID && a.FullName == b.FullName && a.Organization == b.Organization &&
		a.Photo == b.Photo && a.PhoneNumber == b.PhoneNumber && a.SourceVersion == b.SourceVersion &&
		slices.Equal(a.Services, b.Services)
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*models.AuditLog
	err     error
}

func (r *fakeAuditRepo) Save(_ context.Context, entry *models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	entry.ID = uint(len(r.entries) + 1)
	c := *entry
	r.entries = append(r.entries, &c)
	return nil
}

func (r *fakeAuditRepo) ByFilter(_ context.Context, filter models.AuditLogFilter, _ string, limit, _ int) ([]*models.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []*models.AuditLog
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if filter.EmployeeID != nil && e.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Action != nil && e.Action != *filter.Action {
			continue
		}
		c := *e
		out = append(out, &c)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeAuditRepo) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

// recordingCache is a ListingCache that counts invalidations
type recordingCache struct {
	mu            sync.Mutex
	rows          map[string][]dto.HelperListingDTO
	generation    int64
	gets          int
	invalidations int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{rows: map[string][]dto.HelperListingDTO{}}
}

func (c *recordingCache) Get(_ context.Context, sortKey string) ([]dto.HelperListingDTO, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	rows, ok := c.rows[sortKey]
	return rows, ok, nil
}

func (c *recordingCache) Generation(_ context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation, nil
}

func (c *recordingCache) Set(_ context.Context, generation int64, sortKey string, rows []dto.HelperListingDTO) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		return false, nil
	}
	c.rows[sortKey] = rows
	return true, nil
}

func (c *recordingCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidations++
	c.generation++
	c.rows = map[string][]dto.HelperListingDTO{}
	return nil
}
