package businessflow

import (
	"regexp"
	"strings"

	"github.com/amirphl/helper-registry/app/dto"
	"github.com/amirphl/helper-registry/models"
	"github.com/amirphl/helper-registry/utils"
)

// DefaultSortField orders listings and searches when no field is requested
const DefaultSortField = "employeeId"

// sortColumns maps the public field names callers may sort by to columns.
// Anything else falls back to insertion order.
var sortColumns = map[string]string{
	"employeeId":   "employee_id",
	"fullName":     "full_name",
	"services":     "services",
	"organization": "organization",
	"photo":        "photo",
	"phoneNumber":  "phone_number",
}

// ResolveSort returns the ORDER BY clause for sortBy and the key used to cache
// the listing. An empty sortBy selects DefaultSortField.
func ResolveSort(sortBy string) (orderBy, cacheKey string) {
	sortBy = strings.TrimSpace(sortBy)
	if sortBy == "" {
		sortBy = DefaultSortField
	}
	col, ok := sortColumns[sortBy]
	if !ok {
		return "id ASC", "_insertion"
	}
	return col + " ASC, id ASC", sortBy
}

// EscapeSearchString quotes every regular expression metacharacter
// (. * + ? ^ $ { } ( ) | [ ] \) so the input matches literally.
func EscapeSearchString(s string) string {
	return regexp.QuoteMeta(s)
}

// BuildHelperSearchFilter turns a search request into repository predicates.
// Empty inputs produce no predicate.
func BuildHelperSearchFilter(req *dto.SearchHelpersRequest) models.HelperFilter {
	var filter models.HelperFilter
	if req == nil {
		return filter
	}
	if req.SearchString != "" {
		filter.SearchPattern = utils.ToPtr(EscapeSearchString(req.SearchString))
	}
	if services := utils.UniqueStrings(req.Services); len(services) > 0 {
		filter.AnyServices = services
	}
	if orgs := utils.UniqueStrings(req.Organizations); len(orgs) > 0 {
		filter.Organizations = orgs
	}
	return filter
}
