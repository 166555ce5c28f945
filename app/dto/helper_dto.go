package dto

import (
	"encoding/json"

	"github.com/amirphl/helper-registry/utils"
)

// StringList is a set of tags. In JSON it is accepted either as an array of
// strings or as a single string holding a JSON array or comma separated values.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler
func (l *StringList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = StringList{}
		return nil
	}

	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		*l = utils.UniqueStrings(items)
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return utils.ErrMalformedList
	}
	parsed, err := utils.ParseStringList(raw)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// HelperFileRefs carries blob store references of uploaded helper files.
// A nil reference means no file was uploaded with the request.
type HelperFileRefs struct {
	Photo         *string `json:"-"`
	KYCDocument   *string `json:"-"`
	OtherDocument *string `json:"-"`
}

// CreateHelperRequest represents a request to register a helper
type CreateHelperRequest struct {
	FullName      string     `json:"fullName" validate:"required,max=255"`
	Email         string     `json:"email" validate:"omitempty,email,max=255"`
	Services      StringList `json:"services" validate:"required,min=1,dive,max=64"`
	Organization  string     `json:"organization" validate:"max=255"`
	Languages     StringList `json:"languages" validate:"dive,max=64"`
	Gender        string     `json:"gender" validate:"max=32"`
	PhonePrefix   string     `json:"phonePrefix" validate:"max=16"`
	PhoneNumber   string     `json:"phoneNumber" validate:"max=32"`
	VehicleType   string     `json:"vehicleType" validate:"max=64"`
	VehicleNumber string     `json:"vehicleNumber" validate:"max=64"`
	KYCDocType    string     `json:"kycDocType" validate:"max=64"`
	OtherDocType  string     `json:"otherDocType" validate:"max=64"`

	Files HelperFileRefs `json:"-" validate:"-"`
}

// UpdateHelperRequest replaces every mutable field of a helper.
// Omitted fields and files are stored empty.
type UpdateHelperRequest struct {
	EmployeeID    string     `json:"-" validate:"required"`
	FullName      string     `json:"fullName" validate:"max=255"`
	Email         string     `json:"email" validate:"omitempty,email,max=255"`
	Services      StringList `json:"services" validate:"dive,max=64"`
	Organization  string     `json:"organization" validate:"max=255"`
	Languages     StringList `json:"languages" validate:"dive,max=64"`
	Gender        string     `json:"gender" validate:"max=32"`
	PhonePrefix   string     `json:"phonePrefix" validate:"max=16"`
	PhoneNumber   string     `json:"phoneNumber" validate:"max=32"`
	VehicleType   string     `json:"vehicleType" validate:"max=64"`
	VehicleNumber string     `json:"vehicleNumber" validate:"max=64"`
	KYCDocType    string     `json:"kycDocType" validate:"max=64"`
	OtherDocType  string     `json:"otherDocType" validate:"max=64"`

	Files HelperFileRefs `json:"-" validate:"-"`
}

// HelperDTO is the full helper record
type HelperDTO struct {
	EmployeeID    string   `json:"employeeId"`
	FullName      string   `json:"fullName"`
	Email         string   `json:"email"`
	Services      []string `json:"services"`
	Organization  string   `json:"organization"`
	Languages     []string `json:"languages"`
	Gender        string   `json:"gender"`
	PhonePrefix   string   `json:"phonePrefix"`
	PhoneNumber   string   `json:"phoneNumber"`
	VehicleType   string   `json:"vehicleType"`
	VehicleNumber string   `json:"vehicleNumber"`
	Photo         string   `json:"photo"`
	KYCDocument   string   `json:"kycDocument"`
	KYCDocType    string   `json:"kycDocType"`
	OtherDocument string   `json:"otherDocument"`
	OtherDocType  string   `json:"otherDocType"`
	JoinedDate    string   `json:"joinedDate"`
}

// HelperListingDTO is the row shape of listings and search results
type HelperListingDTO struct {
	EmployeeID   string   `json:"employeeId"`
	FullName     string   `json:"fullName"`
	Services     []string `json:"services"`
	Organization string   `json:"organization"`
	Photo        string   `json:"photo"`
	PhoneNumber  string   `json:"phoneNumber"`
}

// ListHelpersRequest represents the listing query
type ListHelpersRequest struct {
	SortBy string `query:"sortBy"`
}

// SearchHelpersRequest represents the search/filter query.
// Empty values disable the matching predicate.
type SearchHelpersRequest struct {
	SearchString  string   `json:"searchString"`
	Services      []string `json:"services"`
	Organizations []string `json:"organizations"`
	SortBy        string   `json:"sortBy"`
}

// DeleteHelperResponse acknowledges both deletes
type DeleteHelperResponse struct {
	EmployeeID            string `json:"employeeId"`
	HelpersAcknowledged   bool   `json:"helpersAcknowledged"`
	SummariesAcknowledged bool   `json:"summariesAcknowledged"`
	HelpersDeleted        int64  `json:"helpersDeleted"`
	SummariesDeleted      int64  `json:"summariesDeleted"`
}

// AuditLogDTO is one entry of a helper's audit trail
type AuditLogDTO struct {
	ID           uint            `json:"id"`
	EmployeeID   string          `json:"employeeId"`
	Action       string          `json:"action"`
	Description  string          `json:"description,omitempty"`
	IPAddress    string          `json:"ipAddress,omitempty"`
	UserAgent    string          `json:"userAgent,omitempty"`
	RequestID    string          `json:"requestId,omitempty"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	Success      bool            `json:"success"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
	CreatedAt    string          `json:"createdAt"`
}

// SummaryReconcileReport describes one reconcile run
type SummaryReconcileReport struct {
	Skipped    bool  `json:"skipped"`
	Helpers    int64 `json:"helpers"`
	Summaries  int64 `json:"summaries"`
	Upserted   int64 `json:"upserted"`
	Deleted    int64 `json:"deleted"`
	DurationMs int64 `json:"durationMs"`
}
