package testing

import (
	"fmt"

	"github.com/amirphl/helper-registry/models"
	"github.com/amirphl/helper-registry/utils"
	"github.com/lib/pq"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// TestHelper returns an unsaved helper with the given identity
func TestHelper(employeeID, fullName, organization string, services ...string) *models.Helper {
	if len(services) == 0 {
		services = []string{"cleaning"}
	}
	return &models.Helper{
		EmployeeID:   employeeID,
		FullName:     fullName,
		Email:        fmt.Sprintf("%s@example.com", employeeID),
		Services:     pq.StringArray(services),
		Organization: organization,
		Languages:    pq.StringArray{"english"},
		Gender:       "female",
		PhonePrefix:  "+1",
		PhoneNumber:  "5550000000",
		VehicleType:  "none",
		JoinedDate:   utils.UTCNow(),
	}
}

// CreateTestHelper inserts a helper and its summary
func (tf *TestFixtures) CreateTestHelper(employeeID, fullName, organization string, services ...string) (*models.Helper, error) {
	helper, err := tf.CreateTestHelperWithoutSummary(employeeID, fullName, organization, services...)
	if err != nil {
		return nil, err
	}
	if err := tf.DB.DB.Create(helper.Summary()).Error; err != nil {
		return nil, fmt.Errorf("failed to create test summary: %w", err)
	}
	return helper, nil
}

// CreateTestHelperWithoutSummary inserts a helper only, as a failed summary write leaves it
func (tf *TestFixtures) CreateTestHelperWithoutSummary(employeeID, fullName, organization string, services ...string) (*models.Helper, error) {
	helper := TestHelper(employeeID, fullName, organization, services...)
	if err := tf.DB.DB.Create(helper).Error; err != nil {
		return nil, fmt.Errorf("failed to create test helper: %w", err)
	}
	return helper, nil
}

// CreateOrphanSummary inserts a summary with no helper behind it
func (tf *TestFixtures) CreateOrphanSummary(employeeID, fullName string) (*models.EmployeeSummary, error) {
	summary := &models.EmployeeSummary{
		EmployeeID: employeeID,
		FullName:   fullName,
		Services:   pq.StringArray{"cleaning"},
	}
	if err := tf.DB.DB.Create(summary).Error; err != nil {
		return nil, fmt.Errorf("failed to create orphan summary: %w", err)
	}
	return summary, nil
}
