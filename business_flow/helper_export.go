package businessflow

import (
	"context"
	"strings"

	"github.com/amirphl/helper-registry/app/dto"
	"github.com/amirphl/helper-registry/utils"
	"github.com/xuri/excelize/v2"
)

const helperExportSheet = "Helpers"

var helperExportHeader = []string{"employeeId", "fullName", "services", "organization", "phoneNumber", "photo"}

// ExportHelpers renders the search result as an xlsx workbook
func (f *HelperFlowImpl) ExportHelpers(ctx context.Context, req *dto.SearchHelpersRequest) (string, []byte, error) {
	rows, err := f.SearchHelpers(ctx, req)
	if err != nil {
		return "", nil, err
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	xl.SetSheetName(xl.GetSheetName(0), helperExportSheet)
	header := helperExportHeader
	if err := xl.SetSheetRow(helperExportSheet, "A1", &header); err != nil {
		return "", nil, NewBusinessError(CodeExcelWriteFailed, "Failed to write Excel header", err)
	}

	for i, r := range rows {
		record := []string{
			r.EmployeeID,
			r.FullName,
			strings.Join(r.Services, ", "),
			r.Organization,
			r.PhoneNumber,
			r.Photo,
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := xl.SetSheetRow(helperExportSheet, cellRef, &record); err != nil {
			return "", nil, NewBusinessError(CodeExcelWriteFailed, "Failed to write Excel row", err)
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError(CodeExcelWriteFailed, "Failed to write Excel file", err)
	}
	filename := "helpers_" + utils.UTCNowFormat("20060102_150405") + ".xlsx"
	return filename, buf.Bytes(), nil
}
