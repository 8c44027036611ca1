package services

import (
	"fmt"

	"faktoteka/internal/catalog"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Ciekawostki"

// ExportService renders a derived view as an XLSX workbook, one row per
// fact in display order.
type ExportService struct{}

// NewExportService creates an export service.
func NewExportService() *ExportService {
	return &ExportService{}
}

// ExportXLSX builds the workbook bytes for a view.
func (s *ExportService) ExportXLSX(view catalog.View) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := []string{"ID", "Kategoria", "Tytuł", "Opis", "Źródło", "Data", "Pochodzenie"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, fact := range view.Facts {
		values := []any{fact.ID, fact.Category, fact.Title, fact.Description, fact.Source, fact.Date, string(fact.Origin)}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(exportSheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row+1, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
