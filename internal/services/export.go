package services

import (
	"context"
	"fmt"
	"io"

	"github.com/rht/casedesk/internal/models"
	"github.com/rht/casedesk/internal/views"
	"github.com/xuri/excelize/v2"
)

// ExportSheet is the worksheet name of case exports
const ExportSheet = "Cases"

var exportHeader = []any{"Reference", "Complainant", "Complaint Type", "Status", "Submitted"}

// Export writes every case matching f to w as an XLSX workbook
func (s *CaseService) Export(ctx context.Context, f models.CaseFilter, w io.Writer) error {
	rows, err := s.reader.List(ctx, f)
	if err != nil {
		return fmt.Errorf("fetch cases: %w", err)
	}

	book := excelize.NewFile()
	defer book.Close()

	if err := book.SetSheetName("Sheet1", ExportSheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	if err := book.SetSheetRow(ExportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range rows {
		row := views.NewCaseRow(&rows[i], s.location)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{row.Reference, views.Dash(row.Complainant), row.ComplaintType, row.Status, row.Submitted}
		if err := book.SetSheetRow(ExportSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := book.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Infow("Cases exported", "rows", len(rows))
	return nil
}
