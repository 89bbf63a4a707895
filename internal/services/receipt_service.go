package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/survey-service/internal/models"
)

const receiptSheet = "Response"

// ReceiptService renders a submitted survey as a spreadsheet the respondent can keep.
type ReceiptService interface {
	Export(ctx context.Context, snap Snapshot) ([]byte, error)
}

type receiptService struct {
	logger *slog.Logger
}

func NewReceiptService(logger *slog.Logger) ReceiptService {
	return &receiptService{logger: logger}
}

// Export writes the record that was sent: one header row of field labels and
// one row of values, led by the confirmation token and ending with the
// submission time.
func (s *receiptService) Export(ctx context.Context, snap Snapshot) ([]byte, error) {
	if snap.Record == nil {
		return nil, fmt.Errorf("%w: session %s has no sent record", ErrConflict, snap.SessionID)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(receiptSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headers := []interface{}{"Confirmation"}
	values := []interface{}{snap.ResponseID}
	for _, field := range models.Fields() {
		headers = append(headers, field.Label)
		values = append(values, snap.Record[field.Column])
	}
	headers = append(headers, "Submitted at")
	values = append(values, snap.Record[ColumnSubmittedAt])

	if err := f.SetSheetRow(receiptSheet, "A1", &headers); err != nil {
		return nil, fmt.Errorf("failed to write Excel header: %w", err)
	}
	if err := f.SetSheetRow(receiptSheet, "A2", &values); err != nil {
		return nil, fmt.Errorf("failed to write Excel row: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.DebugContext(ctx, "Receipt exported", "session_id", snap.SessionID, "bytes", buf.Len())
	return buf.Bytes(), nil
}
