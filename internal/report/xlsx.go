package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"attendhub/internal/model"
)

var headers = []string{
	"ID", "Name", "Date", "Check-In", "Check-Out", "Late", "Status", "Working Hours", "Confidence", "Verification",
}

// WriteAttendanceXLSX renders attendance records as a spreadsheet, one row
// per record, newest first as given.
func WriteAttendanceXLSX(w io.Writer, records []model.AttendanceRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Attendance"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for i, rec := range records {
		row := i + 2
		values := []any{
			rec.ID, rec.Name, rec.Date, rec.CheckInTime,
			deref(rec.CheckOutTime), rec.IsLate, rec.Status,
			derefFloat(rec.WorkingHours), derefFloat(rec.FaceConfidence), rec.Verification,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 38); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write spreadsheet: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) any {
	if f == nil {
		return ""
	}
	return *f
}
