// Package export writes the examination registry as a spreadsheet, CSV or
// JSON document and can publish the result to the attachment store.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"ohsurveil/internal/blob"
	"ohsurveil/pkg/domain"
)

// Format names an export encoding.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned for formats other than xlsx, csv and json.
var ErrUnknownFormat = errors.New("export: unknown format")

// SheetName is the worksheet holding the registry.
const SheetName = "Registry"

// PendingLabel fills the outcome column of records without an outcome.
const PendingLabel = "Pending"

// Header is the column order shared by every format.
var Header = []string{
	"ID", "Visit Date", "Patient", "Company", "Age", "Gender",
	"Temperature (°F)", "Heart Rate", "Oxygen (%)", "Severity", "Outcome", "BMI", "External Report",
}

var columnWidths = []float64{38, 12, 24, 28, 6, 10, 16, 11, 11, 10, 20, 8, 30}

// ParseFormat validates a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatXLSX, FormatCSV, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatCSV:
		return "text/csv"
	case FormatJSON:
		return "application/json"
	}
	return "application/octet-stream"
}

// Row is the flattened view of one record.
type Row struct {
	ID             string  `json:"id"`
	VisitDate      string  `json:"visitDate"`
	Patient        string  `json:"patient"`
	Company        string  `json:"company"`
	Age            int     `json:"age"`
	Gender         string  `json:"gender"`
	Temperature    float64 `json:"temperature"`
	HeartRate      int     `json:"heartRate"`
	OxygenLevel    int     `json:"oxygenLevel"`
	Severity       string  `json:"severity"`
	Outcome        string  `json:"outcome"`
	BMI            string  `json:"bmi"`
	ExternalReport string  `json:"externalReport"`
}

// Rows flattens records in registry order.
func Rows(records []domain.PatientRecord) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		row := Row{
			ID:          r.ID,
			VisitDate:   r.VisitDate,
			Patient:     r.PatientName,
			Company:     r.CompanyName,
			Age:         r.Age,
			Gender:      r.Gender,
			Temperature: r.Temperature,
			HeartRate:   r.HeartRate,
			OxygenLevel: r.OxygenLevel,
			Severity:    string(r.Severity),
			Outcome:     PendingLabel,
		}
		if r.Outcome != nil {
			row.Outcome = string(*r.Outcome)
		}
		if r.PhysicalExam != nil {
			row.BMI = r.PhysicalExam.Anthropometry.BMI
		}
		if r.ExternalReport != nil {
			row.ExternalReport = r.ExternalReport.FileName
		}
		rows = append(rows, row)
	}
	return rows
}

func (r Row) values() []any {
	return []any{r.ID, r.VisitDate, r.Patient, r.Company, r.Age, r.Gender,
		r.Temperature, r.HeartRate, r.OxygenLevel, r.Severity, r.Outcome, r.BMI, r.ExternalReport}
}

// Write encodes records to w in the given format.
func Write(w io.Writer, format Format, records []domain.PatientRecord) error {
	switch format {
	case FormatXLSX:
		return WriteRegistry(w, records)
	case FormatCSV:
		return WriteCSV(w, records)
	case FormatJSON:
		return WriteJSON(w, records)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// WriteRegistry writes a workbook with one styled, frozen header row and one
// row per record.
func WriteRegistry(w io.Writer, records []domain.PatientRecord) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close workbook: %w", cerr)
		}
	}()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1E3A5F"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for col, title := range Header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, title); err != nil {
			return fmt.Errorf("set header %s: %w", cell, err)
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, name, name, columnWidths[col]); err != nil {
			return fmt.Errorf("set width %s: %w", name, err)
		}
	}
	last, err := excelize.CoordinatesToCellName(len(Header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, row := range Rows(records) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row.values()
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteCSV writes the header and one line per record.
func WriteCSV(w io.Writer, records []domain.PatientRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, row := range Rows(records) {
		line := []string{
			row.ID, row.VisitDate, row.Patient, row.Company, strconv.Itoa(row.Age), row.Gender,
			strconv.FormatFloat(row.Temperature, 'f', -1, 64), strconv.Itoa(row.HeartRate),
			strconv.Itoa(row.OxygenLevel), row.Severity, row.Outcome, row.BMI, row.ExternalReport,
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the rows as an indented array.
func WriteJSON(w io.Writer, records []domain.PatientRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Rows(records))
}

// FileName is the artifact name for an export taken at t.
func FileName(format Format, t time.Time) string {
	return fmt.Sprintf("registry-%s.%s", t.UTC().Format("20060102-150405"), format)
}

// Publish encodes records and stores the artifact under exports/ in store.
func Publish(ctx context.Context, store blob.Store, format Format, records []domain.PatientRecord, now time.Time) (blob.Info, error) {
	var buf bytes.Buffer
	if err := Write(&buf, format, records); err != nil {
		return blob.Info{}, err
	}
	key := "exports/" + FileName(format, now)
	info, err := store.Put(ctx, key, &buf, blob.PutOptions{
		ContentType: format.ContentType(),
		Metadata:    map[string]string{"records": strconv.Itoa(len(records)), "format": string(format)},
	})
	if err != nil {
		return blob.Info{}, fmt.Errorf("publish %s: %w", key, err)
	}
	return info, nil
}
