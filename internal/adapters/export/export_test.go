package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ohsurveil/internal/blob"
	"ohsurveil/pkg/domain"
)

func registry() []domain.PatientRecord {
	return []domain.PatientRecord{
		{
			ID: "2", VisitDate: "2025-06-02", PatientName: "Jane Smith", CompanyName: "Global Manufacturing Ltd",
			Age: 29, Gender: "Female", Temperature: 98.6, HeartRate: 72, OxygenLevel: 98, Severity: domain.SeverityLow,
			Outcome:        domain.OutcomePtr(domain.OutcomeFit),
			PhysicalExam:   &domain.PhysicalExam{Anthropometry: domain.Anthropometry{BMI: "21.5"}},
			ExternalReport: &domain.ExternalReport{FileName: "audiometry.pdf"},
		},
		{
			ID: "1", VisitDate: "2025-06-01", PatientName: "John Doe", Age: 45, Gender: "Male",
			Temperature: 101.2, HeartRate: 88, OxygenLevel: 96, Severity: domain.SeverityMedium,
		},
	}
}

func TestWriteRegistryWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRegistry(&buf, registry()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, []string{"2", "2025-06-02", "Jane Smith", "Global Manufacturing Ltd", "29", "Female", "98.6", "72", "98", "Low", "Fit", "21.5", "audiometry.pdf"}, rows[1])
	assert.Equal(t, "Pending", rows[2][10])

	styleID, err := f.GetCellStyle(SheetName, "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)

	panes, err := f.GetPanes(SheetName)
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 1, panes.YSplit)
}

func TestWriteRegistryEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRegistry(&buf, nil))
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, registry()))
	lines, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, Header, lines[0])
	assert.Equal(t, "101.2", lines[2][6])
	assert.Equal(t, PendingLabel, lines[2][10])
	assert.Empty(t, lines[2][11])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, registry()))
	var rows []Row
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "Fit", rows[0].Outcome)
	assert.Equal(t, "Pending", rows[1].Outcome)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)
	_, err = ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.ErrorIs(t, Write(io.Discard, Format("xml"), nil), ErrUnknownFormat)
	assert.Equal(t, "text/csv", FormatCSV.ContentType())
}

func TestPublishStoresArtifact(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemory()
	at := time.Date(2025, 6, 2, 8, 30, 0, 0, time.UTC)

	info, err := Publish(ctx, store, FormatCSV, registry(), at)
	require.NoError(t, err)
	assert.Equal(t, "exports/registry-20250602-083000.csv", info.Key)
	assert.Equal(t, "text/csv", info.ContentType)
	assert.Equal(t, "2", info.Metadata["records"])

	_, body, err := store.Get(ctx, info.Key)
	require.NoError(t, err)
	defer func() { _ = body.Close() }()
	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Jane Smith")

	_, err = Publish(ctx, store, FormatCSV, registry(), at)
	assert.ErrorIs(t, err, blob.ErrExists)
}
