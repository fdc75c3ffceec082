package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ohsurveil/pkg/domain"
)

var now = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

func record(id string, age time.Duration, outcome *domain.Outcome) domain.PatientRecord {
	return domain.PatientRecord{
		ID:          id,
		PatientName: "patient " + id,
		Timestamp:   now.Add(-age),
		Temperature: 98.6,
		HeartRate:   70,
		OxygenLevel: 98,
		Severity:    domain.SeverityLow,
		Outcome:     outcome,
	}
}

func TestSummarizeClassifiesOutcomes(t *testing.T) {
	records := []domain.PatientRecord{
		record("1", time.Hour, domain.OutcomePtr(domain.OutcomeFit)),
		record("2", time.Hour, nil),
		record("3", time.Hour, domain.OutcomePtr(domain.OutcomeFitConditional)),
		record("4", time.Hour, domain.OutcomePtr(domain.OutcomeUnfit)),
		record("5", time.Hour, nil),
	}
	s := Summarize(records)
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 3, s.Completed)
	assert.Equal(t, 2, s.Pending)
	assert.Equal(t, 2, s.Fit)
	assert.Equal(t, 1, s.Unfit)
	require.Len(t, s.PendingRecords, 2)
	assert.Equal(t, "2", s.PendingRecords[0].ID)
	assert.Equal(t, "5", s.PendingRecords[1].ID)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.Total)
	assert.NotNil(t, s.PendingRecords)
}

func TestTrendsWindowAndAlerts(t *testing.T) {
	day := 24 * time.Hour
	fever := record("fever", 2*day, nil)
	fever.Temperature = 100.4
	fever.Symptoms = []domain.Symptom{domain.SymptomFever, domain.SymptomCough}
	hypoxic := record("hypoxic", day, nil)
	hypoxic.OxygenLevel = 92
	hypoxic.Severity = domain.SeverityCritical
	hypoxic.Symptoms = []domain.Symptom{domain.SymptomCough, domain.SymptomBreathlessness}
	calm := record("calm", 3*day, nil)
	calm.Symptoms = []domain.Symptom{domain.SymptomHeadache}
	old := record("old", 40*day, nil)
	old.Temperature = 103
	old.Symptoms = []domain.Symptom{domain.SymptomRash}

	records := []domain.PatientRecord{hypoxic, fever, calm, old}
	week, err := Trends(records, Week, now)
	require.NoError(t, err)
	assert.Equal(t, 3, week.Records)
	assert.Equal(t, now.Add(-7*day), week.Since)

	require.Len(t, week.Alerts, 2)
	assert.Equal(t, "hypoxic", week.Alerts[0].Record.ID)
	assert.Equal(t, []string{"low oxygen (92%)", "critical severity"}, week.Alerts[0].Reasons)
	assert.Equal(t, []string{"high temperature (100.4°F)"}, week.Alerts[1].Reasons)

	assert.Equal(t, []SymptomCount{
		{Symptom: domain.SymptomCough, Count: 2},
		{Symptom: domain.SymptomFever, Count: 1},
		{Symptom: domain.SymptomHeadache, Count: 1},
		{Symptom: domain.SymptomBreathlessness, Count: 1},
	}, week.Symptoms)

	require.Len(t, week.Series, 3)
	assert.Equal(t, "patient calm", week.Series[0].Patient)
	assert.Equal(t, "patient fever", week.Series[1].Patient)
	assert.Equal(t, "patient hypoxic", week.Series[2].Patient)

	quarter, err := Trends(records, Quarter, now)
	require.NoError(t, err)
	assert.Equal(t, 4, quarter.Records)
	assert.Len(t, quarter.Alerts, 3)
	assert.Equal(t, "patient old", quarter.Series[0].Patient)
}

func TestTrendsRejectsUnknownWindow(t *testing.T) {
	_, err := Trends(nil, Window(14), now)
	assert.ErrorIs(t, err, ErrUnknownWindow)

	w, err := ParseWindow(365)
	require.NoError(t, err)
	assert.Equal(t, Year, w)
	_, err = ParseWindow(0)
	assert.ErrorIs(t, err, ErrUnknownWindow)
}

func TestTrendsEmptyWindow(t *testing.T) {
	report, err := Trends([]domain.PatientRecord{record("old", 400*24*time.Hour, nil)}, Year, now)
	require.NoError(t, err)
	assert.Zero(t, report.Records)
	assert.Empty(t, report.Alerts)
	assert.Empty(t, report.Symptoms)
	assert.Empty(t, report.Series)
}
