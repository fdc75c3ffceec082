package dashboard

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"ohsurveil/internal/core"
	"ohsurveil/pkg/domain"
)

// ErrUnknownWindow is returned for a window other than 7, 30, 90 or 365 days.
var ErrUnknownWindow = errors.New("unknown trend window")

// Window is a trailing period measured in days.
type Window int

// Supported windows.
const (
	Week    Window = 7
	Month   Window = 30
	Quarter Window = 90
	Year    Window = 365
)

// Windows lists the supported windows, shortest first.
func Windows() []Window { return []Window{Week, Month, Quarter, Year} }

// ParseWindow validates a day count.
func ParseWindow(days int) (Window, error) {
	for _, w := range Windows() {
		if int(w) == days {
			return w, nil
		}
	}
	return 0, fmt.Errorf("%w: %d days", ErrUnknownWindow, days)
}

// Alert is a record whose vitals or severity need attention.
type Alert struct {
	Record  domain.PatientRecord
	Reasons []string
}

// SymptomCount is one bar of the symptom frequency chart.
type SymptomCount struct {
	Symptom domain.Symptom
	Count   int
}

// Point is one sample of the vitals series.
type Point struct {
	Time        time.Time
	Patient     string
	Temperature float64
	HeartRate   int
}

// Report is the health-trends view over one window.
type Report struct {
	Window   Window
	Since    time.Time
	Records  int
	Alerts   []Alert
	Symptoms []SymptomCount
	Series   []Point
}

// Trends restricts records to those timestamped at or after
// now minus the window and derives alerts, symptom counts and the vitals
// series.
func Trends(records []domain.PatientRecord, window Window, now time.Time) (Report, error) {
	if _, err := ParseWindow(int(window)); err != nil {
		return Report{}, err
	}
	since := now.Add(-time.Duration(window) * 24 * time.Hour)
	t := Report{Window: window, Since: since, Alerts: []Alert{}, Symptoms: []SymptomCount{}, Series: []Point{}}
	counts := map[domain.Symptom]int{}
	for _, r := range records {
		if r.Timestamp.Before(since) {
			continue
		}
		t.Records++
		if reasons := core.AlertReasons(r); len(reasons) > 0 {
			t.Alerts = append(t.Alerts, Alert{Record: r.Clone(), Reasons: reasons})
		}
		for _, s := range r.Symptoms {
			counts[s]++
		}
		t.Series = append(t.Series, Point{Time: r.Timestamp, Patient: r.PatientName, Temperature: r.Temperature, HeartRate: r.HeartRate})
	}
	for s, n := range counts {
		t.Symptoms = append(t.Symptoms, SymptomCount{Symptom: s, Count: n})
	}
	sort.Slice(t.Symptoms, func(i, j int) bool {
		if t.Symptoms[i].Count != t.Symptoms[j].Count {
			return t.Symptoms[i].Count > t.Symptoms[j].Count
		}
		return t.Symptoms[i].Symptom < t.Symptoms[j].Symptom
	})
	sort.SliceStable(t.Series, func(i, j int) bool { return t.Series[i].Time.Before(t.Series[j].Time) })
	return t, nil
}
