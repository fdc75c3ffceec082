package core

import (
	"context"
	"fmt"
	"strings"

	"ohsurveil/pkg/domain"
)

// Alert thresholds shared with the trends view.
const (
	FeverThresholdF  = 100.4
	LowOxygenPercent = 94
)

// AlertReasons lists why a record would raise a health alert. An empty
// result means the vitals are within range.
func AlertReasons(r domain.PatientRecord) []string {
	var reasons []string
	if r.Temperature >= FeverThresholdF {
		reasons = append(reasons, fmt.Sprintf("high temperature (%.1f°F)", r.Temperature))
	}
	if r.OxygenLevel < LowOxygenPercent {
		reasons = append(reasons, fmt.Sprintf("low oxygen (%d%%)", r.OxygenLevel))
	}
	if r.Severity == domain.SeverityHigh || r.Severity == domain.SeverityCritical {
		reasons = append(reasons, fmt.Sprintf("%s severity", strings.ToLower(string(r.Severity))))
	}
	return reasons
}

// NewVitalsAlertRule warns, without blocking, when a written record carries
// alert-level vitals.
func NewVitalsAlertRule() domain.Rule {
	return vitalsAlertRule{}
}

type vitalsAlertRule struct{}

func (vitalsAlertRule) Name() string { return "vitals_alert" }

func (r vitalsAlertRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, change := range changes {
		record, ok := change.After.(domain.PatientRecord)
		if !ok || change.Entity != domain.EntityRecord {
			continue
		}
		reasons := AlertReasons(record)
		if len(reasons) == 0 {
			continue
		}
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     r.Name(),
			Severity: domain.SeverityWarn,
			Message:  fmt.Sprintf("%s: %s", record.PatientName, strings.Join(reasons, ", ")),
			Entity:   domain.EntityRecord,
			EntityID: record.ID,
		})
	}
	return res, nil
}
