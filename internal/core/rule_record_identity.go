package core

import (
	"context"

	"ohsurveil/pkg/domain"
)

// NewRecordIdentityRule blocks records written without an id or creation
// timestamp.
func NewRecordIdentityRule() domain.Rule {
	return recordIdentityRule{}
}

type recordIdentityRule struct{}

func (recordIdentityRule) Name() string { return "record_identity" }

func (r recordIdentityRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, change := range changes {
		if change.Entity != domain.EntityRecord {
			continue
		}
		record, ok := change.After.(domain.PatientRecord)
		if !ok {
			continue
		}
		var msg string
		switch {
		case record.ID == "":
			msg = "record has no id"
		case record.Timestamp.IsZero():
			msg = "record has no creation timestamp"
		default:
			continue
		}
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     r.Name(),
			Severity: domain.SeverityBlock,
			Message:  msg,
			Entity:   domain.EntityRecord,
			EntityID: record.ID,
		})
	}
	return res, nil
}
