// Package dashboard computes the derived registry views: the status
// overview and the time-windowed health trends. Everything here is a pure
// function of the record list.
package dashboard

import "ohsurveil/pkg/domain"

// Summary is the status overview shown on the landing page.
type Summary struct {
	Total     int
	Completed int
	Pending   int
	Fit       int
	Unfit     int
	// PendingRecords keeps the registry order.
	PendingRecords []domain.PatientRecord
}

// Summarize partitions records into completed and pending. Fit counts both
// Fit and Fit with Conditions.
func Summarize(records []domain.PatientRecord) Summary {
	s := Summary{Total: len(records), PendingRecords: []domain.PatientRecord{}}
	for _, r := range records {
		if !r.Completed() {
			s.Pending++
			s.PendingRecords = append(s.PendingRecords, r.Clone())
			continue
		}
		s.Completed++
		switch *r.Outcome {
		case domain.OutcomeFit, domain.OutcomeFitConditional:
			s.Fit++
		case domain.OutcomeUnfit:
			s.Unfit++
		}
	}
	return s
}
