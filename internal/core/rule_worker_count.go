package core

import (
	"context"
	"fmt"

	"ohsurveil/pkg/domain"
)

// NewWorkerCountRule blocks commits where a company's worker count drifts
// from the number of workers that reference it.
func NewWorkerCountRule() domain.Rule {
	return workerCountRule{}
}

type workerCountRule struct{}

func (workerCountRule) Name() string { return "worker_count_consistency" }

func (r workerCountRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	counts := make(map[string]int)
	for _, worker := range view.ListWorkers() {
		counts[worker.CompanyID]++
	}
	res := domain.Result{}
	for _, company := range view.ListCompanies() {
		if got := counts[company.ID]; got != company.WorkerCount {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     r.Name(),
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("company %s (%s) records %d workers but %d are registered", company.Name, company.ID, company.WorkerCount, got),
				Entity:   domain.EntityCompany,
				EntityID: company.ID,
			})
		}
	}
	return res, nil
}
