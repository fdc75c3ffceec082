package core

import "ohsurveil/pkg/domain"

type (
	PatientRecord   = domain.PatientRecord
	Company         = domain.Company
	Worker          = domain.Worker
	Result          = domain.Result
	Violation       = domain.Violation
	Change          = domain.Change
	Rule            = domain.Rule
	RulesEngine     = domain.RulesEngine
	Transaction     = domain.Transaction
	TransactionView = domain.TransactionView
	PersistentStore = domain.PersistentStore
	ErrNotFound     = domain.ErrNotFound
)

// NewRulesEngine returns an engine with no rules registered.
func NewRulesEngine() *RulesEngine { return domain.NewRulesEngine() }
