package domain

import "context"

// Transaction exposes the registry operations that a persistence
// implementation must support within an atomic scope.
type Transaction interface {
	Snapshot() TransactionView
	// UpsertRecord replaces the record with the same id in place, or
	// prepends it when the id is new. created reports which happened.
	UpsertRecord(PatientRecord) (record PatientRecord, created bool, err error)
	// UpdateRecord replaces the record with the same id and returns
	// ErrNotFound when no such record exists.
	UpdateRecord(PatientRecord) (PatientRecord, error)
	CreateCompany(Company) (Company, error)
	// CreateWorker appends the worker and increments the owning company's
	// worker count within the same transaction.
	CreateWorker(Worker) (Worker, error)
	FindRecord(id string) (PatientRecord, bool)
	FindCompany(id string) (Company, bool)
}

// TransactionView provides read-only access to snapshot data.
type TransactionView interface {
	ListRecords() []PatientRecord
	ListCompanies() []Company
	ListWorkers() []Worker
	FindRecord(id string) (PatientRecord, bool)
	FindCompany(id string) (Company, bool)
	FindWorker(id string) (Worker, bool)
}

// PersistentStore is a minimal abstraction over storage backends. It mirrors
// the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	GetRecord(id string) (PatientRecord, bool)
	ListRecords() []PatientRecord
	ListCompanies() []Company
	ListWorkers() []Worker
}
