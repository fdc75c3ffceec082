// Package memory provides an in-memory implementation of the registry
// store used by default and in tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"ohsurveil/pkg/domain"

	"github.com/google/uuid"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// PatientRecord aliases domain.PatientRecord.
	PatientRecord = domain.PatientRecord
	// Company aliases domain.Company.
	Company = domain.Company
	// Worker aliases domain.Worker.
	Worker = domain.Worker
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
)

// memoryState keeps each entity in an id map plus an order slice. Records are
// ordered newest first; companies and workers in insertion order.
type memoryState struct {
	records      map[string]PatientRecord
	recordOrder  []string
	companies    map[string]Company
	companyOrder []string
	workers      map[string]Worker
	workerOrder  []string
}

// Snapshot captures a point-in-time clone of the store state.
type Snapshot struct {
	Records      map[string]PatientRecord `json:"records"`
	RecordOrder  []string                 `json:"record_order"`
	Companies    map[string]Company       `json:"companies"`
	CompanyOrder []string                 `json:"company_order"`
	Workers      map[string]Worker        `json:"workers"`
	WorkerOrder  []string                 `json:"worker_order"`
}

func newMemoryState() memoryState {
	return memoryState{
		records:   make(map[string]PatientRecord),
		companies: make(map[string]Company),
		workers:   make(map[string]Worker),
	}
}

func (s memoryState) clone() memoryState {
	cp := memoryState{
		records:      make(map[string]PatientRecord, len(s.records)),
		recordOrder:  append([]string(nil), s.recordOrder...),
		companies:    make(map[string]Company, len(s.companies)),
		companyOrder: append([]string(nil), s.companyOrder...),
		workers:      make(map[string]Worker, len(s.workers)),
		workerOrder:  append([]string(nil), s.workerOrder...),
	}
	for k, v := range s.records {
		cp.records[k] = v.Clone()
	}
	for k, v := range s.companies {
		cp.companies[k] = v
	}
	for k, v := range s.workers {
		cp.workers[k] = v.Clone()
	}
	return cp
}

func snapshotFromMemoryState(state memoryState) Snapshot {
	cp := state.clone()
	return Snapshot{
		Records:      cp.records,
		RecordOrder:  cp.recordOrder,
		Companies:    cp.companies,
		CompanyOrder: cp.companyOrder,
		Workers:      cp.workers,
		WorkerOrder:  cp.workerOrder,
	}
}

// memoryStateFromSnapshot rebuilds state, dropping order entries that point
// at missing ids and appending ids missing from the order slices.
func memoryStateFromSnapshot(s Snapshot) memoryState {
	state := newMemoryState()
	for k, v := range s.Records {
		state.records[k] = v.Clone()
	}
	for k, v := range s.Companies {
		state.companies[k] = v
	}
	for k, v := range s.Workers {
		state.workers[k] = v.Clone()
	}
	state.recordOrder = normalizeOrder(s.RecordOrder, state.records)
	state.companyOrder = normalizeOrder(s.CompanyOrder, state.companies)
	state.workerOrder = normalizeOrder(s.WorkerOrder, state.workers)
	return state
}

func normalizeOrder[T any](order []string, items map[string]T) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, id := range order {
		if _, ok := items[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for id := range items {
		if _, ok := seen[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// Store provides an in-memory transactional store for the registry.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	engine *RulesEngine
	idFn   func() string
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{
		state:  newMemoryState(),
		engine: engine,
		idFn:   uuid.NewString,
	}
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromMemoryState(s.state)
}

// ImportState replaces the store state with the provided snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = memoryStateFromSnapshot(snapshot)
}

// RulesEngine exposes the configured engine.
func (s *Store) RulesEngine() *RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

type transaction struct {
	store   *Store
	state   memoryState
	changes []Change
}

type transactionView struct {
	state *memoryState
}

func newTransactionView(state *memoryState) TransactionView {
	return transactionView{state: state}
}

// ListRecords returns records newest first.
func (v transactionView) ListRecords() []PatientRecord {
	out := make([]PatientRecord, 0, len(v.state.recordOrder))
	for _, id := range v.state.recordOrder {
		out = append(out, v.state.records[id].Clone())
	}
	return out
}

// ListCompanies returns companies in insertion order.
func (v transactionView) ListCompanies() []Company {
	out := make([]Company, 0, len(v.state.companyOrder))
	for _, id := range v.state.companyOrder {
		out = append(out, v.state.companies[id])
	}
	return out
}

// ListWorkers returns workers in insertion order.
func (v transactionView) ListWorkers() []Worker {
	out := make([]Worker, 0, len(v.state.workerOrder))
	for _, id := range v.state.workerOrder {
		out = append(out, v.state.workers[id].Clone())
	}
	return out
}

// FindRecord retrieves a record by id.
func (v transactionView) FindRecord(id string) (PatientRecord, bool) {
	r, ok := v.state.records[id]
	if !ok {
		return PatientRecord{}, false
	}
	return r.Clone(), true
}

// FindCompany retrieves a company by id.
func (v transactionView) FindCompany(id string) (Company, bool) {
	c, ok := v.state.companies[id]
	return c, ok
}

// FindWorker retrieves a worker by id.
func (v transactionView) FindWorker(id string) (Worker, bool) {
	w, ok := v.state.workers[id]
	if !ok {
		return Worker{}, false
	}
	return w.Clone(), true
}

// RunInTransaction executes fn within a transactional copy of the store state.
// The copy is committed only when fn succeeds and no blocking rule fires.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	return s.RunDurable(ctx, fn, nil)
}

// RunDurable runs fn like RunInTransaction but hands the state it would
// commit to persist first. The state only becomes visible once persist
// succeeds; a persist error discards the transaction. persist runs under
// the store lock and must not call back into the store.
func (s *Store) RunDurable(ctx context.Context, fn func(tx Transaction) error, persist func(context.Context, Snapshot) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{
		store: s,
		state: s.state.clone(),
	}

	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		view := newTransactionView(&tx.state)
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	if persist != nil {
		if err := persist(ctx, snapshotFromMemoryState(tx.state)); err != nil {
			return result, fmt.Errorf("persist snapshot: %w", err)
		}
	}
	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(TransactionView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state.clone()
	return fn(newTransactionView(&snapshot))
}

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot returns a read-only view over the transactional state.
func (tx *transaction) Snapshot() TransactionView {
	return newTransactionView(&tx.state)
}

// FindRecord exposes record lookup within the transaction scope.
func (tx *transaction) FindRecord(id string) (PatientRecord, bool) {
	return transactionView{state: &tx.state}.FindRecord(id)
}

// FindCompany exposes company lookup within the transaction scope.
func (tx *transaction) FindCompany(id string) (Company, bool) {
	return transactionView{state: &tx.state}.FindCompany(id)
}

// UpsertRecord replaces a record with a matching id in place or prepends a new one.
func (tx *transaction) UpsertRecord(r PatientRecord) (PatientRecord, bool, error) {
	if r.ID == "" {
		return PatientRecord{}, false, fmt.Errorf("record id required")
	}
	if before, exists := tx.state.records[r.ID]; exists {
		tx.state.records[r.ID] = r.Clone()
		tx.recordChange(Change{Entity: domain.EntityRecord, Action: domain.ActionUpdate, Before: before.Clone(), After: r.Clone()})
		return r.Clone(), false, nil
	}
	tx.state.records[r.ID] = r.Clone()
	tx.state.recordOrder = append([]string{r.ID}, tx.state.recordOrder...)
	tx.recordChange(Change{Entity: domain.EntityRecord, Action: domain.ActionCreate, After: r.Clone()})
	return r.Clone(), true, nil
}

// UpdateRecord replaces an existing record by id.
func (tx *transaction) UpdateRecord(r PatientRecord) (PatientRecord, error) {
	before, exists := tx.state.records[r.ID]
	if !exists {
		return PatientRecord{}, domain.ErrNotFound{Entity: domain.EntityRecord, ID: r.ID}
	}
	tx.state.records[r.ID] = r.Clone()
	tx.recordChange(Change{Entity: domain.EntityRecord, Action: domain.ActionUpdate, Before: before.Clone(), After: r.Clone()})
	return r.Clone(), nil
}

// CreateCompany stores a new company with a zero worker count.
func (tx *transaction) CreateCompany(c Company) (Company, error) {
	if c.ID == "" {
		c.ID = tx.store.idFn()
	}
	if _, exists := tx.state.companies[c.ID]; exists {
		return Company{}, fmt.Errorf("company %q already exists", c.ID)
	}
	c.WorkerCount = 0
	tx.state.companies[c.ID] = c
	tx.state.companyOrder = append(tx.state.companyOrder, c.ID)
	tx.recordChange(Change{Entity: domain.EntityCompany, Action: domain.ActionCreate, After: c})
	return c, nil
}

// CreateWorker stores a new worker and bumps the owning company's count.
// An unknown company id leaves the worker unassigned.
func (tx *transaction) CreateWorker(w Worker) (Worker, error) {
	if w.ID == "" {
		w.ID = tx.store.idFn()
	}
	if _, exists := tx.state.workers[w.ID]; exists {
		return Worker{}, fmt.Errorf("worker %q already exists", w.ID)
	}
	if company, ok := tx.state.companies[w.CompanyID]; ok {
		w.CompanyName = company.Name
		before := company
		company.WorkerCount++
		tx.state.companies[company.ID] = company
		tx.recordChange(Change{Entity: domain.EntityCompany, Action: domain.ActionUpdate, Before: before, After: company})
	} else {
		w.CompanyName = domain.UnassignedCompany
	}
	if w.Hazards == nil {
		w.Hazards = []domain.Hazard{}
	}
	tx.state.workers[w.ID] = w.Clone()
	tx.state.workerOrder = append(tx.state.workerOrder, w.ID)
	tx.recordChange(Change{Entity: domain.EntityWorker, Action: domain.ActionCreate, After: w.Clone()})
	return w.Clone(), nil
}

// GetRecord returns a record by id.
func (s *Store) GetRecord(id string) (PatientRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).FindRecord(id)
}

// ListRecords returns all records newest first.
func (s *Store) ListRecords() []PatientRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).ListRecords()
}

// ListCompanies returns all companies.
func (s *Store) ListCompanies() []Company {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).ListCompanies()
}

// ListWorkers returns all workers.
func (s *Store) ListWorkers() []Worker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).ListWorkers()
}
