// Package wizard drives the 14-step medical surveillance examination form:
// a linear state machine over one Draft that ends in a single create-or-update
// commit to the registry.
package wizard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ohsurveil/internal/core"
	"ohsurveil/pkg/domain"
)

// WorkerDirectory resolves the worker picked in step 1.
type WorkerDirectory interface {
	FindWorkerByName(name string) (domain.Worker, bool)
	FindCompany(id string) (domain.Company, bool)
}

// RecordCommitter persists the finished examination.
type RecordCommitter interface {
	UpsertRecord(ctx context.Context, record domain.PatientRecord) (domain.PatientRecord, bool, domain.Result, error)
}

// Option customises a Wizard.
type Option func(*Wizard)

// WithClock sets the time source for defaults and new record timestamps.
func WithClock(now func() time.Time) Option {
	return func(w *Wizard) {
		if now != nil {
			w.now = now
		}
	}
}

// WithIDGenerator sets the id source for new records.
func WithIDGenerator(fn func() string) Option {
	return func(w *Wizard) {
		if fn != nil {
			w.newID = fn
		}
	}
}

// WithLogger routes step transitions and submissions to logger.
func WithLogger(logger core.Logger) Option {
	return func(w *Wizard) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// Wizard is a single examination session. It is not safe for concurrent use.
type Wizard struct {
	step      Step
	draft     Draft
	original  *domain.PatientRecord
	submitted bool
	// pinned holds the id and timestamp of a new record from the first
	// submit attempt so retries upsert the same record.
	pinned *domain.PatientRecord

	workers WorkerDirectory
	records RecordCommitter
	now     func() time.Time
	newID   func() string
	logger  core.Logger
}

func newWizard(workers WorkerDirectory, records RecordCommitter, opts []Option) *Wizard {
	w := &Wizard{
		step:    FirstStep,
		workers: workers,
		records: records,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
		logger:  core.NopLogger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// New starts a wizard for a new examination.
func New(workers WorkerDirectory, records RecordCommitter, opts ...Option) *Wizard {
	w := newWizard(workers, records, opts)
	w.draft = NewDraft(w.now())
	return w
}

// Edit starts a wizard over an existing record. Submitting keeps the
// record's id and timestamp.
func Edit(record domain.PatientRecord, workers WorkerDirectory, records RecordCommitter, opts ...Option) *Wizard {
	w := newWizard(workers, records, opts)
	original := record.Clone()
	w.original = &original
	w.draft = HydrateDraft(record, w.now())
	return w
}

// Step returns the current step.
func (w *Wizard) Step() Step { return w.step }

// Editing reports whether the wizard was opened over an existing record.
func (w *Wizard) Editing() bool { return w.original != nil }

// Submitted reports whether Submit has succeeded.
func (w *Wizard) Submitted() bool { return w.submitted }

// Draft returns a copy of the working draft.
func (w *Wizard) Draft() Draft { return w.draft.Clone() }

// Advance moves to the next step. Leaving step 1 requires a patient name.
func (w *Wizard) Advance() error {
	if w.step == StepWorkerSelection && w.draft.PatientName == "" {
		return ErrWorkerNotSelected
	}
	if w.step >= LastStep {
		return fmt.Errorf("%w: after %s", ErrNoSuchStep, w.step)
	}
	w.step++
	w.logger.Debug("wizard advanced", "step", int(w.step), "title", w.step.String())
	return nil
}

// Retreat moves to the previous step.
func (w *Wizard) Retreat() error {
	if w.step <= FirstStep {
		return fmt.Errorf("%w: before %s", ErrNoSuchStep, w.step)
	}
	w.step--
	w.logger.Debug("wizard retreated", "step", int(w.step), "title", w.step.String())
	return nil
}

// SelectWorker applies the step 1 choice. A registered worker prefills the
// worker-linked fields; an unknown name is stored as typed.
func (w *Wizard) SelectWorker(name string) {
	worker, ok := w.workers.FindWorkerByName(name)
	if !ok {
		w.SetPatientName(name)
		return
	}
	d := &w.draft
	d.PatientName = worker.Name
	d.CompanyName = worker.CompanyName
	d.ICPassport = worker.ICPassport
	d.CompanyAddress = ""
	if company, found := w.workers.FindCompany(worker.CompanyID); found {
		d.CompanyAddress = company.Address
	}
	d.Age = worker.Age
	d.Gender = worker.Gender
	d.Hazards = worker.Clone().Hazards
	d.OccupationalHistory.JobTitle = worker.JobRole
	d.OccupationalHistory.CompanyName = worker.CompanyName
	d.SummaryRecord.WorkerName = worker.Name
}

// SetPatientName changes the patient name. When creating, a non-empty name
// is mirrored into the summary record.
func (w *Wizard) SetPatientName(name string) {
	w.draft.PatientName = name
	w.syncSummaryName()
}

func (w *Wizard) syncSummaryName() {
	if w.original == nil && w.draft.PatientName != "" {
		w.draft.SummaryRecord.WorkerName = w.draft.PatientName
	}
}

// Update applies fn to the draft, then re-derives the computed fields: BMI
// always, and the summary worker name when fn changed the patient name.
func (w *Wizard) Update(fn func(*Draft)) {
	before := w.draft.PatientName
	fn(&w.draft)
	if w.draft.PatientName != before {
		w.syncSummaryName()
	}
	w.draft.refreshBMI()
}

// AddTargetOrganRow appends a blank target-organ test row.
func (w *Wizard) AddTargetOrganRow() {
	w.draft.TargetOrganTest = append(w.draft.TargetOrganTest, domain.TargetOrganTestRow{})
}

// AddBiologicalMonitoringRow appends a blank biological monitoring row.
func (w *Wizard) AddBiologicalMonitoringRow() {
	w.draft.BiologicalMonitoring = append(w.draft.BiologicalMonitoring, domain.BiologicalMonitorRow{})
}

// SetTargetOrganCell edits one cell: field is test, findings or comments.
func (w *Wizard) SetTargetOrganCell(row int, field, value string) error {
	return w.draft.setTargetOrganCell(row, field, value)
}

// SetBiologicalMonitoringCell edits one cell: field is determinant or result.
func (w *Wizard) SetBiologicalMonitoringCell(row int, field, value string) error {
	return w.draft.setBiologicalCell(row, field, value)
}

// ToggleChecklist ticks or unticks label in category c.
func (w *Wizard) ToggleChecklist(c Checklist, label string) error {
	list, err := w.draft.checklist(c)
	if err != nil {
		return err
	}
	*list = toggle(*list, label)
	return nil
}

// Submit freezes the draft and upserts it. New records get a fresh id and
// the current time, fixed on the first attempt; edits keep the original id
// and timestamp.
func (w *Wizard) Submit(ctx context.Context) (domain.PatientRecord, error) {
	if w.submitted {
		return domain.PatientRecord{}, ErrAlreadySubmitted
	}
	if w.step != LastStep {
		return domain.PatientRecord{}, fmt.Errorf("%w: at %s", ErrNotAtFinalStep, w.step)
	}
	if w.pinned == nil {
		w.pinned = &domain.PatientRecord{ID: w.newID(), Timestamp: w.now()}
		if w.original != nil {
			w.pinned = &domain.PatientRecord{ID: w.original.ID, Timestamp: w.original.Timestamp}
		}
	}
	id, ts := w.pinned.ID, w.pinned.Timestamp
	saved, created, _, err := w.records.UpsertRecord(ctx, w.draft.Record(id, ts))
	if err != nil {
		return domain.PatientRecord{}, fmt.Errorf("submit examination: %w", err)
	}
	w.submitted = true
	w.logger.Info("examination submitted", "id", saved.ID, "patient", saved.PatientName, "created", created)
	return saved, nil
}
