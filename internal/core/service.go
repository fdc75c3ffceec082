package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"ohsurveil/internal/blob"
	"ohsurveil/internal/infra/persistence/memory"
	"ohsurveil/pkg/domain"
)

// Service is the single write path into the registry. Every mutation runs
// in a store transaction so registered rules see the full change set.
type Service struct {
	store   PersistentStore
	blobs   blob.Store
	clock   Clock
	logger  Logger
	metrics MetricsRecorder
	newID   func() string
}

// NewService constructs a service backed by the supplied store.
func NewService(store PersistentStore, opts ...ServiceOption) *Service {
	cfg := defaultServiceOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.blobs == nil {
		cfg.blobs = blob.NewMemory()
	}
	return &Service{
		store:   store,
		blobs:   cfg.blobs,
		clock:   cfg.clock,
		logger:  cfg.logger,
		metrics: cfg.metrics,
		newID:   cfg.newID,
	}
}

// NewInMemoryService creates a service over a fresh memory store.
func NewInMemoryService(engine *RulesEngine, opts ...ServiceOption) *Service {
	return NewService(memory.NewStore(engine), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() PersistentStore { return s.store }

// Blobs returns the attachment store.
func (s *Service) Blobs() blob.Store { return s.blobs }

// Now returns the service clock reading.
func (s *Service) Now() time.Time { return s.clock.Now() }

// NewID returns a fresh entity identifier.
func (s *Service) NewID() string { return s.newID() }

func (s *Service) run(ctx context.Context, op string, fn func(Transaction) error) (Result, error) {
	start := time.Now()
	res, err := s.store.RunInTransaction(ctx, fn)
	s.metrics.Observe(ctx, op, err == nil, time.Since(start))
	for _, v := range res.Violations {
		s.logger.Warn("rule violation", "op", op, "rule", v.Rule, "severity", string(v.Severity), "entity", string(v.Entity), "id", v.EntityID, "message", v.Message)
	}
	if err != nil {
		s.logger.Error("transaction failed", "op", op, "error", err)
		return res, err
	}
	s.logger.Debug("transaction committed", "op", op, "violations", len(res.Violations))
	return res, nil
}

// UpsertRecord replaces the record with the same id in place or prepends it
// as new. A record without id or timestamp gets fresh ones. created reports
// whether the record was new to the registry.
func (s *Service) UpsertRecord(ctx context.Context, record PatientRecord) (saved PatientRecord, created bool, res Result, err error) {
	if record.ID == "" {
		record.ID = s.newID()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = s.clock.Now()
	}
	res, err = s.run(ctx, "upsert_record", func(tx Transaction) error {
		var txErr error
		saved, created, txErr = tx.UpsertRecord(record)
		return txErr
	})
	if err == nil {
		s.logger.Info("record saved", "id", saved.ID, "patient", saved.PatientName, "created", created)
	}
	return saved, created, res, err
}

// UpdateRecord replaces an existing record by id. A missing id yields
// domain.ErrNotFound.
func (s *Service) UpdateRecord(ctx context.Context, record PatientRecord) (PatientRecord, Result, error) {
	var updated PatientRecord
	res, err := s.run(ctx, "update_record", func(tx Transaction) error {
		var txErr error
		updated, txErr = tx.UpdateRecord(record)
		return txErr
	})
	return updated, res, err
}

// GetRecord returns the record with id or domain.ErrNotFound.
func (s *Service) GetRecord(id string) (PatientRecord, error) {
	record, ok := s.store.GetRecord(id)
	if !ok {
		return PatientRecord{}, ErrNotFound{Entity: domain.EntityRecord, ID: id}
	}
	return record, nil
}

// ListRecords returns every record, newest first.
func (s *Service) ListRecords() []PatientRecord { return s.store.ListRecords() }

// SearchRecords filters records whose patient or company name contains
// term, ignoring case. Registry order is preserved; an empty term matches
// everything.
func (s *Service) SearchRecords(term string) []PatientRecord {
	records := s.store.ListRecords()
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return records
	}
	out := records[:0]
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.PatientName), needle) || strings.Contains(strings.ToLower(r.CompanyName), needle) {
			out = append(out, r)
		}
	}
	return out
}

// AddCompany registers a company with a zero worker count.
func (s *Service) AddCompany(ctx context.Context, company Company) (Company, Result, error) {
	if company.ID == "" {
		company.ID = s.newID()
	}
	var created Company
	res, err := s.run(ctx, "add_company", func(tx Transaction) error {
		var txErr error
		created, txErr = tx.CreateCompany(company)
		return txErr
	})
	return created, res, err
}

// AddWorker registers a worker and bumps its company's worker count in the
// same transaction.
func (s *Service) AddWorker(ctx context.Context, worker Worker) (Worker, Result, error) {
	if worker.ID == "" {
		worker.ID = s.newID()
	}
	var created Worker
	res, err := s.run(ctx, "add_worker", func(tx Transaction) error {
		var txErr error
		created, txErr = tx.CreateWorker(worker)
		return txErr
	})
	return created, res, err
}

// ListCompanies returns companies in registration order.
func (s *Service) ListCompanies() []Company { return s.store.ListCompanies() }

// ListWorkers returns workers sorted by name in locale collation order, so
// case and accents do not split the list.
func (s *Service) ListWorkers() []Worker {
	workers := s.store.ListWorkers()
	c := collate.New(language.Und)
	sort.SliceStable(workers, func(i, j int) bool { return c.CompareString(workers[i].Name, workers[j].Name) < 0 })
	return workers
}

// FindWorkerByName returns the first registered worker with exactly name.
func (s *Service) FindWorkerByName(name string) (Worker, bool) {
	for _, w := range s.store.ListWorkers() {
		if w.Name == name {
			return w, true
		}
	}
	return Worker{}, false
}

// FindCompany looks a company up by id.
func (s *Service) FindCompany(id string) (Company, bool) {
	var (
		company Company
		found   bool
	)
	err := s.store.View(context.Background(), func(view TransactionView) error {
		company, found = view.FindCompany(id)
		return nil
	})
	if err != nil {
		s.logger.Error("find company failed", "id", id, "error", err)
		return Company{}, false
	}
	return company, found
}

// AttachReport stores an external report for a record and links it through
// UpdateRecord. The link is a presigned URL when the backend can sign one,
// otherwise a blob:// reference to the stored key.
func (s *Service) AttachReport(ctx context.Context, recordID, fileName, contentType string, r io.Reader) (PatientRecord, error) {
	start := time.Now()
	record, err := s.attachReport(ctx, recordID, fileName, contentType, r)
	s.metrics.Observe(ctx, "attach_report", err == nil, time.Since(start))
	if err != nil {
		s.logger.Error("attach report failed", "record", recordID, "file", fileName, "error", err)
		return PatientRecord{}, err
	}
	s.logger.Info("report attached", "record", recordID, "file", record.ExternalReport.FileName, "url", record.ExternalReport.FileURL)
	return record, nil
}

func (s *Service) attachReport(ctx context.Context, recordID, fileName, contentType string, r io.Reader) (PatientRecord, error) {
	record, err := s.GetRecord(recordID)
	if err != nil {
		return PatientRecord{}, err
	}
	name := path.Base(strings.TrimSpace(strings.ReplaceAll(fileName, "\\", "/")))
	if name == "" || name == "." || name == "/" {
		return PatientRecord{}, fmt.Errorf("attachment file name required")
	}
	now := s.clock.Now()
	key := fmt.Sprintf("reports/%s/%d-%s", recordID, now.UnixNano(), name)
	if _, err := s.blobs.Put(ctx, key, r, blob.PutOptions{
		ContentType: contentType,
		Metadata:    map[string]string{"record_id": recordID, "file_name": name},
	}); err != nil {
		return PatientRecord{}, fmt.Errorf("store attachment: %w", err)
	}
	link, err := s.blobs.PresignURL(ctx, key, blob.SignedURLOptions{})
	switch {
	case errors.Is(err, blob.ErrUnsupported):
		link = "blob://" + key
	case err != nil:
		s.discardBlob(ctx, key)
		return PatientRecord{}, fmt.Errorf("link attachment: %w", err)
	}
	record.ExternalReport = &domain.ExternalReport{
		FileName:   name,
		FileURL:    link,
		UploadDate: domain.FormatDate(now),
	}
	updated, _, err := s.UpdateRecord(ctx, record)
	if err != nil {
		s.discardBlob(ctx, key)
		return PatientRecord{}, err
	}
	return updated, nil
}

// discardBlob removes an attachment whose record link could not be saved.
func (s *Service) discardBlob(ctx context.Context, key string) {
	if _, err := s.blobs.Delete(context.WithoutCancel(ctx), key); err != nil {
		s.logger.Warn("orphaned attachment", "key", key, "error", err)
	}
}
