// Package app is the composition root: it turns a config.Config into a
// wired registry service with its logger, metrics, attachment store and
// insight panel.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ohsurveil/internal/blob"
	"ohsurveil/internal/config"
	"ohsurveil/internal/core"
	"ohsurveil/internal/insights"
	"ohsurveil/internal/wizard"
	"ohsurveil/pkg/domain"
)

// App holds the wired components for one process.
type App struct {
	Config   config.Config
	Logger   *zap.Logger
	Metrics  *prometheus.Registry
	Service  *core.Service
	Insights *insights.Panel
	Clinic   domain.ClinicSettings
	// Seeded is true when this start populated an empty registry.
	Seeded bool

	clock func() time.Time
}

// Option customises New.
type Option func(*options)

type options struct {
	logger *zap.Logger
	clock  func() time.Time
	blobs  blob.Store
}

// WithZapLogger replaces the logger built from config.
func WithZapLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock fixes the service and wizard time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.clock = now }
}

// WithBlobStore replaces the attachment store built from config.
func WithBlobStore(store blob.Store) Option {
	return func(o *options) { o.blobs = store }
}

// New opens storage, builds the service and seeds demo data when enabled
// and the registry is empty.
func New(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	o := options{clock: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		l, err := NewLogger(cfg.Log)
		if err != nil {
			return nil, fmt.Errorf("build logger: %w", err)
		}
		o.logger = l
	}
	logger := core.NewZapLogger(o.logger)

	reg := prometheus.NewRegistry()
	recorder, err := core.NewPrometheusRecorder(reg)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	blobs := o.blobs
	if blobs == nil {
		blobs, err = blob.Open(ctx, cfg.Blob)
		if err != nil {
			return nil, fmt.Errorf("open blob store: %w", err)
		}
	}

	store, err := core.OpenPersistentStore(ctx, cfg.Storage, core.NewDefaultRulesEngine())
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Storage.Driver, err)
	}

	svc := core.NewService(store,
		core.WithClock(core.ClockFunc(o.clock)),
		core.WithLogger(logger),
		core.WithMetricsRecorder(recorder),
		core.WithBlobStore(blobs),
	)

	a := &App{
		Config:   cfg,
		Logger:   o.logger,
		Metrics:  reg,
		Service:  svc,
		Insights: insights.NewPanel(insights.NewClient(cfg.Insights, logger), logger),
		Clinic:   cfg.Clinic.Settings(),
		clock:    o.clock,
	}
	if cfg.Seed {
		a.Seeded, err = core.SeedDemoData(ctx, svc)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
	}
	o.logger.Debug("application ready",
		zap.String("storage", string(cfg.Storage.Driver)),
		zap.String("blob", string(blobs.Driver())),
		zap.Bool("seeded", a.Seeded))
	return a, nil
}

// Now returns the application clock.
func (a *App) Now() time.Time { return a.clock() }

func (a *App) wizardOptions() []wizard.Option {
	return []wizard.Option{
		wizard.WithClock(a.clock),
		wizard.WithIDGenerator(a.Service.NewID),
		wizard.WithLogger(core.NewZapLogger(a.Logger)),
	}
}

// NewExamination starts a wizard for a new record.
func (a *App) NewExamination() *wizard.Wizard {
	return wizard.New(a.Service, a.Service, a.wizardOptions()...)
}

// EditExamination starts a wizard over the stored record id.
func (a *App) EditExamination(id string) (*wizard.Wizard, error) {
	record, err := a.Service.GetRecord(id)
	if err != nil {
		return nil, err
	}
	return wizard.Edit(record, a.Service, a.Service, a.wizardOptions()...), nil
}

// Close releases storage and flushes the logger.
func (a *App) Close() error {
	err := core.CloseStore(a.Service.Store())
	_ = a.Logger.Sync()
	if err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}
