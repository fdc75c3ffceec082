package insights

import (
	"context"
	"sync"

	"ohsurveil/internal/core"
	"ohsurveil/pkg/domain"
)

// Analyzer produces an analysis for a set of records.
type Analyzer interface {
	Analyze(ctx context.Context, records []domain.PatientRecord) (Analysis, error)
}

// State is the panel's display state.
type State int

const (
	Idle State = iota
	Loading
	Ready
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	}
	return "unknown"
}

// Panel runs one analysis at a time. Failures are logged and the panel
// returns to Idle without an analysis; callers never see the error.
type Panel struct {
	analyzer Analyzer
	logger   core.Logger

	mu       sync.Mutex
	state    State
	analysis *Analysis
}

// NewPanel returns an idle panel.
func NewPanel(analyzer Analyzer, logger core.Logger) *Panel {
	if logger == nil {
		logger = core.NopLogger()
	}
	return &Panel{analyzer: analyzer, logger: logger}
}

// State returns the current state.
func (p *Panel) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Analysis returns the last successful analysis while Ready.
func (p *Panel) Analysis() (Analysis, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.analysis == nil {
		return Analysis{}, false
	}
	return *p.analysis, true
}

// Run analyses records. It reports false when the call failed or another
// run is already loading.
func (p *Panel) Run(ctx context.Context, records []domain.PatientRecord) bool {
	p.mu.Lock()
	if p.state == Loading {
		p.mu.Unlock()
		return false
	}
	p.state = Loading
	p.mu.Unlock()

	analysis, err := p.analyzer.Analyze(ctx, records)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.logger.Error("AI analysis failed", "error", err)
		p.state = Idle
		p.analysis = nil
		return false
	}
	p.state = Ready
	p.analysis = &analysis
	return true
}
