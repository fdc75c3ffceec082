package insights

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ohsurveil/pkg/domain"
)

const goodAnalysis = `{"summary":"Cough cluster at Global Manufacturing.","riskLevel":"Moderate",
"findings":[{"title":"Respiratory cluster","description":"Two cough cases in 48h","concernLevel":"High"}],
"recommendations":["Review dust controls"]}`

func candidate(text string) map[string]any {
	return map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"role": "model", "parts": []any{map[string]any{"text": text}}}},
		},
	}
}

type capturedRequest struct {
	Path    string
	APIKey  string
	Request generateRequest
}

func newServer(t *testing.T, status int, reply any) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Path = r.URL.Path
		captured.APIKey = r.Header.Get("x-goog-api-key")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured.Request))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		assert.NoError(t, json.NewEncoder(w).Encode(reply))
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func testRecords() []domain.PatientRecord {
	return []domain.PatientRecord{
		{ID: "1", PatientName: "John Doe", Age: 45, Temperature: 101.2, OxygenLevel: 96, Symptoms: []domain.Symptom{domain.SymptomFever}, Severity: domain.SeverityMedium},
		{ID: "2", PatientName: "Jane Smith", Age: 29, Temperature: 98.6, OxygenLevel: 98, Severity: domain.SeverityLow},
	}
}

func TestAnalyzeSendsSamplesAndDecodesCandidate(t *testing.T) {
	srv, captured := newServer(t, http.StatusOK, candidate(goodAnalysis))
	client := NewClient(Config{BaseURL: srv.URL + "/", APIKey: "k-123"}, nil)

	analysis, err := client.Analyze(context.Background(), testRecords())
	require.NoError(t, err)
	assert.Equal(t, "Moderate", analysis.RiskLevel)
	require.Len(t, analysis.Findings, 1)
	assert.Equal(t, "High", analysis.Findings[0].ConcernLevel)
	assert.Equal(t, []string{"Review dust controls"}, analysis.Recommendations)

	assert.Equal(t, "/models/"+DefaultModel+":generateContent", captured.Path)
	assert.Equal(t, "k-123", captured.APIKey)
	require.Len(t, captured.Request.Contents, 1)
	text := captured.Request.Contents[0].Parts[0].Text
	assert.Contains(t, text, `"temperature":101.2`)
	assert.Contains(t, text, `"oxygenLevel":98`)
	assert.Contains(t, text, `"symptoms":[]`)
	assert.NotContains(t, text, "John Doe")
	assert.Equal(t, "application/json", captured.Request.GenerationConfig.ResponseMimeType)
	assert.Equal(t, "OBJECT", captured.Request.GenerationConfig.ResponseSchema["type"])
}

func TestAnalyzeRejectsBadShapes(t *testing.T) {
	cases := map[string]string{
		"unknown risk":    `{"summary":"s","riskLevel":"Severe","findings":[],"recommendations":[]}`,
		"missing summary": `{"riskLevel":"Low","findings":[],"recommendations":[]}`,
		"no findings":     `{"summary":"s","riskLevel":"Low","recommendations":[]}`,
		"not json":        `The data looks fine.`,
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			srv, _ := newServer(t, http.StatusOK, candidate(text))
			_, err := NewClient(Config{BaseURL: srv.URL, APIKey: "k"}, nil).Analyze(context.Background(), nil)
			assert.ErrorIs(t, err, ErrInvalidAnalysis)
		})
	}
}

func TestAnalyzeErrors(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, map[string]any{"candidates": []any{}})
	_, err := NewClient(Config{BaseURL: srv.URL, APIKey: "k"}, nil).Analyze(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyResponse)

	failing, _ := newServer(t, http.StatusTooManyRequests, map[string]any{"error": map[string]any{"code": 429, "message": "quota exhausted"}})
	_, err = NewClient(Config{BaseURL: failing.URL, APIKey: "k"}, nil).Analyze(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "quota exhausted")

	_, err = NewClient(Config{BaseURL: srv.URL}, nil).Analyze(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestAnalyzeHonoursTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)
	client := NewClient(Config{BaseURL: srv.URL, APIKey: "k", Timeout: 50 * time.Millisecond}, nil)
	_, err := client.Analyze(context.Background(), nil)
	assert.Error(t, err)
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{}, nil)
	assert.Equal(t, DefaultModel, c.Model())
	assert.Equal(t, DefaultBaseURL, c.http.BaseURL)
	assert.Equal(t, DefaultTimeout, c.http.GetClient().Timeout)
}

type fakeAnalyzer struct {
	analysis Analysis
	err      error
	gate     chan struct{}
}

func (f *fakeAnalyzer) Analyze(context.Context, []domain.PatientRecord) (Analysis, error) {
	if f.gate != nil {
		<-f.gate
	}
	return f.analysis, f.err
}

type recordingLogger struct {
	mu     sync.Mutex
	errors []string
}

func (l *recordingLogger) Debug(string, ...any) {}
func (l *recordingLogger) Info(string, ...any)  {}
func (l *recordingLogger) Warn(string, ...any)  {}
func (l *recordingLogger) Error(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func TestPanelTransitions(t *testing.T) {
	analyzer := &fakeAnalyzer{analysis: Analysis{Summary: "ok", RiskLevel: "Low"}}
	logger := &recordingLogger{}
	panel := NewPanel(analyzer, logger)
	assert.Equal(t, Idle, panel.State())

	require.True(t, panel.Run(context.Background(), nil))
	assert.Equal(t, Ready, panel.State())
	got, ok := panel.Analysis()
	require.True(t, ok)
	assert.Equal(t, "ok", got.Summary)

	analyzer.err = errors.New("network down")
	assert.False(t, panel.Run(context.Background(), nil))
	assert.Equal(t, Idle, panel.State())
	_, ok = panel.Analysis()
	assert.False(t, ok)
	assert.Equal(t, []string{"AI analysis failed"}, logger.errors)
}

func TestPanelRejectsOverlappingRuns(t *testing.T) {
	analyzer := &fakeAnalyzer{analysis: Analysis{Summary: "ok", RiskLevel: "High"}, gate: make(chan struct{})}
	panel := NewPanel(analyzer, nil)

	done := make(chan bool)
	go func() { done <- panel.Run(context.Background(), nil) }()
	require.Eventually(t, func() bool { return panel.State() == Loading }, time.Second, 5*time.Millisecond)
	assert.False(t, panel.Run(context.Background(), nil))
	close(analyzer.gate)
	assert.True(t, <-done)
	assert.Equal(t, Ready, panel.State())
	assert.Equal(t, "loading", Loading.String())
}
