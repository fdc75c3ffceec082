// Package insights asks a Gemini-style generative model for a narrative risk
// summary of the registry and tracks the result in a small panel state
// machine.
package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"ohsurveil/internal/core"
	"ohsurveil/pkg/domain"
)

// Defaults for Config.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-3-flash-preview"
	DefaultTimeout = 60 * time.Second
)

var (
	// ErrNoAPIKey is returned by Analyze when no key is configured.
	ErrNoAPIKey = errors.New("insights: no api key configured")
	// ErrEmptyResponse means the model returned no candidate text.
	ErrEmptyResponse = errors.New("insights: empty model response")
	// ErrInvalidAnalysis means the candidate text did not match the schema.
	ErrInvalidAnalysis = errors.New("insights: invalid analysis")
)

// RiskLevels are the accepted overall risk grades.
var RiskLevels = []string{"Low", "Moderate", "High", "Critical"}

// Config configures the model endpoint.
type Config struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Sample is the de-identified view of one record sent to the model.
type Sample struct {
	Age         int              `json:"age"`
	Temperature float64          `json:"temperature"`
	OxygenLevel int              `json:"oxygenLevel"`
	Symptoms    []domain.Symptom `json:"symptoms"`
	Severity    domain.Severity  `json:"severity"`
}

// Finding is one notable observation.
type Finding struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ConcernLevel string `json:"concernLevel"`
}

// Analysis is the structured model answer.
type Analysis struct {
	Summary         string    `json:"summary"`
	RiskLevel       string    `json:"riskLevel"`
	Findings        []Finding `json:"findings"`
	Recommendations []string  `json:"recommendations"`
}

// Validate checks the fields marked required in the response schema.
func (a Analysis) Validate() error {
	if strings.TrimSpace(a.Summary) == "" {
		return fmt.Errorf("%w: missing summary", ErrInvalidAnalysis)
	}
	if !slices.Contains(RiskLevels, a.RiskLevel) {
		return fmt.Errorf("%w: risk level %q", ErrInvalidAnalysis, a.RiskLevel)
	}
	if a.Findings == nil {
		return fmt.Errorf("%w: missing findings", ErrInvalidAnalysis)
	}
	if a.Recommendations == nil {
		return fmt.Errorf("%w: missing recommendations", ErrInvalidAnalysis)
	}
	return nil
}

// Samples projects records onto the payload sent to the model.
func Samples(records []domain.PatientRecord) []Sample {
	out := make([]Sample, 0, len(records))
	for _, r := range records {
		symptoms := slices.Clone(r.Symptoms)
		if symptoms == nil {
			symptoms = []domain.Symptom{}
		}
		out = append(out, Sample{
			Age:         r.Age,
			Temperature: r.Temperature,
			OxygenLevel: r.OxygenLevel,
			Symptoms:    symptoms,
			Severity:    r.Severity,
		})
	}
	return out
}

// Client calls the generateContent endpoint. It never retries.
type Client struct {
	http   *resty.Client
	apiKey string
	model  string
	logger core.Logger
}

// NewClient builds a client; zero Config fields take the defaults.
func NewClient(cfg Config, logger core.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = core.NopLogger()
	}
	http := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &Client{http: http, apiKey: cfg.APIKey, model: cfg.Model, logger: logger}
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string         `json:"responseMimeType"`
	ResponseSchema   map[string]any `json:"responseSchema"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func responseSchema() map[string]any {
	str := map[string]any{"type": "STRING"}
	return map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"summary":   map[string]any{"type": "STRING", "description": "A brief summary of the current health landscape."},
			"riskLevel": map[string]any{"type": "STRING", "enum": RiskLevels, "description": "Overall public health risk level."},
			"findings": map[string]any{
				"type": "ARRAY",
				"items": map[string]any{
					"type": "OBJECT",
					"properties": map[string]any{
						"title":        str,
						"description":  str,
						"concernLevel": str,
					},
				},
			},
			"recommendations": map[string]any{"type": "ARRAY", "items": str},
		},
		"required": []string{"summary", "riskLevel", "findings", "recommendations"},
	}
}

func prompt(samples []Sample) (string, error) {
	data, err := json.Marshal(samples)
	if err != nil {
		return "", err
	}
	return "Analyze the following medical surveillance data for a clinic and identify any potential public health risks, " +
		"outbreaks, or concerning trends. Provide a structured response. Data: " + string(data), nil
}

// Analyze sends every record's sample and decodes the first candidate.
func (c *Client) Analyze(ctx context.Context, records []domain.PatientRecord) (Analysis, error) {
	if c.apiKey == "" {
		return Analysis{}, ErrNoAPIKey
	}
	text, err := prompt(Samples(records))
	if err != nil {
		return Analysis{}, fmt.Errorf("encode samples: %w", err)
	}
	body := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: text}}}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   responseSchema(),
		},
	}
	var out generateResponse
	var failure apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", c.apiKey).
		SetPathParam("model", c.model).
		SetBody(body).
		SetResult(&out).
		SetError(&failure).
		Post("/models/{model}:generateContent")
	if err != nil {
		return Analysis{}, fmt.Errorf("call model: %w", err)
	}
	if resp.IsError() {
		msg := failure.Error.Message
		if msg == "" {
			msg = strings.TrimSpace(resp.String())
		}
		return Analysis{}, fmt.Errorf("model returned %d: %s", resp.StatusCode(), msg)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return Analysis{}, ErrEmptyResponse
	}
	var analysis Analysis
	if err := json.Unmarshal([]byte(out.Candidates[0].Content.Parts[0].Text), &analysis); err != nil {
		return Analysis{}, fmt.Errorf("%w: %v", ErrInvalidAnalysis, err)
	}
	if err := analysis.Validate(); err != nil {
		return Analysis{}, err
	}
	c.logger.Info("analysis received", "model", c.model, "records", len(records), "risk", analysis.RiskLevel)
	return analysis, nil
}
