// Package domain defines the persistent entities, value types, and rule
// evaluation primitives used by ohsurveil.
package domain

import (
	"fmt"
	"time"
)

// EntityType identifies the type of record stored in the registry.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityRecord identifies a medical examination record.
	EntityRecord EntityType = "record"
	// EntityCompany identifies an employer company.
	EntityCompany EntityType = "company"
	// EntityWorker identifies a registered worker.
	EntityWorker EntityType = "worker"
)

// UserRole selects the navigation surface shown to a signed-in user.
type UserRole string

// Known user roles.
const (
	RoleAdmin     UserRole = "Admin"
	RoleClinician UserRole = "Clinician"
	RoleCompanyHR UserRole = "Company HR"
)

// Hazard enumerates workplace exposure categories.
type Hazard string

// Known hazards.
const (
	HazardNoise      Hazard = "Noise"
	HazardChemical   Hazard = "Chemical"
	HazardDust       Hazard = "Dust"
	HazardErgonomic  Hazard = "Ergonomic"
	HazardBiological Hazard = "Biological"
)

// Outcome is the fitness-to-work determination of an examination.
type Outcome string

// Fitness outcomes. A record without an outcome is pending.
const (
	OutcomeFit            Outcome = "Fit"
	OutcomeUnfit          Outcome = "Unfit"
	OutcomeFitConditional Outcome = "Fit with Conditions"
)

// Ethnicity of a worker as captured on registration.
type Ethnicity string

// Known ethnicities.
const (
	EthnicityMalay   Ethnicity = "Malay"
	EthnicityIndian  Ethnicity = "Indian"
	EthnicityChinese Ethnicity = "Chinese"
	EthnicityOthers  Ethnicity = "Others"
)

// MaritalStatus of a worker.
type MaritalStatus string

// Known marital statuses.
const (
	MaritalSingle   MaritalStatus = "Single"
	MaritalMarried  MaritalStatus = "Married"
	MaritalDivorced MaritalStatus = "Divorced"
	MaritalWidowed  MaritalStatus = "Widowed"
)

// SmokingStatus is recorded in the personal and social history section.
type SmokingStatus string

// Known smoking statuses.
const (
	SmokingCurrent SmokingStatus = "Current smoker"
	SmokingEx      SmokingStatus = "Ex-Smoker"
	SmokingNon     SmokingStatus = "Non-smoker"
)

// Symptom is a presenting complaint tracked for trend analysis.
type Symptom string

// Known symptoms.
const (
	SymptomFever          Symptom = "Fever"
	SymptomCough          Symptom = "Cough"
	SymptomFatigue        Symptom = "Fatigue"
	SymptomBreathlessness Symptom = "Shortness of breath"
	SymptomBodyAche       Symptom = "Muscle aches"
	SymptomHeadache       Symptom = "Headache"
	SymptomSoreThroat     Symptom = "Sore throat"
	SymptomNausea         Symptom = "Nausea"
	SymptomRash           Symptom = "Skin Rash"
)

// Severity is the clinician's triage grading of a visit.
type Severity string

// Clinical severities.
const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// Company is an employer whose workers undergo surveillance.
type Company struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	SSMNumber     string `json:"ssmNumber"`
	ContactNumber string `json:"contactNumber"`
	Address       string `json:"address"`
	WorkerCount   int    `json:"workerCount"`
}

// Worker is an employee registered against a company. CompanyName is a
// snapshot taken at registration and is never re-synced.
type Worker struct {
	ID              string        `json:"id"`
	CompanyID       string        `json:"companyId"`
	CompanyName     string        `json:"companyName"`
	Name            string        `json:"name"`
	Age             int           `json:"age"`
	Address         string        `json:"address"`
	ICPassport      string        `json:"icPassport"`
	Gender          string        `json:"gender"`
	MaritalStatus   MaritalStatus `json:"maritalStatus"`
	NoOfChildren    int           `json:"noOfChildren"`
	Ethnicity       Ethnicity     `json:"ethnicity"`
	EthnicityOthers string        `json:"ethnicityOthers,omitempty"`
	IsMalaysian     bool          `json:"isMalaysian"`
	JobRole         string        `json:"jobRole"`
	Hazards         []Hazard      `json:"hazards"`
}

// UnassignedCompany is the company name given to workers whose company id
// does not resolve.
const UnassignedCompany = "Unassigned"

// User is the signed-in operator.
type User struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	Role      UserRole `json:"role"`
	Name      string   `json:"name"`
	CompanyID string   `json:"companyId,omitempty"`
}

// ClinicSettings carries the clinic identity printed on certificates.
type ClinicSettings struct {
	ClinicName string `json:"clinicName"`
	DoctorName string `json:"doctorName"`
}

// RuleSeverity captures rule outcomes.
type RuleSeverity string

// Rule severities.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock RuleSeverity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn RuleSeverity = "warn"
	SeverityLog  RuleSeverity = "log"
)

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions captured by transactions. Records are never deleted.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity RuleSeverity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	for _, v := range e.Result.Violations {
		if v.Severity == SeverityBlock {
			return fmt.Sprintf("transaction blocked by rule %s: %s", v.Rule, v.Message)
		}
	}
	return "transaction blocked by rules"
}

// ErrNotFound reports a lookup or update against an id that does not exist.
type ErrNotFound struct {
	Entity EntityType
	ID     string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// DateLayout is the calendar-date format used by visit and certificate dates.
const DateLayout = "2006-01-02"

// FormatDate renders t as a calendar date in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
