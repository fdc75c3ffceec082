package wizard

import (
	"slices"
	"time"

	"dario.cat/mergo"

	"ohsurveil/pkg/domain"
)

// Draft is the working copy edited by the wizard. Unlike PatientRecord every
// section is present; NewDraft fills them with form defaults.
type Draft struct {
	PatientName    string
	CompanyName    string
	ICPassport     string
	CompanyAddress string
	VisitDate      string
	ContactInfo    string
	Age            int
	Gender         string
	Temperature    float64
	HeartRate      int
	OxygenLevel    int
	Symptoms       []domain.Symptom
	Severity       domain.Severity
	Notes          string
	Outcome        *domain.Outcome // nil leaves the record pending
	Hazards        []domain.Hazard

	ExternalReport *domain.ExternalReport

	MedicalHistory        domain.MedicalHistory
	PersonalHistory       domain.PersonalHistory
	FamilyOtherHistory    domain.FamilyOtherHistory
	OccupationalHistory   domain.OccupationalHistory
	TrainingHistory       domain.TrainingHistory
	ChemicalHealthEffects domain.ChemicalHealthEffects
	PhysicalExam          domain.PhysicalExam
	OrganSystems          domain.OrganSystems
	TargetOrganTest       []domain.TargetOrganTestRow
	BiologicalMonitoring  []domain.BiologicalMonitorRow
	RespiratorFitness     domain.RespiratorFitness
	MSConclusion          domain.MSConclusion
	Recommendation        domain.Recommendation
	SummaryRecord         domain.SummaryRecord
}

const (
	answerNo  = "No"
	answerFit = "Fit"
)

func defaultMedicalHistory() domain.MedicalHistory {
	return domain.MedicalHistory{HasDisease: answerNo, OnMedication: answerNo, Hospitalized: answerNo}
}

func defaultPersonalHistory() domain.PersonalHistory {
	return domain.PersonalHistory{Smoking: domain.SmokingNon, Vaping: answerNo, Alcohol: answerNo}
}

func defaultOccupationalHistory() domain.OccupationalHistory {
	return domain.OccupationalHistory{IncidentExposure: answerNo}
}

func defaultTrainingHistory() domain.TrainingHistory {
	no := domain.TrainingItem{Status: answerNo}
	return domain.TrainingHistory{SafeHandling: no, RecognizeSigns: no, PoisoningSigns: no, PPEUsage: no, UsePPEWhenHandling: no}
}

func defaultHealthEffects() domain.ChemicalHealthEffects {
	return domain.ChemicalHealthEffects{Respiratory: []string{}, CNS: []string{}, SkinEyes: []string{}}
}

func defaultMSConclusion() domain.MSConclusion {
	return domain.MSConclusion{
		HistoryChemicalExposure: answerNo,
		ClinicalFindings:        answerNo,
		TargetOrganResults:      answerNo,
		BEIResults:              answerNo,
		PregnancyStatus:         answerNo,
		FitnessToWork:           answerFit,
	}
}

func defaultRecommendation(today string) domain.Recommendation {
	return domain.Recommendation{Date: today}
}

func defaultSummaryRecord(today, workerName string) domain.SummaryRecord {
	return domain.SummaryRecord{WorkerName: workerName, MSDate: today, WorkRelatedness: answerNo, Conclusion: answerFit}
}

// NewDraft returns the blank examination template. Dates default to the
// calendar day of now.
func NewDraft(now time.Time) Draft {
	today := domain.FormatDate(now)
	return Draft{
		VisitDate:             today,
		Age:                   30,
		Gender:                "Male",
		Temperature:           98.6,
		HeartRate:             72,
		OxygenLevel:           98,
		Symptoms:              []domain.Symptom{},
		Severity:              domain.SeverityLow,
		Outcome:               domain.OutcomePtr(domain.OutcomeFit),
		Hazards:               []domain.Hazard{},
		MedicalHistory:        defaultMedicalHistory(),
		PersonalHistory:       defaultPersonalHistory(),
		OccupationalHistory:   defaultOccupationalHistory(),
		TrainingHistory:       defaultTrainingHistory(),
		ChemicalHealthEffects: defaultHealthEffects(),
		TargetOrganTest:       []domain.TargetOrganTestRow{{}},
		BiologicalMonitoring:  []domain.BiologicalMonitorRow{{}},
		RespiratorFitness:     domain.RespiratorFitness{Status: answerFit},
		MSConclusion:          defaultMSConclusion(),
		Recommendation:        defaultRecommendation(today),
		SummaryRecord:         defaultSummaryRecord(today, ""),
	}
}

// overlay copies the non-zero fields of a stored section onto its default.
// An absent section yields the default unchanged.
func overlay[T any](stored *T, def T) T {
	if stored == nil {
		return def
	}
	if err := mergo.Merge(&def, *stored, mergo.WithOverride); err != nil {
		return *stored
	}
	return def
}

// HydrateDraft overlays a stored record onto the defaults for editing. Each
// optional section is merged field by field over its default, and an absent
// section falls back to the default as a whole; an absent
// summary record is seeded with the patient name. An absent outcome keeps
// the default.
func HydrateDraft(r domain.PatientRecord, now time.Time) Draft {
	r = r.Clone()
	d := NewDraft(now)
	d.PatientName = r.PatientName
	d.CompanyName = r.CompanyName
	d.ICPassport = r.ICPassport
	d.CompanyAddress = r.CompanyAddress
	d.VisitDate = r.VisitDate
	d.ContactInfo = r.ContactInfo
	d.Age = r.Age
	d.Gender = r.Gender
	d.Temperature = r.Temperature
	d.HeartRate = r.HeartRate
	d.OxygenLevel = r.OxygenLevel
	if r.Symptoms != nil {
		d.Symptoms = r.Symptoms
	}
	d.Severity = r.Severity
	d.Notes = r.Notes
	if r.Outcome != nil {
		d.Outcome = r.Outcome
	}
	if r.Hazards != nil {
		d.Hazards = r.Hazards
	}
	d.ExternalReport = r.ExternalReport

	d.MedicalHistory = overlay(r.MedicalHistory, d.MedicalHistory)
	d.PersonalHistory = overlay(r.PersonalHistory, d.PersonalHistory)
	d.FamilyOtherHistory = overlay(r.FamilyOtherHistory, d.FamilyOtherHistory)
	d.OccupationalHistory = overlay(r.OccupationalHistory, d.OccupationalHistory)
	d.TrainingHistory = overlay(r.TrainingHistory, d.TrainingHistory)
	d.ChemicalHealthEffects = overlay(r.ChemicalHealthEffects, d.ChemicalHealthEffects)
	d.PhysicalExam = overlay(r.PhysicalExam, d.PhysicalExam)
	d.OrganSystems = overlay(r.OrganSystems, d.OrganSystems)
	if r.TargetOrganTest != nil {
		d.TargetOrganTest = r.TargetOrganTest
	}
	if r.BiologicalMonitoring != nil {
		d.BiologicalMonitoring = r.BiologicalMonitoring
	}
	d.RespiratorFitness = overlay(r.RespiratorFitness, d.RespiratorFitness)
	d.MSConclusion = overlay(r.MSConclusion, d.MSConclusion)
	d.Recommendation = overlay(r.Recommendation, d.Recommendation)
	d.SummaryRecord = overlay(r.SummaryRecord, defaultSummaryRecord(domain.FormatDate(now), r.PatientName))
	return d
}

// Clone returns a deep copy of the draft.
func (d Draft) Clone() Draft {
	cp := d
	cp.Symptoms = slices.Clone(d.Symptoms)
	cp.Hazards = slices.Clone(d.Hazards)
	if d.Outcome != nil {
		cp.Outcome = domain.OutcomePtr(*d.Outcome)
	}
	if d.ExternalReport != nil {
		report := *d.ExternalReport
		cp.ExternalReport = &report
	}
	cp.ChemicalHealthEffects = d.ChemicalHealthEffects.Clone()
	cp.TargetOrganTest = slices.Clone(d.TargetOrganTest)
	cp.BiologicalMonitoring = slices.Clone(d.BiologicalMonitoring)
	return cp
}

// Record freezes the draft into a registry record with every section present.
func (d Draft) Record(id string, timestamp time.Time) domain.PatientRecord {
	d = d.Clone()
	return domain.PatientRecord{
		ID:                    id,
		Timestamp:             timestamp,
		VisitDate:             d.VisitDate,
		PatientName:           d.PatientName,
		ContactInfo:           d.ContactInfo,
		Age:                   d.Age,
		Gender:                d.Gender,
		Temperature:           d.Temperature,
		HeartRate:             d.HeartRate,
		OxygenLevel:           d.OxygenLevel,
		Symptoms:              d.Symptoms,
		Severity:              d.Severity,
		Notes:                 d.Notes,
		Outcome:               d.Outcome,
		CompanyName:           d.CompanyName,
		ICPassport:            d.ICPassport,
		CompanyAddress:        d.CompanyAddress,
		Hazards:               d.Hazards,
		ExternalReport:        d.ExternalReport,
		MedicalHistory:        &d.MedicalHistory,
		PersonalHistory:       &d.PersonalHistory,
		FamilyOtherHistory:    &d.FamilyOtherHistory,
		OccupationalHistory:   &d.OccupationalHistory,
		TrainingHistory:       &d.TrainingHistory,
		ChemicalHealthEffects: &d.ChemicalHealthEffects,
		PhysicalExam:          &d.PhysicalExam,
		OrganSystems:          &d.OrganSystems,
		TargetOrganTest:       d.TargetOrganTest,
		BiologicalMonitoring:  d.BiologicalMonitoring,
		RespiratorFitness:     &d.RespiratorFitness,
		MSConclusion:          &d.MSConclusion,
		Recommendation:        &d.Recommendation,
		SummaryRecord:         &d.SummaryRecord,
	}
}
