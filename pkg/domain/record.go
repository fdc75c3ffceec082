package domain

import "time"

// PatientRecord is a finalized medical surveillance examination. Every
// nested section is optional; a record without an Outcome is pending.
type PatientRecord struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	VisitDate   string    `json:"visitDate"`
	PatientName string    `json:"patientName"`
	ContactInfo string    `json:"contactInfo"`
	Age         int       `json:"age"`
	Gender      string    `json:"gender"`
	Temperature float64   `json:"temperature"`
	HeartRate   int       `json:"heartRate"`
	OxygenLevel int       `json:"oxygenLevel"`
	Symptoms    []Symptom `json:"symptoms"`
	Severity    Severity  `json:"severity"`
	Notes       string    `json:"notes"`
	Outcome     *Outcome  `json:"outcome,omitempty"`

	CompanyName    string   `json:"companyName,omitempty"`
	ICPassport     string   `json:"icPassport,omitempty"`
	CompanyAddress string   `json:"companyAddress,omitempty"`
	Hazards        []Hazard `json:"hazards,omitempty"`

	ExternalReport *ExternalReport `json:"externalReport,omitempty"`

	MedicalHistory        *MedicalHistory        `json:"medicalHistory,omitempty"`
	PersonalHistory       *PersonalHistory       `json:"personalHistory,omitempty"`
	FamilyOtherHistory    *FamilyOtherHistory    `json:"familyOtherHistory,omitempty"`
	OccupationalHistory   *OccupationalHistory   `json:"occupationalHistory,omitempty"`
	TrainingHistory       *TrainingHistory       `json:"trainingHistory,omitempty"`
	ChemicalHealthEffects *ChemicalHealthEffects `json:"chemicalHealthEffects,omitempty"`
	PhysicalExam          *PhysicalExam          `json:"physicalExam,omitempty"`
	OrganSystems          *OrganSystems          `json:"organSystems,omitempty"`
	TargetOrganTest       []TargetOrganTestRow   `json:"targetOrganTest,omitempty"`
	BiologicalMonitoring  []BiologicalMonitorRow `json:"biologicalMonitoring,omitempty"`
	RespiratorFitness     *RespiratorFitness     `json:"respiratorFitness,omitempty"`
	MSConclusion          *MSConclusion          `json:"msConclusion,omitempty"`
	Recommendation        *Recommendation        `json:"recommendation,omitempty"`
	SummaryRecord         *SummaryRecord         `json:"summaryRecord,omitempty"`
}

// Completed reports whether a fitness outcome has been determined.
func (r PatientRecord) Completed() bool { return r.Outcome != nil }

// OutcomePtr returns a pointer to o for populating PatientRecord.Outcome.
func OutcomePtr(o Outcome) *Outcome { return &o }

// ExternalReport references a file attached to a record after the exam.
type ExternalReport struct {
	FileName   string `json:"fileName"`
	FileURL    string `json:"fileUrl"`
	UploadDate string `json:"uploadDate"`
}

// MedicalHistory is wizard step 2.
type MedicalHistory struct {
	HasDisease        string `json:"hasDisease"`
	DiseaseDetails    string `json:"diseaseDetails"`
	OnMedication      string `json:"onMedication"`
	MedicationDetails string `json:"medicationDetails"`
	Hospitalized      string `json:"hospitalized"`
	HospitalDetails   string `json:"hospitalDetails"`
}

// PersonalHistory is the personal and social part of wizard step 3.
type PersonalHistory struct {
	Smoking          SmokingStatus `json:"smoking"`
	SmokingYears     string        `json:"smokingYears"`
	SmokingQty       string        `json:"smokingQty"`
	Vaping           string        `json:"vaping"`
	VapingYears      string        `json:"vapingYears"`
	Alcohol          string        `json:"alcohol"`
	AlcoholFrequency string        `json:"alcoholFrequency"`
	SocialNotes      string        `json:"socialNotes"`
}

// FamilyOtherHistory is the family part of wizard step 3.
type FamilyOtherHistory struct {
	FamilyHistory string `json:"familyHistory"`
	OtherHistory  string `json:"otherHistory"`
}

// OccupationalHistory is wizard step 4.
type OccupationalHistory struct {
	JobTitle             string `json:"jobTitle"`
	CompanyName          string `json:"companyName"`
	DurationEmployment   string `json:"durationEmployment"`
	DurationExposureCHTH string `json:"durationExposureCHTH"`
	IncidentExposure     string `json:"incidentExposure"`
	IncidentDetails      string `json:"incidentDetails"`
}

// TrainingItem is a yes/no answer with free-text notes.
type TrainingItem struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// TrainingHistory records chemical-handling training received.
type TrainingHistory struct {
	SafeHandling       TrainingItem `json:"safeHandling"`
	RecognizeSigns     TrainingItem `json:"recognizeSigns"`
	PoisoningSigns     TrainingItem `json:"poisoningSigns"`
	PPEUsage           TrainingItem `json:"ppeUsage"`
	UsePPEWhenHandling TrainingItem `json:"usePPEWhenHandling"`
}

// OtherHealthEffect is the free-text tail of the health-effects checklist.
type OtherHealthEffect struct {
	Details string `json:"details"`
	Notes   string `json:"notes"`
}

// ChemicalHealthEffects is the symptom checklist of wizard step 5. Each list
// holds checked labels in the order they were ticked.
type ChemicalHealthEffects struct {
	Respiratory          []string          `json:"respiratory"`
	CNS                  []string          `json:"cns"`
	SkinEyes             []string          `json:"skinEyes"`
	Other                OtherHealthEffect `json:"other"`
	CurrentHealthEffects string            `json:"currentHealthEffects"`
}

// Anthropometry holds body measurements as entered. Weight is kg, height cm.
type Anthropometry struct {
	Weight string `json:"weight"`
	Height string `json:"height"`
	BMI    string `json:"bmi"`
}

// VitalSigns as entered during the physical exam.
type VitalSigns struct {
	BloodPressure   string `json:"bloodPressure"`
	PulseRate       string `json:"pulseRate"`
	RespiratoryRate string `json:"respiratoryRate"`
}

// PhysicalExam is wizard step 6.
type PhysicalExam struct {
	Anthropometry     Anthropometry `json:"anthropometry"`
	VitalSigns        VitalSigns    `json:"vitalSigns"`
	GeneralAppearance string        `json:"generalAppearance"`
}

// OrganSystems is wizard step 7.
type OrganSystems struct {
	Cardiovascular    string `json:"cardiovascular"`
	ENT               string `json:"ent"`
	Eyes              string `json:"eyes"`
	Gastrointestinal  string `json:"gastrointestinal"`
	Haematology       string `json:"haematology"`
	Kidney            string `json:"kidney"`
	Liver             string `json:"liver"`
	Musculoskeletal   string `json:"musculoskeletal"`
	NervousCentral    string `json:"nervousCentral"`
	NervousPeripheral string `json:"nervousPeripheral"`
	Reproductive      string `json:"reproductive"`
	Skin              string `json:"skin"`
	Others            string `json:"others"`
}

// TargetOrganTestRow is one row of the target-organ function test table.
type TargetOrganTestRow struct {
	Test     string `json:"test"`
	Findings string `json:"findings"`
	Comments string `json:"comments"`
}

// BiologicalMonitorRow is one row of the biological monitoring table.
type BiologicalMonitorRow struct {
	Determinant string `json:"determinant"`
	Result      string `json:"result"`
}

// RespiratorFitness is wizard step 11.
type RespiratorFitness struct {
	Status        string `json:"status"`
	Justification string `json:"justification"`
}

// MSConclusion is the conclusion of medical surveillance findings.
type MSConclusion struct {
	HistoryChemicalExposure      string `json:"historyChemicalExposure"`
	HistoryChemicalExposureNotes string `json:"historyChemicalExposureNotes,omitempty"`
	ClinicalFindings             string `json:"clinicalFindings"`
	ClinicalFindingsNotes        string `json:"clinicalFindingsNotes,omitempty"`
	TargetOrganResults           string `json:"targetOrganResults"`
	TargetOrganNotes             string `json:"targetOrganNotes"`
	BEIResults                   string `json:"beiResults"`
	BEINotes                     string `json:"beiNotes"`
	PregnancyStatus              string `json:"pregnancyStatus"`
	FitnessToWork                string `json:"fitnessToWork"`
}

// Recommendation is the note to the employer with the examining doctor's details.
type Recommendation struct {
	NotesToEmployer string `json:"notesToEmployer"`
	OHDName         string `json:"ohdName"`
	ClinicName      string `json:"clinicName"`
	MMCNo           string `json:"mmcNo"`
	DOSHNo          string `json:"doshNo"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	Date            string `json:"date"`
}

// SummaryRecord is the summary record of employee (wizard step 14).
type SummaryRecord struct {
	WorkerName        string `json:"workerName"`
	ChemicalName      string `json:"chemicalName"`
	MSDate            string `json:"msDate"`
	HealthEffectsCHTH string `json:"healthEffectsCHTH"`
	TargetOrgan       string `json:"targetOrgan"`
	BEIDeterminant    string `json:"beiDeterminant"`
	WorkRelatedness   string `json:"workRelatedness"`
	Conclusion        string `json:"conclusion"`
	MRPDate           string `json:"mrpDate"`
	OHDDoshReg        string `json:"ohdDoshReg"`
}
