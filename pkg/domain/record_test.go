package domain

import (
	"encoding/json"
	"testing"
)

func TestPatientRecordCompleted(t *testing.T) {
	pending := PatientRecord{ID: "p"}
	if pending.Completed() {
		t.Fatalf("record without outcome must be pending")
	}
	done := PatientRecord{ID: "d", Outcome: OutcomePtr(OutcomeUnfit)}
	if !done.Completed() {
		t.Fatalf("record with outcome must be complete")
	}
}

func TestPatientRecordCloneIsDeep(t *testing.T) {
	original := PatientRecord{
		ID:       "r1",
		Symptoms: []Symptom{SymptomFever},
		Outcome:  OutcomePtr(OutcomeFit),
		PhysicalExam: &PhysicalExam{
			Anthropometry: Anthropometry{Weight: "70", Height: "175", BMI: "22.9"},
		},
		ChemicalHealthEffects: &ChemicalHealthEffects{Respiratory: []string{"Cough"}},
		TargetOrganTest:       []TargetOrganTestRow{{Test: "LFT"}},
	}
	cp := original.Clone()
	cp.Symptoms[0] = SymptomCough
	*cp.Outcome = OutcomeUnfit
	cp.PhysicalExam.Anthropometry.BMI = "0"
	cp.ChemicalHealthEffects.Respiratory[0] = "Sneezing"
	cp.TargetOrganTest[0].Test = "RFT"

	if original.Symptoms[0] != SymptomFever {
		t.Fatalf("symptoms shared with clone")
	}
	if *original.Outcome != OutcomeFit {
		t.Fatalf("outcome shared with clone")
	}
	if original.PhysicalExam.Anthropometry.BMI != "22.9" {
		t.Fatalf("physical exam shared with clone")
	}
	if original.ChemicalHealthEffects.Respiratory[0] != "Cough" {
		t.Fatalf("checklist shared with clone")
	}
	if original.TargetOrganTest[0].Test != "LFT" {
		t.Fatalf("target organ rows shared with clone")
	}
}

func TestPatientRecordJSONOmitsAbsentSections(t *testing.T) {
	raw, err := json.Marshal(PatientRecord{ID: "r1", PatientName: "Jane"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"outcome", "medicalHistory", "summaryRecord", "targetOrganTest", "externalReport"} {
		if _, ok := fields[key]; ok {
			t.Fatalf("expected %s to be omitted, got %s", key, raw)
		}
	}
	if fields["patientName"] != "Jane" {
		t.Fatalf("expected camelCase patientName, got %s", raw)
	}
}
