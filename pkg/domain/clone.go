package domain

// Clone returns a deep copy of the record so callers can mutate it freely.
func (r PatientRecord) Clone() PatientRecord {
	cp := r
	cp.Symptoms = cloneSlice(r.Symptoms)
	cp.Hazards = cloneSlice(r.Hazards)
	cp.Outcome = clonePtr(r.Outcome)
	cp.ExternalReport = clonePtr(r.ExternalReport)
	cp.MedicalHistory = clonePtr(r.MedicalHistory)
	cp.PersonalHistory = clonePtr(r.PersonalHistory)
	cp.FamilyOtherHistory = clonePtr(r.FamilyOtherHistory)
	cp.OccupationalHistory = clonePtr(r.OccupationalHistory)
	cp.TrainingHistory = clonePtr(r.TrainingHistory)
	if r.ChemicalHealthEffects != nil {
		effects := r.ChemicalHealthEffects.Clone()
		cp.ChemicalHealthEffects = &effects
	}
	cp.PhysicalExam = clonePtr(r.PhysicalExam)
	cp.OrganSystems = clonePtr(r.OrganSystems)
	cp.TargetOrganTest = cloneSlice(r.TargetOrganTest)
	cp.BiologicalMonitoring = cloneSlice(r.BiologicalMonitoring)
	cp.RespiratorFitness = clonePtr(r.RespiratorFitness)
	cp.MSConclusion = clonePtr(r.MSConclusion)
	cp.Recommendation = clonePtr(r.Recommendation)
	cp.SummaryRecord = clonePtr(r.SummaryRecord)
	return cp
}

// Clone returns a deep copy of the checklist.
func (c ChemicalHealthEffects) Clone() ChemicalHealthEffects {
	cp := c
	cp.Respiratory = cloneSlice(c.Respiratory)
	cp.CNS = cloneSlice(c.CNS)
	cp.SkinEyes = cloneSlice(c.SkinEyes)
	return cp
}

// Clone returns a deep copy of the worker.
func (w Worker) Clone() Worker {
	cp := w
	cp.Hazards = cloneSlice(w.Hazards)
	return cp
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
