package wizard

import "fmt"

// Step is one section of the examination form, numbered 1 through 14.
type Step int

const (
	StepWorkerSelection Step = iota + 1
	StepMedicalHistory
	StepPersonalSocialHistory
	StepOccupationalHistory
	StepTrainingAndHealthEffects
	StepPhysicalExam
	StepOrganSystems
	StepTargetOrganTests
	StepBiologicalMonitoring
	StepFitnessDetermination
	StepRespiratorFitness
	StepMSConclusion
	StepEmployerRecommendation
	StepSummaryRecord
)

// FirstStep and LastStep bound the form.
const (
	FirstStep = StepWorkerSelection
	LastStep  = StepSummaryRecord
)

var stepTitles = map[Step]string{
	StepWorkerSelection:          "Worker Selection",
	StepMedicalHistory:           "Medical History",
	StepPersonalSocialHistory:    "Personal & Social History",
	StepOccupationalHistory:      "Occupational History",
	StepTrainingAndHealthEffects: "Training & Health Effects",
	StepPhysicalExam:             "Physical Examination",
	StepOrganSystems:             "Organ Systems",
	StepTargetOrganTests:         "Target Organ Function Tests",
	StepBiologicalMonitoring:     "Biological Monitoring",
	StepFitnessDetermination:     "Fitness Determination",
	StepRespiratorFitness:        "Fitness to Wear Respirator",
	StepMSConclusion:             "Conclusion of MS Findings",
	StepEmployerRecommendation:   "Recommendation to Employer",
	StepSummaryRecord:            "Summary Record of Employee",
}

// Valid reports whether s names a form step.
func (s Step) Valid() bool { return s >= FirstStep && s <= LastStep }

func (s Step) String() string {
	if title, ok := stepTitles[s]; ok {
		return title
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

// Steps lists every step in order.
func Steps() []Step {
	out := make([]Step, 0, int(LastStep))
	for s := FirstStep; s <= LastStep; s++ {
		out = append(out, s)
	}
	return out
}
