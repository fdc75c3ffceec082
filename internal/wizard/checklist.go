package wizard

import (
	"fmt"
	"slices"
)

// Checklist names one category of the chemical health-effects checklist.
type Checklist string

const (
	ChecklistRespiratory Checklist = "respiratory"
	ChecklistCNS         Checklist = "cns"
	ChecklistSkinEyes    Checklist = "skinEyes"
)

var checklistOptions = map[Checklist][]string{
	ChecklistRespiratory: {"Breathing discomfort or difficulty", "Cough", "Sore throat", "Sneezing"},
	ChecklistCNS:         {"Drowsiness", "Dizziness", "Headache", "Confusion/Lethargy", "Nausea and Vomiting"},
	ChecklistSkinEyes:    {"Eyes irritations", "Blurred Vision", "Blisters", "Burns", "Itching", "Rash and Redness"},
}

// Checklists lists the categories in display order.
func Checklists() []Checklist {
	return []Checklist{ChecklistRespiratory, ChecklistCNS, ChecklistSkinEyes}
}

// ChecklistOptions returns the labels offered for category c.
func ChecklistOptions(c Checklist) ([]string, error) {
	opts, ok := checklistOptions[c]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChecklist, c)
	}
	return slices.Clone(opts), nil
}

func (d *Draft) checklist(c Checklist) (*[]string, error) {
	switch c {
	case ChecklistRespiratory:
		return &d.ChemicalHealthEffects.Respiratory, nil
	case ChecklistCNS:
		return &d.ChemicalHealthEffects.CNS, nil
	case ChecklistSkinEyes:
		return &d.ChemicalHealthEffects.SkinEyes, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownChecklist, c)
}

// toggle removes label when present, otherwise appends it. Labels are free
// text; the canonical options are not enforced.
func toggle(list []string, label string) []string {
	if i := slices.Index(list, label); i >= 0 {
		return slices.Delete(slices.Clone(list), i, i+1)
	}
	return append(slices.Clone(list), label)
}
