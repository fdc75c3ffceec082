package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ohsurveil/internal/app"
	"ohsurveil/internal/wizard"
	"ohsurveil/pkg/domain"
)

type examFlags struct {
	worker, edit             string
	weight, height, bp       string
	temperature              float64
	heartRate, oxygen        int
	severity, outcome, notes string
	chemical                 string
	symptoms, effects        []string
}

func examCmd(run appRunner) *cobra.Command {
	var f examFlags
	cmd := &cobra.Command{
		Use:   "exam",
		Short: "Record a medical surveillance examination",
		Long: "Walks the 14-step examination form non-interactively. --worker picks a registered " +
			"worker (or a free-text name); --edit reopens an existing record instead.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (f.worker == "") == (f.edit == "") {
				return errors.New("exactly one of --worker or --edit is required")
			}
			return run(cmd, func(a *app.App) error {
				w := a.NewExamination()
				if f.edit != "" {
					var err error
					if w, err = a.EditExamination(f.edit); err != nil {
						return err
					}
				} else {
					w.SelectWorker(f.worker)
				}
				if err := applyExamFlags(cmd, w, f); err != nil {
					return err
				}
				for w.Step() < wizard.LastStep {
					if err := w.Advance(); err != nil {
						return err
					}
				}
				saved, err := w.Submit(cmd.Context())
				if err != nil {
					return err
				}
				bmi := ""
				if saved.PhysicalExam != nil {
					bmi = saved.PhysicalExam.Anthropometry.BMI
				}
				fmt.Fprintf(cmd.OutOrStdout(), "saved %s %s (%s) BMI %s\n", saved.ID, saved.PatientName, status(saved), orDash(bmi))
				return nil
			})
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.worker, "worker", "", "worker name")
	fl.StringVar(&f.edit, "edit", "", "id of the record to edit")
	fl.StringVar(&f.weight, "weight", "", "weight in kg")
	fl.StringVar(&f.height, "height", "", "height in cm")
	fl.StringVar(&f.bp, "bp", "", "blood pressure")
	fl.Float64Var(&f.temperature, "temperature", 0, "temperature in °F")
	fl.IntVar(&f.heartRate, "heart-rate", 0, "heart rate in bpm")
	fl.IntVar(&f.oxygen, "oxygen", 0, "oxygen saturation in %")
	fl.StringVar(&f.severity, "severity", "", "Low, Medium, High or Critical")
	fl.StringVar(&f.outcome, "outcome", "", `Fit, Unfit, "Fit with Conditions" or pending`)
	fl.StringVar(&f.notes, "notes", "", "clinical notes")
	fl.StringVar(&f.chemical, "chemical", "", "chemical name for the summary record")
	fl.StringSliceVar(&f.symptoms, "symptom", nil, "presenting symptom (repeatable)")
	fl.StringSliceVar(&f.effects, "effect", nil, "health effect as category:label, e.g. cns:Headache (repeatable)")
	return cmd
}

func applyExamFlags(cmd *cobra.Command, w *wizard.Wizard, f examFlags) error {
	changed := cmd.Flags().Changed
	var outcome *domain.Outcome
	if changed("outcome") {
		switch {
		case strings.EqualFold(f.outcome, "pending"):
		case f.outcome == string(domain.OutcomeFit), f.outcome == string(domain.OutcomeUnfit), f.outcome == string(domain.OutcomeFitConditional):
			outcome = domain.OutcomePtr(domain.Outcome(f.outcome))
		default:
			return fmt.Errorf("unknown outcome %q", f.outcome)
		}
	}
	w.Update(func(d *wizard.Draft) {
		if changed("weight") {
			d.PhysicalExam.Anthropometry.Weight = f.weight
		}
		if changed("height") {
			d.PhysicalExam.Anthropometry.Height = f.height
		}
		if changed("bp") {
			d.PhysicalExam.VitalSigns.BloodPressure = f.bp
		}
		if changed("temperature") {
			d.Temperature = f.temperature
		}
		if changed("heart-rate") {
			d.HeartRate = f.heartRate
		}
		if changed("oxygen") {
			d.OxygenLevel = f.oxygen
		}
		if changed("severity") {
			d.Severity = domain.Severity(f.severity)
		}
		if changed("outcome") {
			d.Outcome = outcome
		}
		if changed("notes") {
			d.Notes = f.notes
		}
		if changed("chemical") {
			d.SummaryRecord.ChemicalName = f.chemical
		}
		for _, s := range f.symptoms {
			d.Symptoms = append(d.Symptoms, domain.Symptom(s))
		}
	})
	for _, effect := range f.effects {
		category, label, ok := strings.Cut(effect, ":")
		if !ok {
			return fmt.Errorf("effect %q: want category:label", effect)
		}
		if err := w.ToggleChecklist(wizard.Checklist(category), label); err != nil {
			return err
		}
	}
	return nil
}
