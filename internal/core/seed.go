package core

import (
	"context"
	"fmt"
	"time"

	"ohsurveil/pkg/domain"
)

// DemoCompanies are registered by SeedDemoData.
func DemoCompanies() []Company {
	return []Company{
		{ID: "c1", Name: "Global Manufacturing Ltd", SSMNumber: "202101012345", ContactNumber: "03-8888-1234", Address: "No. 1, Industrial Park, Shah Alam, Selangor"},
		{ID: "c2", Name: "SafeTech Solutions", SSMNumber: "201905056789", ContactNumber: "03-7777-5678", Address: "Suite 10.02, Plaza Damansara, KL"},
	}
}

// DemoWorkers are registered by SeedDemoData, both against c1.
func DemoWorkers() []Worker {
	return []Worker{
		{
			ID: "w1", CompanyID: "c1", Name: "John Doe", Age: 45, Address: "Lot 102, Kampung Baru, KL",
			ICPassport: "850101-14-5555", Gender: "Male", MaritalStatus: domain.MaritalMarried, NoOfChildren: 3,
			Ethnicity: domain.EthnicityMalay, IsMalaysian: true, JobRole: "Welder",
			Hazards: []domain.Hazard{domain.HazardNoise, domain.HazardChemical},
		},
		{
			ID: "w2", CompanyID: "c1", Name: "Jane Smith", Age: 29, Address: "No. 4, Jalan SS2, PJ",
			ICPassport: "920202-10-6666", Gender: "Female", MaritalStatus: domain.MaritalSingle,
			Ethnicity: domain.EthnicityChinese, IsMalaysian: true, JobRole: "Operator",
			Hazards: []domain.Hazard{domain.HazardDust},
		},
	}
}

// SeedDemoData populates an empty registry with the demo companies, workers
// and one examination taken two hours before now. It reports whether
// anything was written.
func SeedDemoData(ctx context.Context, svc *Service) (bool, error) {
	if len(svc.ListCompanies()) > 0 || len(svc.ListWorkers()) > 0 || len(svc.ListRecords()) > 0 {
		return false, nil
	}
	for _, c := range DemoCompanies() {
		if _, _, err := svc.AddCompany(ctx, c); err != nil {
			return false, fmt.Errorf("seed company %s: %w", c.ID, err)
		}
	}
	for _, w := range DemoWorkers() {
		if _, _, err := svc.AddWorker(ctx, w); err != nil {
			return false, fmt.Errorf("seed worker %s: %w", w.ID, err)
		}
	}
	taken := svc.Now().Add(-2 * time.Hour)
	record := PatientRecord{
		ID:          "1",
		Timestamp:   taken,
		VisitDate:   domain.FormatDate(taken),
		PatientName: "John Doe",
		ContactInfo: "john.doe@email.com",
		Age:         45,
		Gender:      "Male",
		Temperature: 101.2,
		HeartRate:   88,
		OxygenLevel: 96,
		Symptoms:    []domain.Symptom{domain.SymptomFever, domain.SymptomCough},
		Severity:    domain.SeverityMedium,
		Notes:       "Patient reports persistent cough for 3 days.",
		Outcome:     domain.OutcomePtr(domain.OutcomeFitConditional),
		CompanyName: "Global Manufacturing Ltd",
	}
	if _, _, _, err := svc.UpsertRecord(ctx, record); err != nil {
		return false, fmt.Errorf("seed record: %w", err)
	}
	svc.logger.Info("seeded demo registry", "companies", 2, "workers", 2, "records", 1)
	return true, nil
}
