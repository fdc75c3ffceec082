package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ohsurveil/pkg/domain"
)

type stubView struct {
	companies []Company
	workers   []Worker
}

func (v stubView) ListRecords() []PatientRecord            { return nil }
func (v stubView) ListCompanies() []Company                { return v.companies }
func (v stubView) ListWorkers() []Worker                   { return v.workers }
func (v stubView) FindRecord(string) (PatientRecord, bool) { return PatientRecord{}, false }
func (v stubView) FindCompany(string) (Company, bool)      { return Company{}, false }
func (v stubView) FindWorker(string) (Worker, bool)        { return Worker{}, false }

func TestDefaultRulesEngineOrder(t *testing.T) {
	var names []string
	for _, r := range NewDefaultRulesEngine().Rules() {
		names = append(names, r.Name())
	}
	assert.Equal(t, []string{"worker_count_consistency", "record_identity", "vitals_alert"}, names)
}

func TestWorkerCountRuleBlocksDrift(t *testing.T) {
	view := stubView{
		companies: []Company{{ID: "c1", Name: "Acme", WorkerCount: 1}, {ID: "c2", Name: "Beta", WorkerCount: 0}},
		workers:   []Worker{{ID: "w1", CompanyID: "c1"}, {ID: "w2", CompanyID: "c1"}, {ID: "w3", CompanyID: "nowhere"}},
	}
	res, err := NewWorkerCountRule().Evaluate(context.Background(), view, nil)
	require.NoError(t, err)
	require.Len(t, res.Violations, 1)
	assert.Equal(t, "c1", res.Violations[0].EntityID)
	assert.True(t, res.HasBlocking())
	assert.Contains(t, res.Violations[0].Message, "records 1 workers but 2 are registered")
}

func TestRecordIdentityRule(t *testing.T) {
	changes := []Change{
		{Entity: domain.EntityRecord, Action: domain.ActionCreate, After: PatientRecord{ID: "", Timestamp: time.Now()}},
		{Entity: domain.EntityRecord, Action: domain.ActionCreate, After: PatientRecord{ID: "r2"}},
		{Entity: domain.EntityRecord, Action: domain.ActionCreate, After: PatientRecord{ID: "r3", Timestamp: time.Now()}},
		{Entity: domain.EntityCompany, Action: domain.ActionCreate, After: Company{ID: "c1"}},
	}
	res, err := NewRecordIdentityRule().Evaluate(context.Background(), stubView{}, changes)
	require.NoError(t, err)
	require.Len(t, res.Violations, 2)
	assert.Equal(t, "record has no id", res.Violations[0].Message)
	assert.Equal(t, "r2", res.Violations[1].EntityID)
}

func TestRecordIdentityBlocksDirectStoreWrites(t *testing.T) {
	svc := NewInMemoryService(NewDefaultRulesEngine())
	_, err := svc.Store().RunInTransaction(context.Background(), func(tx Transaction) error {
		_, _, err := tx.UpsertRecord(PatientRecord{ID: "r1", OxygenLevel: 98})
		return err
	})
	var violation domain.RuleViolationError
	require.ErrorAs(t, err, &violation)
	assert.Empty(t, svc.ListRecords())
}

func TestAlertReasons(t *testing.T) {
	assert.Empty(t, AlertReasons(PatientRecord{Temperature: 100.3, OxygenLevel: 94, Severity: domain.SeverityMedium}))
	assert.Equal(t, []string{"high temperature (100.4°F)"}, AlertReasons(PatientRecord{Temperature: 100.4, OxygenLevel: 98}))
	assert.Equal(t, []string{"low oxygen (93%)", "critical severity"}, AlertReasons(PatientRecord{Temperature: 98.6, OxygenLevel: 93, Severity: domain.SeverityCritical}))
}
