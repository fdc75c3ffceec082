package memory

import (
	"testing"

	"ohsurveil/pkg/domain"
)

func TestEncodeDecodeBucketsPreservesOrder(t *testing.T) {
	store := NewStore(nil)
	upsert(t, store, domain.PatientRecord{ID: "old", PatientName: "First"})
	upsert(t, store, domain.PatientRecord{ID: "new", PatientName: "Second", Outcome: domain.OutcomePtr(domain.OutcomeFit)})

	payloads, err := EncodeBuckets(store.ExportState())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(payloads) != len(Buckets) {
		t.Fatalf("expected %d buckets, got %d", len(Buckets), len(payloads))
	}
	payloads["unknown"] = []byte(`{"ignored":true}`)

	snapshot, err := DecodeBuckets(payloads)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	restored := NewStore(nil)
	restored.ImportState(snapshot)
	records := restored.ListRecords()
	if len(records) != 2 || records[0].ID != "new" || records[1].ID != "old" {
		t.Fatalf("unexpected restored records: %+v", records)
	}
	if !records[0].Completed() {
		t.Fatalf("expected outcome to survive encoding")
	}
}

func TestDecodeBucketsRejectsMalformedPayload(t *testing.T) {
	if _, err := DecodeBuckets(map[string][]byte{"records": []byte("{")}); err == nil {
		t.Fatalf("expected decode error")
	}
}
