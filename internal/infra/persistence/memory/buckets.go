package memory

import (
	"encoding/json"
	"fmt"
)

// Buckets lists the snapshot partitions written by persistent drivers.
var Buckets = []string{"records", "record_order", "companies", "company_order", "workers", "worker_order"}

func (s *Snapshot) bucketTarget(bucket string) (any, bool) {
	switch bucket {
	case "records":
		return &s.Records, true
	case "record_order":
		return &s.RecordOrder, true
	case "companies":
		return &s.Companies, true
	case "company_order":
		return &s.CompanyOrder, true
	case "workers":
		return &s.Workers, true
	case "worker_order":
		return &s.WorkerOrder, true
	}
	return nil, false
}

// EncodeBuckets marshals every bucket of the snapshot as JSON.
func EncodeBuckets(s Snapshot) (map[string][]byte, error) {
	out := make(map[string][]byte, len(Buckets))
	for _, bucket := range Buckets {
		target, _ := s.bucketTarget(bucket)
		data, err := json.Marshal(target)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", bucket, err)
		}
		out[bucket] = data
	}
	return out, nil
}

// DecodeBuckets rebuilds a snapshot from stored bucket payloads. Unknown
// buckets and empty payloads are ignored.
func DecodeBuckets(payloads map[string][]byte) (Snapshot, error) {
	var s Snapshot
	for bucket, payload := range payloads {
		if len(payload) == 0 {
			continue
		}
		target, ok := s.bucketTarget(bucket)
		if !ok {
			continue
		}
		if err := json.Unmarshal(payload, target); err != nil {
			return Snapshot{}, fmt.Errorf("decode %s: %w", bucket, err)
		}
	}
	return s, nil
}
