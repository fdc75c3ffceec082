package memory

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"ohsurveil/internal/blob/core"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()
	if s.Driver() != core.DriverMemory {
		t.Fatalf("unexpected driver %s", s.Driver())
	}
	meta := map[string]string{"record": "r1"}
	info, err := s.Put(ctx, "reports/r1/lab.pdf", strings.NewReader("%PDF"), core.PutOptions{ContentType: "application/pdf", Metadata: meta})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	meta["record"] = "mutated"
	if info.Size != 4 || info.ETag == "" || info.Metadata["record"] != "r1" {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := s.Put(ctx, "reports/r1/lab.pdf", strings.NewReader("x"), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}

	got, rc, err := s.Get(ctx, "reports/r1/lab.pdf")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != "%PDF" || got.ContentType != "application/pdf" {
		t.Fatalf("unexpected content %q / %+v", body, got)
	}

	if _, err := s.Put(ctx, "reports/r2/x.pdf", strings.NewReader("y"), core.PutOptions{}); err != nil {
		t.Fatalf("put second: %v", err)
	}
	list, err := s.List(ctx, "reports/r1/")
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one listed blob, got %d (%v)", len(list), err)
	}

	if _, err := s.PresignURL(ctx, "reports/r1/lab.pdf", core.SignedURLOptions{}); !errors.Is(err, core.ErrUnsupported) {
		t.Fatalf("expected unsupported presign, got %v", err)
	}

	deleted, _ := s.Delete(ctx, "reports/r1/lab.pdf")
	if !deleted {
		t.Fatalf("expected delete to report existing blob")
	}
	if _, err := s.Head(ctx, "reports/r1/lab.pdf"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, _, err := s.Get(ctx, "reports/r1/lab.pdf"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on get, got %v", err)
	}
	if deleted, _ := s.Delete(ctx, "reports/r1/lab.pdf"); deleted {
		t.Fatalf("expected second delete to report missing")
	}
}

func TestMemoryStoreRejectsEmptyKey(t *testing.T) {
	if _, err := New().Put(context.Background(), "  ", strings.NewReader("x"), core.PutOptions{}); err == nil {
		t.Fatalf("expected empty key error")
	}
}
