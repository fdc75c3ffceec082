package blob

import (
	memorystore "ohsurveil/internal/infra/blob/memory"
)

// NewMemory returns a process-local blob.Store.
func NewMemory() Store { return memorystore.New() }
