package model

import (
	"encoding/json"
	"time"
)

// RunKind identifies which reconciliation pipeline produced a run.
type RunKind string

const (
	RunKindPrimary RunKind = "primary"
	RunKindOCR     RunKind = "ocr"
)

// RunStatus is the terminal state of a reconciliation run.
type RunStatus string

const (
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run records one invocation of a reconciliation pipeline.
type Run struct {
	ID            string          `json:"id"`
	Kind          RunKind         `json:"kind"`
	Status        RunStatus       `json:"status"`
	Records       int             `json:"records"`
	CriticalCount int             `json:"critical_count"`
	Artifact      string          `json:"artifact,omitempty"`
	Error         string          `json:"error,omitempty"`
	Stats         json.RawMessage `json:"stats,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
