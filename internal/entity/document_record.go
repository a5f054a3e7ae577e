package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentRecord is the ledger entry for one processing attempt of a document.
type DocumentRecord struct {
	ID           uuid.UUID  `json:"id"`
	RunID        string     `json:"run_id"`
	SourcePath   string     `json:"source_path"`
	ContentHash  string     `json:"content_hash"`
	Status       string     `json:"status"`
	Method       string     `json:"method,omitempty"`
	RowsWritten  int        `json:"rows_written"`
	OutputPath   string     `json:"output_path,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}
