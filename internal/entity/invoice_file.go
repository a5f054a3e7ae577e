package entity

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceFile describes one input document as found on disk.
type InvoiceFile struct {
	ID          uuid.UUID `json:"id"`
	SourcePath  string    `json:"source_path"`
	ContentHash string    `json:"content_hash"` // hex sha256
	Filename    string    `json:"filename"`
	FileExt     string    `json:"file_ext"`
	FileSize    int64     `json:"file_size"`
	ModTime     time.Time `json:"mod_time"`
}
