package constants

// DocumentStatus is the canonical status for rows in the documents ledger.
type DocumentStatus string

// Stable values (store these exact strings in DB).
const (
	DocumentStatusRunning  DocumentStatus = "RUNNING"  // in progress
	DocumentStatusTextOK   DocumentStatus = "TEXT_OK"  // page text extracted
	DocumentStatusExported DocumentStatus = "EXPORTED" // rows written to the output
	DocumentStatusSkipped  DocumentStatus = "SKIPPED"  // already processed, not exported again
	DocumentStatusFailed   DocumentStatus = "FAILED"   // terminal failure
)
