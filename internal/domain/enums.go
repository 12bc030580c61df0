package domain

// SyncOp identifies the remote operation a SyncResult describes.
type SyncOp string

const (
	SyncOpPut    SyncOp = "put"
	SyncOpDelete SyncOp = "delete"
)

// SyncStatus is the outcome reported back to the host for a hook call.
type SyncStatus string

const (
	SyncStatusSynced  SyncStatus = "synced"
	SyncStatusFailed  SyncStatus = "failed"
	SyncStatusSkipped SyncStatus = "skipped"
)

// ScanStatus is the verdict of a malware scan.
type ScanStatus string

const (
	ScanStatusClean    ScanStatus = "clean"
	ScanStatusInfected ScanStatus = "infected"
	ScanStatusError    ScanStatus = "error"
	ScanStatusSkipped  ScanStatus = "skipped"
)
