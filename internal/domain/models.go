package domain

import "encoding/json"

// UploadMetadata is the payload of the host's upload-completed hook.
type UploadMetadata struct {
	File string `json:"file"`
	URL  string `json:"url"`
	Type string `json:"type,omitempty"`
}

// SizeVariants maps a size name to the host's opaque size definition.
type SizeVariants map[string]json.RawMessage

// CDNPointer is the descriptor the image handler decodes from a CDN URL.
type CDNPointer struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// SyncResult describes the outcome of a single remote operation.
type SyncResult struct {
	Op           SyncOp `json:"op"`
	Key          string `json:"key,omitempty"`
	Location     string `json:"location,omitempty"`
	LocalDeleted bool   `json:"local_deleted"`
	Skipped      bool   `json:"skipped"`
	Err          error  `json:"-"`
}

// OK reports whether the operation completed without error.
func (r SyncResult) OK() bool {
	return r.Err == nil
}

// Status collapses the result into the status reported to the host.
func (r SyncResult) Status() SyncStatus {
	switch {
	case r.Skipped:
		return SyncStatusSkipped
	case r.Err != nil:
		return SyncStatusFailed
	default:
		return SyncStatusSynced
	}
}

// ScanResult is the verdict for a scanned local file.
type ScanResult struct {
	Status ScanStatus
	Detail string
}
