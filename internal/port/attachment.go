package port

import "context"

// AttachmentResolver resolves a media record id to its public URL, the way
// the host does when rendering an attachment.
type AttachmentResolver interface {
	AttachmentURL(ctx context.Context, attachmentID int64) (string, error)
	Ping(ctx context.Context) error
}
