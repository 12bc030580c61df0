package wordpress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"wps3sync/internal/domain"
	"wps3sync/internal/port"
)

const attachedFileMetaKey = "_wp_attached_file"

type attachmentRepo struct {
	db          *sqlx.DB
	tablePrefix string
	baseURL     string
}

// NewAttachmentRepo creates an AttachmentResolver that reads attachment
// records straight from the WordPress tables.
func NewAttachmentRepo(db *sqlx.DB, tablePrefix, uploadBaseURL string) port.AttachmentResolver {
	return &attachmentRepo{
		db:          db,
		tablePrefix: tablePrefix,
		baseURL:     strings.TrimRight(uploadBaseURL, "/"),
	}
}

func (r *attachmentRepo) AttachmentURL(ctx context.Context, attachmentID int64) (string, error) {
	var file string
	err := r.db.GetContext(ctx, &file, r.db.Rebind(
		"SELECT meta_value FROM "+r.tablePrefix+"postmeta WHERE post_id = ? AND meta_key = ? LIMIT 1"),
		attachmentID, attachedFileMetaKey)
	switch {
	case err == nil && file != "":
		return attachmentURL(r.baseURL, file), nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return "", fmt.Errorf("attachmentRepo.AttachmentURL meta: %w", err)
	}

	var guid string
	err = r.db.GetContext(ctx, &guid, r.db.Rebind(
		"SELECT guid FROM "+r.tablePrefix+"posts WHERE ID = ? AND post_type = 'attachment'"),
		attachmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("attachmentRepo.AttachmentURL guid: %w", err)
	}
	if guid == "" {
		return "", domain.ErrNotFound
	}
	return guid, nil
}

func (r *attachmentRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// attachmentURL mirrors wp_get_attachment_url: values already carrying a
// scheme are used as is, anything else is relative to the upload base URL.
func attachmentURL(baseURL, file string) string {
	if strings.HasPrefix(file, "http://") || strings.HasPrefix(file, "https://") {
		return file
	}
	return baseURL + "/" + strings.TrimLeft(file, "/")
}
