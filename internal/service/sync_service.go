package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"wps3sync/internal/config"
	"wps3sync/internal/domain"
	"wps3sync/internal/port"
)

// SyncService translates host media-lifecycle hooks into remote storage
// operations and URL rewrites.
type SyncService interface {
	HandleUpload(ctx context.Context, meta domain.UploadMetadata) (domain.UploadMetadata, domain.SyncResult)
	HandleDelete(ctx context.Context, attachmentID int64) domain.SyncResult
	SuppressSizeVariants(sizes domain.SizeVariants) domain.SizeVariants
	RewriteURL(ctx context.Context, rawURL string, attachmentID int64) string
	RemotePut(ctx context.Context, localPath, relPath string) domain.SyncResult
	RemoteDelete(ctx context.Context, relPath string) domain.SyncResult
	DeleteLocal(path string) (bool, error)
	RelativePath(rawURL string) (string, error)
	ObjectKey(relPath string) string
}

type syncService struct {
	storage  port.ObjectStorage
	resolver port.AttachmentResolver
	scanner  port.FileScanner
	s3       config.S3Config
	media    config.MediaConfig
	scan     config.ScanConfig
	baseURL  string
}

// NewSyncService creates a new SyncService implementation. storage, resolver
// and scanner may be nil; the affected operations then report
// ErrStorageUnavailable, ErrNotFound or skip scanning respectively.
func NewSyncService(
	storage port.ObjectStorage,
	resolver port.AttachmentResolver,
	scanner port.FileScanner,
	s3Cfg *config.S3Config,
	mediaCfg *config.MediaConfig,
	scanCfg *config.ScanConfig,
) SyncService {
	s := &syncService{
		storage:  storage,
		resolver: resolver,
		scanner:  scanner,
		s3:       *s3Cfg,
		media:    *mediaCfg,
		baseURL:  strings.TrimRight(mediaCfg.UploadBaseURL, "/"),
	}
	s.s3.KeyPrefix = strings.Trim(s.s3.KeyPrefix, "/")
	s.media.CDNURL = strings.TrimRight(s.media.CDNURL, "/")
	if scanCfg != nil {
		s.scan = *scanCfg
	}
	return s
}

func (s *syncService) HandleUpload(ctx context.Context, meta domain.UploadMetadata) (domain.UploadMetadata, domain.SyncResult) {
	rel, err := s.RelativePath(meta.URL)
	if err != nil {
		log.Printf("syncService.HandleUpload: cannot derive key for %s: %v", meta.URL, err)
		return meta, domain.SyncResult{Op: domain.SyncOpPut, Err: err}
	}

	if _, err := s.localPath(meta.File); err != nil {
		log.Printf("syncService.HandleUpload: refusing %s: %v", meta.File, err)
		return meta, domain.SyncResult{Op: domain.SyncOpPut, Key: s.ObjectKey(rel), Err: err}
	}

	if s.scanner != nil {
		if err := s.scanFile(ctx, meta.File); err != nil {
			return meta, domain.SyncResult{Op: domain.SyncOpPut, Key: s.ObjectKey(rel), Err: err}
		}
	}

	result := s.RemotePut(ctx, meta.File, rel)
	if result.OK() && s.media.DeleteLocal && result.Location != "" {
		deleted, err := s.DeleteLocal(meta.File)
		if err != nil {
			log.Printf("syncService.HandleUpload: keeping local copy of %s: %v", meta.File, err)
		}
		result.LocalDeleted = deleted
	}
	return meta, result
}

func (s *syncService) HandleDelete(ctx context.Context, attachmentID int64) domain.SyncResult {
	if s.resolver == nil {
		log.Printf("syncService.HandleDelete: no attachment resolver configured, cannot resolve %d", attachmentID)
		return domain.SyncResult{Op: domain.SyncOpDelete, Err: domain.ErrNotFound}
	}

	attachmentURL, err := s.resolver.AttachmentURL(ctx, attachmentID)
	if err != nil {
		log.Printf("syncService.HandleDelete: resolving attachment %d: %v", attachmentID, err)
		return domain.SyncResult{Op: domain.SyncOpDelete, Err: err}
	}

	rel, err := s.RelativePath(attachmentURL)
	if err != nil {
		log.Printf("syncService.HandleDelete: attachment %d (%s): %v", attachmentID, attachmentURL, err)
		return domain.SyncResult{Op: domain.SyncOpDelete, Err: err}
	}

	return s.RemoteDelete(ctx, rel)
}

func (s *syncService) SuppressSizeVariants(sizes domain.SizeVariants) domain.SizeVariants {
	if !s.media.SuppressSizes {
		return sizes
	}
	return domain.SizeVariants{}
}

// RewriteURL returns the original URL whenever it cannot be mapped to an
// object key or the configured mode cannot produce a replacement.
func (s *syncService) RewriteURL(ctx context.Context, rawURL string, attachmentID int64) string {
	if s.media.URLMode == config.URLModeOff {
		return rawURL
	}

	rel, err := s.RelativePath(rawURL)
	if err != nil {
		return rawURL
	}
	key := s.ObjectKey(rel)

	switch s.media.URLMode {
	case config.URLModeCDN, "":
		if s.media.CDNURL == "" {
			return rawURL
		}
		return CDNURL(s.media.CDNURL, s.s3.Bucket, key)
	case config.URLModeDirect:
		return DirectURL(&s.s3, key)
	case config.URLModePresign:
		if s.storage == nil {
			return rawURL
		}
		signed, err := s.storage.GetPresignedURL(ctx, s.s3.Bucket, key, s.s3.PresignExpiry)
		if err != nil {
			log.Printf("syncService.RewriteURL: presigning %s for attachment %d: %v", key, attachmentID, err)
			return rawURL
		}
		return signed
	default:
		return rawURL
	}
}

func (s *syncService) RemotePut(ctx context.Context, localPath, relPath string) domain.SyncResult {
	result := domain.SyncResult{Op: domain.SyncOpPut}

	rel, err := cleanRelPath(relPath)
	if err != nil {
		result.Err = err
		return result
	}
	result.Key = s.ObjectKey(rel)

	localPath, err = s.localPath(localPath)
	if err != nil {
		result.Err = err
		return result
	}

	if s.storage == nil {
		log.Printf("syncService.RemotePut: storage not configured, %s not uploaded", result.Key)
		result.Err = domain.ErrStorageUnavailable
		return result
	}

	f, err := os.Open(localPath)
	if err != nil {
		log.Printf("syncService.RemotePut: there was an error uploading the file %s: %v", localPath, err)
		result.Err = fmt.Errorf("syncService.RemotePut open: %w", err)
		return result
	}
	defer func() { _ = f.Close() }()

	var size int64
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}

	out, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3.Bucket,
		Key:         result.Key,
		Body:        f,
		ContentType: detectContentType(localPath),
		ACL:         s.s3.ACL,
		Size:        size,
	})
	if err != nil {
		log.Printf("syncService.RemotePut: there was an error uploading the file %s: %v", result.Key, err)
		result.Err = fmt.Errorf("%w: %w", domain.ErrStorageOperation, err)
		return result
	}

	if out != nil {
		result.Location = out.Location
	}
	log.Printf("syncService.RemotePut: uploaded %s to %s/%s (%d bytes)", localPath, s.s3.Bucket, result.Key, size)
	return result
}

func (s *syncService) RemoteDelete(ctx context.Context, relPath string) domain.SyncResult {
	result := domain.SyncResult{Op: domain.SyncOpDelete}

	rel, err := cleanRelPath(relPath)
	if err != nil {
		result.Err = err
		return result
	}
	result.Key = s.ObjectKey(rel)

	if s.storage == nil {
		result.Skipped = true
		result.Err = domain.ErrStorageUnavailable
		return result
	}

	if err := s.storage.Delete(ctx, s.s3.Bucket, result.Key); err != nil {
		log.Printf("syncService.RemoteDelete: there was an error deleting the file %s: %v", result.Key, err)
		result.Err = fmt.Errorf("%w: %w", domain.ErrStorageOperation, err)
		return result
	}

	log.Printf("syncService.RemoteDelete: deleted %s/%s", s.s3.Bucket, result.Key)
	return result
}

// DeleteLocal removes a file under the upload base directory. Relative paths
// resolve against the base directory; paths escaping it are rejected.
func (s *syncService) DeleteLocal(path string) (bool, error) {
	full, err := s.localPath(path)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("syncService.DeleteLocal stat: %w", err)
	}
	if err := os.Remove(full); err != nil {
		return false, fmt.Errorf("syncService.DeleteLocal: %w", err)
	}
	return true, nil
}

// localPath resolves path against the upload base directory and rejects
// anything that is not strictly below it.
func (s *syncService) localPath(path string) (string, error) {
	base, err := filepath.Abs(s.media.UploadBaseDir)
	if err != nil {
		return "", fmt.Errorf("syncService.localPath: %w", err)
	}
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(base, full)
	}
	full = filepath.Clean(full)

	rel, err := filepath.Rel(base, full)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is outside %s", domain.ErrInvalidPath, path, base)
	}
	return full, nil
}

// RelativePath strips the upload base URL from rawURL. Query strings and
// fragments (cache busters such as ?ver=2) are not part of the key.
func (s *syncService) RelativePath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", domain.ErrOutsideUploadRoot
	}
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
	clean := u.String()

	if s.baseURL == "" || !strings.HasPrefix(clean, s.baseURL+"/") {
		return "", domain.ErrOutsideUploadRoot
	}
	return cleanRelPath(clean[len(s.baseURL)+1:])
}

func (s *syncService) ObjectKey(relPath string) string {
	return ObjectKey(s.s3.KeyPrefix, relPath)
}

func (s *syncService) scanFile(ctx context.Context, path string) error {
	verdict, err := s.scanner.Scan(ctx, path)
	if err == nil && verdict.Status == domain.ScanStatusInfected {
		return fmt.Errorf("%w: %s", domain.ErrInfectedFile, verdict.Detail)
	}
	if err != nil || verdict.Status == domain.ScanStatusError {
		log.Printf("syncService.scanFile: scanning %s: status=%s detail=%q err=%v", path, verdict.Status, verdict.Detail, err)
		if s.scan.FailClosed {
			return fmt.Errorf("syncService.scanFile: %s could not be scanned", path)
		}
	}
	return nil
}

// cleanRelPath normalizes a path relative to the upload root and rejects
// empty paths and parent-directory segments.
func cleanRelPath(rel string) (string, error) {
	rel = strings.TrimLeft(rel, "/")
	if rel == "" {
		return "", domain.ErrInvalidPath
	}
	for _, seg := range strings.Split(rel, "/") {
		if seg == ".." {
			return "", domain.ErrInvalidPath
		}
	}
	return rel, nil
}

func detectContentType(path string) string {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "application/octet-stream"
	}
	return mt.String()
}
