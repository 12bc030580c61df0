// Command backfill uploads media already present under the upload base
// directory, for libraries that existed before the sync service was enabled.
// Usage: go run ./cmd/backfill [-dry-run]
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"

	"wps3sync/internal/config"
	"wps3sync/internal/service"
	"wps3sync/internal/storage"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	dryRun := flag.Bool("dry-run", false, "list object keys without uploading")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	objectStorage, err := storage.NewObjectStorage(&cfg.S3)
	if err != nil {
		return fmt.Errorf("initializing object storage: %w", err)
	}
	syncSvc := service.NewSyncService(objectStorage, nil, nil, &cfg.S3, &cfg.Media, &cfg.Scan)

	ctx := context.Background()
	root := cfg.Media.UploadBaseDir
	uploaded, failed, removed := 0, 0, 0

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			log.Printf("WARN: skipping %s: %v", path, walkErr)
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		local, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel := filepath.ToSlash(local)

		if *dryRun {
			fmt.Println(syncSvc.ObjectKey(rel))
			return nil
		}

		result := syncSvc.RemotePut(ctx, local, rel)
		if !result.OK() {
			failed++
			return nil
		}
		uploaded++

		if cfg.Media.DeleteLocal && result.Location != "" {
			deleted, err := syncSvc.DeleteLocal(local)
			if err != nil {
				log.Printf("WARN: keeping %s: %v", path, err)
			}
			if deleted {
				removed++
			}
		}
		if uploaded%100 == 0 {
			log.Printf("Progress: %d files uploaded", uploaded)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking %s: %w", root, err)
	}

	log.Printf("Backfill complete: %d uploaded, %d failed, %d local copies removed", uploaded, failed, removed)
	if failed > 0 {
		return fmt.Errorf("%d files failed to upload", failed)
	}
	return nil
}
