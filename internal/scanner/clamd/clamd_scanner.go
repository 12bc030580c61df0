package clamd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/dutchcoders/go-clamd"

	"wps3sync/internal/domain"
	"wps3sync/internal/port"
)

// engine is the subset of *clamd.Clamd the scanner uses.
type engine interface {
	Ping() error
	ScanFile(path string) (chan *clamd.ScanResult, error)
}

type clamdScanner struct {
	client engine
}

// NewClamdScanner connects to a clamd daemon at address (tcp://host:port or
// unix:///path/to/socket) and verifies it answers PING.
func NewClamdScanner(address string) (port.FileScanner, error) {
	c := clamd.NewClamd(address)
	if err := c.Ping(); err != nil {
		return nil, fmt.Errorf("pinging clamd at %s: %w", address, err)
	}
	log.Printf("clamdScanner: connected to %s", address)
	return &clamdScanner{client: c}, nil
}

func newScanner(client engine) *clamdScanner {
	return &clamdScanner{client: client}
}

func (s *clamdScanner) Scan(ctx context.Context, path string) (domain.ScanResult, error) {
	if s.client == nil {
		return domain.ScanResult{Status: domain.ScanStatusSkipped, Detail: "scanner not initialized"}, nil
	}

	response, err := s.client.ScanFile(path)
	if err != nil {
		return domain.ScanResult{Status: domain.ScanStatusError}, fmt.Errorf("clamd scan %s: %w", path, err)
	}

	verdict := domain.ScanResult{Status: domain.ScanStatusClean}
	for {
		select {
		case <-ctx.Done():
			go drain(response)
			return domain.ScanResult{Status: domain.ScanStatusError}, ctx.Err()
		case result, ok := <-response:
			if !ok {
				return verdict, nil
			}
			switch result.Status {
			case clamd.RES_FOUND:
				virus := strings.TrimSuffix(strings.TrimPrefix(result.Raw, result.Path+": "), " FOUND")
				log.Printf("clamdScanner.Scan: %s infected with %s", path, virus)
				verdict = domain.ScanResult{Status: domain.ScanStatusInfected, Detail: virus}
			case clamd.RES_ERROR, clamd.RES_PARSE_ERROR:
				if verdict.Status != domain.ScanStatusInfected {
					detail := strings.TrimSuffix(strings.TrimPrefix(result.Raw, result.Path+": "), " ERROR")
					verdict = domain.ScanResult{Status: domain.ScanStatusError, Detail: detail}
				}
			}
		}
	}
}

// drain consumes the remaining results so go-clamd's reader can finish and
// close its connection.
func drain(response <-chan *clamd.ScanResult) {
	for range response {
	}
}
