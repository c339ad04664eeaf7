// Package storage uploads gallery objects to blob storage and reports the
// public URL each object is served from.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bytonbyte/internal/common"
	"github.com/dmitrijs2005/bytonbyte/internal/logging"
	"github.com/dmitrijs2005/bytonbyte/internal/server/metrics"
)

// Uploader stores body under key and returns its public URL.
type Uploader interface {
	Name() string
	Upload(ctx context.Context, key, contentType string, body []byte) (string, error)
}

// FallbackUploader tries each backend in order and returns the first
// success. With no backends it fails with common.ErrStorageNotConfigured.
type FallbackUploader struct {
	backends []Uploader
	log      logging.Logger
	metrics  *metrics.Metrics
}

func NewFallbackUploader(log logging.Logger, m *metrics.Metrics, backends ...Uploader) *FallbackUploader {
	var bs []Uploader
	for _, b := range backends {
		if b != nil {
			bs = append(bs, b)
		}
	}
	return &FallbackUploader{backends: bs, log: log, metrics: m}
}

func (f *FallbackUploader) Name() string {
	return "fallback"
}

func (f *FallbackUploader) Configured() bool {
	return len(f.backends) > 0
}

func (f *FallbackUploader) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	if len(f.backends) == 0 {
		return "", common.ErrStorageNotConfigured
	}

	var errs []error
	for _, b := range f.backends {
		url, err := b.Upload(ctx, key, contentType, body)
		if err == nil {
			f.count(b.Name(), "ok")
			return url, nil
		}
		f.count(b.Name(), "error")
		f.log.Warn(ctx, "upload backend failed", "backend", b.Name(), "key", key, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
	}
	return "", fmt.Errorf("all storage backends failed: %w", errors.Join(errs...))
}

func (f *FallbackUploader) count(backend, result string) {
	if f.metrics != nil {
		f.metrics.UploadsByTarget.WithLabelValues(backend, result).Inc()
	}
}
