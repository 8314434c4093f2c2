package pinning

import (
	"context"
	"errors"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"docpin/internal/shared/metrics"
	"docpin/internal/shared/telemetry"
)

// Service is the application-facing pinning API. Upload and Delete report
// success as booleans and log failures; Metadata returns its error.
type Service struct {
	Pinner Pinner
	Cache  MetadataCache
}

// NewService builds a Service; cache may be nil.
func NewService(p Pinner, cache MetadataCache) *Service {
	return &Service{Pinner: p, Cache: cache}
}

// Upload pins file under fileName and returns its CID.
func (s *Service) Upload(ctx context.Context, file io.Reader, fileName string) (string, bool) {
	start := time.Now()
	res, err := s.Pinner.Pin(ctx, file, fileName, contentTypeFor(fileName))
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	metrics.ObservePinUploadDurationMs(elapsed)
	if err != nil {
		metrics.IncPinUploadFailed()
		telemetry.Error("pin.upload_failed", map[string]any{
			"file_name":   fileName,
			"duration_ms": elapsed,
			"error":       err.Error(),
		})
		return "", false
	}
	metrics.IncPinUploaded()
	telemetry.Info("pin.uploaded", map[string]any{
		"file_name":    fileName,
		"cid":          res.IpfsHash,
		"size":         res.PinSize,
		"is_duplicate": res.IsDuplicate,
		"duration_ms":  elapsed,
	})
	return res.IpfsHash, true
}

// FileURL returns the gateway URL for cid.
func (s *Service) FileURL(cid string) string {
	return s.Pinner.FileURL(cid)
}

// Delete unpins cid and reports whether the pin was removed.
func (s *Service) Delete(ctx context.Context, cid string) bool {
	err := s.Pinner.Unpin(ctx, cid)
	s.invalidate(ctx, cid)
	if err != nil {
		metrics.IncPinDeleteFailed()
		fields := map[string]any{"cid": cid, "error": err.Error()}
		if errors.Is(err, ErrPinNotFound) {
			telemetry.Warn("pin.delete_not_found", fields)
		} else {
			telemetry.Error("pin.delete_failed", fields)
		}
		return false
	}
	metrics.IncPinDeleted()
	telemetry.Info("pin.deleted", map[string]any{"cid": cid})
	return true
}

// Metadata returns the pin list for cid, served from cache when possible.
func (s *Service) Metadata(ctx context.Context, cid string) (PinList, error) {
	if s.Cache != nil {
		list, ok, err := s.Cache.Get(ctx, cid)
		if err != nil {
			telemetry.Warn("pin.metadata_cache_get_failed", map[string]any{"cid": cid, "error": err.Error()})
		} else if ok {
			return list, nil
		}
	}

	list, err := s.Pinner.PinList(ctx, cid)
	if err != nil {
		return PinList{}, err
	}

	if s.Cache != nil && list.Count > 0 {
		if err := s.Cache.Set(ctx, cid, list); err != nil {
			telemetry.Warn("pin.metadata_cache_set_failed", map[string]any{"cid": cid, "error": err.Error()})
		}
	}
	return list, nil
}

// Fetch streams pinned content.
func (s *Service) Fetch(ctx context.Context, cid string) (io.ReadCloser, error) {
	return s.Pinner.Fetch(ctx, cid)
}

func (s *Service) invalidate(ctx context.Context, cid string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Delete(ctx, cid); err != nil {
		telemetry.Warn("pin.metadata_cache_delete_failed", map[string]any{"cid": cid, "error": err.Error()})
	}
}

func contentTypeFor(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		return "application/octet-stream"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
