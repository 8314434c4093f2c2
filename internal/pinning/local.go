package pinning

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"docpin/internal/shared/storage/object"
	"docpin/internal/shared/util"
)

const localCIDPrefix = "local-"

var localCIDPattern = regexp.MustCompile(`^local-[0-9a-f]{64}$`)

// LocalPinner is a dev backend that content-addresses files in an object store.
type LocalPinner struct {
	store   object.ObjectStore
	baseURL string
	now     func() time.Time
}

var _ Pinner = (*LocalPinner)(nil)

// NewLocalPinner serves pins from store; FileURL points at baseURL + /ipfs/<cid>.
func NewLocalPinner(store object.ObjectStore, baseURL string) *LocalPinner {
	return &LocalPinner{
		store:   store,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

type localRecord struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	DatePinned  string `json:"datePinned"`
}

// Pin stores the content under local-<sha256>.
func (p *LocalPinner) Pin(ctx context.Context, r io.Reader, fileName, contentType string) (PinResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return PinResult{}, fmt.Errorf("read file: %w", err)
	}
	cid := localCIDPrefix + util.HashBytes(data)

	_, statErr := p.store.Stat(ctx, dataKey(cid))
	duplicate := statErr == nil

	size, err := p.store.SaveWithKey(ctx, dataKey(cid), bytes.NewReader(data))
	if err != nil {
		return PinResult{}, fmt.Errorf("save pin: %w", err)
	}
	pinnedAt := p.now().UTC().Format(time.RFC3339)
	rec, err := json.Marshal(localRecord{Name: fileName, ContentType: contentType, Size: size, DatePinned: pinnedAt})
	if err != nil {
		return PinResult{}, err
	}
	if _, err := p.store.SaveWithKey(ctx, metaKey(cid), bytes.NewReader(rec)); err != nil {
		return PinResult{}, fmt.Errorf("save pin record: %w", err)
	}
	return PinResult{IpfsHash: cid, PinSize: size, Timestamp: pinnedAt, IsDuplicate: duplicate}, nil
}

// Unpin removes the content and its record.
func (p *LocalPinner) Unpin(ctx context.Context, cid string) error {
	if !localCIDPattern.MatchString(cid) {
		return ErrPinNotFound
	}
	if err := p.store.Delete(ctx, dataKey(cid)); err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return ErrPinNotFound
		}
		return err
	}
	if err := p.store.Delete(ctx, metaKey(cid)); err != nil && !errors.Is(err, object.ErrNotFound) {
		return err
	}
	return nil
}

// PinList returns zero rows for unknown CIDs, matching hashContains semantics.
func (p *LocalPinner) PinList(ctx context.Context, cid string) (PinList, error) {
	empty := PinList{Rows: []PinRow{}}
	if !localCIDPattern.MatchString(cid) {
		return empty, nil
	}
	rc, err := p.store.Open(ctx, metaKey(cid))
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return empty, nil
		}
		return PinList{}, err
	}
	defer rc.Close()

	var rec localRecord
	if err := json.NewDecoder(rc).Decode(&rec); err != nil {
		return PinList{}, fmt.Errorf("decode pin record: %w", err)
	}
	return PinList{
		Count: 1,
		Rows: []PinRow{{
			ID:          cid,
			IPFSPinHash: cid,
			Size:        rec.Size,
			DatePinned:  rec.DatePinned,
			Metadata: PinMetadata{
				Name:      rec.Name,
				KeyValues: map[string]any{"contentType": rec.ContentType},
			},
		}},
	}, nil
}

// Fetch opens the stored content.
func (p *LocalPinner) Fetch(ctx context.Context, cid string) (io.ReadCloser, error) {
	if !localCIDPattern.MatchString(cid) {
		return nil, ErrPinNotFound
	}
	rc, err := p.store.Open(ctx, dataKey(cid))
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return nil, ErrPinNotFound
		}
		return nil, err
	}
	return rc, nil
}

// FileURL formats the URL served by GatewayHandler.
func (p *LocalPinner) FileURL(cid string) string {
	return p.baseURL + "/ipfs/" + cid
}

func dataKey(cid string) string { return "pins/" + cid }
func metaKey(cid string) string { return "pins/" + cid + ".json" }
