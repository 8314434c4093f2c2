// Package pinning stores files on IPFS through a pinning service and exposes
// the gateway URL, unpin and metadata lookups for stored content.
package pinning

import (
	"context"
	"io"
)

// Pinner is the transport-level contract of a pinning backend.
type Pinner interface {
	Pin(ctx context.Context, r io.Reader, fileName, contentType string) (PinResult, error)
	Unpin(ctx context.Context, cid string) error
	PinList(ctx context.Context, cid string) (PinList, error)
	Fetch(ctx context.Context, cid string) (io.ReadCloser, error)
	FileURL(cid string) string
}

// PinResult is the pinFileToIPFS response body.
type PinResult struct {
	IpfsHash    string `json:"IpfsHash"`
	PinSize     int64  `json:"PinSize"`
	Timestamp   string `json:"Timestamp"`
	IsDuplicate bool   `json:"isDuplicate,omitempty"`
}

// PinList is the data/pinList response body filtered to one hash.
type PinList struct {
	Count int      `json:"count"`
	Rows  []PinRow `json:"rows"`
}

// PinRow describes one pin record.
type PinRow struct {
	ID           string      `json:"id"`
	IPFSPinHash  string      `json:"ipfs_pin_hash"`
	Size         int64       `json:"size"`
	UserID       string      `json:"user_id,omitempty"`
	DatePinned   string      `json:"date_pinned"`
	DateUnpinned *string     `json:"date_unpinned"`
	Metadata     PinMetadata `json:"metadata"`
}

// PinMetadata holds the name and key values attached at pin time.
type PinMetadata struct {
	Name      string         `json:"name"`
	KeyValues map[string]any `json:"keyvalues"`
}
