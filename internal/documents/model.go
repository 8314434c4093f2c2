package documents

import "time"

const (
	// MaxFileNameLength bounds Document.FileName.
	MaxFileNameLength = 100
	// MaxCIDLength bounds Document.CID.
	MaxCIDLength = 100
)

// Document is one uploaded file pinned to IPFS.
type Document struct {
	ID        int64
	UID       string
	FileName  string
	CID       string
	CreatedAt time.Time
	UserID    string
}
