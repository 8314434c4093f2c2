package reports

import (
	"encoding/json"
	"time"
)

// MaxTitleLength is the maximum report title length in characters.
const MaxTitleLength = 1000

// Report is a structured document attached to a document.
type Report struct {
	ID         int64
	UID        string
	Title      string
	Content    json.RawMessage
	CreatedAt  time.Time
	DocumentID int64
}
