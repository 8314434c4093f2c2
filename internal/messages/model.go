package messages

import "time"

// MaxContentLength is the maximum message length in characters.
const MaxContentLength = 10000

// Message is one chat entry attached to a document.
type Message struct {
	ID           int64     `json:"-"`
	UID          string    `json:"uid"`
	SenderIsUser bool      `json:"senderIsUser"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"createdAt"`
	DocumentID   int64     `json:"-"`
}
