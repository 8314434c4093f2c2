package documents

import "time"

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	UID       string    `json:"uid"`
	FileName  string    `json:"fileName"`
	CID       string    `json:"cid"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *Handler) toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		UID:       doc.UID,
		FileName:  doc.FileName,
		CID:       doc.CID,
		URL:       h.Svc.FileURL(doc),
		CreatedAt: doc.CreatedAt,
	}
}

// DeleteResponse is returned by DELETE /documents/:uid.
type DeleteResponse struct {
	Deleted  bool `json:"deleted"`
	Unpinned bool `json:"unpinned"`
	Shared   bool `json:"shared,omitempty"`
}
