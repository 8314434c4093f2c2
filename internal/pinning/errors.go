package pinning

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredentials is returned when no Pinata JWT is configured.
	ErrMissingCredentials = errors.New("PINATA_JWT is required")
	// ErrPinNotFound is returned when the CID is not pinned.
	ErrPinNotFound = errors.New("pin not found")
	// ErrMissingHash is returned when a successful pin response has no IpfsHash.
	ErrMissingHash = errors.New("pin response missing IpfsHash")
)

// APIError is a non-2xx response from the pinning service.
type APIError struct {
	Op     string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("pinata %s: status %d: %s", e.Op, e.Status, e.Body)
}
