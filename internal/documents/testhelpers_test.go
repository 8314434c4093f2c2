package documents

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"docpin/internal/pinning"
	"docpin/internal/shared/storage/object/local"
	"docpin/internal/shared/util"
)

type failingPinner struct{}

func (failingPinner) Pin(context.Context, io.Reader, string, string) (pinning.PinResult, error) {
	return pinning.PinResult{}, &pinning.APIError{Op: "pin", Status: 500, Body: "down"}
}
func (failingPinner) Unpin(context.Context, string) error { return errors.New("down") }
func (failingPinner) PinList(context.Context, string) (pinning.PinList, error) {
	return pinning.PinList{}, errors.New("down")
}
func (failingPinner) Fetch(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("down")
}
func (failingPinner) FileURL(cid string) string { return "https://gw.test/ipfs/" + cid }

type recordingDependent struct {
	mu      sync.Mutex
	deleted []int64
}

func (d *recordingDependent) DeleteByDocument(_ context.Context, documentID int64) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deleted = append(d.deleted, documentID)
	return 1, nil
}

func newLocalService(t *testing.T, deps ...Dependent) *Service {
	t.Helper()
	pins := pinning.NewService(pinning.NewLocalPinner(local.New(t.TempDir()), "http://localhost:8080"), nil)
	return NewService(NewMemoryRepo(), pins, deps...)
}

func sequenceUIDs(uids ...string) func() string {
	i := 0
	return func() string {
		uid := uids[i%len(uids)]
		i++
		return uid
	}
}

func sha256Hex(s string) string {
	return util.HashBytes([]byte(s))
}

type deleteFailingRepo struct {
	*MemoryRepo
	err error
}

func (r deleteFailingRepo) Delete(context.Context, string, string) error { return r.err }

type failingDependent struct{}

func (failingDependent) DeleteByDocument(context.Context, int64) (int, error) {
	return 0, errors.New("messages down")
}
