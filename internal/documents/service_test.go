package documents

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docpin/internal/pinning"
	"docpin/internal/shared/storage/db"
)

func TestUploadCreatesDocumentWithUID(t *testing.T) {
	svc := newLocalService(t)

	doc, err := svc.Upload(context.Background(), "user-1", "paper.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Len(t, doc.UID, 7)
	assert.Equal(t, "paper.pdf", doc.FileName)
	assert.True(t, strings.HasPrefix(doc.CID, "local-"))
	assert.NotZero(t, doc.ID)
	assert.Contains(t, svc.FileURL(doc), doc.CID)
}

func TestUploadTruncatesLongNames(t *testing.T) {
	svc := newLocalService(t)

	doc, err := svc.Upload(context.Background(), "user-1", strings.Repeat("n", 150), strings.NewReader("x"))
	require.NoError(t, err)
	assert.Len(t, doc.FileName, MaxFileNameLength)
}

func TestUploadRejectsInvalidInput(t *testing.T) {
	svc := newLocalService(t)

	_, err := svc.Upload(context.Background(), "user-1", "..", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Upload(context.Background(), "", "ok.txt", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUploadRetriesOnUIDCollision(t *testing.T) {
	svc := newLocalService(t)
	svc.NewUID = sequenceUIDs("AAAAAAA", "AAAAAAA", "BBBBBBB")

	first, err := svc.Upload(context.Background(), "user-1", "a.txt", strings.NewReader("a"))
	require.NoError(t, err)
	second, err := svc.Upload(context.Background(), "user-1", "b.txt", strings.NewReader("b"))
	require.NoError(t, err)

	assert.Equal(t, "AAAAAAA", first.UID)
	assert.Equal(t, "BBBBBBB", second.UID)
}

func TestUploadGivesUpAfterRepeatedCollisionsAndReleasesPin(t *testing.T) {
	svc := newLocalService(t)
	svc.NewUID = sequenceUIDs("AAAAAAA")

	_, err := svc.Upload(context.Background(), "user-1", "a.txt", strings.NewReader("a"))
	require.NoError(t, err)

	_, err = svc.Upload(context.Background(), "user-1", "b.txt", strings.NewReader("only-b"))
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, uidConstraint))

	cid := "local-" + sha256Hex("only-b")
	list, err := svc.Pins.Metadata(context.Background(), cid)
	require.NoError(t, err)
	assert.Equal(t, 0, list.Count, "orphaned pin should be released")
}

func TestUploadPinFailure(t *testing.T) {
	svc := NewService(NewMemoryRepo(), pinning.NewService(failingPinner{}, nil))

	_, err := svc.Upload(context.Background(), "user-1", "a.txt", strings.NewReader("a"))
	assert.ErrorIs(t, err, ErrPinFailed)
}

func TestGetScopesToOwner(t *testing.T) {
	svc := newLocalService(t)
	doc, err := svc.Upload(context.Background(), "user-1", "a.txt", strings.NewReader("a"))
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), "user-2", doc.UID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Get(context.Background(), "user-1", "short")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := svc.Get(context.Background(), "user-1", doc.UID)
	require.NoError(t, err)
	assert.Equal(t, doc.CID, got.CID)
}

func TestDeleteCascadesAndUnpins(t *testing.T) {
	dep := &recordingDependent{}
	svc := newLocalService(t, dep)
	doc, err := svc.Upload(context.Background(), "user-1", "a.txt", strings.NewReader("cascade"))
	require.NoError(t, err)

	res, err := svc.Delete(context.Background(), "user-1", doc.UID)
	require.NoError(t, err)
	assert.True(t, res.Unpinned)
	assert.False(t, res.Shared)
	assert.Equal(t, []int64{doc.ID}, dep.deleted)

	_, err = svc.Get(context.Background(), "user-1", doc.UID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Delete(context.Background(), "user-1", doc.UID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteKeepsSharedPins(t *testing.T) {
	svc := newLocalService(t)
	a, err := svc.Upload(context.Background(), "user-1", "a.txt", strings.NewReader("same"))
	require.NoError(t, err)
	b, err := svc.Upload(context.Background(), "user-2", "b.txt", strings.NewReader("same"))
	require.NoError(t, err)
	require.Equal(t, a.CID, b.CID)

	res, err := svc.Delete(context.Background(), "user-1", a.UID)
	require.NoError(t, err)
	assert.True(t, res.Shared)
	assert.False(t, res.Unpinned)

	list, err := svc.Metadata(context.Background(), "user-2", b.UID)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Count)
}

func TestDeleteStillRemovesRowWhenUnpinFails(t *testing.T) {
	repo := NewMemoryRepo()
	doc, err := repo.Create(context.Background(), Document{UID: "AAAAAAA", FileName: "a", CID: "QmX", UserID: "user-1"})
	require.NoError(t, err)
	svc := NewService(repo, pinning.NewService(failingPinner{}, nil))

	res, err := svc.Delete(context.Background(), "user-1", doc.UID)
	require.NoError(t, err)
	assert.False(t, res.Unpinned)
	_, err = repo.GetByUID(context.Background(), "user-1", doc.UID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDeleteKeepsPinWhenRowDeleteFails(t *testing.T) {
	svc := newLocalService(t)
	doc, err := svc.Upload(context.Background(), "user-1", "a.txt", strings.NewReader("keep me"))
	require.NoError(t, err)
	svc.Repo = deleteFailingRepo{MemoryRepo: svc.Repo.(*MemoryRepo), err: errors.New("db down")}

	_, err = svc.Delete(context.Background(), "user-1", doc.UID)
	require.EqualError(t, err, "db down")

	still, err := svc.Get(context.Background(), "user-1", doc.UID)
	require.NoError(t, err)
	list, err := svc.Metadata(context.Background(), "user-1", still.UID)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Count)
}

func TestDeleteKeepsPinWhenCascadeFails(t *testing.T) {
	svc := newLocalService(t, failingDependent{})
	doc, err := svc.Upload(context.Background(), "user-1", "a.txt", strings.NewReader("cascade fails"))
	require.NoError(t, err)

	_, err = svc.Delete(context.Background(), "user-1", doc.UID)
	require.Error(t, err)

	list, err := svc.Pins.Metadata(context.Background(), doc.CID)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Count)
}

func TestMetadataErrorPropagates(t *testing.T) {
	repo := NewMemoryRepo()
	doc, err := repo.Create(context.Background(), Document{UID: "AAAAAAA", FileName: "a", CID: "QmX", UserID: "user-1"})
	require.NoError(t, err)
	svc := NewService(repo, pinning.NewService(failingPinner{}, nil))

	_, err = svc.Metadata(context.Background(), "user-1", doc.UID)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
