package messages

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docpin/internal/documents"
	"docpin/internal/llm"
)

func TestPostWithoutLLMStoresOnlyUserMessage(t *testing.T) {
	svc := NewService(NewMemoryRepo(), testDocs(), fakeFetcher{content: "hello"}, llm.PlaceholderClient{})

	res, err := svc.Post(context.Background(), "user-1", "aB3dE5f", "  what is this?  ")
	require.NoError(t, err)
	assert.Nil(t, res.Reply)
	assert.True(t, res.Message.SenderIsUser)
	assert.Equal(t, "what is this?", res.Message.Content)
	assert.Len(t, res.Message.UID, 7)

	msgs, err := svc.List(context.Background(), "user-1", "aB3dE5f")
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestPostWithLLMAddsReplyUsingDocumentText(t *testing.T) {
	client := &fakeLLM{answer: "It is a note."}
	svc := NewService(NewMemoryRepo(), testDocs(), fakeFetcher{content: "Meeting notes: ship on Friday"}, client)
	ctx := context.Background()

	_, err := svc.Post(ctx, "user-1", "aB3dE5f", "first")
	require.NoError(t, err)
	res, err := svc.Post(ctx, "user-1", "aB3dE5f", "second")
	require.NoError(t, err)

	require.NotNil(t, res.Reply)
	assert.False(t, res.Reply.SenderIsUser)
	assert.Equal(t, "It is a note.", res.Reply.Content)

	require.Len(t, client.inputs, 2)
	last := client.inputs[1]
	assert.Equal(t, "notes.txt", last.DocumentName)
	assert.Contains(t, last.DocumentText, "ship on Friday")
	assert.Equal(t, "second", last.Question)
	require.Len(t, last.History, 2)
	assert.True(t, last.History[0].FromUser)
	assert.False(t, last.History[1].FromUser)

	msgs, err := svc.List(ctx, "user-1", "aB3dE5f")
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, "It is a note.", msgs[3].Content)
}

func TestPostReplyFailureIsNotFatal(t *testing.T) {
	client := &fakeLLM{err: errors.New("provider down")}
	svc := NewService(NewMemoryRepo(), testDocs(), fakeFetcher{err: errors.New("gateway down")}, client)

	res, err := svc.Post(context.Background(), "user-1", "aB3dE5f", "hello")
	require.NoError(t, err)
	assert.Nil(t, res.Reply)
	require.Len(t, client.inputs, 1)
	assert.Empty(t, client.inputs[0].DocumentText)
}

func TestPostValidatesContent(t *testing.T) {
	svc := NewService(NewMemoryRepo(), testDocs(), nil, nil)

	_, err := svc.Post(context.Background(), "user-1", "aB3dE5f", "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Post(context.Background(), "user-1", "aB3dE5f", strings.Repeat("é", MaxContentLength+1))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Post(context.Background(), "user-1", "aB3dE5f", strings.Repeat("é", MaxContentLength))
	assert.NoError(t, err)
}

func TestPostUnknownDocument(t *testing.T) {
	svc := NewService(NewMemoryRepo(), testDocs(), nil, nil)

	_, err := svc.Post(context.Background(), "user-2", "aB3dE5f", "hi")
	assert.ErrorIs(t, err, documents.ErrNotFound)
}

func TestCreateRetriesOnUIDCollision(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, testDocs(), nil, nil)
	uids := []string{"AAAAAAA", "AAAAAAA", "BBBBBBB"}
	i := 0
	svc.NewUID = func() string {
		uid := uids[i]
		i++
		return uid
	}

	first, err := svc.Post(context.Background(), "user-1", "aB3dE5f", "one")
	require.NoError(t, err)
	second, err := svc.Post(context.Background(), "user-1", "aB3dE5f", "two")
	require.NoError(t, err)
	assert.Equal(t, "AAAAAAA", first.Message.UID)
	assert.Equal(t, "BBBBBBB", second.Message.UID)
}

func TestDeleteByDocumentRemovesMessages(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, testDocs(), nil, nil)
	ctx := context.Background()
	for _, content := range []string{"a", "b"} {
		_, err := svc.Post(ctx, "user-1", "aB3dE5f", content)
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, Message{UID: "zzzzzzz", Content: "other", DocumentID: 2})
	require.NoError(t, err)

	n, err := svc.DeleteByDocument(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	remaining, err := repo.ListByDocument(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héll", truncateRunes("héllo", 4))
	assert.Equal(t, "hi", truncateRunes("hi", 4))
}
