package messages

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"

	"docpin/internal/documents"
	"docpin/internal/llm"
)

type fakeDocs map[string]documents.Document

func (f fakeDocs) Get(_ context.Context, userID, uid string) (documents.Document, error) {
	doc, ok := f[uid]
	if !ok || doc.UserID != userID {
		return documents.Document{}, documents.ErrNotFound
	}
	return doc, nil
}

type fakeFetcher struct {
	content string
	err     error
}

func (f fakeFetcher) Fetch(context.Context, string) (io.ReadCloser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(f.content)), nil
}

type fakeLLM struct {
	mu     sync.Mutex
	answer string
	err    error
	inputs []llm.ReplyInput
}

func (f *fakeLLM) Reply(_ context.Context, input llm.ReplyInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, input)
	return f.answer, f.err
}

func (f *fakeLLM) GenerateReport(context.Context, llm.ReportInput) (json.RawMessage, error) {
	return nil, errors.New("not used")
}

func testDocs() fakeDocs {
	return fakeDocs{
		"aB3dE5f": {ID: 1, UID: "aB3dE5f", FileName: "notes.txt", CID: "local-abc", UserID: "user-1"},
	}
}
