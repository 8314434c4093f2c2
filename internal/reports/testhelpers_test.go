package reports

import (
	"context"
	"encoding/json"
	"io"
	"strings"

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
	report json.RawMessage
	err    error
	last   llm.ReportInput
}

func (f *fakeLLM) Reply(context.Context, llm.ReplyInput) (string, error) {
	return "", nil
}

func (f *fakeLLM) GenerateReport(_ context.Context, input llm.ReportInput) (json.RawMessage, error) {
	f.last = input
	return f.report, f.err
}

func testDocs() fakeDocs {
	return fakeDocs{
		"aB3dE5f": {ID: 1, UID: "aB3dE5f", FileName: "contract.txt", CID: "local-abc", UserID: "user-1"},
	}
}
