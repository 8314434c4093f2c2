package documents

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"docpin/internal/pinning"
	"docpin/internal/shared/server/middleware"
)

func newTestRouter(svc *Service, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		middleware.SetUserID(c, userID)
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func multipartUpload(t *testing.T, fileName, content, customName string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fw, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if customName != "" {
		if err := writer.WriteField("fileName", customName); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestDocumentsUploadGetAndDelete(t *testing.T) {
	dep := &recordingDependent{}
	svc := newLocalService(t, dep)
	router := newTestRouter(svc, "user-1")

	body, ct := multipartUpload(t, "hello.txt", "hello world", "greeting.txt")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", ct)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created DocumentResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if len(created.UID) != 7 || created.FileName != "greeting.txt" {
		t.Fatalf("unexpected document %+v", created)
	}
	if created.URL != "http://localhost:8080/ipfs/"+created.CID {
		t.Fatalf("unexpected url %q", created.URL)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+created.UID+"/url", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for url, got %d", resp.Code)
	}
	var urlResp struct {
		URL string `json:"url"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&urlResp)
	if urlResp.URL != created.URL {
		t.Fatalf("expected %q, got %q", created.URL, urlResp.URL)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+created.UID+"/metadata", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for metadata, got %d", resp.Code)
	}
	var list pinning.PinList
	_ = json.NewDecoder(resp.Body).Decode(&list)
	if list.Count != 1 || list.Rows[0].Metadata.Name != "greeting.txt" {
		t.Fatalf("unexpected metadata %+v", list)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil))
	var docs []DocumentResponse
	_ = json.NewDecoder(resp.Body).Decode(&docs)
	if len(docs) != 1 || docs[0].UID != created.UID {
		t.Fatalf("unexpected list %+v", docs)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/api/v1/documents/"+created.UID, nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for delete, got %d", resp.Code)
	}
	var del DeleteResponse
	_ = json.NewDecoder(resp.Body).Decode(&del)
	if !del.Deleted || !del.Unpinned {
		t.Fatalf("unexpected delete response %+v", del)
	}
	if len(dep.deleted) != 1 {
		t.Fatalf("expected cascade to dependents, got %v", dep.deleted)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+created.UID, nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.Code)
	}
}

func TestDocumentsUploadRequiresFile(t *testing.T) {
	router := newTestRouter(newLocalService(t), "user-1")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestDocumentsUploadPinFailureIs502(t *testing.T) {
	svc := NewService(NewMemoryRepo(), pinning.NewService(failingPinner{}, nil))
	router := newTestRouter(svc, "user-1")

	body, ct := multipartUpload(t, "a.txt", "a", "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", ct)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
}

func TestDocumentsOtherUsersAreInvisible(t *testing.T) {
	svc := newLocalService(t)
	owner := newTestRouter(svc, "user-1")
	other := newTestRouter(svc, "user-2")

	body, ct := multipartUpload(t, "a.txt", "private", "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", ct)
	resp := httptest.NewRecorder()
	owner.ServeHTTP(resp, req)
	var created DocumentResponse
	_ = json.NewDecoder(resp.Body).Decode(&created)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		resp = httptest.NewRecorder()
		other.ServeHTTP(resp, httptest.NewRequest(method, "/api/v1/documents/"+created.UID, nil))
		if resp.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", method, resp.Code)
		}
	}
}
