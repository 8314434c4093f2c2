package reports

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"docpin/internal/llm"
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

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestReportsCRUD(t *testing.T) {
	svc := NewService(NewMemoryRepo(), testDocs(), nil, nil)
	router := newTestRouter(svc, "user-1")

	resp := doJSON(router, http.MethodPost, "/api/v1/documents/aB3dE5f/reports", `{"title":"Notes","content":{"k":"v"}}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created ReportResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Title != "Notes" || string(created.Content) != `{"k":"v"}` {
		t.Fatalf("unexpected report %+v", created)
	}

	resp = doJSON(router, http.MethodGet, "/api/v1/documents/aB3dE5f/reports/"+created.UID, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	resp = doJSON(router, http.MethodGet, "/api/v1/documents/aB3dE5f/reports", "")
	var listed []ReportResponse
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 report, got %d", len(listed))
	}

	resp = doJSON(router, http.MethodDelete, "/api/v1/documents/aB3dE5f/reports/"+created.UID, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", resp.Code)
	}
	resp = doJSON(router, http.MethodGet, "/api/v1/documents/aB3dE5f/reports/"+created.UID, "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.Code)
	}
}

func TestReportsErrorStatuses(t *testing.T) {
	svc := NewService(NewMemoryRepo(), testDocs(), fakeFetcher{content: "x"}, llm.PlaceholderClient{})
	router := newTestRouter(svc, "user-1")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{name: "generate without llm", method: http.MethodPost, path: "/api/v1/documents/aB3dE5f/reports/generate", body: `{"title":"S"}`, status: http.StatusServiceUnavailable},
		{name: "content not object", method: http.MethodPost, path: "/api/v1/documents/aB3dE5f/reports", body: `{"title":"S","content":[1]}`, status: http.StatusBadRequest},
		{name: "unknown document", method: http.MethodGet, path: "/api/v1/documents/zzzzzzz/reports", status: http.StatusNotFound},
		{name: "unknown report", method: http.MethodGet, path: "/api/v1/documents/aB3dE5f/reports/zzzzzzz", status: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(router, tt.method, tt.path, tt.body)
			if resp.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, resp.Code, resp.Body.String())
			}
		})
	}
}
