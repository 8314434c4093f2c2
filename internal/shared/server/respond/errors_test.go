package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestErrorWritesEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/x", func(c *gin.Context) {
		Error(c, http.StatusNotFound, "not_found", "document not found", map[string]any{"uid": "aB3dE5f"})
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/x", nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	var payload ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Error.Code != "not_found" || payload.Error.Message != "document not found" {
		t.Fatalf("unexpected payload %+v", payload)
	}
	details, ok := payload.Error.Details.(map[string]any)
	if !ok || details["uid"] != "aB3dE5f" {
		t.Fatalf("unexpected details %#v", payload.Error.Details)
	}
}
