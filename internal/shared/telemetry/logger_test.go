package telemetry

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func TestInfoWritesJSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })

	Info("pin.upload", map[string]any{"cid": "QmTest", "size": 12})

	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &payload); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	for _, key := range []string{"ts", "level", "msg", "cid", "size"} {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing key %s in %v", key, payload)
		}
	}
	if payload["level"] != "info" || payload["msg"] != "pin.upload" {
		t.Fatalf("unexpected payload %v", payload)
	}
}

func TestSetLevelSuppressesInfo(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel("error")
	t.Cleanup(func() {
		SetOutput(os.Stdout)
		SetLevel("info")
	})

	Info("hidden", nil)
	Error("shown", nil)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be suppressed: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Fatalf("expected error line: %s", out)
	}
}
