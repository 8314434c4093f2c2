package util

import (
	"strings"
	"testing"
)

func TestNewUIDShape(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		uid := NewUID()
		if len(uid) != UIDLength {
			t.Fatalf("expected length %d, got %q", UIDLength, uid)
		}
		for _, ch := range uid {
			if !strings.ContainsRune(uidAlphabet, ch) {
				t.Fatalf("unexpected character %q in %q", ch, uid)
			}
		}
		seen[uid] = struct{}{}
	}
	if len(seen) < 990 {
		t.Fatalf("expected near-unique uids, got %d distinct of 1000", len(seen))
	}
}

func TestRandomStringDigits(t *testing.T) {
	code := RandomString(5, "0123456789")
	if len(code) != 5 {
		t.Fatalf("expected 5 digits, got %q", code)
	}
	for _, ch := range code {
		if ch < '0' || ch > '9' {
			t.Fatalf("non-digit %q in %q", ch, code)
		}
	}
}
