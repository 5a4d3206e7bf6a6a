package logger

import (
	"strings"
	"testing"
)

func TestSanitizeKVs(t *testing.T) {
	l := &Logger{salt: "pepper"}

	out := l.sanitizeKVs([]interface{}{"ghost_admin_api_key", "id:secret", "user_id", "u-1", "slots", 3, "dangling"})
	if len(out) != 7 {
		t.Fatalf("len: want=%d got=%d", 7, len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Errorf("api key: want=%q got=%v", "[REDACTED]", out[1])
	}
	hashed, ok := out[3].(string)
	if !ok || !strings.HasPrefix(hashed, "hash:") || strings.Contains(hashed, "u-1") {
		t.Errorf("user id should be hashed, got %v", out[3])
	}
	if out[5] != 3 {
		t.Errorf("plain values must pass through, got %v", out[5])
	}
	if out[6] != "dangling" {
		t.Errorf("odd trailing key must be kept, got %v", out[6])
	}
}

func TestHashValueIsStable(t *testing.T) {
	l := &Logger{salt: "pepper"}
	if l.hashValue("u-1") != l.hashValue("u-1") {
		t.Fatal("hash must be deterministic for the same salt")
	}
	other := &Logger{salt: "salt"}
	if l.hashValue("u-1") == other.hashValue("u-1") {
		t.Fatal("hash must depend on the salt")
	}
	if l.hashValue("") != "" {
		t.Fatal("empty values hash to empty string")
	}
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Info("ignored", "user_id", "u-1")
	l.With("component", "test").Warn("still ignored")
}
