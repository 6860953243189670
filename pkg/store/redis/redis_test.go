package redis

import (
	"context"
	"testing"

	goredis "github.com/redis/go-redis/v9"
)

func TestKeyLayout(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{Addr: "localhost:0"})
	defer client.Close()

	tests := []struct {
		prefix  string
		wantKey string
		wantSet string
	}{
		{"", "crafttable:artifact:minecraft/torch", "crafttable:keys"},
		{"test:", "test:artifact:minecraft/torch", "test:keys"},
	}
	for _, tt := range tests {
		s := New(client, tt.prefix)
		if got := s.dataKey("minecraft/torch"); got != tt.wantKey {
			t.Errorf("dataKey = %q, want %q", got, tt.wantKey)
		}
		if got := s.setKey(); got != tt.wantSet {
			t.Errorf("setKey = %q, want %q", got, tt.wantSet)
		}
	}
}

func TestWriteRejectsInvalidKey(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{Addr: "localhost:0"})
	defer client.Close()

	// Validation happens before any network round trip.
	if err := New(client, "").Write(context.Background(), "../x", nil); err == nil {
		t.Error("Write with traversal key should fail")
	}
}

func TestOpenBadURL(t *testing.T) {
	if _, err := Open(context.Background(), "not-a-url", ""); err == nil {
		t.Error("Open with bad url should fail")
	}
}
