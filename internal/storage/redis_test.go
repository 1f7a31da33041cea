package storage

import (
	"bytes"
	"os"
	"testing"
	"time"
)

// Needs a reachable server, e.g. REDIS_TEST_URL=redis://localhost:6379/15.
func testRedis(t *testing.T) *Redis {
	t.Helper()
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	r, err := NewRedis(url)
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	r.prefix = "earn:test:" + t.Name() + ":"
	t.Cleanup(func() {
		r.Reset()
		r.Close()
	})
	return r
}

func TestRedisRoundTrip(t *testing.T) {
	r := testRedis(t)

	if v, err := r.Get("missing"); err != nil || v != nil {
		t.Fatalf("Get(missing) = %q, %v", v, err)
	}
	if err := r.Set("a", []byte("session-data"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, err := r.Get("a")
	if err != nil || !bytes.Equal(v, []byte("session-data")) {
		t.Fatalf("Get(a) = %q, %v", v, err)
	}
	if err := r.Delete("a"); err != nil {
		t.Fatal(err)
	}
	if v, _ := r.Get("a"); v != nil {
		t.Errorf("value survived Delete: %q", v)
	}
}

func TestRedisReset(t *testing.T) {
	r := testRedis(t)
	for _, k := range []string{"x", "y", "z"} {
		if err := r.Set(k, []byte(k), time.Minute); err != nil {
			t.Fatal(err)
		}
	}
	if err := r.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	for _, k := range []string{"x", "y", "z"} {
		if v, _ := r.Get(k); v != nil {
			t.Errorf("%s survived Reset", k)
		}
	}
}

func TestNewRedisBadURL(t *testing.T) {
	if _, err := NewRedis("not-a-url"); err == nil {
		t.Error("expected parse error")
	}
}
