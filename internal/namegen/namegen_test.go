package namegen

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestStaticYieldsExactlyOnce(t *testing.T) {
	source := NewStatic("Nova42")

	name, err := source.Next(context.Background())
	if err != nil {
		t.Fatalf("first Next failed: %v", err)
	}
	if name != "Nova42" {
		t.Fatalf("name = %q, want Nova42", name)
	}

	if _, err := source.Next(context.Background()); err == nil {
		t.Fatalf("second Next should fail")
	}
}

func TestRandomIdentityFormatsName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("inc") != "name" {
			t.Errorf("missing inc=name query, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"name":{"first":"ada","last":"lovelace"}}]}`))
	}))
	defer srv.Close()

	gen := NewRandomIdentity(srv.URL, time.Second)
	gen.intn = func(n int) int { return 73 }

	name, err := gen.Next(context.Background())
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if name != "AdaLovelace73" {
		t.Fatalf("name = %q, want AdaLovelace73", name)
	}
}

func TestRandomIdentityFallsBackWhenEndpointFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	gen := NewRandomIdentity(srv.URL, time.Second)
	fixed := time.UnixMilli(1700000000000)
	gen.now = func() time.Time { return fixed }

	name, err := gen.Next(context.Background())
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if name != "User1700000000000" {
		t.Fatalf("name = %q, want timestamp fallback", name)
	}
}

func TestRandomIdentityFallsBackWhenUnreachable(t *testing.T) {
	gen := NewRandomIdentity("http://127.0.0.1:1", 100*time.Millisecond)
	fixed := time.UnixMilli(42)
	gen.now = func() time.Time { return fixed }

	name, err := gen.Next(context.Background())
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if name != "User42" {
		t.Fatalf("name = %q, want User42", name)
	}
}

func TestRandomIdentityEmptyPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	gen := NewRandomIdentity(srv.URL, time.Second)
	fixed := time.UnixMilli(7)
	gen.now = func() time.Time { return fixed }

	// An empty payload counts as an endpoint failure and falls back too.
	name, err := gen.Next(context.Background())
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if name != "User7" {
		t.Fatalf("name = %q, want User7", name)
	}
}
