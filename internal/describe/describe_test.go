package describe_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"shopfront/internal/describe"
)

func testClient(url string) *describe.Client {
	c := describe.NewClient(url, "test-key")
	c.InitialInterval = time.Millisecond
	return c
}

func TestGenerateRetriesRateLimitThenSucceeds(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"A timeless handheld classic."}]}}]}`))
	}))
	defer srv.Close()

	text, err := testClient(srv.URL).Generate(context.Background(), "Game Boy", "")
	if err != nil {
		t.Fatal(err)
	}
	if text != "A timeless handheld classic." {
		t.Fatalf("text = %q", text)
	}
	if hits.Load() != 3 {
		t.Fatalf("server saw %d requests, want 3", hits.Load())
	}
}

func TestGenerateGivesUpAfterMaxAttempts(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Generate(context.Background(), "Game Boy", "")
	if err == nil {
		t.Fatal("expected error after persistent rate limiting")
	}
	if hits.Load() != 5 {
		t.Fatalf("server saw %d requests, want 5", hits.Load())
	}
}

func TestGenerateServerErrorIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Generate(context.Background(), "Game Boy", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if hits.Load() != 1 {
		t.Fatalf("server saw %d requests, want 1 (no retry on 5xx)", hits.Load())
	}
}

func TestGenerateEmptyCandidatesFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL).Generate(context.Background(), "Game Boy", ""); err == nil {
		t.Fatal("expected error on empty candidates")
	}
}

func TestGenerateSendsPromptAndKey(t *testing.T) {
	var gotKey, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL).Generate(context.Background(), "Game Boy", "8-bit handheld"); err != nil {
		t.Fatal(err)
	}
	if gotKey != "test-key" {
		t.Fatalf("key = %q", gotKey)
	}
	if !strings.Contains(gotBody, `"role":"user"`) {
		t.Fatalf("body missing user role: %s", gotBody)
	}
	if !strings.Contains(gotBody, "Game Boy") || !strings.Contains(gotBody, "8-bit handheld") {
		t.Fatalf("prompt missing product details: %s", gotBody)
	}
}

func TestPromptWording(t *testing.T) {
	p := describe.Prompt("Game Boy", "")
	if !strings.Contains(p, `product named "Game Boy"`) {
		t.Fatalf("prompt = %q", p)
	}
	if strings.Contains(p, "Incorporate") {
		t.Fatal("empty description must not add the details clause")
	}
	p = describe.Prompt("Game Boy", "  8-bit  ")
	if !strings.Contains(p, `key details: "8-bit"`) {
		t.Fatalf("prompt = %q", p)
	}
}
