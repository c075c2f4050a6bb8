package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testS3Config(endpoint string) S3Config {
	return S3Config{
		Bucket:          "test-bucket",
		Region:          "us-east-1",
		Endpoint:        endpoint,
		AccessKeyID:     "test-access-key",
		SecretAccessKey: "test-secret-key",
	}
}

func TestNewS3Storage(t *testing.T) {
	store, err := NewS3Storage(testS3Config("http://localhost:4566"))
	if err != nil {
		t.Fatalf("NewS3Storage() error = %v", err)
	}

	if store.bucket != "test-bucket" {
		t.Errorf("bucket = %v, want test-bucket", store.bucket)
	}
	if store.region != "us-east-1" {
		t.Errorf("region = %v, want us-east-1", store.region)
	}
}

func TestS3Storage_Store_MockServer(t *testing.T) {
	// Mock S3 server that accepts PutObject
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT method, got %s", r.Method)
		}
		if !strings.Contains(r.URL.Path, "movie.mp4") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("failed to read body: %v", err)
		}
		if string(body) != "converted content" {
			t.Errorf("unexpected body: %s", string(body))
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	store, err := NewS3Storage(testS3Config(server.URL))
	if err != nil {
		t.Fatalf("NewS3Storage() error = %v", err)
	}

	tmp := t.TempDir()
	path := filepath.Join(tmp, "movie.mp4")
	if err := os.WriteFile(path, []byte("converted content"), 0600); err != nil {
		t.Fatal(err)
	}

	url, err := store.Store(context.Background(), path)
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	want := "https://test-bucket.s3.us-east-1.amazonaws.com/movie.mp4"
	if url != want {
		t.Errorf("url = %v, want %v", url, want)
	}
}

func TestS3Storage_Store_KeyPrefix(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testS3Config(server.URL)
	cfg.KeyPrefix = "converted"

	store, err := NewS3Storage(cfg)
	if err != nil {
		t.Fatalf("NewS3Storage() error = %v", err)
	}

	tmp := t.TempDir()
	path := filepath.Join(tmp, "movie.mp4")
	if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	url, err := store.Store(context.Background(), path)
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	if !strings.Contains(gotPath, "converted/movie.mp4") {
		t.Errorf("expected prefixed key in request path, got %s", gotPath)
	}
	if !strings.HasSuffix(url, "converted/movie.mp4") {
		t.Errorf("expected prefixed key in url, got %s", url)
	}
}

func TestS3Storage_Store_MissingFile(t *testing.T) {
	store, err := NewS3Storage(testS3Config("http://localhost:4566"))
	if err != nil {
		t.Fatalf("NewS3Storage() error = %v", err)
	}

	_, err = store.Store(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
