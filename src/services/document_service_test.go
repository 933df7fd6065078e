// backend/src/services/document_service_test.go
package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDocumentServiceFetch(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/a-KIID.pdf":
			w.Write([]byte("%PDF-1.4 fake"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	fetcher := NewDocumentService(5*time.Second, 100)

	data, err := fetcher.Fetch(context.Background(), server.URL+"/a-KIID.pdf")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(data) != "%PDF-1.4 fake" {
		t.Errorf("Fetch() body = %q", data)
	}
	if gotUserAgent != fetchUserAgent {
		t.Errorf("User-Agent = %q, want %q", gotUserAgent, fetchUserAgent)
	}

	if _, err := fetcher.Fetch(context.Background(), server.URL+"/missing.pdf"); err == nil {
		t.Error("Fetch() on 404 expected an error")
	}
}

func TestDocumentServiceRejectsNonHTTPURL(t *testing.T) {
	fetcher := NewDocumentService(time.Second, 100)
	if _, err := fetcher.Fetch(context.Background(), "file:///etc/passwd"); err == nil {
		t.Error("Fetch() on file URL expected an error")
	}
	if _, err := fetcher.Fetch(context.Background(), ""); err == nil {
		t.Error("Fetch() on empty URL expected an error")
	}
}
