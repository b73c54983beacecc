package learn_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/solenecodes/web-search-agent/internal/provider/learn"
)

func TestSearchDocs(t *testing.T) {
	longDescription := strings.Repeat("d", 300)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/search" {
			t.Errorf("got path '%s', expected '/api/search'", r.URL.Path)
		}
		if got := r.URL.Query().Get("search"); got != "azure openai limits" {
			t.Errorf("got search query '%s', expected 'azure openai limits'", got)
		}
		if got := r.URL.Query().Get("locale"); got != "en-us" {
			t.Errorf("got locale '%s', expected 'en-us'", got)
		}

		fmt.Fprintf(w, `{"results": [
			{"title": "First", "url": "https://learn.microsoft.com/first", "description": "%s"},
			{"title": "", "url": "https://learn.microsoft.com/untitled", "description": "skipped"},
			{"title": "Second", "url": "https://learn.microsoft.com/second", "description": "short"},
			{"title": "Third", "url": "https://learn.microsoft.com/third", "description": "extra"},
			{"title": "Fourth", "url": "https://learn.microsoft.com/fourth", "description": "extra"}
		]}`, longDescription)
	}))
	defer srv.Close()

	p := learn.NewWithEndpoint(srv.URL)
	docs, err := p.SearchDocs(context.Background(), "azure openai limits", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(docs) != 3 {
		t.Fatalf("got %d docs, expected 3", len(docs))
	}

	if docs[0].Title != "First" {
		t.Errorf("got title '%s', expected 'First'", docs[0].Title)
	}
	if len(docs[0].Content) != 200 {
		t.Errorf("got description length %d, expected truncation to 200", len(docs[0].Content))
	}
	if docs[1].Title != "Second" {
		t.Errorf("untitled results must be skipped, got '%s'", docs[1].Title)
	}
}

func TestSearchDocsEmptyTopic(t *testing.T) {
	p := learn.New()
	if _, err := p.SearchDocs(context.Background(), "", 3); err == nil {
		t.Error("expected error for empty topic, got none")
	}
}
