package index

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pagekeep/pagekeep/app/document"
)

func createIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("could not open index: %v", err)
	}
	t.Cleanup(func() { ix.Close() })
	return ix
}

func testDocument(title string, text string) *document.Document {
	return &document.Document{
		UUID:     uuid.New(),
		Title:    title,
		URL:      "https://example.com/" + uuid.NewString(),
		Time:     time.Now(),
		Content:  &document.WebPage{Text: text},
		Metadata: map[string]any{"host": "example.com"},
	}
}

func TestOpenExistingIndex(t *testing.T) {
	dir := t.TempDir()

	ix, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	doc := testDocument("Persistent", "the content stays on disk")
	if _, err := ix.Add(doc); err != nil {
		t.Fatal(err)
	}
	if err := ix.Close(); err != nil {
		t.Fatal(err)
	}

	// Re-opening must leave the existing entries intact.
	ix, err = Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer ix.Close()

	hits, err := ix.Search("disk")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].UUID != doc.UUID {
		t.Fatalf("expected the persisted document, got: %+v", hits)
	}
}

func TestAddThenSearch(t *testing.T) {
	ix := createIndex(t)

	doc := testDocument("Growing Tomatoes", "tomatoes need consistent watering and full sun")
	if _, err := ix.Add(doc); err != nil {
		t.Fatal(err)
	}

	// Commits are synchronous: the document is visible immediately.
	hits, err := ix.Search("watering")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected one hit, got %v", len(hits))
	}
	if hits[0].UUID != doc.UUID {
		t.Fatalf("unexpected uuid: %v", hits[0].UUID)
	}
	if hits[0].Title != "Growing Tomatoes" {
		t.Fatalf("unexpected title: %v", hits[0].Title)
	}
	if hits[0].Score <= 0 {
		t.Fatalf("expected a positive score, got %v", hits[0].Score)
	}
}

func TestSnippetHighlighting(t *testing.T) {
	ix := createIndex(t)

	doc := testDocument("Baking", "sourdough bread needs a mature starter and patience")
	if _, err := ix.Add(doc); err != nil {
		t.Fatal(err)
	}

	hits, err := ix.Search("sourdough")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected one hit, got %v", len(hits))
	}
	if !strings.Contains(hits[0].Snippet, "***sourdough***") {
		t.Fatalf("expected the match to be highlighted, got: %q", hits[0].Snippet)
	}
	if !strings.Contains(hits[0].Snippet, "bread") {
		t.Fatalf("expected surrounding text in the snippet, got: %q", hits[0].Snippet)
	}
}

func TestStemming(t *testing.T) {
	ix := createIndex(t)

	doc := testDocument("Connections", "the connection was dropped repeatedly")
	if _, err := ix.Add(doc); err != nil {
		t.Fatal(err)
	}

	for _, query := range []string{"connection", "connections", "connected"} {
		hits, err := ix.Search(query)
		if err != nil {
			t.Fatal(err)
		}
		if len(hits) != 1 {
			t.Fatalf("%q: expected one hit, got %v", query, len(hits))
		}
	}
}

func TestSearchMetadata(t *testing.T) {
	ix := createIndex(t)

	doc := testDocument("Untitled", "nothing remarkable")
	doc.Metadata = map[string]any{"tag": []string{"woodworking"}}
	if _, err := ix.Add(doc); err != nil {
		t.Fatal(err)
	}

	hits, err := ix.Search("woodworking")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected a metadata match, got %v hits", len(hits))
	}
}

func TestRankingOrder(t *testing.T) {
	ix := createIndex(t)

	strong := testDocument("Coffee Brewing Guide", "coffee coffee coffee grind size and water temperature")
	weak := testDocument("Kitchen Notes", "a single mention of coffee among other things entirely")
	for _, doc := range []*document.Document{weak, strong} {
		if _, err := ix.Add(doc); err != nil {
			t.Fatal(err)
		}
	}

	hits, err := ix.Search("coffee")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected two hits, got %v", len(hits))
	}
	if hits[0].UUID != strong.UUID {
		t.Fatalf("expected the stronger match first, got: %+v", hits)
	}
	if hits[0].Score < hits[1].Score {
		t.Fatalf("expected descending scores, got: %v, %v", hits[0].Score, hits[1].Score)
	}
}

func TestSearchLimit(t *testing.T) {
	ix := createIndex(t)

	for i := 0; i < searchLimit+5; i++ {
		doc := testDocument("Repetitive", "the same keyword everywhere: aardvark")
		if _, err := ix.Add(doc); err != nil {
			t.Fatal(err)
		}
	}

	hits, err := ix.Search("aardvark")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != searchLimit {
		t.Fatalf("expected %v hits, got %v", searchLimit, len(hits))
	}
}

func TestDelete(t *testing.T) {
	ix := createIndex(t)

	doc := testDocument("Ephemeral", "this document is about to vanish")
	if _, err := ix.Add(doc); err != nil {
		t.Fatal(err)
	}
	if err := ix.Delete(doc.UUID); err != nil {
		t.Fatal(err)
	}

	hits, err := ix.Search("vanish")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected the document to be gone, got: %+v", hits)
	}
}

func TestDeleteUnknownUUID(t *testing.T) {
	ix := createIndex(t)

	if err := ix.Delete(uuid.New()); err != nil {
		t.Fatalf("deleting an unknown uuid must be a no-op, got: %v", err)
	}
}

func TestDeleteRemovesAllRecords(t *testing.T) {
	ix := createIndex(t)

	doc := testDocument("Twice", "indexed two times by accident")
	for i := 0; i < 2; i++ {
		if _, err := ix.Add(doc); err != nil {
			t.Fatal(err)
		}
	}
	if err := ix.Delete(doc.UUID); err != nil {
		t.Fatal(err)
	}

	hits, err := ix.Search("accident")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected every record to be gone, got: %+v", hits)
	}
}

func TestMalformedQuery(t *testing.T) {
	ix := createIndex(t)

	doc := testDocument("Anything", "some content")
	if _, err := ix.Add(doc); err != nil {
		t.Fatal(err)
	}

	for _, query := range []string{`"unterminated`, `AND AND`, `(dangling`} {
		_, err := ix.Search(query)
		if !errors.Is(err, ErrQuery) {
			t.Fatalf("%q: expected a query error, got: %v", query, err)
		}
	}
}
