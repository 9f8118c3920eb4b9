package source

import (
	"errors"
	"net/http"
	"testing"
)

func TestBuildPage(t *testing.T) {
	headers := http.Header{"Content-Type": []string{"text/html; charset=utf-8"}}

	src, err := Build("https://example.com/a", headers, "<html></html>", "text/html; charset=utf-8")
	if err != nil {
		t.Fatal(err)
	}
	if src.Page == nil {
		t.Fatal("expected a page source")
	}
	if src.Page.URL != "https://example.com/a" || src.URL() != "https://example.com/a" {
		t.Fatalf("unexpected url: %q", src.Page.URL)
	}
	if src.Page.Body != "<html></html>" {
		t.Fatalf("unexpected body: %q", src.Page.Body)
	}
}

func TestBuildXHTML(t *testing.T) {
	src, err := Build("https://example.com/a", nil, "<html/>", "application/xhtml+xml")
	if err != nil {
		t.Fatal(err)
	}
	if src.Page == nil {
		t.Fatal("expected a page source")
	}
}

func TestBuildNotImplemented(t *testing.T) {
	for contentType, variant := range map[string]string{
		"image/png": "image",
		"video/mp4": "video",
	} {
		_, err := Build("https://example.com/a", nil, "", contentType)

		var notImplemented *NotImplementedError
		if !errors.As(err, &notImplemented) {
			t.Fatalf("%v: expected a NotImplementedError, got: %v", contentType, err)
		}
		if notImplemented.Variant != variant {
			t.Fatalf("unexpected variant: %q", notImplemented.Variant)
		}
	}
}

func TestBuildUnsupported(t *testing.T) {
	for _, contentType := range []string{"application/json", "text/plain", ""} {
		_, err := Build("https://example.com/a", nil, "", contentType)

		var unsupported *UnsupportedTypeError
		if !errors.As(err, &unsupported) {
			t.Fatalf("%q: expected an UnsupportedTypeError, got: %v", contentType, err)
		}
	}
}

func TestParseMeta(t *testing.T) {
	meta := ParseMeta(`<html><head>
		<title> Plain Title </title>
		<meta property="og:title" content="Social Title">
		<meta name="description" content="A page about things.">
	</head><body></body></html>`)

	if meta.Title != "Plain Title" {
		t.Fatalf("unexpected title: %q", meta.Title)
	}
	if meta.OGTitle != "Social Title" {
		t.Fatalf("unexpected og title: %q", meta.OGTitle)
	}
	if meta.Description != "A page about things." {
		t.Fatalf("unexpected description: %q", meta.Description)
	}
}

func TestParseMetaMalformed(t *testing.T) {
	// Malformed markup must never fail, only yield empty metadata.
	meta := ParseMeta("<<<not<html")

	if meta.OGTitle != "" || meta.Description != "" {
		t.Fatalf("expected empty metadata, got: %+v", meta)
	}
}
