package assets

import (
	"encoding/json"
	"testing"
	"testing/fstest"
)

func TestManifestLoadAndGet(t *testing.T) {
	content := map[string]string{
		"css/styles.css": "css/styles.abcd1234.css",
		"js/app.js":      "js/app.9876.js",
	}
	data, _ := json.Marshal(content)
	static := fstest.MapFS{"dist/manifest.json": {Data: data}}

	m := NewManifest(static)
	if err := m.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if got := m.GetCSS(); got != "/static/"+content["css/styles.css"] {
		t.Fatalf("unexpected css path: %s", got)
	}
	if got := m.GetAppJS(); got != "/static/"+content["js/app.js"] {
		t.Fatalf("unexpected app js path: %s", got)
	}
	if got := m.Get("missing.js"); got != "/static/missing.js" {
		t.Fatalf("expected fallback path, got %s", got)
	}
}

func TestManifestLoadMissingFile(t *testing.T) {
	m := NewManifest(fstest.MapFS{"css/styles.css": {Data: []byte("body{}")}})
	if err := m.Load(); err != nil {
		t.Fatalf("expected missing manifest to be handled, got %v", err)
	}

	if got := m.GetAppJS(); got != "/static/js/app.js" {
		t.Fatalf("expected fallback path for app.js, got %s", got)
	}
}

func TestManifestLoadInvalidJSON(t *testing.T) {
	m := NewManifest(fstest.MapFS{"dist/manifest.json": {Data: []byte("{not-json")}})
	if err := m.Load(); err == nil {
		t.Fatal("expected invalid JSON error")
	}
}

func TestManifestReloadReplacesEntries(t *testing.T) {
	static := fstest.MapFS{"dist/manifest.json": {Data: []byte(`{"js/app.js":"js/app.1.js"}`)}}
	m := NewManifest(static)
	if err := m.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	static["dist/manifest.json"] = &fstest.MapFile{Data: []byte(`{"css/styles.css":"css/styles.2.css"}`)}
	if err := m.Load(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got := m.GetAppJS(); got != "/static/js/app.js" {
		t.Fatalf("stale entry survived reload: %s", got)
	}
	if got := m.GetCSS(); got != "/static/css/styles.2.css" {
		t.Fatalf("unexpected css path: %s", got)
	}
}
