package assets

import (
	"encoding/json"
	"errors"
	"io/fs"
	"sync"
)

const manifestPath = "dist/manifest.json"

// Manifest maps static asset paths to their fingerprinted names.
type Manifest struct {
	mu     sync.RWMutex
	assets map[string]string
	static fs.FS
}

// NewManifest creates a manifest over the static file tree.
func NewManifest(static fs.FS) *Manifest {
	return &Manifest{
		assets: make(map[string]string),
		static: static,
	}
}

// Load reads dist/manifest.json. A missing manifest leaves paths unhashed.
func (m *Manifest) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := fs.ReadFile(m.static, manifestPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			m.assets = make(map[string]string)
			return nil
		}
		return err
	}

	assets := make(map[string]string)
	if err := json.Unmarshal(data, &assets); err != nil {
		return err
	}
	m.assets = assets
	return nil
}

// Get returns the hashed path for an asset, or the original if not found
func (m *Manifest) Get(path string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if hashed, ok := m.assets[path]; ok {
		return "/static/" + hashed
	}
	return "/static/" + path
}

func (m *Manifest) GetCSS() string {
	return m.Get("css/styles.css")
}

func (m *Manifest) GetAppJS() string {
	return m.Get("js/app.js")
}
