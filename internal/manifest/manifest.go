// Package manifest maintains the asset revision manifest: a JSON object
// mapping logical asset names to their content-hashed file names.
//
// Writes always merge into the existing file. The Manifest value is shared
// by every transform of a run and serialises its read-merge-write cycle.
package manifest

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

// hashLen is the number of hex characters kept from the content digest.
const hashLen = 10

// Manifest is the on-disk rev manifest.
type Manifest struct {
	path string
	mu   sync.Mutex
}

// New returns a manifest stored at the given OS path.
func New(path string) *Manifest {
	return &Manifest{path: path}
}

// Path returns the manifest file location.
func (m *Manifest) Path() string {
	return m.path
}

// Hash returns the short content digest used in revisioned names.
func Hash(content []byte) string {
	sum := md5.Sum(content)
	return hex.EncodeToString(sum[:])[:hashLen]
}

// Revision inserts the content hash before the extension:
// "styles/site.css" becomes "styles/site-0123456789.css" and
// "acme.theme.css" becomes "acme.theme-0123456789.css".
func Revision(name string, content []byte) string {
	ext := path.Ext(name)
	if ext == path.Base(name) {
		ext = ""
	}
	return strings.TrimSuffix(name, ext) + "-" + Hash(content) + ext
}

// Load reads the current entries. A missing file yields an empty map.
func (m *Manifest) Load() (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.read()
}

// Merge adds or replaces entries and rewrites the file. Entries already on
// disk that are not in the update are preserved.
func (m *Manifest) Merge(entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, err := m.read()
	if err != nil {
		return err
	}
	for k, v := range entries {
		current[k] = v
	}

	// encoding/json sorts map keys.
	data, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("creating manifest dir: %w", err)
	}
	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	if err := os.Rename(tmp, m.path); err != nil {
		return fmt.Errorf("replacing manifest: %w", err)
	}
	return nil
}

func (m *Manifest) read() (map[string]string, error) {
	entries := make(map[string]string)
	data, err := os.ReadFile(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", m.path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", m.path, err)
	}
	return entries, nil
}
