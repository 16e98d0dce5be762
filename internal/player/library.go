package player

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/AaronLay10/SentientCutscene/internal/cutscene"
)

// Library resolves cross-cutscene jumps against a directory of documents.
// The directory is indexed on first use.
type Library struct {
	dir string

	mu      sync.Mutex
	index   map[string]string // cutscene id -> path
	scripts map[string]*cutscene.Script
}

// NewLibrary returns a resolver over the documents in dir.
func NewLibrary(dir string) *Library {
	return &Library{dir: dir, scripts: make(map[string]*cutscene.Script)}
}

// Resolve implements orchestrator.CutsceneResolver.
func (l *Library) Resolve(cutsceneID string) (*cutscene.Script, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if s, ok := l.scripts[cutsceneID]; ok {
		return s, nil
	}
	if l.index == nil {
		if err := l.scan(); err != nil {
			return nil, err
		}
	}
	path, ok := l.index[cutsceneID]
	if !ok {
		return nil, fmt.Errorf("cutscene %q not found in %s", cutsceneID, l.dir)
	}
	s, err := Prepare(path)
	if err != nil {
		return nil, err
	}
	l.scripts[cutsceneID] = s
	return s, nil
}

// IDs lists the cutscenes found in the library.
func (l *Library) IDs() ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.index == nil {
		if err := l.scan(); err != nil {
			return nil, err
		}
	}
	ids := make([]string, 0, len(l.index))
	for id := range l.index {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// scan maps cutscene ids to files. When two files declare the same id the
// first in lexical order wins.
func (l *Library) scan() error {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return fmt.Errorf("failed to read cutscene library: %w", err)
	}

	index := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() || !isDocument(e.Name()) {
			continue
		}
		path := filepath.Join(l.dir, e.Name())
		doc, err := cutscene.ReadDocument(path)
		if err != nil || doc.Cutscene.ID == "" {
			continue
		}
		if _, taken := index[doc.Cutscene.ID]; !taken {
			index[doc.Cutscene.ID] = path
		}
	}
	l.index = index
	return nil
}

func isDocument(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}
