package content

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"quizhub/internal/quiz"
)

var quizExtensions = []string{".json", ".yaml", ".yml"}

// FSSource serves quiz documents from a directory of *.json, *.yaml
// and *.yml files. The identifier is the file stem.
type FSSource struct {
	dir string
}

var _ Source = (*FSSource)(nil)

func NewFSSource(dir string) *FSSource {
	return &FSSource{dir: dir}
}

// List returns the catalog in file-name order. The label is meta.title
// when the file yields one, otherwise the Title-Cased stem. A missing
// directory is an empty catalog, not an error.
func (s *FSSource) List(ctx context.Context) ([]Entry, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read quiz dir: %w", err)
	}

	var entries []Entry
	seen := map[string]bool{}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		name := f.Name()
		ext := filepath.Ext(name)
		if !hasQuizExtension(ext) {
			continue
		}
		stem := strings.TrimSuffix(name, ext)
		if seen[stem] {
			continue
		}
		seen[stem] = true

		title := ""
		if data, err := os.ReadFile(filepath.Join(s.dir, name)); err == nil {
			title = titleFromDocument(data, quiz.FormatForPath(name))
		}
		if title == "" {
			title = labelFromStem(stem)
		}
		entries = append(entries, Entry{ID: stem, Title: title})
	}
	return entries, nil
}

// Load reads and validates the document for id. Every call re-reads
// the file so edited content is re-validated.
func (s *FSSource) Load(ctx context.Context, id string) (*quiz.Document, error) {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return nil, ErrNotFound
	}
	for _, ext := range quizExtensions {
		name := id + ext
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read quiz %s: %w", id, err)
		}
		return quiz.Parse(name, data, quiz.FormatForPath(name))
	}
	return nil, ErrNotFound
}

func hasQuizExtension(ext string) bool {
	for _, e := range quizExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
