package content

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"quizhub/internal/quiz"
)

// ErrNotFound reports an unknown quiz identifier.
var ErrNotFound = errors.New("quiz not found")

// Entry is one selectable quiz in the catalog.
type Entry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Source supplies quiz documents. Load re-reads and re-validates on
// every call; implementations must never cache validated documents,
// only Listings may be cached.
type Source interface {
	List(ctx context.Context) ([]Entry, error)
	Load(ctx context.Context, id string) (*quiz.Document, error)
}

var titleCaser = cases.Title(language.English)

// labelFromStem turns an identifier like "general_knowledge" into the
// display label "General Knowledge".
func labelFromStem(stem string) string {
	return titleCaser.String(strings.ReplaceAll(stem, "_", " "))
}

// titleFromDocument extracts meta.title without validating the rest of
// the document; listing tolerates files that would fail a Load.
func titleFromDocument(data []byte, format quiz.Format) string {
	raw := map[string]any{}
	switch format {
	case quiz.FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return ""
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return ""
		}
	}
	meta, _ := raw["meta"].(map[string]any)
	title, _ := meta["title"].(string)
	return title
}
