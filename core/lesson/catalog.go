package lesson

import (
	"io/fs"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type (
	// Descriptor describes one lesson of the ordered catalog.
	// Content fields (Title, Body) are opaque to the progression rules.
	Descriptor struct {
		Index          int    `json:"index" yaml:"-"` // 1-based position in the catalog
		ID             string `json:"id" yaml:"id"`   // canonical; derived from Index when the static file has none
		Part           string `json:"part" yaml:"part"`
		Title          string `json:"title" yaml:"title"`
		Body           string `json:"body" yaml:"body"`
		RequiresRating bool   `json:"requires_rating" yaml:"requires_rating"`
	}

	// Catalog is the ordered, read-only sequence of lessons loaded once at
	// process start.
	Catalog struct {
		lessons []Descriptor
		byID    map[string]int // canonical id -> 1-based index
	}

	catalogFile struct {
		Lessons []Descriptor `yaml:"lessons"`
	}
)

// NewCatalog builds a catalog from descriptors in file order. Identifiers are
// made canonical here so every later comparison is format-agnostic.
func NewCatalog(lessons []Descriptor) *Catalog {
	cat := &Catalog{
		lessons: make([]Descriptor, 0, len(lessons)),
		byID:    make(map[string]int, len(lessons)),
	}
	for i, l := range lessons {
		l.Index = i + 1
		if l.ID == "" {
			l.ID = DeriveID(l.Index)
		} else {
			l.ID = Normalize(l.ID)
		}
		cat.lessons = append(cat.lessons, l)
		cat.byID[l.ID] = l.Index
	}
	return cat
}

// LoadCatalog reads the static lesson catalog from fsys.
func LoadCatalog(fsys fs.FS, path string) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.Wrap(err, "reading lesson catalog")
	}
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "parsing lesson catalog")
	}
	return NewCatalog(file.Lessons), nil
}

func (cat *Catalog) Len() int { return len(cat.lessons) }

// All returns the catalog's lessons in index order.
func (cat *Catalog) All() []Descriptor {
	lessons := make([]Descriptor, len(cat.lessons))
	copy(lessons, cat.lessons)
	return lessons
}

// ByIndex returns the lesson at the given 1-based index.
func (cat *Catalog) ByIndex(index int) (Descriptor, bool) {
	if index < 1 || index > len(cat.lessons) {
		return Descriptor{}, false
	}
	return cat.lessons[index-1], true
}

// Get returns the lesson with the given identifier; the identifier may be in
// any supported format.
func (cat *Catalog) Get(id string) (Descriptor, bool) {
	return cat.ByIndex(cat.IndexOf(id))
}

// IndexOf resolves an identifier to its catalog index, 0 when unknown.
// An embedded numeric index is trusted only while it is plausible for this
// catalog; otherwise the catalog is searched by identifier equality before
// giving up.
func (cat *Catalog) IndexOf(id string) int {
	nid := Normalize(id)
	if n, ok := TryExtractIndex(nid); ok && n <= len(cat.lessons) {
		return n
	}
	if idx, ok := cat.byID[nid]; ok {
		return idx
	}
	return 0
}

// Parts returns the distinct part (chapter) keys in catalog order.
func (cat *Catalog) Parts() []string {
	var parts []string
	seen := make(map[string]bool)
	for _, l := range cat.lessons {
		if !seen[l.Part] {
			seen[l.Part] = true
			parts = append(parts, l.Part)
		}
	}
	return parts
}
