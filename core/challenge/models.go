package challenge

import (
	"io/fs"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

var ErrNotFound = errors.New("challenge progress not found")

type (
	// Descriptor describes one multi-day challenge from the static config.
	Descriptor struct {
		ID    string `json:"id" yaml:"id"`
		Title string `json:"title" yaml:"title"`
		Days  int    `json:"days" yaml:"days"`
	}

	// Progress is the persisted per-user challenge state. StartDate is set on
	// first view; LastCompletedDay is a high-water mark and only increases.
	Progress struct {
		UserID           string     `json:"user_id"`
		ChallengeID      string     `json:"challenge_id"`
		StartDate        *time.Time `json:"start_date"`
		LastCompletedDay int        `json:"last_completed_day"`
	}

	// Catalog is the static list of challenges.
	Catalog struct {
		challenges []Descriptor
		byID       map[string]int
	}

	catalogFile struct {
		Challenges []Descriptor `yaml:"challenges"`
	}
)

func NewCatalog(challenges []Descriptor) *Catalog {
	cat := &Catalog{
		challenges: make([]Descriptor, 0, len(challenges)),
		byID:       make(map[string]int, len(challenges)),
	}
	for i, c := range challenges {
		cat.challenges = append(cat.challenges, c)
		cat.byID[c.ID] = i
	}
	return cat
}

// LoadCatalog reads the static challenge catalog from fsys.
func LoadCatalog(fsys fs.FS, path string) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.Wrap(err, "reading challenge catalog")
	}
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "parsing challenge catalog")
	}
	return NewCatalog(file.Challenges), nil
}

func (cat *Catalog) Len() int { return len(cat.challenges) }

func (cat *Catalog) All() []Descriptor {
	challenges := make([]Descriptor, len(cat.challenges))
	copy(challenges, cat.challenges)
	return challenges
}

func (cat *Catalog) Get(id string) (Descriptor, bool) {
	i, ok := cat.byID[id]
	if !ok {
		return Descriptor{}, false
	}
	return cat.challenges[i], true
}
