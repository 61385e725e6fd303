package lesson

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
)

var catalogYAML = `
lessons:
  - part: basics
    title: Getting started
  - part: basics
    title: First prompt
  - id: 7b0c9f52-9d4c-4bb4-9f3e-2f1b6c3f5a10
    part: practice
    title: Iterating on output
    requires_rating: true
`

func TestLoadCatalog(t *testing.T) {
	fsys := fstest.MapFS{
		"assets/lessons.yaml": &fstest.MapFile{Data: []byte(catalogYAML)},
	}

	cat, err := LoadCatalog(fsys, "assets/lessons.yaml")
	if err != nil {
		t.Fatalf("LoadCatalog() failed: %v", err)
	}

	assert.Equal(t, 3, cat.Len())
	assert.Equal(t, []string{"basics", "practice"}, cat.Parts())

	// id-less entries fall back to the identifier derived from their index
	first, ok := cat.ByIndex(1)
	assert.True(t, ok)
	assert.Equal(t, DeriveID(1), first.ID)

	// authored identifiers are kept as-is and resolvable
	third, ok := cat.Get("7b0c9f52-9d4c-4bb4-9f3e-2f1b6c3f5a10")
	assert.True(t, ok)
	assert.Equal(t, 3, third.Index)
	assert.True(t, third.RequiresRating)
}

func TestLoadCatalogMissingFile(t *testing.T) {
	_, err := LoadCatalog(fstest.MapFS{}, "assets/lessons.yaml")
	assert.Error(t, err)
}

func TestLoadCatalogBadYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"assets/lessons.yaml": &fstest.MapFile{Data: []byte("lessons: {nope")},
	}
	_, err := LoadCatalog(fsys, "assets/lessons.yaml")
	assert.Error(t, err)
}
