package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackit/stackit/models"
)

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{"React", " react ", "JS", "", "  ", "js", "Go"})
	assert.Equal(t, []string{"react", "js", "go"}, got)
}

func TestNormalizeTagsCapsAtFive(t *testing.T) {
	got := NormalizeTags([]string{"a", "b", "c", "d", "e", "f", "g"})
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, got)
}

func TestNormalizeTagsEmpty(t *testing.T) {
	assert.Empty(t, NormalizeTags(nil))
	assert.Empty(t, NormalizeTags([]string{"", "   "}))
}

func TestEnsureTagsCreatesOnce(t *testing.T) {
	db := newTestDB(t)

	first, err := EnsureTags(db, []string{"react", "go"})
	require.NoError(t, err)
	require.Len(t, first, 2)

	// Second resolution of an existing name reuses the row.
	second, err := EnsureTags(db, []string{"react"})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)

	var count int64
	db.Model(&models.Tag{}).Count(&count)
	assert.EqualValues(t, 2, count)
}
