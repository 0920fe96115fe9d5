package moderation

import (
	"chat-hub/errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestLoadCensored_Embedded(t *testing.T) {
	req := require.New(t)

	data, err := LoadCensored()
	req.NoError(err)
	req.ElementsMatch([]string{"en", "fr"}, data.Languages)
	req.Contains(data.Words, "idiot")
	req.Contains(data.Words, "abruti")
}

func TestLoadCensored_DeduplicatesAndSkipsNoise(t *testing.T) {
	req := require.New(t)
	fsys := fstest.MapFS{
		"words/en.txt":    {Data: []byte("badger\r\n\n# comment\nsnake\n")},
		"words/fr.txt":    {Data: []byte("  badger  \nblaireau\n")},
		"words/README.md": {Data: []byte("ignored")},
	}

	data, err := loadFrom(fsys, "words")
	req.NoError(err)
	req.Equal([]string{"badger", "blaireau", "snake"}, data.Words)
	req.Equal([]string{"en", "fr"}, data.Languages)
}

func TestLoadCensored_Empty(t *testing.T) {
	fsys := fstest.MapFS{"words/en.txt": {Data: []byte("\n\n")}}

	_, err := loadFrom(fsys, "words")
	require.ErrorIs(t, err, errors.ErrEmptyWords)
}
