package moderation

import (
	"log/slog"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Moderator masks forbidden words in message content before it is stored.
// Matching ignores case, punctuation and common leet substitutions, so "B.4.d.g.€r" hits "badger".
type Moderator struct {
	matcher      *goahocorasick.Machine
	censoredChar rune
	log          *slog.Logger
}

// folded is a message reduced to its significant runes.
// positions[i] is the index in the original runes of folded rune i.
type folded struct {
	runes     []rune
	positions []int
}

func NewModerator(censoredWords []string, censoredChar rune, log *slog.Logger) (*Moderator, error) {
	patterns := make([][]rune, 0, len(censoredWords))
	for _, word := range censoredWords {
		if f := fold([]rune(word)); len(f.runes) > 0 {
			patterns = append(patterns, f.runes)
		}
	}

	log.Debug("Moderator ready", "patterns", len(patterns), "skipped", len(censoredWords)-len(patterns))
	mod := &Moderator{censoredChar: censoredChar, log: log}
	if len(patterns) == 0 {
		return mod, nil
	}

	mod.matcher = new(goahocorasick.Machine)
	if err := mod.matcher.Build(patterns); err != nil {
		return nil, err
	}
	return mod, nil
}

// Censor returns content with every rune of a forbidden match replaced, from the first to the last
// significant rune of the match, together with the matched dictionary words in order.
func (m *Moderator) Censor(content string) (string, []string) {
	if m.matcher == nil || content == "" {
		return content, nil
	}
	original := []rune(content)
	f := fold(original)
	if len(f.runes) == 0 {
		return content, nil
	}

	hits := m.matcher.MultiPatternSearch(f.runes, false)
	if len(hits) == 0 {
		return content, nil
	}

	words := make([]string, 0, len(hits))
	for _, hit := range hits {
		last := hit.Pos + len(hit.Word) - 1
		if hit.Pos < 0 || last >= len(f.positions) {
			continue
		}
		for i := f.positions[hit.Pos]; i <= f.positions[last]; i++ {
			original[i] = m.censoredChar
		}
		words = append(words, string(hit.Word))
	}
	if len(words) == 0 {
		return content, nil
	}
	return string(original), words
}

func fold(runes []rune) folded {
	f := folded{
		runes:     make([]rune, 0, len(runes)),
		positions: make([]int, 0, len(runes)),
	}
	for i, r := range runes {
		r = unleet(r)
		if unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
			continue
		}
		f.runes = append(f.runes, unicode.ToLower(r))
		f.positions = append(f.positions, i)
	}
	return f
}

func unleet(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	}
	return r
}
