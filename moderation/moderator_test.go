package moderation

import (
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const replacementChar = '*'

func newTestModerator(t *testing.T, words ...string) *Moderator {
	t.Helper()
	mod, err := NewModerator(words, replacementChar, logs.GetLoggerFromLevel(slog.LevelDebug))
	require.NoError(t, err)
	return mod
}

func TestModerator_Censor(t *testing.T) {
	// Matching ignores word boundaries, the dictionary avoids words that hide inside common ones
	mod := newTestModerator(t, "idiot", "spam", "scam")

	tests := []struct {
		name    string
		content string
		want    string
		words   []string
	}{
		{name: "plain word", content: "you are an idiot", want: "you are an *****", words: []string{"idiot"}},
		{name: "case and repetition", content: "SPAM spam", want: "**** ****", words: []string{"spam", "spam"}},
		{name: "leet with dots", content: "what an 1.d.1.0.t!", want: "what an *********!", words: []string{"idiot"}},
		{name: "accents are kept", content: "Arrête le spam", want: "Arrête le ****", words: []string{"spam"}},
		{name: "trailing punctuation", content: "spam!", want: "****!", words: []string{"spam"}},
		{name: "clean message", content: "see you at 5", want: "see you at 5"},
		{name: "empty", content: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			got, words := mod.Censor(tt.content)
			req.Equal(tt.want, got)
			req.Equal(tt.words, words)
		})
	}
}

func TestModerator_NoiseEntriesAreIgnored(t *testing.T) {
	req := require.New(t)
	mod := newTestModerator(t, "...", ",,,", "", "spam")

	got, words := mod.Censor("buy spam now")
	req.Equal("buy **** now", got)
	req.Equal([]string{"spam"}, words)

	got, words = mod.Censor("wait ...")
	req.Equal("wait ...", got)
	req.Nil(words)
}

func TestModerator_EmptyDictionary(t *testing.T) {
	req := require.New(t)
	mod := newTestModerator(t, "", "???")

	got, words := mod.Censor("you are an idiot")
	req.Equal("you are an idiot", got)
	req.Nil(words)
}

func BenchmarkModerator_Censor(b *testing.B) {
	data, err := LoadCensored()
	if err != nil {
		b.Fatal(err)
	}
	mod, err := NewModerator(data.Words, replacementChar, logs.GetLoggerFromLevel(slog.LevelError))
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = mod.Censor("You are such an 1d10t, but a lovely one")
	}
}
