package util

import (
	"strings"
	"sync"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	log "github.com/sirupsen/logrus"
)

var (
	tokenizerOnce sync.Once
	tokenizer     *sentences.DefaultSentenceTokenizer
)

func sentenceTokenizer() *sentences.DefaultSentenceTokenizer {
	tokenizerOnce.Do(func() {
		t, err := english.NewSentenceTokenizer(nil)
		if err != nil {
			log.WithError(err).Warn("Failed to create sentence tokenizer, previews fall back to truncation")
			return
		}
		tokenizer = t
	})
	return tokenizer
}

// Preview returns the first sentence of text, cut to at most maxRunes runes
// with a trailing ellipsis when shortened.
func Preview(text string, maxRunes int) string {
	text = strings.Join(strings.Fields(text), " ")
	if t := sentenceTokenizer(); t != nil {
		if sents := t.Tokenize(text); len(sents) > 0 {
			if first := strings.TrimSpace(sents[0].Text); first != "" {
				text = first
			}
		}
	}
	r := []rune(text)
	if maxRunes <= 0 || len(r) <= maxRunes {
		return text
	}
	if maxRunes <= 3 {
		return string(r[:maxRunes])
	}
	return strings.TrimSpace(string(r[:maxRunes-3])) + "..."
}
