package morph

// Package morph turns raw sentences into morphemes with kagome and the IPA
// dictionary.

import (
	"strings"

	nlp "kintoki/nlp/types"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Analyzer wraps a kagome tokenizer; it is safe for concurrent use
type Analyzer struct {
	t *tokenizer.Tokenizer
}

func NewAnalyzer() (*Analyzer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Analyzer{t}, nil
}

// Analyze segments sentence into morphemes. Whitespace between words is
// dropped, as MeCab does.
func (a *Analyzer) Analyze(sentence string) []nlp.Morpheme {
	tokens := a.t.Tokenize(sentence)
	retval := make([]nlp.Morpheme, 0, len(tokens))
	for _, token := range tokens {
		if token.Class == tokenizer.DUMMY || strings.TrimSpace(token.Surface) == "" {
			continue
		}
		morpheme := nlp.Morpheme{
			Surface:        token.Surface,
			NormalizedForm: token.Surface,
			PartOfSpeech:   token.Features(),
		}
		if base, ok := token.BaseForm(); ok && base != "*" {
			morpheme.NormalizedForm = base
		}
		if reading, ok := token.Reading(); ok && reading != "*" {
			morpheme.ReadingForm = reading
		}
		retval = append(retval, morpheme)
	}
	return retval
}

// Tree builds a POS-layer tree for sentence
func (a *Analyzer) Tree(sentence string) *nlp.Tree {
	tree := nlp.NewTree()
	tree.OutputLayer = nlp.OUTPUT_POS
	tree.SetSentence(sentence)
	tree.AddMorphemes(a.Analyze(sentence))
	return tree
}
