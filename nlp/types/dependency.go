package types

import (
	"fmt"
	"strings"
)

// A Chunk is a run of contiguous tokens governed by at most one other chunk
type Chunk struct {
	Link        int
	HeadPos     int
	FuncPos     int
	TokenPos    int
	Score       float64
	Tokens      []*Token
	FeatureList []string
}

func NewChunk(tokenPos int) *Chunk {
	return &Chunk{Link: NO_LINK, TokenPos: tokenPos}
}

func (c *Chunk) TokenSize() int {
	return len(c.Tokens)
}

func (c *Chunk) IsEmpty() bool {
	return len(c.Tokens) == 0
}

func (c *Chunk) Token(i int) *Token {
	return c.Tokens[i]
}

func (c *Chunk) FeatureListSize() int {
	return len(c.FeatureList)
}

func (c *Chunk) Surface() string {
	var b strings.Builder
	for _, token := range c.Tokens {
		b.WriteString(token.Surface)
	}
	return b.String()
}

// Head returns the head token, or nil for an empty chunk
func (c *Chunk) Head() *Token {
	if c.HeadPos < 0 || c.HeadPos >= len(c.Tokens) {
		return nil
	}
	return c.Tokens[c.HeadPos]
}

func (c *Chunk) Func() *Token {
	if c.FuncPos < 0 || c.FuncPos >= len(c.Tokens) {
		return nil
	}
	return c.Tokens[c.FuncPos]
}

// A Tree holds the tokens and chunks of one sentence.
// Chunks reference the tree's tokens, they never own copies.
type Tree struct {
	OutputLayer OutputLayer
	Tokens      []*Token
	Chunks      []*Chunk

	sentence string
}

func NewTree() *Tree {
	return &Tree{}
}

func (t *Tree) SetSentence(sentence string) {
	t.sentence = sentence
}

// Sentence returns the raw sentence when no tokens were read,
// otherwise the concatenation of the token surfaces
func (t *Tree) Sentence() string {
	if t.IsEmpty() {
		return t.sentence
	}
	var b strings.Builder
	for _, token := range t.Tokens {
		b.WriteString(token.Surface)
	}
	return b.String()
}

func (t *Tree) SentenceSize() int {
	return len(t.sentence)
}

func (t *Tree) IsEmpty() bool {
	return len(t.Tokens) == 0
}

func (t *Tree) TokenSize() int {
	return len(t.Tokens)
}

func (t *Tree) ChunkSize() int {
	return len(t.Chunks)
}

func (t *Tree) Token(i int) *Token {
	return t.Tokens[i]
}

func (t *Tree) Chunk(i int) *Chunk {
	return t.Chunks[i]
}

func (t *Tree) AddToken(token *Token) {
	t.Tokens = append(t.Tokens, token)
}

func (t *Tree) AddChunk(chunk *Chunk) {
	t.Chunks = append(t.Chunks, chunk)
}

// AddMorphemes appends one token per analyzer record, preserving order
func (t *Tree) AddMorphemes(morphemes []Morpheme) {
	for _, m := range morphemes {
		t.Tokens = append(t.Tokens, NewToken(m))
	}
}

// ClearChunks drops the chunk layer, keeping the tokens
func (t *Tree) ClearChunks() {
	t.Chunks = nil
}

// Copy returns a tree sharing the tokens but with copies of the chunks,
// so links and scores can be changed independently
func (t *Tree) Copy() *Tree {
	newTree := &Tree{
		OutputLayer: t.OutputLayer,
		Tokens:      t.Tokens,
		Chunks:      make([]*Chunk, len(t.Chunks)),
		sentence:    t.sentence,
	}
	for i, chunk := range t.Chunks {
		newChunk := new(Chunk)
		*newChunk = *chunk
		newChunk.FeatureList = append([]string(nil), chunk.FeatureList...)
		newTree.Chunks[i] = newChunk
	}
	return newTree
}

// Validate checks the chunk layer: chunks are non-empty, partition the
// token sequence in order and link to -1 or another existing chunk
func (t *Tree) Validate() error {
	if len(t.Chunks) == 0 {
		return nil
	}
	pos := 0
	for i, chunk := range t.Chunks {
		if chunk.IsEmpty() {
			return &FormatError{Msg: fmt.Sprintf("empty chunk %d", i)}
		}
		if chunk.TokenPos != pos {
			return &FormatError{Msg: fmt.Sprintf("chunk %d starts at token %d, expected %d", i, chunk.TokenPos, pos)}
		}
		for j, token := range chunk.Tokens {
			if pos+j >= len(t.Tokens) || t.Tokens[pos+j] != token {
				return &FormatError{Msg: fmt.Sprintf("chunk %d does not cover a contiguous token run", i)}
			}
		}
		pos += chunk.TokenSize()
		if chunk.Link == i || chunk.Link < NO_LINK || chunk.Link >= len(t.Chunks) {
			return &FormatError{Msg: fmt.Sprintf("invalid dependencies: chunk %d links to %d", i, chunk.Link)}
		}
	}
	if pos != len(t.Tokens) {
		return &FormatError{Msg: fmt.Sprintf("chunks cover %d of %d tokens", pos, len(t.Tokens))}
	}
	return nil
}
