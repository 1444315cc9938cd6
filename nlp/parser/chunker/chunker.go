package chunker

// Package chunker groups the tokens of a tree into chunks by tagging every
// token B (begins a chunk) or I (continues one) on a lattice.

import (
	"kintoki/alg/lattice"
	"kintoki/alg/model"
	nlp "kintoki/nlp/types"
)

const (
	LABEL_B = iota
	LABEL_I
)

const (
	BOUNDARY = "_"
	BOS_POS  = "BOS"
)

var labelNames = []string{"B", "I"}

type Chunker struct {
	Model *model.Model

	lat *lattice.Lattice
}

// New returns a chunker scoring with m; a nil model scores everything zero.
// A Chunker reuses its lattice and must not be shared between goroutines.
func New(m *model.Model) *Chunker {
	if m == nil {
		m = model.New()
	}
	return &Chunker{Model: m, lat: lattice.New(0)}
}

// TokenFeatures returns the features of tagging token i with label
func TokenFeatures(tree *nlp.Tree, i int, label int) []string {
	token := tree.Token(i)
	name := labelNames[label]
	prevPOS := BOS_POS
	if i > 0 {
		prevPOS = tree.Token(i - 1).POS
	}
	return []string{
		name + "/POS=" + token.POS,
		name + "/POS1=" + token.FeatureAt(1),
		name + "/W=" + token.Surface,
		name + "/PPOS=" + prevPOS,
	}
}

func TransitionFeature(prev, label string) string {
	return "T:" + prev + label
}

func (c *Chunker) build(tree *nlp.Tree) error {
	size := tree.TokenSize()
	c.lat.Reset(size)
	prev := []int{lattice.BOS}
	for i := 0; i < size; i++ {
		labels := []int{LABEL_B, LABEL_I}
		if i == 0 {
			labels = labels[:1]
		}
		current := make([]int, len(labels))
		for j, label := range labels {
			id, err := c.lat.AddNode(i+1, label)
			if err != nil {
				return err
			}
			current[j] = id
			unigram := TokenFeatures(tree, i, label)
			for _, left := range prev {
				features := append(unigram[:len(unigram):len(unigram)], TransitionFeature(c.labelName(left), labelNames[label]))
				fvector := c.Model.Lookup(features)
				if _, err := c.lat.AddPath(left, id, fvector, c.Model.Cost(fvector)); err != nil {
					return err
				}
			}
		}
		prev = current
	}
	for _, left := range prev {
		fvector := c.Model.Lookup([]string{TransitionFeature(c.labelName(left), BOUNDARY)})
		if _, err := c.lat.AddPath(left, lattice.EOS, fvector, c.Model.Cost(fvector)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chunker) labelName(node int) string {
	if node == lattice.BOS {
		return BOUNDARY
	}
	return labelNames[c.lat.Node(node).Label]
}

// Parse replaces the chunks of tree with the best B/I tagging of its tokens.
// The new chunks have no links.
func (c *Chunker) Parse(tree *nlp.Tree) error {
	tree.ClearChunks()
	if tree.IsEmpty() {
		return nil
	}
	if err := c.build(tree); err != nil {
		return err
	}
	result, err := c.lat.Viterbi()
	if err != nil {
		return err
	}
	var chunk *nlp.Chunk
	for i, label := range result.Labels(c.lat) {
		if label == LABEL_B {
			chunk = nlp.NewChunk(i)
			tree.AddChunk(chunk)
		}
		chunk.Tokens = append(chunk.Tokens, tree.Token(i))
	}
	return nil
}
