package selection

// Package selection picks the head and function tokens of each chunk and
// derives the chunk features used by the dependency parser.

import (
	nlp "kintoki/nlp/types"
)

const (
	POS_PARTICLE  = "助詞"
	POS_AUXILIARY = "助動詞"
	POS_SYMBOL    = "記号"
	POS1_CASE     = "格助詞"
)

func IsFunctional(token *nlp.Token) bool {
	switch token.POS {
	case POS_PARTICLE, POS_AUXILIARY, POS_SYMBOL:
		return true
	}
	return false
}

// Select sets the head position (rightmost content token, or the first
// token when every token is functional) and the function position
// (rightmost functional token, or the head when there is none)
func Select(chunk *nlp.Chunk) {
	chunk.HeadPos, chunk.FuncPos = 0, -1
	for i := chunk.TokenSize() - 1; i >= 0; i-- {
		if !IsFunctional(chunk.Token(i)) {
			chunk.HeadPos = i
			break
		}
	}
	for i := chunk.TokenSize() - 1; i >= 0; i-- {
		if IsFunctional(chunk.Token(i)) {
			chunk.FuncPos = i
			break
		}
	}
	if chunk.FuncPos < 0 {
		chunk.FuncPos = chunk.HeadPos
	}
}

func Features(chunk *nlp.Chunk) []string {
	head, fn := chunk.Head(), chunk.Func()
	if head == nil || fn == nil {
		return nil
	}
	features := []string{
		"FHS:" + head.Surface,
		"FHP0:" + head.FeatureAt(0),
		"FHP1:" + head.FeatureAt(1),
		"FFS:" + fn.Surface,
		"FFP0:" + fn.FeatureAt(0),
		"FFP1:" + fn.FeatureAt(1),
	}
	if fn.POS == POS_PARTICLE && fn.FeatureAt(1) == POS1_CASE {
		features = append(features, "GCASE:"+fn.Surface)
	}
	if last := chunk.Token(chunk.TokenSize() - 1); last.POS == POS_SYMBOL {
		features = append(features, "LP:"+last.Surface)
	}
	return features
}

// Apply selects heads and features for every chunk of tree
func Apply(tree *nlp.Tree) {
	for _, chunk := range tree.Chunks {
		if chunk.IsEmpty() {
			continue
		}
		Select(chunk)
		chunk.FeatureList = Features(chunk)
	}
}
