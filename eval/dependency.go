package eval

import (
	"fmt"

	nlp "kintoki/nlp/types"
)

type span struct {
	start, end int
}

func (s span) String() string {
	return fmt.Sprintf("[%d,%d)", s.start, s.end)
}

var noSpan = span{-1, -1}

func chunkSpan(chunk *nlp.Chunk) span {
	return span{chunk.TokenPos, chunk.TokenPos + chunk.TokenSize()}
}

// headSpans maps every chunk span of tree to the span of its head chunk
func headSpans(tree *nlp.Tree) map[span]span {
	retval := make(map[span]span, tree.ChunkSize())
	for _, chunk := range tree.Chunks {
		head := noSpan
		if chunk.Link != nlp.NO_LINK {
			head = chunkSpan(tree.Chunk(chunk.Link))
		}
		retval[chunkSpan(chunk)] = head
	}
	return retval
}

type LinkError struct {
	Chunk      span
	Test, Gold span
}

func (e *LinkError) String() string {
	return fmt.Sprintf("chunk %v: head %v, expected %v", e.Chunk, e.Test, e.Gold)
}

func (e *LinkError) Class() string {
	return "link"
}

type BoundaryError struct {
	Chunk span
	Test  bool
}

func (e *BoundaryError) String() string {
	if e.Test {
		return fmt.Sprintf("chunk %v not in gold", e.Chunk)
	}
	return fmt.Sprintf("gold chunk %v missed", e.Chunk)
}

func (e *BoundaryError) Class() string {
	return "boundary"
}

func checkTokens(test, gold *nlp.Tree) error {
	if test.TokenSize() != gold.TokenSize() {
		return fmt.Errorf("test has %d tokens, gold has %d", test.TokenSize(), gold.TokenSize())
	}
	return nil
}

// Dependency scores the head of every test chunk but the last against the
// gold chunk with the same tokens. TP counts correct heads, FP wrong ones.
func Dependency(test, gold *nlp.Tree) (*Result, error) {
	if err := checkTokens(test, gold); err != nil {
		return nil, err
	}
	goldHeads := headSpans(gold)
	result := &Result{}
	for i := 0; i < test.ChunkSize()-1; i++ {
		chunk := test.Chunk(i)
		testHead := noSpan
		if chunk.Link != nlp.NO_LINK {
			testHead = chunkSpan(test.Chunk(chunk.Link))
		}
		goldHead, exists := goldHeads[chunkSpan(chunk)]
		if exists && goldHead == testHead {
			result.TP++
			continue
		}
		result.FP++
		if !exists {
			goldHead = noSpan
		}
		result.Errors = append(result.Errors, &LinkError{chunkSpan(chunk), testHead, goldHead})
	}
	return result, nil
}

// Chunk compares chunk boundaries: TP counts spans in both trees, FP spans
// only in test, FN spans only in gold
func Chunk(test, gold *nlp.Tree) (*Result, error) {
	if err := checkTokens(test, gold); err != nil {
		return nil, err
	}
	goldSpans := headSpans(gold)
	result := &Result{}
	for _, chunk := range test.Chunks {
		s := chunkSpan(chunk)
		if _, exists := goldSpans[s]; exists {
			result.TP++
			delete(goldSpans, s)
			continue
		}
		result.FP++
		result.Errors = append(result.Errors, &BoundaryError{s, true})
	}
	for _, chunk := range gold.Chunks {
		if s := chunkSpan(chunk); hasKey(goldSpans, s) {
			result.FN++
			result.Errors = append(result.Errors, &BoundaryError{s, false})
		}
	}
	return result, nil
}

func hasKey(m map[span]span, s span) bool {
	_, exists := m[s]
	return exists
}
