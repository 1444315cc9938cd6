package dependency

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"kintoki/alg/model"
	"kintoki/nlp/parser/selection"
	nlp "kintoki/nlp/types"
)

// buildTree makes one single-token chunk per morpheme
func buildTree(morphemes ...nlp.Morpheme) *nlp.Tree {
	tree := nlp.NewTree()
	tree.AddMorphemes(morphemes)
	for i, token := range tree.Tokens {
		chunk := nlp.NewChunk(i)
		chunk.Tokens = append(chunk.Tokens, token)
		tree.AddChunk(chunk)
	}
	selection.Apply(tree)
	return tree
}

func morpheme(surface, pos string) nlp.Morpheme {
	return nlp.Morpheme{Surface: surface, PartOfSpeech: []string{pos, "*"}}
}

func readModel(t *testing.T, weights string) *model.Model {
	m, err := model.Read(strings.NewReader(weights))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func links(tree *nlp.Tree) []int {
	retval := make([]int, tree.ChunkSize())
	for i, chunk := range tree.Chunks {
		retval[i] = chunk.Link
	}
	return retval
}

func crossing(l []int) bool {
	for i := range l {
		for j := i + 1; j < l[i]; j++ {
			if l[j] > l[i] {
				return true
			}
		}
	}
	return false
}

func TestParse(t *testing.T) {
	tree := buildTree(morpheme("太郎", "名詞"), morpheme("花子", "名詞"), morpheme("会う", "動詞"))
	p := New(readModel(t, "1.0\tH_FHP0:動詞\n0.5\tROOT\n"))
	if err := p.Parse(tree); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(links(tree), []int{2, 2, -1}) {
		t.Errorf("Expected links [2 2 -1], got %v", links(tree))
	}
	scores := []float64{tree.Chunk(0).Score, tree.Chunk(1).Score, tree.Chunk(2).Score}
	if !reflect.DeepEqual(scores, []float64{1.0, 1.0, 0.5}) {
		t.Errorf("Expected scores [1 1 0.5], got %v", scores)
	}
	if err := tree.Validate(); err != nil {
		t.Error(err)
	}
}

func TestParseEmptyModel(t *testing.T) {
	tree := buildTree(morpheme("a", "名詞"), morpheme("b", "名詞"), morpheme("c", "名詞"), morpheme("d", "動詞"))
	p := New(nil)
	if err := p.Parse(tree); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(links(tree), []int{1, 2, 3, -1}) {
		t.Errorf("Expected each chunk to link to the next, got %v", links(tree))
	}
	for i, chunk := range tree.Chunks {
		if chunk.Score != 0.0 {
			t.Errorf("Chunk %d: expected score 0, got %v", i, chunk.Score)
		}
	}
	if err := p.Parse(nlp.NewTree()); err != nil {
		t.Errorf("Unexpected error for empty tree: %v", err)
	}
	single := buildTree(morpheme("はい", "感動詞"))
	if err := p.Parse(single); err != nil || single.Chunk(0).Link != nlp.NO_LINK {
		t.Errorf("Expected a root chunk, got %v (%v)", links(single), err)
	}
}

const CROSSING_MODEL = `5	MH:名詞/形容詞
5	MH:副詞/動詞
`

func TestNonCrossing(t *testing.T) {
	tree := buildTree(morpheme("a", "名詞"), morpheme("b", "副詞"), morpheme("c", "形容詞"), morpheme("d", "動詞"))
	p := New(readModel(t, CROSSING_MODEL))
	analyses, err := p.ParseNBest(tree, 100)
	if err != nil {
		t.Fatal(err)
	}
	// four right-headed chunks admit five non-crossing trees
	if len(analyses) != 5 {
		t.Fatalf("Expected 5 analyses, got %d", len(analyses))
	}
	seen := make(map[string]bool)
	for i, a := range analyses {
		if crossing(a.Links) {
			t.Errorf("Analysis %d crosses: %v", i, a.Links)
		}
		if a.Links[3] != nlp.NO_LINK {
			t.Errorf("Analysis %d: last chunk is not the root: %v", i, a.Links)
		}
		if i > 0 && a.Cost < analyses[i-1].Cost {
			t.Errorf("Analysis %d out of order", i)
		}
		key := fmt.Sprint(a.Links)
		if seen[key] {
			t.Errorf("Analysis %d repeats %v", i, a.Links)
		}
		seen[key] = true
	}
	if analyses[0].Cost != -5.0 {
		t.Errorf("Expected best cost -5, got %v", analyses[0].Cost)
	}
	// ParseNBest leaves the tree alone
	if !reflect.DeepEqual(links(tree), []int{-1, -1, -1, -1}) {
		t.Errorf("Tree modified: %v", links(tree))
	}
	if err := p.Parse(tree); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(links(tree), analyses[0].Links) {
		t.Errorf("Parse %v differs from first n-best %v", links(tree), analyses[0].Links)
	}
}

func TestNonCrossingFiveChunks(t *testing.T) {
	tree := buildTree(morpheme("a", "名詞"), morpheme("b", "副詞"), morpheme("c", "形容詞"), morpheme("d", "動詞"), morpheme("e", "接続詞"))
	analyses, err := New(nil).ParseNBest(tree, 1000)
	if err != nil {
		t.Fatal(err)
	}
	// five right-headed chunks admit fourteen non-crossing trees
	if len(analyses) != 14 {
		t.Errorf("Expected 14 analyses, got %d", len(analyses))
	}
	seen := make(map[string]bool)
	for i, a := range analyses {
		if crossing(a.Links) {
			t.Errorf("Analysis %d crosses: %v", i, a.Links)
		}
		key := fmt.Sprint(a.Links)
		if seen[key] {
			t.Errorf("Analysis %d repeats %v", i, a.Links)
		}
		seen[key] = true
	}

	// 0->3 and 2->4 are each rewarded but cross each other
	p := New(readModel(t, "5\tMH:名詞/動詞\n5\tMH:形容詞/接続詞\n"))
	if err := p.Parse(tree); err != nil {
		t.Fatal(err)
	}
	if crossing(links(tree)) {
		t.Errorf("Parse returned crossing links %v", links(tree))
	}
	best, err := p.ParseNBest(tree, 3)
	if err != nil {
		t.Fatal(err)
	}
	if best[0].Cost != -5.0 {
		t.Errorf("Expected best cost -5, got %v for %v", best[0].Cost, best[0].Links)
	}
}

func TestLinkFeatures(t *testing.T) {
	tree := buildTree(morpheme("太郎", "名詞"), morpheme("会う", "動詞"))
	features := LinkFeatures(tree, 0, 1)
	if features[0] != "DIST:1" || features[len(features)-1] != "MH:名詞/動詞" {
		t.Errorf("Unexpected features %v", features)
	}
	if !contains(features, "M_FHS:太郎") || !contains(features, "H_FHS:会う") {
		t.Errorf("Missing chunk features in %v", features)
	}
	root := LinkFeatures(tree, 1, nlp.NO_LINK)
	if root[0] != ROOT_FEATURE || contains(root, "DIST:1") {
		t.Errorf("Unexpected root features %v", root)
	}
}

func contains(features []string, feature string) bool {
	for _, f := range features {
		if f == feature {
			return true
		}
	}
	return false
}

func TestApply(t *testing.T) {
	tree := buildTree(morpheme("a", "名詞"), morpheme("b", "動詞"))
	Apply(tree, Analysis{Links: []int{1, -1}, Scores: []float64{0.25, 0}})
	if tree.Chunk(0).Link != 1 || tree.Chunk(0).Score != 0.25 {
		t.Errorf("Analysis not applied: %v", links(tree))
	}
	analyses, err := New(nil).ParseNBest(nlp.NewTree(), 3)
	if err != nil || len(analyses) != 1 || len(analyses[0].Links) != 0 {
		t.Errorf("Expected one empty analysis, got %v (%v)", analyses, err)
	}
}
