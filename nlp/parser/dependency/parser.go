package dependency

// Package dependency decides chunk links on a lattice. Position i holds one
// node per head of chunk i and set of links still pending past chunk i+1;
// heads always lie to the right and the last chunk is the root. Chunk i may
// not link past the nearest pending head, so every decoded tree is
// non-crossing. Only reachable states get nodes.

import (
	"fmt"
	"strconv"
	"strings"

	"kintoki/alg/lattice"
	"kintoki/alg/model"
	nlp "kintoki/nlp/types"
	"kintoki/util"
)

const (
	ROOT_FEATURE = "ROOT"
	NO_POS       = "*"
)

// Analysis is one link assignment with per-chunk scores
type Analysis struct {
	Links  []int
	Scores []float64
	Cost   float64
}

// linkState is a node label: the head of a chunk and the heads of earlier
// links that pass over the next chunk, nearest last
type linkState struct {
	head    int
	pending []int
}

func (s linkState) key() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(s.head))
	for _, h := range s.pending {
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(h))
	}
	return b.String()
}

type arc struct {
	fvector []int
	cost    float64
}

type Parser struct {
	Model *model.Model

	lat    *lattice.Lattice
	states []linkState
}

// New returns a parser scoring with m; a nil model scores everything zero.
// A Parser reuses its lattice and must not be shared between goroutines.
func New(m *model.Model) *Parser {
	if m == nil {
		m = model.New()
	}
	return &Parser{Model: m, lat: lattice.New(0)}
}

func headPOS(chunk *nlp.Chunk) string {
	if head := chunk.Head(); head != nil {
		return head.POS
	}
	return NO_POS
}

// LinkFeatures returns the features of chunk i depending on chunk head,
// or of chunk i being the root when head is NO_LINK
func LinkFeatures(tree *nlp.Tree, i, head int) []string {
	modifier := tree.Chunk(i)
	if head == nlp.NO_LINK {
		features := make([]string, 0, modifier.FeatureListSize()+1)
		features = append(features, ROOT_FEATURE)
		for _, f := range modifier.FeatureList {
			features = append(features, "M_"+f)
		}
		return features
	}
	target := tree.Chunk(head)
	features := make([]string, 0, modifier.FeatureListSize()+target.FeatureListSize()+2)
	features = append(features, "DIST:"+util.DistanceBucket(head-i))
	for _, f := range modifier.FeatureList {
		features = append(features, "M_"+f)
	}
	for _, f := range target.FeatureList {
		features = append(features, "H_"+f)
	}
	features = append(features, fmt.Sprintf("MH:%s/%s", headPOS(modifier), headPOS(target)))
	return features
}

// heads lists the candidate heads of chunk i when pending links are open
func heads(i, size int, pending []int) []int {
	if i == size-1 {
		return []int{nlp.NO_LINK}
	}
	limit := size - 1
	if len(pending) > 0 {
		limit = pending[len(pending)-1]
	}
	retval := make([]int, 0, limit-i)
	for h := i + 1; h <= limit; h++ {
		retval = append(retval, h)
	}
	return retval
}

// advance returns the links pending past chunk i+1 once chunk i takes head
func advance(i, head int, pending []int) []int {
	next := make([]int, 0, len(pending)+1)
	for _, h := range pending {
		if h > i+1 {
			next = append(next, h)
		}
	}
	if head > i+1 && (len(next) == 0 || head < next[len(next)-1]) {
		next = append(next, head)
	}
	return next
}

func (p *Parser) build(tree *nlp.Tree) error {
	size := tree.ChunkSize()
	p.lat.Reset(size)
	p.states = p.states[:0]
	prev := []int{lattice.BOS}
	for i := 0; i < size; i++ {
		arcs := make(map[int]arc)
		index := make(map[string]int)
		current := make([]int, 0, len(prev))
		for _, left := range prev {
			var pending []int
			if left != lattice.BOS {
				pending = p.states[p.lat.Node(left).Label].pending
			}
			for _, h := range heads(i, size, pending) {
				a, exists := arcs[h]
				if !exists {
					a.fvector = p.Model.Lookup(LinkFeatures(tree, i, h))
					a.cost = p.Model.Cost(a.fvector)
					arcs[h] = a
				}
				state := linkState{h, advance(i, h, pending)}
				id, exists := index[state.key()]
				if !exists {
					p.states = append(p.states, state)
					var err error
					if id, err = p.lat.AddNode(i+1, len(p.states)-1); err != nil {
						return err
					}
					index[state.key()] = id
					current = append(current, id)
				}
				if _, err := p.lat.AddPath(left, id, a.fvector, a.cost); err != nil {
					return err
				}
			}
		}
		prev = current
	}
	for _, left := range prev {
		if _, err := p.lat.AddPath(left, lattice.EOS, nil, 0.0); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) analysis(result *lattice.Result) Analysis {
	a := Analysis{
		Links:  make([]int, len(result.Nodes)),
		Scores: make([]float64, len(result.Nodes)),
		Cost:   result.Cost,
	}
	for i, node := range result.Nodes {
		a.Links[i] = p.states[p.lat.Node(node).Label].head
		// result.Paths[i] enters the node of chunk i
		if cost := p.lat.Path(result.Paths[i]).Cost; cost != 0.0 {
			a.Scores[i] = -cost
		}
	}
	return a
}

// Parse sets the link and score of every chunk of tree to the best
// non-crossing assignment
func (p *Parser) Parse(tree *nlp.Tree) error {
	if tree.ChunkSize() == 0 {
		return nil
	}
	if err := p.build(tree); err != nil {
		return err
	}
	result, err := p.lat.Viterbi()
	if err != nil {
		return err
	}
	Apply(tree, p.analysis(result))
	return nil
}

// ParseNBest returns up to k distinct assignments by increasing cost without
// changing tree. A tree without chunks has a single empty analysis.
func (p *Parser) ParseNBest(tree *nlp.Tree, k int) ([]Analysis, error) {
	if tree.ChunkSize() == 0 {
		return []Analysis{{}}, nil
	}
	if err := p.build(tree); err != nil {
		return nil, err
	}
	results, err := p.lat.NBest(k)
	if err != nil {
		return nil, err
	}
	retval := make([]Analysis, len(results))
	for i, result := range results {
		retval[i] = p.analysis(result)
	}
	return retval, nil
}

// Apply copies the links and scores of a into the chunks of tree
func Apply(tree *nlp.Tree, a Analysis) {
	for i, chunk := range tree.Chunks {
		if i >= len(a.Links) {
			break
		}
		chunk.Link = a.Links[i]
		chunk.Score = a.Scores[i]
	}
}
