package lattice

import (
	"container/heap"
	"fmt"
	"sort"

	"kintoki/util"
)

// A Result is one decoded sequence. Nodes excludes BOS and EOS, Paths runs
// from the path leaving BOS to the path entering EOS.
type Result struct {
	Nodes []int
	Paths []int
	Cost  float64
}

// Labels maps the decoded nodes to their labels
func (r *Result) Labels(l *Lattice) []int {
	labels := make([]int, len(r.Nodes))
	for i, id := range r.Nodes {
		labels[i] = l.Nodes[id].Label
	}
	return labels
}

// Viterbi computes the lowest-cost sequence from BOS to EOS
func (l *Lattice) Viterbi() (*Result, error) {
	for _, id := range l.topological() {
		node := &l.Nodes[id]
		node.BestPath = NONE
		if id == BOS {
			node.BestCost, node.reached = 0.0, true
			continue
		}
		node.reached = false
		for _, pid := range node.LeftPaths {
			path := &l.Paths[pid]
			if !path.Attached() {
				continue
			}
			left := &l.Nodes[path.LNode]
			if !left.reached {
				continue
			}
			cost := left.BestCost + path.Cost
			// strict comparison keeps the first registered path on ties
			if !node.reached || cost < node.BestCost {
				node.BestCost, node.BestPath, node.reached = cost, pid, true
			}
		}
	}
	if !l.Nodes[EOS].reached {
		return nil, &InconsistencyError{"no path reaches EOS"}
	}
	result := &Result{Cost: l.Nodes[EOS].BestCost}
	for pid := l.Nodes[EOS].BestPath; pid != NONE; {
		result.Paths = append(result.Paths, pid)
		lnode := l.Paths[pid].LNode
		if lnode != BOS {
			result.Nodes = append(result.Nodes, lnode)
		}
		pid = l.Nodes[lnode].BestPath
	}
	reverse(result.Nodes)
	reverse(result.Paths)
	return result, nil
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// a partial sequence ending at some node: the incoming path and the rank
// of the entry it extends at the path's left node
type entry struct {
	cost float64
	path int
	rank int
	seq  int
}

func better(a, b *entry) bool {
	return a.cost < b.cost || (a.cost == b.cost && a.seq < b.seq)
}

// kbest is a max-heap on entries: the worst kept entry is on top
type kbest []entry

func (h kbest) Len() int            { return len(h) }
func (h kbest) Less(i, j int) bool  { return better(&h[j], &h[i]) }
func (h kbest) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *kbest) Push(x interface{}) { *h = append(*h, x.(entry)) }
func (h *kbest) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// NBest returns up to k distinct sequences by non-decreasing cost.
// The first result is the Viterbi result.
func (l *Lattice) NBest(k int) ([]*Result, error) {
	if k < 1 {
		return nil, fmt.Errorf("n-best size must be positive, got %d", k)
	}
	entries := make([][]entry, len(l.Nodes))
	for _, id := range l.topological() {
		if id == BOS {
			entries[id] = []entry{{0.0, NONE, NONE, 0}}
			continue
		}
		var candidates int
		for _, pid := range l.Nodes[id].LeftPaths {
			if path := &l.Paths[pid]; path.Attached() {
				candidates += len(entries[path.LNode])
			}
		}
		agenda := make(kbest, 0, util.Min(k, candidates)+1)
		var seq int
		for _, pid := range l.Nodes[id].LeftPaths {
			path := &l.Paths[pid]
			if !path.Attached() {
				continue
			}
			for rank, prev := range entries[path.LNode] {
				candidate := entry{prev.cost + path.Cost, pid, rank, seq}
				seq++
				if len(agenda) == k && !better(&candidate, &agenda[0]) {
					// entries of the left node are sorted, the rest are worse
					seq += len(entries[path.LNode]) - rank - 1
					break
				}
				heap.Push(&agenda, candidate)
				if len(agenda) > k {
					heap.Pop(&agenda)
				}
			}
		}
		sort.Slice(agenda, func(i, j int) bool { return better(&agenda[i], &agenda[j]) })
		entries[id] = agenda
	}
	if len(entries[EOS]) == 0 {
		return nil, &InconsistencyError{"no path reaches EOS"}
	}
	results := make([]*Result, len(entries[EOS]))
	for i, last := range entries[EOS] {
		result := &Result{Cost: last.cost}
		for cur := last; cur.path != NONE; {
			result.Paths = append(result.Paths, cur.path)
			lnode := l.Paths[cur.path].LNode
			if lnode != BOS {
				result.Nodes = append(result.Nodes, lnode)
			}
			cur = entries[lnode][cur.rank]
		}
		reverse(result.Nodes)
		reverse(result.Paths)
		results[i] = result
	}
	return results, nil
}
