package search

import (
	"container/heap"
	"sort"
)

// Base holds the indexed history lines and answers ranked queries. It is
// built once at session start and owned exclusively by the search worker
// afterwards, so it needs no locking.
type Base struct {
	lines map[string]*lineIndex
}

func NewBase() *Base {
	return &Base{lines: make(map[string]*lineIndex)}
}

// Add indexes a line. Re-adding the same text replaces its recency
// factor; the most recent occurrence wins.
func (b *Base) Add(text string, factor int) {
	b.lines[text] = newLineIndex(text, factor)
}

// Len reports the number of unique indexed lines.
func (b *Base) Len() int {
	return len(b.lines)
}

type candidate struct {
	score  int
	factor int
	text   string
}

// weaker reports whether c ranks strictly below other. Factors are
// unique per line, so the order is total.
func (c candidate) weaker(other candidate) bool {
	if c.score != other.score {
		return c.score < other.score
	}
	return c.factor < other.factor
}

// candidateHeap is a min-heap whose root is the weakest kept candidate.
type candidateHeap []candidate

func (h candidateHeap) Len() int           { return len(h) }
func (h candidateHeap) Less(i, j int) bool { return h[i].weaker(h[j]) }
func (h candidateHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *candidateHeap) Push(x any) {
	*h = append(*h, x.(candidate))
}

func (h *candidateHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Query scores every indexed line and returns at most MatchNumber line
// texts, best first. A candidate only displaces the weakest kept entry
// when strictly better, so the outcome is independent of map iteration
// order.
func (b *Base) Query(query string) []string {
	if query == "" {
		return nil
	}

	kept := make(candidateHeap, 0, MatchNumber)
	heap.Init(&kept)
	for text, info := range b.lines {
		score, ok := info.queryScore(query)
		if !ok {
			continue
		}
		cand := candidate{score: score, factor: info.factor, text: text}
		if kept.Len() < MatchNumber {
			heap.Push(&kept, cand)
			continue
		}
		if kept[0].weaker(cand) {
			kept[0] = cand
			heap.Fix(&kept, 0)
		}
	}

	sort.Slice(kept, func(i, j int) bool { return kept[j].weaker(kept[i]) })

	result := make([]string, len(kept))
	for i, cand := range kept {
		result[i] = cand.text
	}
	return result
}
