package search

import "sort"

// querySequence resolves, for each query rune in order, the list of
// offsets where it could match. After the first rune, each list is
// narrowed to the suffix strictly past the first offset of the
// previously resolved list. Carrying a single scalar bound instead of
// per-assignment bounds is deliberate: it trades completeness on lines
// with heavily repeated runes for bounded cost.
//
// Returns nil when any query rune cannot be placed.
func (li *lineIndex) querySequence(query string) [][]int {
	var positions [][]int
	for _, c := range query {
		list, ok := li.positions[c]
		if !ok {
			return nil
		}
		if len(positions) == 0 {
			positions = append(positions, list)
			continue
		}
		bound := positions[len(positions)-1][0]
		idx := sort.SearchInts(list, bound)
		if idx < len(list) && list[idx] == bound {
			idx++
		}
		if idx >= len(list) {
			return nil
		}
		positions = append(positions, list[idx:])
	}
	return positions
}

// queryPositions enumerates every strictly increasing assignment of
// query runes to offsets, walking the candidate lists odometer-style.
func (li *lineIndex) queryPositions(query string) [][]int {
	positions := li.querySequence(query)
	if positions == nil {
		return nil
	}

	idx := make([]int, len(positions))
	var result [][]int
	for {
		increasing := true
		last := -1
		for i, pos := range idx {
			off := positions[i][pos]
			if off <= last {
				increasing = false
				break
			}
			last = off
		}
		if increasing {
			assignment := make([]int, len(idx))
			for i, pos := range idx {
				assignment[i] = positions[i][pos]
			}
			result = append(result, assignment)
		}

		i := len(idx) - 1
		for {
			idx[i]++
			if idx[i] < len(positions[i]) {
				break
			}
			if i == 0 {
				return result
			}
			idx[i] = 0
			i--
		}
	}
}

// queryScore returns the best score over all valid assignments plus a
// small recency boost. ok is false when the query cannot match this
// line; a non-match is distinct from a zero score.
func (li *lineIndex) queryScore(query string) (score int, ok bool) {
	groups := li.queryPositions(query)

	best := 0
	found := false
	for _, group := range groups {
		distTotal := 0
		distCount := 0
		for i := 0; i+1 < len(group); i++ {
			distTotal += group[i+1] - group[i]
			distCount++
		}
		// avoid division by zero on single-rune queries
		if distCount == 0 {
			distCount = 1
		}

		heatSum := 0
		for _, pos := range group {
			heatSum += li.heat[pos]
		}

		score := (distTotal/distCount)*distWeight + heatSum*heatWeight
		if !found || score > best {
			best = score
			found = true
		}
	}

	if !found {
		return 0, false
	}
	return best + li.factor/factorReduce, true
}
