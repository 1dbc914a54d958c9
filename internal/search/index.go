package search

import "unicode"

const (
	// maxIndexedRunes caps how much of a line is indexed for matching.
	// The full text is kept for display; only this prefix participates
	// in scoring.
	maxIndexedRunes = 81

	whitespaceFactor = 5
	whitespaceReduce = 2
	classFactor      = 3
	classReduce      = 2
	firstFactor      = 3

	distWeight   = -10
	heatWeight   = 5
	factorReduce = 50
)

// MatchNumber is the number of candidates a query keeps.
const MatchNumber = 10

type charClass int

const (
	classFirst charClass = iota
	classWhitespace
	classNumeric
	classAlphabetic
	classOther
)

// lineIndex is the per-line search index: for every rune in the indexed
// prefix, the offsets where it occurs, and how salient each offset is.
type lineIndex struct {
	positions map[rune][]int
	heat      []int
	factor    int
}

// newLineIndex builds the character map and heat vector for a line. Heat
// peaks at the line start, after whitespace, and at character-class
// transitions, then decays geometrically across uniform runs.
func newLineIndex(text string, factor int) *lineIndex {
	positions := make(map[rune][]int)
	heat := make([]int, 0, maxIndexedRunes)

	wsScore := 0
	csScore := 0
	curClass := classFirst
	// class changes don't stack
	csChange := false

	idx := 0
	for _, c := range text {
		if idx >= maxIndexedRunes {
			break
		}

		if unicode.IsSpace(c) {
			// whitespace is scored separately and never mapped
			curClass = classWhitespace
			wsScore = whitespaceFactor
		} else {
			if curClass == classFirst {
				csScore += firstFactor
			}

			var class charClass
			switch {
			case unicode.IsNumber(c):
				class = classNumeric
			case unicode.IsLetter(c):
				class = classAlphabetic
			default:
				class = classOther
			}
			if class != curClass {
				curClass = class
				if !csChange {
					csScore += classFactor
					csChange = true
				}
			} else {
				csChange = false
			}

			positions[c] = append(positions[c], idx)
			if unicode.IsUpper(c) {
				// Register the lowercase alias as well, but not the
				// other way around: typing uppercase demands an
				// uppercase occurrence.
				if lc := unicode.ToLower(c); lc != c {
					positions[lc] = append(positions[lc], idx)
				}
			}
		}

		heat = append(heat, wsScore+csScore)

		wsScore /= whitespaceReduce
		// a fresh class-change bonus survives one offset at full
		// strength before decaying
		if !csChange {
			csScore /= classReduce
		}
		idx++
	}

	return &lineIndex{
		positions: positions,
		heat:      heat,
		factor:    factor,
	}
}
