package tonal

// Scale templates as semitone offsets from the root.
var (
	majorScale = [7]int{0, 2, 4, 5, 7, 9, 11}
	minorScale = [7]int{0, 2, 3, 5, 7, 8, 10}
)

// KeyUnknown is reported when no key can be scored.
const KeyUnknown = "Unknown"

// EstimateKey infers the most likely major or natural-minor key from a
// sequence of note names (octave digits are ignored). Every occurrence of
// a pitch class inside the candidate scale scores +2, every occurrence
// outside it scores -1; the highest-scoring (root, mode) pair wins. The
// comparison is strict, so at equal scores the earlier candidate is kept:
// roots ascend from C and major is tried before minor at each root.
// An empty sequence yields KeyUnknown.
func EstimateKey(notes []string) string {
	if len(notes) == 0 {
		return KeyUnknown
	}

	var counts [12]int
	for _, name := range notes {
		if pc := PitchClass(name); pc >= 0 {
			counts[pc]++
		}
	}

	bestScore := -1000
	bestKey := KeyUnknown

	for root := 0; root < 12; root++ {
		if score := scaleScore(&counts, root, majorScale); score > bestScore {
			bestScore = score
			bestKey = PitchClassName(root) + " Major"
		}
		if score := scaleScore(&counts, root, minorScale); score > bestScore {
			bestScore = score
			bestKey = PitchClassName(root) + " Minor"
		}
	}

	return bestKey
}

// scaleScore scores one (root, scale) candidate against the pitch-class
// histogram.
func scaleScore(counts *[12]int, root int, scale [7]int) int {
	var inScale [12]bool
	for _, interval := range scale {
		inScale[(root+interval)%12] = true
	}

	score := 0
	for pc, count := range counts {
		if inScale[pc] {
			score += count * 2
		} else {
			score -= count
		}
	}
	return score
}
