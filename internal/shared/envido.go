package shared

import "sort"

// envidoValue returns the card's value for Envido counting. Face cards count
// as zero, the rest count their face value.
func envidoValue(c Card) int {
	if c.Value >= Sota {
		return 0
	}
	return c.Value
}

// EnvidoPoints computes the Envido score of a dealt hand. Two or more cards
// of one suit are worth 20 plus the two highest Envido values among them;
// with no suit repeated the score is the highest single Envido value.
// The result is in [0, 33].
func EnvidoPoints(hand []Card) int {
	bySuit := make(map[Suit][]int)
	for _, c := range hand {
		bySuit[c.Suit] = append(bySuit[c.Suit], envidoValue(c))
	}

	best := 0
	for _, values := range bySuit {
		sort.Sort(sort.Reverse(sort.IntSlice(values)))
		score := values[0]
		if len(values) >= 2 {
			score = 20 + values[0] + values[1]
		}
		if score > best {
			best = score
		}
	}
	return best
}
