package cards

// Legality of plays against the discard pile. A play is a non-empty set
// of equal-rank cards. Power cards (tens and twos) are always playable
// as singles; other ranks must meet the rank and count threshold set by
// the last play, except that completing a four-of-a-kind run on top of
// the discard pile is always allowed.

// AllSameRank reports whether every card in cs shares one rank.
// cs must be non-empty.
func AllSameRank(cs []Card) bool {
	if len(cs) == 0 {
		return false
	}
	rank := cs[0].Rank
	for _, c := range cs[1:] {
		if c.Rank != rank {
			return false
		}
	}
	return true
}

// Trumps reports whether the single card c beats lastPlay: always when
// lastPlay is empty, when c is a power card, or when c's natural rank is
// at least the last play's rank.
func Trumps(c Card, lastPlay []Card) bool {
	if len(lastPlay) == 0 {
		return true
	}
	if c.IsPower() {
		return true
	}
	return NaturalOrder(c.Rank) >= NaturalOrder(lastPlay[0].Rank)
}

// AvailablePlays returns the set of legal plays from stack against
// lastPlay, keyed by canonical (sorted) serialisation. The discard pile
// is consulted for four-in-a-row completion.
func AvailablePlays(stack, lastPlay, discard []Card) map[string]struct{} {
	byRank := make(map[Rank][]Card)
	for _, c := range stack {
		byRank[c.Rank] = append(byRank[c.Rank], c)
	}

	threshold := 0
	needed := 1
	if len(lastPlay) > 0 {
		threshold = NaturalOrder(lastPlay[0].Rank)
		needed = len(lastPlay)
	}

	plays := make(map[string]struct{})
	for rank, group := range byRank {
		switch {
		case rank == Ten || rank == Two:
			for _, c := range group {
				plays[c.Code()] = struct{}{}
			}
		case len(group) < 4 && len(discard) >= 4-len(group) &&
			completesRun(group, discard):
			plays[EncodeSorted(group)] = struct{}{}
		case NaturalOrder(rank) >= threshold && len(group) >= needed:
			for k := needed; k <= len(group); k++ {
				for _, combo := range combinations(group, k) {
					plays[EncodeSorted(combo)] = struct{}{}
				}
			}
		}
	}
	return plays
}

// completesRun reports whether group plus the top cards of the discard
// pile form four of a kind.
func completesRun(group, discard []Card) bool {
	run := make([]Card, 0, 4)
	run = append(run, group...)
	run = append(run, discard[len(discard)-(4-len(group)):]...)
	return AllSameRank(run)
}

// IsPlayAvailable reports whether played is in the available-play set
// from stack. Comparison is on canonical serialisations.
func IsPlayAvailable(stack, lastPlay, discard, played []Card) bool {
	plays := AvailablePlays(stack, lastPlay, discard)
	_, ok := plays[EncodeSorted(played)]
	return ok
}

// combinations returns every k-element subset of cs.
func combinations(cs []Card, k int) [][]Card {
	if k <= 0 || k > len(cs) {
		return nil
	}
	var out [][]Card
	combo := make([]Card, k)
	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == k {
			picked := make([]Card, k)
			copy(picked, combo)
			out = append(out, picked)
			return
		}
		for i := start; i <= len(cs)-(k-depth); i++ {
			combo[depth] = cs[i]
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)
	return out
}
