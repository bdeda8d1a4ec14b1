package players

import (
	"sort"
	"strings"

	"github.com/jordan-wolfaardt/screw/pkg/cards"
	"github.com/jordan-wolfaardt/screw/pkg/game"
	"github.com/jordan-wolfaardt/screw/pkg/playerstate"
)

// Greedy banks the strongest cards on the table and sheds the cheapest
// playable rank first, largest group first. It only ever proposes plays
// from the available-play set, so a greedy player never draws an
// INVALID_ACTION re-prompt.
type Greedy struct{}

// SetTableCards keeps the three most valuable hand cards face up.
func (Greedy) SetTableCards(st *playerstate.PlayerState) (string, error) {
	codes := st.HandCardCodes()
	sort.SliceStable(codes, func(i, j int) bool {
		return cards.PlayPreference(playRank(codes[i])) > cards.PlayPreference(playRank(codes[j]))
	})
	return strings.Join(codes[:game.TableStacks], ","), nil
}

// Play sheds the least-preferred playable rank, preferring to unload
// more cards of it at once; with nothing available it picks up.
func (Greedy) Play(st *playerstate.PlayerState) (string, error) {
	plays := AvailablePlays(st)
	if len(plays) == 0 {
		return PickUp, nil
	}
	sort.SliceStable(plays, func(i, j int) bool {
		pi, pj := cards.PlayPreference(playRank(plays[i])), cards.PlayPreference(playRank(plays[j]))
		if pi != pj {
			return pi < pj
		}
		return len(plays[i]) > len(plays[j])
	})
	return plays[0], nil
}
