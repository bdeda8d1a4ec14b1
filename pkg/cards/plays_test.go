package cards

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, encoded string) []Card {
	t.Helper()
	cs, err := ParseCards(encoded)
	require.NoError(t, err)
	return cs
}

func TestAllSameRank(t *testing.T) {
	require.True(t, AllSameRank(mustParse(t, "D7,H7,S7")))
	require.False(t, AllSameRank(mustParse(t, "D7,H8")))
	require.False(t, AllSameRank(nil))
}

func TestTrumps(t *testing.T) {
	tests := []struct {
		name     string
		card     string
		lastPlay string
		want     bool
	}{
		{"anything beats an empty pile", "D3", "", true},
		{"higher rank wins", "HK", "S9", true},
		{"equal rank wins", "H9", "S9", true},
		{"lower rank loses", "H5", "S9", false},
		{"ten is always good", "ST", "SA", true},
		{"two is always good", "S2", "SA", true},
		{"twos reset the threshold", "H5", "S2", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := mustParse(t, tt.card)[0]
			require.Equal(t, tt.want, Trumps(card, mustParse(t, tt.lastPlay)))
		})
	}
}

func TestAvailablePlaysEmptyLastPlay(t *testing.T) {
	stack := mustParse(t, "D3,H3,C9")
	plays := AvailablePlays(stack, nil, nil)

	// Singles, the pair of threes, and the nine are all live.
	for _, want := range []string{"D3", "H3", "D3,H3", "C9"} {
		require.Contains(t, plays, want)
	}
	require.Len(t, plays, 4)
}

func TestAvailablePlaysThreshold(t *testing.T) {
	stack := mustParse(t, "D3,HK,S2,CT")
	lastPlay := mustParse(t, "H9")

	plays := AvailablePlays(stack, lastPlay, mustParse(t, "H9"))
	require.Contains(t, plays, "HK")
	require.Contains(t, plays, "S2")
	require.Contains(t, plays, "CT")
	require.NotContains(t, plays, "D3")
}

func TestAvailablePlaysCountThreshold(t *testing.T) {
	stack := mustParse(t, "DK,HK,SA")
	lastPlay := mustParse(t, "D7,H7")

	plays := AvailablePlays(stack, lastPlay, lastPlay)
	// A pair of sevens demands at least a pair; single kings and the
	// lone ace are out.
	require.Contains(t, plays, "DK,HK")
	require.NotContains(t, plays, "DK")
	require.NotContains(t, plays, "SA")
}

func TestAvailablePlaysPowerCardsAreSingles(t *testing.T) {
	stack := mustParse(t, "DT,HT,D2")
	plays := AvailablePlays(stack, mustParse(t, "SA"), nil)

	require.Contains(t, plays, "DT")
	require.Contains(t, plays, "HT")
	require.Contains(t, plays, "D2")
	// Power cards never combine into one play.
	require.NotContains(t, plays, "DT,HT")
}

func TestAvailablePlaysFourRunCompletion(t *testing.T) {
	// Three sevens on the pile: the held seven completes the run even
	// though a seven is below the kings' threshold.
	stack := mustParse(t, "C7,HK")
	lastPlay := mustParse(t, "DK")
	discard := mustParse(t, "DK,D7,H7,S7")

	plays := AvailablePlays(stack, lastPlay, discard)
	require.Contains(t, plays, "C7")
	require.Contains(t, plays, "HK")
}

func TestAvailablePlaysFourRunTakesWholeGroup(t *testing.T) {
	// Two sixes in hand against two on the pile: only the full pair
	// completes the run.
	stack := mustParse(t, "C6,D6")
	discard := mustParse(t, "H6,S6")

	plays := AvailablePlays(stack, mustParse(t, "SA"), discard)
	require.Contains(t, plays, "D6,C6")
	require.NotContains(t, plays, "C6")
	require.NotContains(t, plays, "D6")
}

func TestIsPlayAvailable(t *testing.T) {
	stack := mustParse(t, "D8,H8,C3")
	lastPlay := mustParse(t, "S5")

	require.True(t, IsPlayAvailable(stack, lastPlay, nil, mustParse(t, "H8,D8")))
	require.False(t, IsPlayAvailable(stack, lastPlay, nil, mustParse(t, "C3")))
	require.False(t, IsPlayAvailable(stack, lastPlay, nil, mustParse(t, "SA")))
}
