package players

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jordan-wolfaardt/screw/pkg/cards"
	"github.com/jordan-wolfaardt/screw/pkg/game"
	"github.com/jordan-wolfaardt/screw/pkg/playerstate"
)

var (
	promptStyle = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Faint(true)
	redSuit     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	blackSuit   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
)

// Human prompts on the console for every decision.
type Human struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewHuman creates a human policy reading from in and prompting on out.
func NewHuman(in io.Reader, out io.Writer) *Human {
	return &Human{in: bufio.NewScanner(in), out: out}
}

// SetTableCards prompts for the face-up table card selection.
func (h *Human) SetTableCards(st *playerstate.PlayerState) (string, error) {
	h.printHand(st)
	return h.prompt(fmt.Sprintf("Set your %d table cards, i.e. 'HQ,ST,S9'", game.TableStacks))
}

// Play prompts for a play or a pickup.
func (h *Human) Play(st *playerstate.PlayerState) (string, error) {
	fmt.Fprintln(h.out, promptStyle.Render("It's your turn!"))
	h.printHand(st)
	if len(st.LastPlay) > 0 {
		fmt.Fprintf(h.out, "%s %s\n", labelStyle.Render("Last play:"), renderCodes(cards.Codes(st.LastPlay)))
	}
	return h.prompt("Enter '1' to pick up discard pile or enter the cards you want to play, i.e. 'HQ,SQ'")
}

func (h *Human) prompt(msg string) (string, error) {
	fmt.Fprintln(h.out, promptStyle.Render(msg))
	if !h.in.Scan() {
		if err := h.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(h.in.Text()), nil
}

func (h *Human) printHand(st *playerstate.PlayerState) {
	hand := st.HandCardCodes()
	table := st.TableCardCodes()
	sortByPreference(hand)
	sortByPreference(table)
	fmt.Fprintf(h.out, "%s %s\n", labelStyle.Render("Hand cards: "), renderCodes(hand))
	fmt.Fprintf(h.out, "%s %s\n", labelStyle.Render("Table cards:"), renderCodes(table))
}

func sortByPreference(codes []string) {
	sort.SliceStable(codes, func(i, j int) bool {
		return cards.PlayPreference(playRank(codes[i])) < cards.PlayPreference(playRank(codes[j]))
	})
}

func renderCodes(codes []string) string {
	if len(codes) == 0 {
		return labelStyle.Render("none")
	}
	styled := make([]string, len(codes))
	for i, code := range codes {
		switch cards.Suit(code[0:1]) {
		case cards.Hearts, cards.Diamonds:
			styled[i] = redSuit.Render(code)
		default:
			styled[i] = blackSuit.Render(code)
		}
	}
	return strings.Join(styled, " ")
}
