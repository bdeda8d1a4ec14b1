// Package game implements the authoritative rules engine: a
// deterministic state machine that validates player actions, applies
// them, emits observation events through the messaging adapter, and
// enforces strict card-conservation invariants.
package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/decred/slog"
	"github.com/google/uuid"

	"github.com/jordan-wolfaardt/screw/pkg/cards"
	"github.com/jordan-wolfaardt/screw/pkg/messaging"
	"github.com/jordan-wolfaardt/screw/pkg/statemachine"
	"github.com/jordan-wolfaardt/screw/pkg/wire"
)

const (
	// MinPlayers and MaxPlayers bound the player count.
	MinPlayers = 2
	MaxPlayers = 4

	// DeckLen is the size of the full card universe.
	DeckLen = 52
)

// GameStateFn represents a turn-level state function of the engine.
type GameStateFn = statemachine.StateFn[Game]

// Config holds configuration for a new game.
type Config struct {
	NumPlayers int
	Seed       int64      // Optional seed for deterministic games
	Rng        *rand.Rand // Optional generator; overrides Seed
	SetupStart int        // Seat asked first during table-card selection
	Log        slog.Logger
	Messaging  *messaging.Messaging
}

// Game holds the authoritative state for one match.
type Game struct {
	id         uuid.UUID
	numPlayers int

	deck       *cards.Deck
	discard    []cards.Card
	eliminated []cards.Card
	lastPlay   []cards.Card
	hands      []*Hand

	turn int
	win  int // -1 while the game is live

	dealt         bool
	tableCardsSet bool
	setupStart    int

	msg *messaging.Messaging
	rng *rand.Rand
	log slog.Logger
	err error

	machine *statemachine.Machine[Game]
}

type playAction int

const (
	actionPickUpDiscardPile playAction = iota
	actionPlayKnownCards
	actionPlayFaceDown
)

// play is a validated player action together with the cards it carries.
type play struct {
	action playAction
	cards  []cards.Card
}

// NewGame creates a game ready for setup and dealing.
func NewGame(cfg Config) (*Game, error) {
	g, err := newGame(cfg)
	if err != nil {
		return nil, err
	}
	g.deck = cards.NewDeck(g.rng)
	if err := g.msg.GameInitiated(); err != nil {
		return nil, err
	}
	if err := g.assertConservation(); err != nil {
		return nil, err
	}
	return g, nil
}

func newGame(cfg Config) (*Game, error) {
	if cfg.NumPlayers < MinPlayers || cfg.NumPlayers > MaxPlayers {
		return nil, fmt.Errorf("game: number of players must be in [%d,%d], got %d",
			MinPlayers, MaxPlayers, cfg.NumPlayers)
	}
	if cfg.Log == nil {
		return nil, fmt.Errorf("game: log is required")
	}
	if cfg.Messaging == nil {
		return nil, fmt.Errorf("game: messaging is required")
	}

	rng := cfg.Rng
	if rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}

	g := &Game{
		id:         uuid.New(),
		numPlayers: cfg.NumPlayers,
		hands:      make([]*Hand, cfg.NumPlayers),
		win:        -1,
		setupStart: cfg.SetupStart,
		msg:        cfg.Messaging,
		rng:        rng,
		log:        cfg.Log,
	}
	for i := range g.hands {
		g.hands[i] = &Hand{}
	}
	g.machine = statemachine.New(g, stateSetup)
	return g, nil
}

// Run drives the match to its terminal state and returns the first
// fatal error, if any. Recoverable player errors never surface here;
// they are converted to INVALID_ACTION events and re-prompts.
func (g *Game) Run() error {
	g.machine.Run()
	return g.err
}

// Step advances the turn-level state machine by one state and reports
// whether the machine can still run.
func (g *Game) Step() bool {
	return g.machine.Step()
}

// Err returns the fatal error that stopped the machine, if any.
func (g *Game) Err() error { return g.err }

// Winner returns the winning seat, or -1 while the game is live.
func (g *Game) Winner() int { return g.win }

// DiscardPile returns a copy of the discard pile, oldest card first.
func (g *Game) DiscardPile() []cards.Card {
	return append([]cards.Card(nil), g.discard...)
}

// EliminatedCards returns a copy of the burned cards.
func (g *Game) EliminatedCards() []cards.Card {
	return append([]cards.Card(nil), g.eliminated...)
}

// DeckSize returns the number of cards left in the deck.
func (g *Game) DeckSize() int { return g.deck.Size() }

// HandOf returns a copy of the given player's holdings.
func (g *Game) HandOf(p int) *Hand { return copyHand(g.hands[p]) }

// Turn returns the seat about to act.
func (g *Game) Turn() int { return g.turn }

// LastPlay returns the most recent non-pickup play, nil after a pickup,
// burn, or game start.
func (g *Game) LastPlay() []cards.Card {
	out := make([]cards.Card, len(g.lastPlay))
	copy(out, g.lastPlay)
	if len(out) == 0 {
		return nil
	}
	return out
}

// State functions following Rob Pike's pattern. Each performs its work
// and returns the next state function, or nil on termination.

// stateSetup deals from the already shuffled deck and collects
// table-card selections, then
// hands control to the turn loop. Reconstructed mid-game states skip
// whatever has already happened.
func stateSetup(g *Game) GameStateFn {
	if !g.dealt {
		if err := g.initialDeal(); err != nil {
			return g.fail(err)
		}
	}
	if !g.tableCardsSet {
		if err := g.setTableCardsFrom(g.setupStart); err != nil {
			return g.fail(err)
		}
	}
	if err := g.assertConservation(); err != nil {
		return g.fail(err)
	}
	return stateAwaitAction
}

// stateAwaitAction runs one full turn for the current player: request,
// validate, apply. Invalid actions keep the same actor.
func stateAwaitAction(g *Game) GameStateFn {
	if err := g.loopUntilValidPlay(g.turn); err != nil {
		return g.fail(err)
	}
	if err := g.assertConservation(); err != nil {
		return g.fail(err)
	}
	if g.win >= 0 {
		return stateTerminal
	}
	return stateAwaitAction
}

// stateTerminal logs the result and stops the machine.
func stateTerminal(g *Game) GameStateFn {
	g.log.Infof("game %s: player %d wins", g.id, g.win)
	return nil
}

func (g *Game) fail(err error) GameStateFn {
	g.err = err
	return nil
}

// initialDeal deals the face-down table layer and the opening hands.
func (g *Game) initialDeal() error {
	for i := 0; i < TableStacks; i++ {
		for p := 0; p < g.numPlayers; p++ {
			card, ok := g.deck.Draw()
			if !ok {
				return &InvariantError{Reason: "deck exhausted during table deal"}
			}
			g.hands[p].TableStacks = append(g.hands[p].TableStacks, TableStack{Bottom: card})
		}
	}
	for i := 0; i < HandCards+TableStacks; i++ {
		for p := 0; p < g.numPlayers; p++ {
			if err := g.dealCard(p); err != nil {
				return err
			}
		}
	}
	g.dealt = true
	return nil
}

// dealCard draws one card for the player, if the deck still has one,
// and reports the draw. DECK_DEPLETED fires exactly once, on the draw
// that empties the deck.
func (g *Game) dealCard(p int) error {
	card, ok := g.deck.Draw()
	if !ok {
		return nil
	}
	g.hands[p].HandStack = append(g.hands[p].HandStack, card)
	if err := g.msg.CardDraw(p, card); err != nil {
		return err
	}
	if g.deck.Size() == 0 {
		return g.msg.DeckDepleted()
	}
	return nil
}

// setTableCardsFrom collects a valid table-card selection from every
// player, asking in seat order starting at start. Players that already
// have face-up cards (reconstructed states) are skipped.
func (g *Game) setTableCardsFrom(start int) error {
	for i := 0; i < g.numPlayers; i++ {
		p := (start + i) % g.numPlayers
		if len(g.hands[p].FaceUpCards()) > 0 {
			continue
		}
		if err := g.loopUntilValidTableCards(p); err != nil {
			return err
		}
	}
	g.tableCardsSet = true
	return nil
}

func (g *Game) loopUntilValidTableCards(p int) error {
	for {
		err := g.receiveTableCardSelection(p)
		if err == nil {
			return nil
		}
		if !recoverable(err) {
			return err
		}
		g.log.Warnf("game %s: table card selection from player %d rejected: %v", g.id, p, err)
		if merr := g.msg.InvalidAction(p, selectionMessage(err)); merr != nil {
			return merr
		}
	}
}

func (g *Game) receiveTableCardSelection(p int) error {
	resp, err := g.msg.Request(p, wire.RequestSetTableCards)
	if err != nil {
		return err
	}
	if resp.Action != wire.ActionSetTableCards {
		return fmt.Errorf("%w: expected SET_TABLE_CARDS action, got %q", wire.ErrProtocol, resp.Action)
	}
	if resp.Cards == nil {
		return fmt.Errorf("%w: SET_TABLE_CARDS without cards", wire.ErrProtocol)
	}
	selected, err := cards.ParseCards(*resp.Cards)
	if err != nil {
		return err
	}
	if len(selected) != TableStacks {
		return errIllegalPlay(fmt.Sprintf("selection must contain exactly %d cards", TableStacks))
	}
	seen := make(map[cards.Card]bool, len(selected))
	for _, c := range selected {
		if seen[c] {
			return errIllegalPlay("selection must not repeat cards")
		}
		seen[c] = true
	}
	if err := g.hands[p].removeFromHandStack(selected); err != nil {
		return err
	}
	if err := g.msg.SetTableCards(p, selected); err != nil {
		return err
	}
	for i := range selected {
		card := selected[i]
		g.hands[p].TableStacks[i].Top = &card
	}
	return nil
}

// loopUntilValidPlay re-prompts the player until one action validates
// and applies.
func (g *Game) loopUntilValidPlay(p int) error {
	for {
		pl, err := g.receiveAndValidatePlay(p)
		if err == nil {
			err = g.applyPlay(pl, p)
		}
		if err == nil {
			return nil
		}
		if !recoverable(err) {
			return err
		}
		g.log.Warnf("game %s: play from player %d rejected: %v", g.id, p, err)
		if merr := g.msg.InvalidAction(p, playMessage(err)); merr != nil {
			return merr
		}
	}
}

// receiveAndValidatePlay requests an action when the player has known
// cards to choose from. With only face-down cards left the engine plays
// for them unilaterally.
func (g *Game) receiveAndValidatePlay(p int) (play, error) {
	if !g.hands[p].HasKnownCards() {
		return play{action: actionPlayFaceDown}, nil
	}
	resp, err := g.msg.Request(p, wire.RequestPlay)
	if err != nil {
		return play{}, err
	}
	pl, err := convertResponse(resp)
	if err != nil {
		return play{}, err
	}
	if err := g.validatePlay(pl, p); err != nil {
		return play{}, err
	}
	return pl, nil
}

func convertResponse(resp wire.Response) (play, error) {
	switch resp.Action {
	case wire.ActionPickUpDiscardPile:
		return play{action: actionPickUpDiscardPile}, nil
	case wire.ActionPlayKnownCards:
		if resp.Cards == nil {
			return play{}, fmt.Errorf("%w: PLAY_KNOWN_CARDS without cards", wire.ErrProtocol)
		}
		cs, err := cards.ParseCards(*resp.Cards)
		if err != nil {
			return play{}, err
		}
		if len(cs) == 0 {
			return play{}, errIllegalPlay("play must contain at least one card")
		}
		return play{action: actionPlayKnownCards, cards: cs}, nil
	default:
		return play{}, fmt.Errorf("%w: action %q not valid for a play request", wire.ErrProtocol, resp.Action)
	}
}

func (g *Game) validatePlay(pl play, p int) error {
	switch pl.action {
	case actionPickUpDiscardPile:
		if len(g.discard) == 0 {
			return errIllegalPlay("discard pile is empty")
		}
	case actionPlayKnownCards:
		if !cards.AllSameRank(pl.cards) {
			return errIllegalPlay("played cards must share one rank")
		}
		if len(g.hands[p].HandStack) > 0 {
			if !cards.IsPlayAvailable(g.hands[p].HandStack, g.lastPlay, g.discard, pl.cards) {
				return errIllegalPlay("play does not beat the discard pile")
			}
		}
	}
	return nil
}

func (g *Game) applyPlay(pl play, p int) error {
	switch pl.action {
	case actionPickUpDiscardPile:
		return g.pickupDiscardPile(p)
	case actionPlayFaceDown:
		return g.handleFaceDownPlay(p)
	default:
		if len(g.hands[p].HandStack) > 0 {
			return g.handlePlayFromHand(p, pl.cards)
		}
		return g.handleFaceUpPlay(p, pl.cards)
	}
}

// handleFaceDownPlay reveals the bottom card of the last table stack.
// A winning reveal plays it; a losing one sends it, and the discard
// pile, into the player's hand.
func (g *Game) handleFaceDownPlay(p int) error {
	stacks := g.hands[p].TableStacks
	if len(stacks) == 0 {
		return &InvariantError{Reason: fmt.Sprintf("player %d has no cards left to play", p)}
	}
	ts := stacks[len(stacks)-1]
	g.hands[p].TableStacks = stacks[:len(stacks)-1]
	card := ts.Bottom

	if cards.Trumps(card, g.lastPlay) {
		if err := g.msg.PlayFromFacedownSuccess(p, card); err != nil {
			return err
		}
		return g.playCards(p, []cards.Card{card})
	}
	g.hands[p].HandStack = append(g.hands[p].HandStack, card)
	if err := g.msg.PlayFromFacedownFailure(p, card); err != nil {
		return err
	}
	return g.pickupDiscardPile(p)
}

// handleFaceUpPlay attempts a play from face-up table cards. Cards the
// player does not possess reject the action outright; possessed cards
// that lose by rank come into the hand along with the discard pile.
func (g *Game) handleFaceUpPlay(p int, played []cards.Card) error {
	faceUp := g.hands[p].FaceUpCards()
	if !containsAll(faceUp, played) {
		return errCardsNotAvailable("cards not available to be played from table")
	}
	if cards.IsPlayAvailable(faceUp, g.lastPlay, g.discard, played) {
		if err := g.hands[p].removeFromFaceUp(played); err != nil {
			return err
		}
		if err := g.msg.PlayFromTable(p, played); err != nil {
			return err
		}
		return g.playCards(p, played)
	}
	if err := g.hands[p].removeFromFaceUp(played); err != nil {
		return err
	}
	g.hands[p].HandStack = append(g.hands[p].HandStack, played...)
	if err := g.msg.PlayFromFaceupFailure(p, played); err != nil {
		return err
	}
	return g.pickupDiscardPile(p)
}

func (g *Game) handlePlayFromHand(p int, played []cards.Card) error {
	if err := g.hands[p].removeFromHandStack(played); err != nil {
		return err
	}
	if err := g.msg.PlayFromHand(p, played); err != nil {
		return err
	}
	return g.playCards(p, played)
}

// pickupDiscardPile moves the whole discard pile into the player's hand
// and passes the turn.
func (g *Game) pickupDiscardPile(p int) error {
	picked := g.discard
	g.discard = nil
	g.hands[p].HandStack = append(g.hands[p].HandStack, picked...)
	g.lastPlay = nil
	g.advanceTurn(1)
	return g.msg.DiscardPilePickup(p, picked)
}

// playCards is the common play path: place the cards, check victory,
// check burn, draw, advance. A burn keeps the turn with the actor.
func (g *Game) playCards(p int, played []cards.Card) error {
	storedLast := g.lastPlay
	g.lastPlay = append([]cards.Card(nil), played...)
	g.discard = append(g.discard, played...)

	if g.hands[p].CardCount() == 0 {
		g.win = p
		return g.msg.PlayerWins(p)
	}

	if g.checkForBurn() {
		g.eliminated = append(g.eliminated, g.discard...)
		g.discard = nil
		g.lastPlay = nil
		return g.msg.BurnDiscardPile()
	}

	if err := g.dealCard(p); err != nil {
		return err
	}
	if len(storedLast) > 0 && storedLast[0].Rank == played[0].Rank && played[0].Rank != cards.Two {
		g.advanceTurn(2)
	} else {
		g.advanceTurn(1)
	}
	return nil
}

func (g *Game) advanceTurn(count int) {
	g.turn = (g.turn + count) % g.numPlayers
}

// checkForBurn applies the burn predicate to the discard pile: a ten on
// top always burns, and four of a kind on top burns unless the rank is
// two.
func (g *Game) checkForBurn() bool {
	if g.lastPlay[0].Rank == cards.Ten {
		return true
	}
	if len(g.discard) >= 4 && g.lastPlay[0].Rank != cards.Two &&
		cards.AllSameRank(g.discard[len(g.discard)-4:]) {
		return true
	}
	return false
}

// assertConservation verifies that the deck, discard pile, eliminated
// cards, and player hands partition the 52-card universe.
func (g *Game) assertConservation() error {
	total := g.deck.Size() + len(g.discard) + len(g.eliminated)
	for _, h := range g.hands {
		total += h.CardCount()
	}
	if total != DeckLen {
		return &InvariantError{
			Reason: fmt.Sprintf("card count %d != %d", total, DeckLen),
			Dump:   spew.Sdump(g.Snapshot()),
		}
	}

	seen := make(map[cards.Card]bool, DeckLen)
	dup := func(cs []cards.Card) bool {
		for _, c := range cs {
			if seen[c] {
				return true
			}
			seen[c] = true
		}
		return false
	}
	groups := [][]cards.Card{g.deck.Cards(), g.discard, g.eliminated}
	for _, h := range g.hands {
		bottoms := make([]cards.Card, len(h.TableStacks))
		for i, ts := range h.TableStacks {
			bottoms[i] = ts.Bottom
		}
		groups = append(groups, h.HandStack, h.FaceUpCards(), bottoms)
	}
	for _, cs := range groups {
		if dup(cs) {
			return &InvariantError{
				Reason: "duplicate card in play",
				Dump:   spew.Sdump(g.Snapshot()),
			}
		}
	}
	return nil
}

func recoverable(err error) bool {
	var decodeErr *cards.DecodeError
	return errors.Is(err, ErrCardsNotAvailable) ||
		errors.Is(err, ErrIllegalPlay) ||
		errors.Is(err, wire.ErrProtocol) ||
		errors.As(err, &decodeErr)
}

func selectionMessage(err error) string {
	var decodeErr *cards.DecodeError
	switch {
	case errors.Is(err, ErrCardsNotAvailable):
		return "Those cards are not in hand to be placed, try again"
	case errors.As(err, &decodeErr):
		return "Error parsing cards, try again"
	case errors.Is(err, ErrIllegalPlay):
		return fmt.Sprintf("Card selection not valid, cards must be %d unique cards", TableStacks)
	default:
		return "Server error, try again"
	}
}

func playMessage(err error) string {
	if errors.Is(err, ErrCardsNotAvailable) {
		return "Cards not available for play, try again"
	}
	return "Illegal play, try again"
}
