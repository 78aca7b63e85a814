package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Suit identifies one of the four acorn suits, or the heart sentinel.
type Suit string

const (
	SuitAcorn        Suit = "GL"
	SuitFlamingAcorn Suit = "SP"
	SuitFrozenAcorn  Suit = "DG"
	SuitCorruptAcorn Suit = "LA"
	// SuitHeart only appears on the heart option and is never held in a hand.
	SuitHeart Suit = "HP"
)

// Rank is a card rank token as it appears in the serialized form.
type Rank string

const (
	RankAce    Rank = "A"
	RankTwo    Rank = "2"
	RankThree  Rank = "3"
	RankFour   Rank = "4"
	RankFive   Rank = "5"
	RankSix    Rank = "6"
	RankSeven  Rank = "7"
	RankEight  Rank = "8"
	RankNine   Rank = "9"
	RankBookie Rank = "B"
	RankPirate Rank = "P"
	RankWizard Rank = "W"
	RankHeart  Rank = "+1"
)

// FaceValue is the hand value of Bookie, Pirate and Wizard.
const FaceValue = 10

var (
	// StandardSuits are the suits cards are drawn from.
	StandardSuits = []Suit{SuitAcorn, SuitFlamingAcorn, SuitFrozenAcorn, SuitCorruptAcorn}
	// NumericRanks are the ranks worth their face number (Ace is 1).
	NumericRanks = []Rank{RankAce, RankTwo, RankThree, RankFour, RankFive, RankSix, RankSeven, RankEight, RankNine}
	// FaceRanks are the action cards.
	FaceRanks = []Rank{RankBookie, RankPirate, RankWizard}
	// StandardRanks is NumericRanks followed by FaceRanks.
	StandardRanks = append(append([]Rank{}, NumericRanks...), FaceRanks...)
)

// Card is an immutable (suit, rank) pair. Equality is struct equality.
type Card struct {
	Suit Suit
	Rank Rank
}

// HeartCard returns the heart sentinel offered as a bonus option.
func HeartCard() Card {
	return Card{Suit: SuitHeart, Rank: RankHeart}
}

// IsHeart reports whether c is the heart sentinel.
func (c Card) IsHeart() bool {
	return c.Suit == SuitHeart
}

// IsFace reports whether c is a Bookie, Pirate or Wizard.
func (c Card) IsFace() bool {
	return c.Rank.IsFace()
}

// IsFace reports whether r is one of the action ranks.
func (r Rank) IsFace() bool {
	return r == RankBookie || r == RankPirate || r == RankWizard
}

// Value returns the card's contribution to a hand sum. The heart sentinel is worth 0.
func (c Card) Value() int {
	return c.Rank.Value()
}

// Value returns the points a rank is worth in hand.
func (r Rank) Value() int {
	switch {
	case r.IsFace():
		return FaceValue
	case r == RankAce:
		return 1
	case r == RankHeart:
		return 0
	}
	n, err := strconv.Atoi(string(r))
	if err != nil {
		return 0
	}
	return n
}

// SuitTag names the descriptor used when rendering bonuses for this card's suit.
func (c Card) SuitTag() string {
	return c.Suit.Tag()
}

// Tag returns the display descriptor of the suit.
func (s Suit) Tag() string {
	switch s {
	case SuitAcorn:
		return "acorn"
	case SuitFlamingAcorn:
		return "flaming_acorn"
	case SuitFrozenAcorn:
		return "frozen_acorn"
	case SuitCorruptAcorn:
		return "corrupt_acorn"
	case SuitHeart:
		return "heart"
	default:
		return ""
	}
}

// String serializes the card as "<suit>.<rank>".
func (c Card) String() string {
	return string(c.Suit) + "." + string(c.Rank)
}

// ParseCard reads the "<suit>.<rank>" form produced by Card.String.
func ParseCard(s string) (Card, error) {
	suit, rank, ok := strings.Cut(s, ".")
	if !ok {
		return Card{}, fmt.Errorf("%w: %q", ErrMalformedCard, s)
	}
	c := Card{Suit: Suit(suit), Rank: Rank(rank)}
	if c.IsHeart() {
		if c.Rank != RankHeart {
			return Card{}, fmt.Errorf("%w: heart with rank %q", ErrMalformedCard, rank)
		}
		return c, nil
	}
	if !validSuit(c.Suit) {
		return Card{}, fmt.Errorf("%w: unknown suit %q", ErrMalformedCard, suit)
	}
	if !validRank(c.Rank) {
		return Card{}, fmt.Errorf("%w: unknown rank %q", ErrMalformedCard, rank)
	}
	return c, nil
}

// ParseRank validates a standard rank token.
func ParseRank(s string) (Rank, error) {
	r := Rank(s)
	if !validRank(r) {
		return "", fmt.Errorf("%w: unknown rank %q", ErrMalformedCard, s)
	}
	return r, nil
}

// ParseCards parses a persisted list of card tokens.
func ParseCards(tokens []string) ([]Card, error) {
	out := make([]Card, 0, len(tokens))
	for _, t := range tokens {
		c, err := ParseCard(t)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// FormatCards serializes cards for persistence. The result is never nil.
func FormatCards(cards []Card) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.String())
	}
	return out
}

// RandomCard draws uniformly over every standard suit and rank, faces included.
func RandomCard(rng RNG) Card {
	return Card{
		Suit: StandardSuits[rng.Intn(len(StandardSuits))],
		Rank: StandardRanks[rng.Intn(len(StandardRanks))],
	}
}

// RandomRankCard draws uniformly over standard suits and numeric ranks only.
func RandomRankCard(rng RNG) Card {
	return Card{
		Suit: StandardSuits[rng.Intn(len(StandardSuits))],
		Rank: NumericRanks[rng.Intn(len(NumericRanks))],
	}
}

func validSuit(s Suit) bool {
	for _, v := range StandardSuits {
		if v == s {
			return true
		}
	}
	return false
}

func validRank(r Rank) bool {
	for _, v := range StandardRanks {
		if v == r {
			return true
		}
	}
	return false
}
