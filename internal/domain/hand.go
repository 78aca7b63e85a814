package domain

// StashTarget is the hand sum that stashes; anything above it busts.
const StashTarget = 21

// Hand is the ordered list of held cards, in draw order.
type Hand []Card

// RankCount is a rank held more than once.
type RankCount struct {
	Rank  Rank
	Count int
}

// Matches lists pairable ranks in the order their first card was drawn.
type Matches []RankCount

// Has reports whether r is among the matches.
func (m Matches) Has(r Rank) bool {
	return m.Count(r) > 1
}

// Count returns how many cards of r are held, or 0 when r has no pair.
func (m Matches) Count(r Rank) int {
	for _, rc := range m {
		if rc.Rank == r {
			return rc.Count
		}
	}
	return 0
}

// Ranks returns the pairable ranks in order.
func (m Matches) Ranks() []Rank {
	out := make([]Rank, len(m))
	for i, rc := range m {
		out[i] = rc.Rank
	}
	return out
}

// Sum folds Value over the hand. An empty hand sums to 0.
func (h Hand) Sum() int {
	total := 0
	for _, c := range h {
		total += c.Value()
	}
	return total
}

// Busted reports whether the hand is over the stash target.
func (h Hand) Busted() bool {
	return h.Sum() > StashTarget
}

// Matches returns every rank held at least twice.
func (h Hand) Matches() Matches {
	counts := make(map[Rank]int, len(h))
	var order []Rank
	for _, c := range h {
		if counts[c.Rank] == 0 {
			order = append(order, c.Rank)
		}
		counts[c.Rank]++
	}

	var out Matches
	for _, r := range order {
		if counts[r] > 1 {
			out = append(out, RankCount{Rank: r, Count: counts[r]})
		}
	}
	return out
}

// HasRank reports whether any held card has rank r.
func (h Hand) HasRank(r Rank) bool {
	return h.IndexOfRank(r) >= 0
}

// IndexOfRank returns the position of the first card of rank r, or -1.
func (h Hand) IndexOfRank(r Rank) int {
	for i, c := range h {
		if c.Rank == r {
			return i
		}
	}
	return -1
}

// IndexOf returns the position of the first card equal to c, or -1.
func (h Hand) IndexOf(c Card) int {
	for i, held := range h {
		if held == c {
			return i
		}
	}
	return -1
}

// HighestCard returns the first card of maximal value. ok is false for an empty hand.
func (h Hand) HighestCard() (card Card, index int, ok bool) {
	index = -1
	for i, c := range h {
		if index < 0 || c.Value() > card.Value() {
			card, index = c, i
		}
	}
	return card, index, index >= 0
}

// RemoveAt returns a copy of the hand without the card at i.
func (h Hand) RemoveAt(i int) Hand {
	out := make(Hand, 0, len(h))
	out = append(out, h[:i]...)
	return append(out, h[i+1:]...)
}

// With returns a copy of the hand with c appended.
func (h Hand) With(c Card) Hand {
	out := make(Hand, 0, len(h)+1)
	out = append(out, h...)
	return append(out, c)
}

// Clone returns an independent copy, never nil.
func (h Hand) Clone() Hand {
	out := make(Hand, len(h))
	copy(out, h)
	return out
}

// OfRank returns the held cards of rank r in hand order.
func (h Hand) OfRank(r Rank) []Card {
	var out []Card
	for _, c := range h {
		if c.Rank == r {
			out = append(out, c)
		}
	}
	return out
}

// Without returns h minus one occurrence of each given card. Order is kept and
// cards not held are ignored.
func (h Hand) Without(cards ...Card) Hand {
	pending := append([]Card(nil), cards...)
	out := make(Hand, 0, len(h))
next:
	for _, c := range h {
		for i, want := range pending {
			if want == c {
				pending = append(pending[:i], pending[i+1:]...)
				continue next
			}
		}
		out = append(out, c)
	}
	return out
}

// AllOneSuit reports whether a non-empty set of cards shares a single suit.
func AllOneSuit(cards []Card) bool {
	if len(cards) == 0 {
		return false
	}
	for _, c := range cards[1:] {
		if c.Suit != cards[0].Suit {
			return false
		}
	}
	return true
}
