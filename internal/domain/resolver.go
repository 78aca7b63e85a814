package domain

import "fmt"

// Resolver applies actions to a player's working copy and reports what happened.
// It mutates only the players it is given; persistence is the caller's concern.
type Resolver struct {
	rules Ruleset
	rng   RNG
}

// NewResolver constructs a Resolver over rules, drawing randomness from rng.
func NewResolver(rules Ruleset, rng RNG) *Resolver {
	return &Resolver{rules: rules, rng: rng}
}

// Rules returns the ruleset the resolver scores with.
func (r *Resolver) Rules() Ruleset {
	return r.rules
}

// Select takes the option at index. A heart restores one hp (capped); any other card
// is placed into the hand, then the bust check runs. Options are always regenerated.
func (r *Resolver) Select(p *Player, index int) (Event, error) {
	card, ok := p.Option(index)
	if !ok {
		return Event{}, fmt.Errorf("%w: option %d out of range", ErrInvalidAction, index)
	}

	var ev Event
	if card.IsHeart() {
		if p.HP < r.rules.MaxHealth {
			p.HP = r.clampHP(p.HP + 1)
			ev.note(FragmentHeartRestored)
		}
	} else {
		ev = r.place(p, card)
		r.settle(p, &ev)
	}

	p.Options = GenerateOptions(r.rules, len(p.Hand) == 0, r.rng)
	r.award(p, ev)
	return ev, nil
}

// Match stashes a pair. With several pairable ranks and no rank given it returns a
// *MatchChoiceError listing the candidates.
func (r *Resolver) Match(p *Player, rank Rank) (Event, error) {
	matches := p.Hand.Matches()
	if len(matches) == 0 {
		return Event{}, ErrNoMatchAvailable
	}
	if rank == "" {
		if len(matches) > 1 {
			return Event{}, &MatchChoiceError{Candidates: matches.Ranks()}
		}
		rank = matches[0].Rank
	}
	if !matches.Has(rank) {
		return Event{}, fmt.Errorf("%w: no pair of rank %s", ErrInvalidAction, rank)
	}

	pair := p.Hand.OfRank(rank)[:2]
	p.Hand = p.Hand.Without(pair...)

	ev := r.scorePair(pair[0], pair[1])
	r.award(p, ev)
	return ev, nil
}

// Stash clears a hand summing to exactly 21.
func (r *Resolver) Stash(p *Player) (Event, error) {
	if sum := p.Hand.Sum(); sum != StashTarget {
		return Event{}, fmt.Errorf("%w: hand sums to %d", ErrInvalidAction, sum)
	}

	ev := Event{
		IsStash:   true,
		Points:    r.rules.StashPoints,
		Discarded: p.Hand.Clone(),
	}
	if AllOneSuit(p.Hand) {
		ev.Points = r.rules.ExplicitStashSuitPoints
		ev.BonusSuit = p.Hand[0].SuitTag()
		ev.note(FragmentStashBonus)
	}
	p.Hand = Hand{}

	r.award(p, ev)
	return ev, nil
}

// Bookie discards the Bookie and one card of rank discard, then draws a replacement
// from the full card space. A replacement that would bust is lost along with both cards.
func (r *Resolver) Bookie(p *Player, discard Rank) (Event, error) {
	bi := p.Hand.IndexOfRank(RankBookie)
	if bi < 0 {
		return Event{}, fmt.Errorf("%w: no bookie in hand", ErrInvalidAction)
	}
	bookie := p.Hand[bi]
	rest := p.Hand.RemoveAt(bi)
	if len(rest) == 0 {
		return Event{}, fmt.Errorf("%w: bookie needs another card to trade", ErrInvalidAction)
	}
	di := rest.IndexOfRank(discard)
	if di < 0 {
		return Event{}, fmt.Errorf("%w: no card of rank %s to trade", ErrInvalidAction, discard)
	}
	discarded := rest[di]
	rest = rest.RemoveAt(di)

	replacement := RandomCard(r.rng)
	ev := Event{
		Drawn:     []Card{replacement},
		Discarded: []Card{bookie, discarded},
	}
	if rest.Sum()+replacement.Value() > StashTarget {
		p.Hand = rest
		ev.note(FragmentBookieLost)
	} else {
		p.Hand = rest.With(replacement)
		ev.Points = r.rules.BookiePoints
		ev.note(FragmentBookieStashed)
	}

	r.award(p, ev)
	return ev, nil
}

// Pirate discards the Pirate and takes a random card from victim's hand, or draws a
// numeric card when victim is nil. The taken card is placed like a selected card.
// victim is mutated in place and must be persisted together with p.
func (r *Resolver) Pirate(p, victim *Player) (Event, error) {
	pi := p.Hand.IndexOfRank(RankPirate)
	if pi < 0 {
		return Event{}, fmt.Errorf("%w: no pirate in hand", ErrInvalidAction)
	}
	ev := Event{Discarded: []Card{p.Hand[pi]}}
	p.Hand = p.Hand.RemoveAt(pi)

	var card Card
	if victim == nil || len(victim.Hand) == 0 {
		card = RandomRankCard(r.rng)
		ev.note(FragmentNoTargets)
	} else {
		k := r.rng.Intn(len(victim.Hand))
		card = victim.Hand[k]
		victim.Hand = victim.Hand.RemoveAt(k)
		ev.VictimID = victim.UserID
		ev.note(FragmentStolen)
	}
	ev.Drawn = append(ev.Drawn, card)

	ev.merge(r.place(p, card))
	r.settle(p, &ev)
	r.award(p, ev)
	return ev, nil
}

// Wizard discards the Wizard with one other card for MatchMultiplier x value + WizardBonus.
// A nil target picks the highest-value card.
func (r *Resolver) Wizard(p *Player, target *Card) (Event, error) {
	wi := p.Hand.IndexOfRank(RankWizard)
	if wi < 0 {
		return Event{}, fmt.Errorf("%w: no wizard in hand", ErrInvalidAction)
	}
	wizard := p.Hand[wi]
	rest := p.Hand.RemoveAt(wi)
	if len(rest) == 0 {
		return Event{}, fmt.Errorf("%w: wizard needs another card to stash", ErrInvalidAction)
	}

	idx := -1
	if target == nil {
		_, idx, _ = rest.HighestCard()
	} else if idx = rest.IndexOf(*target); idx < 0 {
		return Event{}, fmt.Errorf("%w: %s is not in hand", ErrInvalidAction, target)
	}
	chosen := rest[idx]
	p.Hand = rest.RemoveAt(idx)

	ev := Event{
		Points:    r.rules.MatchMultiplier*chosen.Value() + r.rules.WizardBonus,
		Discarded: []Card{wizard, chosen},
	}
	ev.note(FragmentWizardStashed)

	r.award(p, ev)
	return ev, nil
}

// place inserts card: a held card of the same rank pairs off with it, a sum of
// exactly 21 stashes the whole hand, otherwise the card is appended.
func (r *Resolver) place(p *Player, card Card) Event {
	if i := p.Hand.IndexOfRank(card.Rank); i >= 0 {
		held := p.Hand[i]
		p.Hand = p.Hand.RemoveAt(i)
		return r.scorePair(held, card)
	}

	next := p.Hand.With(card)
	if next.Sum() != StashTarget {
		p.Hand = next
		return Event{}
	}

	ev := Event{
		IsStash:   true,
		Points:    r.rules.StashPoints,
		Discarded: next,
	}
	if AllOneSuit(next) {
		ev.Points = r.rules.SelectStashSuitPoints
		ev.BonusSuit = card.SuitTag()
		ev.note(FragmentStashBonus)
	}
	p.Hand = Hand{}
	return ev
}

func (r *Resolver) scorePair(a, b Card) Event {
	ev := Event{
		IsMatch:   true,
		Points:    r.rules.MatchMultiplier * a.Value(),
		Discarded: []Card{a, b},
	}
	if AllOneSuit([]Card{a, b}) {
		ev.Points *= r.rules.SuitMultiplier
		ev.BonusSuit = a.SuitTag()
		ev.note(FragmentMatchBonus)
	}
	return ev
}

// settle charges one hp when the hand is over 21. The hand is left as is.
func (r *Resolver) settle(p *Player, ev *Event) {
	if !p.Hand.Busted() {
		return
	}
	p.HP = r.clampHP(p.HP - 1)
	ev.IsBust = true
	ev.note(FragmentBusted)
}

func (r *Resolver) award(p *Player, ev Event) {
	p.Score += ev.Points
}

func (r *Resolver) clampHP(hp int) int {
	switch {
	case hp < 0:
		return 0
	case hp > r.rules.MaxHealth:
		return r.rules.MaxHealth
	default:
		return hp
	}
}
