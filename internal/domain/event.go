package domain

// Fragment is a descriptive tag the rendering layer turns into text.
type Fragment string

const (
	FragmentStashBonus    Fragment = "stash_bonus"
	FragmentMatchBonus    Fragment = "match_bonus"
	FragmentBusted        Fragment = "busted"
	FragmentHeartRestored Fragment = "heart_restored"
	FragmentBookieStashed Fragment = "bookie_stashed"
	FragmentBookieLost    Fragment = "bookie_lost"
	FragmentNoTargets     Fragment = "no_targets"
	FragmentStolen        Fragment = "stolen"
	FragmentWizardStashed Fragment = "wizard_stashed"
)

// Event describes the effect of one resolved action. It is never persisted.
type Event struct {
	Points int
	// BonusSuit is the suit tag of a single-suit stash or match, empty otherwise.
	BonusSuit string
	IsMatch   bool
	IsStash   bool
	IsBust    bool

	// Drawn holds cards that entered play: a Bookie replacement or a Pirate draw.
	Drawn []Card
	// Discarded holds cards that left the hand.
	Discarded []Card
	// VictimID is the opponent a Pirate stole from.
	VictimID string

	Fragments []Fragment
}

func (e *Event) note(f Fragment) {
	e.Fragments = append(e.Fragments, f)
}

// Has reports whether the fragment was recorded.
func (e Event) Has(f Fragment) bool {
	for _, v := range e.Fragments {
		if v == f {
			return true
		}
	}
	return false
}

func (e *Event) merge(o Event) {
	e.Points += o.Points
	if o.BonusSuit != "" {
		e.BonusSuit = o.BonusSuit
	}
	e.IsMatch = e.IsMatch || o.IsMatch
	e.IsStash = e.IsStash || o.IsStash
	e.IsBust = e.IsBust || o.IsBust
	e.Drawn = append(e.Drawn, o.Drawn...)
	e.Discarded = append(e.Discarded, o.Discarded...)
	e.Fragments = append(e.Fragments, o.Fragments...)
}
