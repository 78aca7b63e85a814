package domain

import "fmt"

// OptionPool selects which ranks the option generator may offer.
type OptionPool string

const (
	// PoolAlwaysFull offers face ranks on every draw.
	PoolAlwaysFull OptionPool = "always_full"
	// PoolFacesOnEmptyHand offers face ranks only while the hand is empty.
	PoolFacesOnEmptyHand OptionPool = "faces_on_empty_hand"
)

// Ruleset carries every tunable constant of the game. The bonus values come from
// different rule revisions and are kept as separate named fields.
type Ruleset struct {
	MaxHealth   int `json:"max_health"`
	OptionsSize int `json:"options_size"`
	// HeartOdds is the n in the 1-in-n chance of a heart option per generation.
	HeartOdds int `json:"heart_odds"`

	StashPoints int `json:"stash_points"`
	// SelectStashSuitPoints replaces StashPoints when a select completes a single-suit 21.
	SelectStashSuitPoints int `json:"select_stash_suit_points"`
	// ExplicitStashSuitPoints replaces StashPoints when the Stash action clears a single-suit 21.
	ExplicitStashSuitPoints int `json:"explicit_stash_suit_points"`

	MatchMultiplier int `json:"match_multiplier"`
	SuitMultiplier  int `json:"suit_multiplier"`
	BookiePoints    int `json:"bookie_points"`
	// WizardBonus is added to MatchMultiplier x discarded value.
	WizardBonus int `json:"wizard_bonus"`

	OptionPool      OptionPool `json:"option_pool"`
	LeaderboardSize int        `json:"leaderboard_size"`
}

// RulesetClassic offers face cards on every draw.
var RulesetClassic = Ruleset{
	MaxHealth:               5,
	OptionsSize:             3,
	HeartOdds:               5,
	StashPoints:             100,
	SelectStashSuitPoints:   500,
	ExplicitStashSuitPoints: 200,
	MatchMultiplier:         2,
	SuitMultiplier:          2,
	BookiePoints:            20,
	WizardBonus:             10,
	OptionPool:              PoolAlwaysFull,
	LeaderboardSize:         3,
}

// RulesetNumericWhileHolding withholds face cards while the hand holds anything.
var RulesetNumericWhileHolding = func() Ruleset {
	r := RulesetClassic
	r.OptionPool = PoolFacesOnEmptyHand
	return r
}()

// DefaultRuleset returns the ruleset used when no configuration is provided.
func DefaultRuleset() Ruleset {
	return RulesetClassic
}

// WithDefaults fills zero-valued fields from DefaultRuleset.
func (r Ruleset) WithDefaults() Ruleset {
	d := DefaultRuleset()
	fill := func(v *int, def int) {
		if *v == 0 {
			*v = def
		}
	}
	fill(&r.MaxHealth, d.MaxHealth)
	fill(&r.OptionsSize, d.OptionsSize)
	fill(&r.HeartOdds, d.HeartOdds)
	fill(&r.StashPoints, d.StashPoints)
	fill(&r.SelectStashSuitPoints, d.SelectStashSuitPoints)
	fill(&r.ExplicitStashSuitPoints, d.ExplicitStashSuitPoints)
	fill(&r.MatchMultiplier, d.MatchMultiplier)
	fill(&r.SuitMultiplier, d.SuitMultiplier)
	fill(&r.BookiePoints, d.BookiePoints)
	fill(&r.WizardBonus, d.WizardBonus)
	fill(&r.LeaderboardSize, d.LeaderboardSize)
	if r.OptionPool == "" {
		r.OptionPool = d.OptionPool
	}
	return r
}

// Validate rejects rulesets the resolver cannot run with.
func (r Ruleset) Validate() error {
	if r.MaxHealth < 1 {
		return fmt.Errorf("max_health must be positive, got %d", r.MaxHealth)
	}
	if r.OptionsSize < 1 {
		return fmt.Errorf("options_size must be positive, got %d", r.OptionsSize)
	}
	if r.HeartOdds < 1 {
		return fmt.Errorf("heart_odds must be positive, got %d", r.HeartOdds)
	}
	switch r.OptionPool {
	case PoolAlwaysFull, PoolFacesOnEmptyHand:
	default:
		return fmt.Errorf("unknown option_pool %q", r.OptionPool)
	}
	return nil
}
