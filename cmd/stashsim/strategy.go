package main

import (
	"squirrelstash/internal/app"
	"squirrelstash/internal/domain"
)

// choose picks the next request for an autoplayed player: cash in whatever scores,
// otherwise take the safest option.
func choose(p *domain.Player, rules domain.Ruleset) app.ActionRequest {
	actions := app.AvailableActions(p)
	byKind := make(map[app.ActionKind]app.ActionRequest)
	for _, r := range actions {
		if _, ok := byKind[r.Kind]; !ok {
			byKind[r.Kind] = r
		}
	}

	if p.State() == domain.SessionDepleted {
		return byKind[app.ActionRestart]
	}
	for _, kind := range []app.ActionKind{app.ActionStash, app.ActionMatch, app.ActionPirate} {
		if r, ok := byKind[kind]; ok {
			return r
		}
	}
	if r, ok := byKind[app.ActionWizard]; ok && p.Hand.Sum() > domain.StashTarget-domain.FaceValue {
		return r
	}

	req := byKind[app.ActionSelect]
	req.Option = bestOption(p, rules)
	return req
}

// bestOption ranks options: a needed heart, a pairing card, a card completing 21,
// then the lowest card that keeps the hand in bounds.
func bestOption(p *domain.Player, rules domain.Ruleset) int {
	best, bestScore := 0, -1<<31
	sum := p.Hand.Sum()
	for i, c := range p.Options {
		var score int
		switch {
		case c.IsHeart():
			if p.HP < rules.MaxHealth {
				score = 1000
			} else {
				score = -1
			}
		case p.Hand.HasRank(c.Rank):
			score = 900 + c.Value()
		case sum+c.Value() == domain.StashTarget:
			score = 800
		case sum+c.Value() < domain.StashTarget:
			score = 100 - c.Value()
		default:
			score = -100 - c.Value()
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}
