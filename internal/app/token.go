package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"squirrelstash/internal/domain"
)

// ActionKind names a player action.
type ActionKind string

const (
	ActionStart   ActionKind = "start"
	ActionSelect  ActionKind = "select"
	ActionMatch   ActionKind = "match"
	ActionStash   ActionKind = "stash"
	ActionBookie  ActionKind = "bookie"
	ActionPirate  ActionKind = "pirate"
	ActionWizard  ActionKind = "wizard"
	ActionRestart ActionKind = "restart"
)

const (
	actionTokenVersion = "v1"
	actionTokenSep     = ":"
)

var ErrMalformedToken = errors.New("malformed action token")

// ActionRequest is a decoded action token. Only the fields of its Kind are set.
type ActionRequest struct {
	Kind      ActionKind
	UserID    string
	SessionID string
	// Version is the player record version the token was issued against. Once the
	// record changes the token is stale, so a repeated submit cannot apply twice.
	Version string

	// Option is the offered slot for ActionSelect.
	Option int
	// Rank is required for ActionBookie and optional for ActionMatch.
	Rank domain.Rank
	// Card is the optional Wizard target; nil picks the highest card.
	Card *domain.Card
}

// Encode renders the request as "v1:<kind>:<user>:<session>:<version>[:<arg>]".
func (r ActionRequest) Encode() string {
	parts := []string{actionTokenVersion, string(r.Kind), r.UserID, r.SessionID, r.Version}
	switch r.Kind {
	case ActionSelect:
		parts = append(parts, strconv.Itoa(r.Option))
	case ActionMatch:
		if r.Rank != "" {
			parts = append(parts, string(r.Rank))
		}
	case ActionBookie:
		parts = append(parts, string(r.Rank))
	case ActionWizard:
		if r.Card != nil {
			parts = append(parts, r.Card.String())
		}
	}
	return strings.Join(parts, actionTokenSep)
}

// DecodeActionToken parses a token produced by Encode. Arguments are checked per kind.
func DecodeActionToken(token string) (ActionRequest, error) {
	parts := strings.Split(token, actionTokenSep)
	if len(parts) < 5 {
		return ActionRequest{}, fmt.Errorf("%w: expected at least 5 fields, got %d", ErrMalformedToken, len(parts))
	}
	if parts[0] != actionTokenVersion {
		return ActionRequest{}, fmt.Errorf("%w: unsupported version %q", ErrMalformedToken, parts[0])
	}

	req := ActionRequest{
		Kind:      ActionKind(parts[1]),
		UserID:    parts[2],
		SessionID: parts[3],
		Version:   parts[4],
	}
	if req.UserID == "" || req.SessionID == "" || req.Version == "" {
		return ActionRequest{}, fmt.Errorf("%w: missing user, session or version", ErrMalformedToken)
	}
	args := parts[5:]

	switch req.Kind {
	case ActionSelect:
		if len(args) != 1 {
			return ActionRequest{}, fmt.Errorf("%w: select takes an option index", ErrMalformedToken)
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return ActionRequest{}, fmt.Errorf("%w: bad option index %q", ErrMalformedToken, args[0])
		}
		req.Option = n
	case ActionMatch:
		if len(args) > 1 {
			return ActionRequest{}, fmt.Errorf("%w: match takes at most a rank", ErrMalformedToken)
		}
		if len(args) == 1 {
			rank, err := domain.ParseRank(args[0])
			if err != nil {
				return ActionRequest{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
			}
			req.Rank = rank
		}
	case ActionBookie:
		if len(args) != 1 {
			return ActionRequest{}, fmt.Errorf("%w: bookie takes a rank", ErrMalformedToken)
		}
		rank, err := domain.ParseRank(args[0])
		if err != nil {
			return ActionRequest{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
		}
		req.Rank = rank
	case ActionWizard:
		if len(args) > 1 {
			return ActionRequest{}, fmt.Errorf("%w: wizard takes at most a card", ErrMalformedToken)
		}
		if len(args) == 1 {
			c, err := domain.ParseCard(args[0])
			if err != nil {
				return ActionRequest{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
			}
			req.Card = &c
		}
	case ActionStash, ActionPirate, ActionRestart:
		if len(args) != 0 {
			return ActionRequest{}, fmt.Errorf("%w: %s takes no arguments", ErrMalformedToken, req.Kind)
		}
	default:
		return ActionRequest{}, fmt.Errorf("%w: unknown action %q", ErrMalformedToken, req.Kind)
	}

	return req, nil
}

// AvailableActions lists the requests p can currently make, restart first. A depleted
// or idle player gets only what its state allows.
func AvailableActions(p *domain.Player) []ActionRequest {
	if p.SessionID == "" {
		return nil
	}
	base := ActionRequest{UserID: p.UserID, SessionID: p.SessionID, Version: p.Version}
	with := func(kind ActionKind) ActionRequest {
		r := base
		r.Kind = kind
		return r
	}

	out := []ActionRequest{with(ActionRestart)}
	if p.State() == domain.SessionDepleted {
		return out
	}

	for i := range p.Options {
		r := with(ActionSelect)
		r.Option = i
		out = append(out, r)
	}
	if p.Hand.Sum() == domain.StashTarget {
		out = append(out, with(ActionStash))
	}
	for _, m := range p.Hand.Matches() {
		r := with(ActionMatch)
		r.Rank = m.Rank
		out = append(out, r)
	}
	if bi := p.Hand.IndexOfRank(domain.RankBookie); bi >= 0 && len(p.Hand) > 1 {
		seen := make(map[domain.Rank]bool)
		for _, c := range p.Hand.RemoveAt(bi) {
			if seen[c.Rank] {
				continue
			}
			seen[c.Rank] = true
			r := with(ActionBookie)
			r.Rank = c.Rank
			out = append(out, r)
		}
	}
	if p.Hand.HasRank(domain.RankPirate) {
		out = append(out, with(ActionPirate))
	}
	if p.Hand.HasRank(domain.RankWizard) && len(p.Hand) > 1 {
		out = append(out, with(ActionWizard))
	}
	return out
}
