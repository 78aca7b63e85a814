package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"squirrelstash/internal/domain"
	"squirrelstash/internal/ports"
)

var (
	ErrForbiddenAction        = errors.New("action belongs to another player")
	ErrStaleSession           = errors.New("session is no longer current")
	ErrSessionDepleted        = errors.New("out of hearts; restart to play again")
	ErrActionFailed           = errors.New("action failed")
	ErrLeaderboardUnavailable = errors.New("leaderboard is not configured")
)

// Service runs the stash use-cases against the player store.
// It keeps no player state between calls.
type Service struct {
	players     ports.PlayerRepository
	opponents   ports.OpponentPool
	leaderboard ports.LeaderboardPort
	resolver    *domain.Resolver
	rules       domain.Ruleset
	rng         domain.RNG

	newSessionID func() string
}

// NewService wires the use-cases. leaderboard may be nil; a nil rng becomes a
// time-seeded LockedRNG.
func NewService(players ports.PlayerRepository, opponents ports.OpponentPool, leaderboard ports.LeaderboardPort, rules domain.Ruleset, rng domain.RNG) *Service {
	if rng == nil {
		rng = domain.NewLockedRNG(nil)
	}
	return &Service{
		players:      players,
		opponents:    opponents,
		leaderboard:  leaderboard,
		resolver:     domain.NewResolver(rules, rng),
		rules:        rules,
		rng:          rng,
		newSessionID: uuid.NewString,
	}
}

// Rules returns the active ruleset.
func (s *Service) Rules() domain.Ruleset {
	return s.rules
}

// NewPlayer builds the default record for userID under the active ruleset.
func (s *Service) NewPlayer(userID string) *domain.Player {
	return domain.NewPlayerFactory(s.rules, s.rng)(userID)
}

// Result is the outcome of a persisted use-case.
type Result struct {
	Kind    ActionKind
	Player  *domain.Player
	Outcome domain.Event
	Events  []Event

	// LeaderboardErr is set when the score was saved but the leaderboard submit failed.
	LeaderboardErr error
}

// Start issues a fresh session for actor and records guildID when given. Hand, score
// and hp are left as they are; older action tokens become stale.
func (s *Service) Start(ctx context.Context, actor, guildID string) (*Result, error) {
	if actor == "" {
		return nil, ErrForbiddenAction
	}
	stored, err := s.players.FetchOrCreate(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("%w: load player: %w", ErrActionFailed, err)
	}

	work := stored.Clone()
	work.SessionID = s.newSessionID()
	if guildID != "" {
		work.GuildID = guildID
	}
	if err := s.players.Save(ctx, work); err != nil {
		return nil, fmt.Errorf("%w: save player: %w", ErrActionFailed, err)
	}

	return &Result{
		Kind:   ActionStart,
		Player: work,
		Events: []Event{{
			Kind: EventSessionStarted,
			Payload: SessionStartedPayload{
				UserID:    work.UserID,
				SessionID: work.SessionID,
				GuildID:   work.GuildID,
			},
			Recipients: []string{work.UserID},
		}},
	}, nil
}

// Handle validates req against actor and the stored session and record version,
// resolves it on a working copy and persists the result as a single write. Nothing is
// saved on error.
func (s *Service) Handle(ctx context.Context, actor string, req ActionRequest) (*Result, error) {
	if req.UserID != actor {
		return nil, ErrForbiddenAction
	}

	stored, err := s.players.FetchOrCreate(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("%w: load player: %w", ErrActionFailed, err)
	}
	if stored.SessionID == "" || stored.SessionID != req.SessionID || stored.Version != req.Version {
		return nil, ErrStaleSession
	}
	if stored.State() == domain.SessionDepleted && req.Kind != ActionRestart {
		return nil, ErrSessionDepleted
	}

	work := stored.Clone()
	var (
		outcome domain.Event
		victim  *domain.Player
	)
	switch req.Kind {
	case ActionSelect:
		outcome, err = s.resolver.Select(work, req.Option)
	case ActionMatch:
		outcome, err = s.resolver.Match(work, req.Rank)
	case ActionStash:
		outcome, err = s.resolver.Stash(work)
	case ActionBookie:
		outcome, err = s.resolver.Bookie(work, req.Rank)
	case ActionWizard:
		outcome, err = s.resolver.Wizard(work, req.Card)
	case ActionPirate:
		if s.opponents != nil && work.Hand.HasRank(domain.RankPirate) && work.GuildID != "" {
			victim, err = s.opponents.RandomEligibleOpponent(ctx, work.GuildID, work.UserID)
			if err != nil {
				return nil, fmt.Errorf("%w: find opponent: %w", ErrActionFailed, err)
			}
		}
		outcome, err = s.resolver.Pirate(work, victim)
	case ActionRestart:
		work.Restart(s.newSessionID(), s.rules, s.rng)
	default:
		return nil, fmt.Errorf("%w: unsupported action %q", domain.ErrInvalidAction, req.Kind)
	}
	if err != nil {
		if isRuleError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrActionFailed, err)
	}

	toSave := []*domain.Player{work}
	if outcome.VictimID != "" {
		toSave = append(toSave, victim)
	}
	if err := s.players.Save(ctx, toSave...); err != nil {
		return nil, fmt.Errorf("%w: save: %w", ErrActionFailed, err)
	}

	res := &Result{
		Kind:    req.Kind,
		Player:  work,
		Outcome: outcome,
		Events:  s.eventsFor(req.Kind, work, outcome),
	}
	res.LeaderboardErr = s.submitBest(ctx, work)
	return res, nil
}

func (s *Service) eventsFor(kind ActionKind, p *domain.Player, outcome domain.Event) []Event {
	if kind == ActionRestart {
		return []Event{{
			Kind: EventSessionRestarted,
			Payload: SessionRestartedPayload{
				UserID:    p.UserID,
				SessionID: p.SessionID,
				Highscore: p.Highscore,
			},
			Recipients: []string{p.UserID},
		}}
	}

	events := []Event{{
		Kind:       EventActionResolved,
		Payload:    ActionResolvedPayload{UserID: p.UserID, Action: kind, Outcome: outcome},
		Recipients: []string{p.UserID},
	}}
	if outcome.VictimID != "" && len(outcome.Drawn) > 0 {
		events = append(events, Event{
			Kind: EventCardStolen,
			Payload: CardStolenPayload{
				ThiefID:  p.UserID,
				VictimID: outcome.VictimID,
				Card:     outcome.Drawn[0],
			},
			Recipients: []string{outcome.VictimID},
		})
	}
	return events
}

// submitBest is best-effort; the action is already persisted.
func (s *Service) submitBest(ctx context.Context, p *domain.Player) error {
	if s.leaderboard == nil || p.GuildID == "" {
		return nil
	}
	return s.leaderboard.Submit(ctx, p.GuildID, p.UserID, int64(p.BestScore()))
}

func isRuleError(err error) bool {
	return errors.Is(err, domain.ErrInvalidAction) || errors.Is(err, domain.ErrNoMatchAvailable)
}

// Profile returns the actor's stored player, creating it on first access.
func (s *Service) Profile(ctx context.Context, actor string) (*domain.Player, error) {
	if actor == "" {
		return nil, ErrForbiddenAction
	}
	p, err := s.players.FetchOrCreate(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("%w: load player: %w", ErrActionFailed, err)
	}
	return p, nil
}

// Standings is the leaderboard view for one player.
type Standings struct {
	GuildID    string
	Top        []ports.LeaderboardEntry
	GuildRank  *ports.LeaderboardEntry
	GlobalRank *ports.LeaderboardEntry
	BestScore  int
}

// Standings returns the top entries of guildID with the actor's guild and global rank.
// An empty guildID falls back to the actor's recorded guild.
func (s *Service) Standings(ctx context.Context, actor, guildID string) (*Standings, error) {
	if s.leaderboard == nil {
		return nil, ErrLeaderboardUnavailable
	}
	p, err := s.Profile(ctx, actor)
	if err != nil {
		return nil, err
	}
	if guildID == "" {
		guildID = p.GuildID
	}
	if guildID == "" {
		return nil, fmt.Errorf("%w: no guild recorded for player", domain.ErrInvalidAction)
	}

	out := &Standings{GuildID: guildID, BestScore: p.BestScore()}
	if out.Top, err = s.leaderboard.Top(ctx, guildID, s.rules.LeaderboardSize); err != nil {
		return nil, fmt.Errorf("%w: leaderboard top: %w", ErrActionFailed, err)
	}
	if out.GuildRank, err = s.leaderboard.GuildRank(ctx, guildID, actor); err != nil {
		return nil, fmt.Errorf("%w: guild rank: %w", ErrActionFailed, err)
	}
	if out.GlobalRank, err = s.leaderboard.GlobalRank(ctx, actor); err != nil {
		return nil, fmt.Errorf("%w: global rank: %w", ErrActionFailed, err)
	}
	return out, nil
}
