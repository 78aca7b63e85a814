package domain

// SessionState is the lifecycle stage of a player's session.
type SessionState string

const (
	// SessionIdle means no session has been issued yet.
	SessionIdle SessionState = "idle"
	// SessionActive accepts every action.
	SessionActive SessionState = "active"
	// SessionDepleted means hp is 0; only a restart is accepted.
	SessionDepleted SessionState = "depleted"
)

// Player is the persisted state of one user.
type Player struct {
	UserID    string
	SessionID string
	HP        int
	Score     int
	Highscore int
	GuildID   string
	Hand      Hand
	Options   []Card

	// Version is assigned by the repository and checked on save.
	Version string
}

// PlayerFactory builds the default record for a never-seen user.
type PlayerFactory func(userID string) *Player

// NewPlayerFactory returns a factory producing full-health players with fresh options.
func NewPlayerFactory(rules Ruleset, rng RNG) PlayerFactory {
	return func(userID string) *Player {
		return &Player{
			UserID:  userID,
			HP:      rules.MaxHealth,
			Hand:    Hand{},
			Options: GenerateOptions(rules, true, rng),
		}
	}
}

// State derives the session state from the session id and hp.
func (p *Player) State() SessionState {
	switch {
	case p.SessionID == "":
		return SessionIdle
	case p.HP <= 0:
		return SessionDepleted
	default:
		return SessionActive
	}
}

// BestScore is the larger of the running score and the highscore.
func (p *Player) BestScore() int {
	if p.Score > p.Highscore {
		return p.Score
	}
	return p.Highscore
}

// Clone returns a deep copy for use as a working copy.
func (p *Player) Clone() *Player {
	out := *p
	out.Hand = p.Hand.Clone()
	out.Options = append([]Card{}, p.Options...)
	return &out
}

// Restart folds the score into the highscore and resets the run under a new session.
func (p *Player) Restart(sessionID string, rules Ruleset, rng RNG) {
	p.Highscore = p.BestScore()
	p.Score = 0
	p.HP = rules.MaxHealth
	p.Hand = Hand{}
	p.Options = GenerateOptions(rules, true, rng)
	p.SessionID = sessionID
}

// Option returns the offered card at index i.
func (p *Player) Option(i int) (Card, bool) {
	if i < 0 || i >= len(p.Options) {
		return Card{}, false
	}
	return p.Options[i], true
}
