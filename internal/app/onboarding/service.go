package onboarding

import (
	"context"
	"fmt"

	"squirrelstash/internal/domain"
	"squirrelstash/internal/ports"
)

// Result captures non-fatal onboarding outcomes.
type Result struct {
	Player *domain.Player
	// ProfileUpdateErr is set when the profile update failed but onboarding continued.
	ProfileUpdateErr error
}

// Service handles post-auth onboarding for new users.
type Service struct {
	accounts ports.AccountPort
	players  ports.PlayerRepository
	rng      domain.RNG
}

// NewService constructs an onboarding service. accounts may be nil to skip the
// profile update; rng may be nil to use a time-seeded default.
func NewService(accounts ports.AccountPort, players ports.PlayerRepository, rng domain.RNG) *Service {
	if rng == nil {
		rng = domain.NewLockedRNG(nil)
	}
	return &Service{
		accounts: accounts,
		players:  players,
		rng:      rng,
	}
}

// OnboardNewUser gives a newly created account a friendly name and its stash record.
// Returns an error only if the player record cannot be created.
func (s *Service) OnboardNewUser(ctx context.Context, userID string) (Result, error) {
	if s.players == nil {
		return Result{}, fmt.Errorf("onboarding service not configured")
	}

	result := Result{}
	if s.accounts != nil {
		displayName := s.generateFriendlyName()
		if err := s.accounts.UpdateProfile(ctx, userID, displayName, displayName); err != nil {
			result.ProfileUpdateErr = err
		}
	}

	p, err := s.players.FetchOrCreate(ctx, userID)
	if err != nil {
		return result, fmt.Errorf("failed to create player: %w", err)
	}
	result.Player = p
	return result, nil
}

func (s *Service) generateFriendlyName() string {
	adjectives := []string{"Bushy", "Nutty", "Sneaky", "Frosty", "Busy", "Fluffy", "Quick", "Greedy", "Sly", "Wild"}
	nouns := []string{"Squirrel", "Chipmunk", "Acorn", "Hoarder", "Forager", "Nibbler", "Scurrier", "Climber", "Stasher", "Oak"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(9000) + 1000

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
