package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedCard    = errors.New("malformed card")
	ErrInvalidAction    = errors.New("invalid action")
	ErrNoMatchAvailable = errors.New("no match available")
)

// MatchChoiceError is returned by Match when more than one rank holds a pair and
// no rank was named. Candidates lists the pairable ranks in hand order.
type MatchChoiceError struct {
	Candidates []Rank
}

func (e *MatchChoiceError) Error() string {
	ranks := make([]string, len(e.Candidates))
	for i, r := range e.Candidates {
		ranks[i] = string(r)
	}
	return fmt.Sprintf("choose a rank to match: %s", strings.Join(ranks, ", "))
}

func (e *MatchChoiceError) Unwrap() error {
	return ErrInvalidAction
}
