package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
	"github.com/google/uuid"
)

// DefaultActorTokenTTL bounds how long an issued actor token is accepted.
const DefaultActorTokenTTL = 24 * time.Hour

var ErrInvalidActorToken = errors.New("invalid actor token")

// ActorTokens issues and verifies the HS256 bearer tokens the standalone HTTP
// surface authenticates players with. The subject claim is the user id.
type ActorTokens struct {
	secret string
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewActorTokens(secret, issuer string, ttl time.Duration) *ActorTokens {
	if ttl <= 0 {
		ttl = DefaultActorTokenTTL
	}
	if issuer == "" {
		issuer = ActorTokenIssuer
	}
	return &ActorTokens{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *ActorTokens) Issue(user string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("actor tokens are not configured")
	}
	if user == "" {
		return "", fmt.Errorf("user is required")
	}
	if s.secret == "" || s.issuer == "" {
		return "", fmt.Errorf("actor token config is incomplete")
	}

	now := s.now()
	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": user,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
		"jti": uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// Verify checks signature, expiry and issuer, and returns the subject.
func (s *ActorTokens) Verify(tokenString string) (string, error) {
	if s == nil || s.secret == "" {
		return "", fmt.Errorf("%w: actor tokens are not configured", ErrInvalidActorToken)
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidActorToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidActorToken
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return "", fmt.Errorf("%w: unexpected issuer", ErrInvalidActorToken)
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidActorToken)
	}
	return sub, nil
}
