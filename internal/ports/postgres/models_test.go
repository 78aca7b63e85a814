package postgres

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"squirrelstash/internal/domain"
)

func TestRowRoundTrip(t *testing.T) {
	p := &domain.Player{
		UserID:    "u1",
		SessionID: "s1",
		HP:        4,
		Score:     30,
		Highscore: 80,
		GuildID:   "g",
		Hand:      domain.Hand{{Suit: domain.SuitAcorn, Rank: domain.RankNine}},
		Options:   []domain.Card{domain.HeartCard()},
	}
	row := rowFromPlayer(p)
	row.Version = 7
	assert.Equal(t, []string{"GL.9"}, row.Hand)

	got, err := row.toPlayer()
	require.NoError(t, err)
	assert.Equal(t, "7", got.Version)
	p.Version = "7"
	assert.Equal(t, p, got)
}

func TestRowEmptyHandSerializesAsEmptyList(t *testing.T) {
	row := rowFromPlayer(&domain.Player{UserID: "u1"})
	assert.NotNil(t, row.Hand)
	assert.Empty(t, row.Hand)
}

func TestRowRejectsCorruptCards(t *testing.T) {
	_, err := playerRow{UserID: "u1", Hand: []string{"GL.10"}}.toPlayer()
	assert.True(t, errors.Is(err, domain.ErrMalformedCard))
}

func TestParseVersion(t *testing.T) {
	v, err := parseVersion("")
	require.NoError(t, err)
	assert.Zero(t, v)

	v, err = parseVersion("12")
	require.NoError(t, err)
	assert.Equal(t, int64(12), v)

	_, err = parseVersion("*")
	assert.Error(t, err)
}
