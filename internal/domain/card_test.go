package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRNG returns values from a pre-set sequence, reduced modulo n.
type scriptedRNG struct {
	values []int
	idx    int
}

func (r *scriptedRNG) Intn(n int) int {
	v := r.values[r.idx%len(r.values)] % n
	r.idx++
	return v
}

func card(s string) Card {
	c, err := ParseCard(s)
	if err != nil {
		panic(err)
	}
	return c
}

func hand(tokens ...string) Hand {
	h := Hand{}
	for _, t := range tokens {
		h = append(h, card(t))
	}
	return h
}

func TestCardValue(t *testing.T) {
	tests := []struct {
		card string
		want int
	}{
		{"GL.A", 1},
		{"SP.2", 2},
		{"DG.9", 9},
		{"LA.B", 10},
		{"GL.P", 10},
		{"SP.W", 10},
		{"HP.+1", 0},
	}
	for _, tt := range tests {
		t.Run(tt.card, func(t *testing.T) {
			assert.Equal(t, tt.want, card(tt.card).Value())
		})
	}
}

func TestCardRoundTrip(t *testing.T) {
	for _, s := range StandardSuits {
		for _, r := range StandardRanks {
			c := Card{Suit: s, Rank: r}
			serialized := c.String()
			assert.Equal(t, serialized, c.String(), "serialize must be stable")

			parsed, err := ParseCard(serialized)
			require.NoError(t, err)
			assert.Equal(t, c, parsed)
		}
	}

	heart, err := ParseCard(HeartCard().String())
	require.NoError(t, err)
	assert.True(t, heart.IsHeart())
}

func TestParseCardRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "GL", "GL.", ".5", "XX.5", "GL.10", "GL.K", "HP.5", "gl.5"} {
		t.Run(s, func(t *testing.T) {
			_, err := ParseCard(s)
			assert.True(t, errors.Is(err, ErrMalformedCard), "got %v", err)
		})
	}
}

func TestParseCardsStopsAtFirstError(t *testing.T) {
	_, err := ParseCards([]string{"GL.5", "bad"})
	assert.ErrorIs(t, err, ErrMalformedCard)

	cards, err := ParseCards(nil)
	require.NoError(t, err)
	assert.Empty(t, cards)
	assert.NotNil(t, FormatCards(nil))
}

func TestSuitTag(t *testing.T) {
	assert.Equal(t, "acorn", card("GL.A").SuitTag())
	assert.Equal(t, "flaming_acorn", card("SP.5").SuitTag())
	assert.Equal(t, "frozen_acorn", card("DG.5").SuitTag())
	assert.Equal(t, "corrupt_acorn", card("LA.5").SuitTag())
	assert.Equal(t, "heart", HeartCard().SuitTag())
}

func TestRandomRankCardNeverDrawsFaces(t *testing.T) {
	rng := &scriptedRNG{values: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}}
	for i := 0; i < 200; i++ {
		c := RandomRankCard(rng)
		assert.False(t, c.IsFace(), "drew %s", c)
	}
}

func TestRandomCardCoversFaces(t *testing.T) {
	rng := &scriptedRNG{values: []int{0, 9}}
	c := RandomCard(rng)
	assert.Equal(t, Card{Suit: SuitAcorn, Rank: RankBookie}, c)
}

func FuzzParseCard(f *testing.F) {
	f.Add("GL.5")
	f.Add("HP.+1")
	f.Add("LA.W")
	f.Add("..")
	f.Fuzz(func(t *testing.T, s string) {
		c, err := ParseCard(s)
		if err != nil {
			if !errors.Is(err, ErrMalformedCard) {
				t.Fatalf("unexpected error type: %v", err)
			}
			return
		}
		if c.String() != s {
			t.Fatalf("round trip mismatch: %q -> %q", s, c.String())
		}
	})
}
