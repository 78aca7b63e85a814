package app

import (
	"errors"
	"testing"

	"squirrelstash/internal/domain"
)

func TestActionTokenRoundTrip(t *testing.T) {
	target := domain.Card{Suit: domain.SuitFrozenAcorn, Rank: domain.RankSeven}
	cases := []ActionRequest{
		{Kind: ActionSelect, UserID: "u1", SessionID: "s1", Version: "7", Option: 2},
		{Kind: ActionMatch, UserID: "u1", SessionID: "s1", Version: "7"},
		{Kind: ActionMatch, UserID: "u1", SessionID: "s1", Version: "7", Rank: domain.RankFour},
		{Kind: ActionStash, UserID: "u1", SessionID: "s1", Version: "7"},
		{Kind: ActionBookie, UserID: "u1", SessionID: "s1", Version: "7", Rank: domain.RankNine},
		{Kind: ActionPirate, UserID: "u1", SessionID: "s1", Version: "7"},
		{Kind: ActionWizard, UserID: "u1", SessionID: "s1", Version: "7"},
		{Kind: ActionWizard, UserID: "u1", SessionID: "s1", Version: "7", Card: &target},
		{Kind: ActionRestart, UserID: "u1", SessionID: "s1", Version: "7"},
	}
	for _, want := range cases {
		token := want.Encode()
		got, err := DecodeActionToken(token)
		if err != nil {
			t.Fatalf("decode %q: %v", token, err)
		}
		if got.Kind != want.Kind || got.UserID != want.UserID || got.SessionID != want.SessionID ||
			got.Version != want.Version || got.Option != want.Option || got.Rank != want.Rank {
			t.Fatalf("decode %q = %+v, want %+v", token, got, want)
		}
		if (got.Card == nil) != (want.Card == nil) || (got.Card != nil && *got.Card != *want.Card) {
			t.Fatalf("decode %q card = %v, want %v", token, got.Card, want.Card)
		}
	}
}

func TestActionTokenEncodeFormat(t *testing.T) {
	got := ActionRequest{Kind: ActionSelect, UserID: "u1", SessionID: "s1", Version: "7", Option: 1}.Encode()
	if got != "v1:select:u1:s1:7:1" {
		t.Fatalf("encode = %q", got)
	}
}

func TestDecodeActionTokenRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"v1:select:u1",
		"v1:stash:u1:s1",
		"v2:select:u1:s1:7:0",
		"v1:select::s1:7:0",
		"v1:select:u1::7:0",
		"v1:select:u1:s1::0",
		"v1:select:u1:s1:7",
		"v1:select:u1:s1:7:x",
		"v1:select:u1:s1:7:-1",
		"v1:match:u1:s1:7:Q",
		"v1:match:u1:s1:7:2:3",
		"v1:bookie:u1:s1:7",
		"v1:wizard:u1:s1:7:GL",
		"v1:stash:u1:s1:7:extra",
		"v1:start:u1:s1:7",
		"v1:fly:u1:s1:7",
	}
	for _, token := range cases {
		if _, err := DecodeActionToken(token); !errors.Is(err, ErrMalformedToken) {
			t.Fatalf("decode %q err = %v, want ErrMalformedToken", token, err)
		}
	}
}

func TestAvailableActions(t *testing.T) {
	p := &domain.Player{
		UserID:    "u1",
		SessionID: "s1",
		Version:   "4",
		HP:        3,
		Hand: domain.Hand{
			{Suit: domain.SuitAcorn, Rank: domain.RankBookie},
			{Suit: domain.SuitAcorn, Rank: domain.RankFive},
			{Suit: domain.SuitFlamingAcorn, Rank: domain.RankSix},
		},
		Options: []domain.Card{domain.HeartCard(), {Suit: domain.SuitAcorn, Rank: domain.RankTwo}},
	}

	var got []string
	for _, r := range AvailableActions(p) {
		got = append(got, r.Encode())
	}
	// Sum is exactly 21, so stash is offered.
	want := []string{
		"v1:restart:u1:s1:4",
		"v1:select:u1:s1:4:0",
		"v1:select:u1:s1:4:1",
		"v1:stash:u1:s1:4",
		"v1:bookie:u1:s1:4:5",
		"v1:bookie:u1:s1:4:6",
	}
	if len(got) != len(want) {
		t.Fatalf("actions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("actions = %v, want %v", got, want)
		}
	}

	p.HP = 0
	if got := AvailableActions(p); len(got) != 1 || got[0].Kind != ActionRestart {
		t.Fatalf("depleted actions = %+v", got)
	}
	p.SessionID = ""
	if got := AvailableActions(p); got != nil {
		t.Fatalf("idle actions = %+v", got)
	}
}
