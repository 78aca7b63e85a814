package httpapi

import (
	"squirrelstash/internal/app"
	"squirrelstash/internal/domain"
	"squirrelstash/internal/ports"
)

type StartRequest struct {
	GuildID string `json:"guild_id"`
}

type ActionRequest struct {
	Token string `json:"token"`
}

// PlayerResponse is the player view returned by every endpoint that changes or reads state.
type PlayerResponse struct {
	UserID    string           `json:"user_id"`
	SessionID string           `json:"session_id"`
	State     string           `json:"state"`
	HP        int              `json:"hp"`
	Score     int              `json:"score"`
	Highscore int              `json:"highscore"`
	GuildID   string           `json:"guild_id"`
	Hand      []string         `json:"hand"`
	HandSum   int              `json:"hand_sum"`
	Options   []string         `json:"options"`
	Actions   []ActionResponse `json:"actions"`
}

type ActionResponse struct {
	Kind  string `json:"kind"`
	Token string `json:"token"`
}

type EventResponse struct {
	Points    int      `json:"points"`
	BonusSuit string   `json:"bonus_suit,omitempty"`
	IsMatch   bool     `json:"is_match"`
	IsStash   bool     `json:"is_stash"`
	IsBust    bool     `json:"is_bust"`
	Drawn     []string `json:"drawn"`
	Discarded []string `json:"discarded"`
	VictimID  string   `json:"victim_id,omitempty"`
	Fragments []string `json:"fragments"`
}

type ActionResultResponse struct {
	Action string         `json:"action"`
	Event  EventResponse  `json:"event"`
	Player PlayerResponse `json:"player"`
}

type EntryResponse struct {
	Rank      int64  `json:"rank"`
	UserID    string `json:"user_id"`
	BestScore int64  `json:"best_score"`
}

type StandingsResponse struct {
	GuildID    string          `json:"guild_id"`
	BestScore  int             `json:"best_score"`
	Top        []EntryResponse `json:"top"`
	GuildRank  *EntryResponse  `json:"guild_rank"`
	GlobalRank *EntryResponse  `json:"global_rank"`
}

type ErrorResponse struct {
	Error      string   `json:"error"`
	Candidates []string `json:"candidates,omitempty"`
}

func toPlayerResponse(p *domain.Player) PlayerResponse {
	actions := make([]ActionResponse, 0)
	for _, r := range app.AvailableActions(p) {
		actions = append(actions, ActionResponse{Kind: string(r.Kind), Token: r.Encode()})
	}
	return PlayerResponse{
		UserID:    p.UserID,
		SessionID: p.SessionID,
		State:     string(p.State()),
		HP:        p.HP,
		Score:     p.Score,
		Highscore: p.Highscore,
		GuildID:   p.GuildID,
		Hand:      domain.FormatCards(p.Hand),
		HandSum:   p.Hand.Sum(),
		Options:   domain.FormatCards(p.Options),
		Actions:   actions,
	}
}

func toEventResponse(ev domain.Event) EventResponse {
	fragments := make([]string, 0, len(ev.Fragments))
	for _, f := range ev.Fragments {
		fragments = append(fragments, string(f))
	}
	return EventResponse{
		Points:    ev.Points,
		BonusSuit: ev.BonusSuit,
		IsMatch:   ev.IsMatch,
		IsStash:   ev.IsStash,
		IsBust:    ev.IsBust,
		Drawn:     domain.FormatCards(ev.Drawn),
		Discarded: domain.FormatCards(ev.Discarded),
		VictimID:  ev.VictimID,
		Fragments: fragments,
	}
}

func toEntryResponse(e *ports.LeaderboardEntry) *EntryResponse {
	if e == nil {
		return nil
	}
	return &EntryResponse{Rank: e.Rank, UserID: e.UserID, BestScore: e.BestScore}
}

func toStandingsResponse(st *app.Standings) StandingsResponse {
	top := make([]EntryResponse, 0, len(st.Top))
	for i := range st.Top {
		top = append(top, *toEntryResponse(&st.Top[i]))
	}
	return StandingsResponse{
		GuildID:    st.GuildID,
		BestScore:  st.BestScore,
		Top:        top,
		GuildRank:  toEntryResponse(st.GuildRank),
		GlobalRank: toEntryResponse(st.GlobalRank),
	}
}
