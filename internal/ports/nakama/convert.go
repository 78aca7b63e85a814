package nakama

import (
	"fmt"

	"squirrelstash/internal/app"
	"squirrelstash/internal/domain"
	"squirrelstash/internal/ports"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// marshalResponse renders fields as JSON through structpb so every RPC shares one encoding.
func marshalResponse(fields map[string]interface{}) (string, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return "", fmt.Errorf("failed to build response: %w", err)
	}
	b, err := protojson.MarshalOptions{UseProtoNames: true}.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to marshal response: %w", err)
	}
	return string(b), nil
}

func cardList(cards []domain.Card) []interface{} {
	out := make([]interface{}, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.String())
	}
	return out
}

func playerView(p *domain.Player) map[string]interface{} {
	return map[string]interface{}{
		"user_id":    p.UserID,
		"session_id": p.SessionID,
		"state":      string(p.State()),
		"hp":         p.HP,
		"score":      p.Score,
		"highscore":  p.Highscore,
		"guild_id":   p.GuildID,
		"hand":       cardList(p.Hand),
		"hand_sum":   p.Hand.Sum(),
		"options":    cardList(p.Options),
		"tokens":     actionTokens(p),
	}
}

// actionTokens groups the available action tokens by kind. Select tokens are listed
// in option order; match and bookie tokens are keyed by rank.
func actionTokens(p *domain.Player) map[string]interface{} {
	out := map[string]interface{}{}
	var selects []interface{}
	for _, r := range app.AvailableActions(p) {
		switch r.Kind {
		case app.ActionSelect:
			selects = append(selects, r.Encode())
		case app.ActionMatch, app.ActionBookie:
			byRank, _ := out[string(r.Kind)].(map[string]interface{})
			if byRank == nil {
				byRank = map[string]interface{}{}
				out[string(r.Kind)] = byRank
			}
			byRank[string(r.Rank)] = r.Encode()
		default:
			out[string(r.Kind)] = r.Encode()
		}
	}
	if selects != nil {
		out["select"] = selects
	}
	return out
}

func eventView(ev domain.Event) map[string]interface{} {
	fragments := make([]interface{}, 0, len(ev.Fragments))
	for _, f := range ev.Fragments {
		fragments = append(fragments, string(f))
	}
	return map[string]interface{}{
		"points":     ev.Points,
		"bonus_suit": ev.BonusSuit,
		"is_match":   ev.IsMatch,
		"is_stash":   ev.IsStash,
		"is_bust":    ev.IsBust,
		"drawn":      cardList(ev.Drawn),
		"discarded":  cardList(ev.Discarded),
		"victim_id":  ev.VictimID,
		"fragments":  fragments,
	}
}

func entryView(e *ports.LeaderboardEntry) interface{} {
	if e == nil {
		return nil
	}
	return map[string]interface{}{
		"rank":       e.Rank,
		"user_id":    e.UserID,
		"best_score": e.BestScore,
	}
}

func standingsView(st *app.Standings) map[string]interface{} {
	top := make([]interface{}, 0, len(st.Top))
	for i := range st.Top {
		top = append(top, entryView(&st.Top[i]))
	}
	return map[string]interface{}{
		"guild_id":    st.GuildID,
		"best_score":  st.BestScore,
		"top":         top,
		"guild_rank":  entryView(st.GuildRank),
		"global_rank": entryView(st.GlobalRank),
	}
}
