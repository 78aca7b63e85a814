package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"sort"
	"strings"

	"github.com/pterm/pterm"

	"squirrelstash/internal/app"
	"squirrelstash/internal/config"
	"squirrelstash/internal/domain"
	"squirrelstash/internal/ports/memory"
)

func main() {
	seed := flag.Int64("seed", 1, "random seed")
	players := flag.Int("players", 3, "number of players")
	turns := flag.Int("turns", 40, "actions per player")
	guild := flag.String("guild", "sim", "guild id shared by all players")
	preset := flag.String("preset", config.PresetClassic, "ruleset preset")
	interactive := flag.Bool("interactive", false, "choose actions for the first player")
	flag.Parse()

	logger := slog.New(pterm.NewSlogHandler(&pterm.DefaultLogger))

	rules, ok := config.Preset(*preset)
	if !ok {
		logger.Error("unknown preset", "preset", *preset)
		os.Exit(1)
	}
	if *players < 1 {
		logger.Error("need at least one player")
		os.Exit(1)
	}

	rng := domain.NewLockedRNG(rand.New(rand.NewSource(*seed)))
	store := memory.NewStore(domain.NewPlayerFactory(rules, rng), rng)
	svc := app.NewService(store, store, store, rules, rng)
	ctx := context.Background()

	ids := make([]string, *players)
	for i := range ids {
		ids[i] = fmt.Sprintf("squirrel-%d", i+1)
		if _, err := svc.Start(ctx, ids[i], *guild); err != nil {
			logger.Error("start failed", "player", ids[i], "error", err)
			os.Exit(1)
		}
	}

	pterm.DefaultHeader.WithFullWidth().Println("Squirrel Stash")
	pterm.Info.Printfln("seed %d, %d players, %d turns, pool %s", *seed, *players, *turns, rules.OptionPool)

	for turn := 1; turn <= *turns; turn++ {
		for i, id := range ids {
			p, err := svc.Profile(ctx, id)
			if err != nil {
				logger.Error("load failed", "player", id, "error", err)
				os.Exit(1)
			}

			var req app.ActionRequest
			if *interactive && i == 0 {
				printPlayer(p)
				if req, err = prompt(p); err != nil {
					logger.Error("prompt failed", "error", err)
					os.Exit(1)
				}
			} else {
				req = choose(p, rules)
			}

			res, err := svc.Handle(ctx, id, req)
			if err != nil {
				var choice *domain.MatchChoiceError
				if errors.As(err, &choice) {
					req.Rank = choice.Candidates[0]
					res, err = svc.Handle(ctx, id, req)
				}
			}
			if err != nil {
				pterm.Warning.Printfln("[%02d] %s %s: %v", turn, id, req.Kind, err)
				continue
			}
			printResult(turn, res)
		}
	}

	printStandings(ctx, svc, ids, *guild)
}

func printPlayer(p *domain.Player) {
	pterm.DefaultBox.WithTitle(p.UserID).Printfln("hp %d  score %d  best %d\nhand %s (%d)\noptions %s",
		p.HP, p.Score, p.Highscore, cards(p.Hand), p.Hand.Sum(), cards(p.Options))
}

func prompt(p *domain.Player) (app.ActionRequest, error) {
	actions := app.AvailableActions(p)
	labels := make([]string, len(actions))
	for i, r := range actions {
		labels[i] = describe(p, r)
	}
	picked, err := pterm.DefaultInteractiveSelect.WithDefaultText("Select your next action").WithOptions(labels).Show()
	if err != nil {
		return app.ActionRequest{}, err
	}
	for i, l := range labels {
		if l == picked {
			return actions[i], nil
		}
	}
	return app.ActionRequest{}, fmt.Errorf("no action %q", picked)
}

func describe(p *domain.Player, r app.ActionRequest) string {
	switch r.Kind {
	case app.ActionSelect:
		c, _ := p.Option(r.Option)
		return fmt.Sprintf("take %s", c)
	case app.ActionMatch, app.ActionBookie:
		return fmt.Sprintf("%s %s", r.Kind, r.Rank)
	default:
		return string(r.Kind)
	}
}

func printResult(turn int, res *app.Result) {
	p, ev := res.Player, res.Outcome
	line := fmt.Sprintf("[%02d] %s %s -> hand %s (%d) hp %d score %d",
		turn, p.UserID, res.Kind, cards(p.Hand), p.Hand.Sum(), p.HP, p.Score)

	var notes []string
	if ev.Points > 0 {
		notes = append(notes, fmt.Sprintf("+%d", ev.Points))
	}
	for _, f := range ev.Fragments {
		notes = append(notes, string(f))
	}
	if ev.VictimID != "" {
		notes = append(notes, "from "+ev.VictimID)
	}
	if len(notes) > 0 {
		line += "  " + strings.Join(notes, ", ")
	}

	switch {
	case ev.IsBust:
		pterm.Error.Println(line)
	case ev.Points > 0:
		pterm.Success.Println(line)
	default:
		pterm.Info.Println(line)
	}
}

func printStandings(ctx context.Context, svc *app.Service, ids []string, guild string) {
	type row struct {
		id              string
		best, score, hp int
	}
	rows := make([]row, 0, len(ids))
	for _, id := range ids {
		p, err := svc.Profile(ctx, id)
		if err != nil {
			continue
		}
		rows = append(rows, row{id: id, best: p.BestScore(), score: p.Score, hp: p.HP})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].best > rows[j].best })

	data := pterm.TableData{{"Player", "Best", "Score", "HP"}}
	for _, r := range rows {
		data = append(data, []string{r.id, fmt.Sprint(r.best), fmt.Sprint(r.score), fmt.Sprint(r.hp)})
	}
	pterm.DefaultSection.Println("Standings")
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()

	if st, err := svc.Standings(ctx, ids[0], guild); err == nil && st.GuildRank != nil {
		pterm.Info.Printfln("%s is ranked #%d in %s", ids[0], st.GuildRank.Rank, guild)
	}
}

func cards(cs []domain.Card) string {
	if len(cs) == 0 {
		return "-"
	}
	return strings.Join(domain.FormatCards(cs), " ")
}
