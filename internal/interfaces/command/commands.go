package command

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/bytedance/sonic"
	"github.com/urfave/cli/v2"
	"github.com/valyala/bytebufferpool"

	"github.com/vaerl/trophy-be/internal/domain/scoring"
	"github.com/vaerl/trophy-be/internal/infrastructure/spreadsheet"
	"github.com/vaerl/trophy-be/internal/usecase"
)

func (h *Handler) evaluateCommand() *cli.Command {
	return &cli.Command{
		Name:  "evaluate",
		Usage: "score every game of the year and add the points to the team totals",
		Flags: []cli.Flag{yearFlag()},
		Action: h.traced("evaluate", func(ctx context.Context, c *cli.Context) error {
			if h.evalTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, h.evalTimeout)
				defer cancel()
			}

			result, err := h.trophy.EvaluateTrophy(ctx, h.year(c))
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "year %d evaluated: %d games, %d results, %d teams\n",
				result.Year, result.Games, result.Outcomes, result.Teams)
			return nil
		}),
	}
}

func (h *Handler) statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "show result entry progress of the year",
		Flags: []cli.Flag{yearFlag()},
		Action: h.traced("status", func(ctx context.Context, c *cli.Context) error {
			status, err := h.trophy.Status(ctx, h.year(c))
			if err != nil {
				return err
			}

			w := c.App.Writer
			fmt.Fprintf(w, "year: %d\n", status.Year)
			fmt.Fprintf(w, "done: %t\n", status.Done)
			fmt.Fprintf(w, "evaluated: %t\n", status.Evaluated)
			fmt.Fprintf(w, "pending games: %d\n", status.PendingGames)
			fmt.Fprintf(w, "pending teams: %d\n", status.PendingTeams)
			if len(status.Games) == 0 {
				return nil
			}

			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "GAME\tNAME\tKIND\tSTATE\tPENDING")
			for _, g := range status.Games {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d/%d\n", g.GameID, g.Name, g.Kind, g.State, g.Pending, g.Total)
			}
			return tw.Flush()
		}),
	}
}

type standingView struct {
	Place    int    `json:"place"`
	TrophyID int    `json:"trophy_id"`
	TeamID   string `json:"team_id"`
	Team     string `json:"team"`
	Points   int    `json:"points"`
}

type standingsView struct {
	Year   int            `json:"year"`
	Female []standingView `json:"female"`
	Male   []standingView `json:"male"`
}

func toStandingViews(items []scoring.Standing) []standingView {
	out := make([]standingView, 0, len(items))
	for _, item := range items {
		out = append(out, standingView{
			Place:    item.Place,
			TrophyID: item.TrophyID,
			TeamID:   item.TeamID,
			Team:     item.TeamName,
			Points:   item.Points,
		})
	}
	return out
}

func (h *Handler) standingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "standings",
		Usage: "print the per-gender leaderboard as JSON",
		Flags: []cli.Flag{yearFlag()},
		Action: h.traced("standings", func(ctx context.Context, c *cli.Context) error {
			standings, err := h.standings.Standings(ctx, h.year(c))
			if err != nil {
				return err
			}

			buf := bytebufferpool.Get()
			defer bytebufferpool.Put(buf)

			payload := standingsView{
				Year:   standings.Year,
				Female: toStandingViews(standings.Female),
				Male:   toStandingViews(standings.Male),
			}
			if err := sonic.ConfigStd.NewEncoder(buf).Encode(payload); err != nil {
				return fmt.Errorf("encode standings: %w", err)
			}
			_, err = c.App.Writer.Write(buf.B)
			return err
		}),
	}
}

func (h *Handler) exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write the standings to an xlsx file in EXPORT_DIR",
		Flags: []cli.Flag{yearFlag()},
		Action: h.traced("export", func(ctx context.Context, c *cli.Context) error {
			path, err := h.standings.Export(ctx, h.year(c))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, path)
			return nil
		}),
	}
}

func (h *Handler) importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "register the teams listed in an xlsx roster",
		ArgsUsage: "<roster.xlsx>",
		Flags:     []cli.Flag{yearFlag()},
		Action: h.traced("import", func(ctx context.Context, c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return fmt.Errorf("%w: roster file is required", usecase.ErrInvalidInput)
			}

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open roster: %w", err)
			}
			defer f.Close()

			rows, err := spreadsheet.ReadRoster(f)
			if err != nil {
				return fmt.Errorf("%w: %w", usecase.ErrInvalidInput, err)
			}
			teamRows := make([]usecase.TeamRow, 0, len(rows))
			for _, row := range rows {
				teamRows = append(teamRows, usecase.TeamRow{
					TrophyID: row.TrophyID,
					Name:     row.Name,
					Gender:   row.Gender,
				})
			}

			result, err := h.roster.ImportTeams(ctx, h.year(c), teamRows)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "imported %d teams (%d skipped, %d results created)\n",
				result.Created, result.Skipped, result.Outcomes)
			return nil
		}),
	}
}

func (h *Handler) registerTeamCommand() *cli.Command {
	return &cli.Command{
		Name:  "register-team",
		Usage: "register one team for the year",
		Flags: []cli.Flag{
			yearFlag(),
			&cli.StringFlag{Name: "name", Required: true},
			&cli.StringFlag{Name: "gender", Required: true, Usage: "f|w|female or m|g|male"},
			&cli.IntFlag{Name: "trophy-id"},
		},
		Action: h.traced("register-team", func(ctx context.Context, c *cli.Context) error {
			item, err := h.roster.RegisterTeam(ctx, usecase.RegisterTeamInput{
				TrophyID: c.Int("trophy-id"),
				Name:     c.String("name"),
				Gender:   c.String("gender"),
				Year:     h.year(c),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\n", item.ID, item.Name, item.Gender)
			return nil
		}),
	}
}

func (h *Handler) registerGameCommand() *cli.Command {
	return &cli.Command{
		Name:  "register-game",
		Usage: "register one game for the year",
		Flags: []cli.Flag{
			yearFlag(),
			&cli.StringFlag{Name: "name", Required: true},
			&cli.StringFlag{Name: "kind", Required: true, Usage: "points or time"},
			&cli.IntFlag{Name: "trophy-id"},
		},
		Action: h.traced("register-game", func(ctx context.Context, c *cli.Context) error {
			item, err := h.roster.RegisterGame(ctx, usecase.RegisterGameInput{
				TrophyID: c.Int("trophy-id"),
				Name:     c.String("name"),
				Kind:     c.String("kind"),
				Year:     h.year(c),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\n", item.ID, item.Name, item.Kind)
			return nil
		}),
	}
}

func (h *Handler) recordCommand() *cli.Command {
	return &cli.Command{
		Name:  "record",
		Usage: "record the raw result of a team in a game",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "game", Required: true},
			&cli.StringFlag{Name: "team", Required: true},
			&cli.StringFlag{Name: "data", Required: true, Usage: "points as an integer or time as MM:SS or HH:MM:SS"},
			&cli.BoolFlag{Name: "force", Usage: "correct a result of a locked game"},
		},
		Action: h.traced("record", func(ctx context.Context, c *cli.Context) error {
			item, err := h.roster.RecordResult(ctx, usecase.RecordResultInput{
				GameID: c.String("game"),
				TeamID: c.String("team"),
				Data:   c.String("data"),
				Force:  c.Bool("force"),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "recorded %s for team %s in game %s\n", *item.Data, item.TeamID, item.GameID)
			return nil
		}),
	}
}
