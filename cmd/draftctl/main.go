package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/riskibarqy/fantasy-draft/internal/app"
	"github.com/riskibarqy/fantasy-draft/internal/config"
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/domain/user"
	"github.com/riskibarqy/fantasy-draft/internal/infrastructure/auth/jwt"
	"github.com/riskibarqy/fantasy-draft/internal/infrastructure/rosterfile"
	"github.com/riskibarqy/fantasy-draft/internal/platform/logging"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "draftctl",
		Usage: "fantasy-draft admin tool",
		Commands: []*cli.Command{
			{
				Name:  "token",
				Usage: "issue an access token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user-id", Required: true},
					&cli.StringFlag{Name: "email"},
					&cli.BoolFlag{Name: "admin"},
					&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour},
				},
				Action: issueToken,
			},
			{
				Name:  "roster",
				Usage: "import or export a tournament roster spreadsheet",
				Subcommands: []*cli.Command{
					{
						Name:   "import",
						Usage:  "replace the roster from an .xlsx file",
						Flags:  []cli.Flag{tournamentFlag(), actorFlag(), &cli.PathFlag{Name: "file", Required: true}},
						Action: withRuntime(importRoster),
					},
					{
						Name:   "export",
						Usage:  "write the roster to an .xlsx file",
						Flags:  []cli.Flag{tournamentFlag(), &cli.PathFlag{Name: "out", Required: true}},
						Action: withRuntime(exportRoster),
					},
				},
			},
			{
				Name:   "recalculate-budget",
				Usage:  "recompute a tournament budget from its roster",
				Flags:  []cli.Flag{tournamentFlag(), actorFlag()},
				Action: withRuntime(recalculateBudget),
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func tournamentFlag() cli.Flag {
	return &cli.Int64Flag{Name: "tournament-id", Required: true}
}

func actorFlag() cli.Flag {
	return &cli.StringFlag{Name: "actor", Value: "draftctl", Usage: "user id recorded as the admin actor"}
}

func issueToken(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	verifier, err := jwt.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer)
	if err != nil {
		return err
	}

	token, err := verifier.Issue(user.Principal{
		UserID:  c.String("user-id"),
		Email:   c.String("email"),
		IsAdmin: c.Bool("admin"),
	}, c.Duration("ttl"))
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, token)
	return nil
}

func withRuntime(fn func(c *cli.Context, rt *app.Runtime, logger *logging.Logger) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		cfg.SeedDemo = false
		logger := logging.NewJSON(cfg.LogLevel).With("service", cfg.ServiceName+"-draftctl")
		defer func() { _ = logger.Sync() }()

		rt, err := app.NewRuntime(c.Context, cfg, logger)
		if err != nil {
			return fmt.Errorf("build runtime: %w", err)
		}
		defer func() { _ = rt.Close() }()

		return fn(c, rt, logger)
	}
}

func adminActor(c *cli.Context) user.Principal {
	return user.Principal{UserID: c.String("actor"), IsAdmin: true}
}

func importRoster(c *cli.Context, rt *app.Runtime, logger *logging.Logger) error {
	f, err := os.Open(c.Path("file"))
	if err != nil {
		return err
	}
	defer f.Close()

	candidates, err := rosterfile.ParseXLSX(f)
	if err != nil {
		return err
	}

	result, err := rt.Rosters.ReplaceRoster(c.Context, adminActor(c), c.Int64("tournament-id"), candidates)
	if err != nil {
		return err
	}
	logger.Info("roster imported",
		"tournament_id", result.TournamentID,
		"players", len(result.Players),
		"budget", result.Budget.Budget,
		"previous_budget", result.Budget.Previous,
	)
	return nil
}

func exportRoster(c *cli.Context, rt *app.Runtime, logger *logging.Logger) error {
	tournamentID := c.Int64("tournament-id")
	roster, err := rt.Tournaments.Roster(c.Context, tournamentID)
	if err != nil {
		return err
	}

	names := make(map[int64]string, len(roster))
	var players []player.Player
	for _, basket := range roster {
		names[basket.Basket.ID] = basket.Basket.Name
		players = append(players, basket.Players...)
	}

	out, err := os.Create(c.Path("out"))
	if err != nil {
		return err
	}
	if err := rosterfile.WriteXLSX(out, players, func(id int64) string { return names[id] }); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	logger.Info("roster exported", "tournament_id", tournamentID, "players", len(players), "path", c.Path("out"))
	return nil
}

func recalculateBudget(c *cli.Context, rt *app.Runtime, logger *logging.Logger) error {
	result, err := rt.Budget.RecalculateTournament(c.Context, adminActor(c), c.Int64("tournament-id"))
	if err != nil {
		return err
	}
	logger.Info("budget recalculated",
		"tournament_id", result.TournamentID,
		"budget", result.Budget,
		"previous", result.Previous,
		"changed", result.Changed,
		"no_op", result.NoOp,
	)
	return nil
}
