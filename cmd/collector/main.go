package main

import (
	"fmt"
	"log"
	"os"

	"github.com/riskibarqy/fantasy-draft/internal/app"
	"github.com/riskibarqy/fantasy-draft/internal/config"
	"github.com/riskibarqy/fantasy-draft/internal/platform/logging"
	"github.com/riskibarqy/fantasy-draft/internal/usecase"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "collector",
		Usage: "pull ratings and game results from the results feed",
		Commands: []*cli.Command{
			{
				Name:  "ratings",
				Usage: "upsert the external rating table",
				Action: withSync(func(c *cli.Context, sync *usecase.SyncService, logger *logging.Logger) error {
					count, err := sync.SyncRatings(c.Context)
					if err != nil {
						return err
					}
					logger.Info("ratings synced", "upserted", count)
					return nil
				}),
			},
			{
				Name:  "games",
				Usage: "ingest unseen games and refresh player points",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "tournament-id", Usage: "sync one tournament instead of every active one"},
				},
				Action: withSync(func(c *cli.Context, sync *usecase.SyncService, logger *logging.Logger) error {
					var reports []usecase.GamesReport
					if id := c.Int64("tournament-id"); id > 0 {
						report, err := sync.SyncGames(c.Context, id)
						if err != nil {
							return err
						}
						reports = append(reports, report)
					} else {
						var err error
						if reports, err = sync.SyncActiveGames(c.Context); err != nil {
							return err
						}
					}
					for _, r := range reports {
						logger.Info("games synced",
							"tournament_id", r.TournamentID,
							"listed", r.Listed,
							"unseen", r.Unseen,
							"inserted", r.Inserted,
							"failed", r.Failed,
							"players_scored", r.PlayersScored,
						)
					}
					return nil
				}),
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func withSync(fn func(c *cli.Context, sync *usecase.SyncService, logger *logging.Logger) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := logging.NewJSON(cfg.LogLevel).With("service", cfg.ServiceName+"-collector")
		logging.SetDefault(logger)
		defer func() { _ = logger.Sync() }()

		rt, err := app.NewRuntime(c.Context, cfg, logger)
		if err != nil {
			return fmt.Errorf("build runtime: %w", err)
		}
		defer func() { _ = rt.Close() }()

		if rt.Sync == nil {
			return fmt.Errorf("%w: FEED_BASE_URL is not set", usecase.ErrDependencyUnavailable)
		}
		return fn(c, rt.Sync, logger)
	}
}
