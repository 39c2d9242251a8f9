package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/akmonengine/breach/game"
	"github.com/akmonengine/breach/internal/config"
	"github.com/akmonengine/breach/internal/storage"
)

var (
	flagFrames int
	flagSeed   int64
	flagNoSave bool
)

var _ game.ScoreRecorder = (*storage.Store)(nil)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Play rounds with the autopilot",
	Long: `Run the game headless for a number of frames, steered by the autopilot.
Every lost round is recorded in the scores database.

Examples:
  breach run
  breach run --frames 36000 --seed 7
  breach run --config ./configs/breach.yaml --no-save`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVar(&flagFrames, "frames", 3600, "Number of frames to simulate")
	runCmd.Flags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	runCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record scores")
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var recorder game.ScoreRecorder
	if !flagNoSave {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		recorder = store
	}

	g, err := game.New(cfg, seed, logger, recorder)
	if err != nil {
		return err
	}

	logger.Info("running", "frames", flagFrames, "seed", seed)
	rounds, best := 0, 0
	for i := 0; i < flagFrames; i++ {
		before := g.Mode()
		if err := g.Update(game.Autopilot(g)); err != nil {
			return err
		}
		if before == game.ModeGamePlay && g.Mode() == game.ModeEndScreen {
			rounds++
			best = max(best, g.Score())
		}
	}

	fmt.Println(titleStyle.Render("Breach run"))
	printField("Seed", seed)
	printField("Frames", g.Frame())
	printField("Simulated", time.Duration(float64(g.Frame())*cfg.Physics.DT*float64(time.Second)).Round(time.Millisecond))
	printField("Rounds lost", rounds)
	printField("Best round", best)
	printField("Current", fmt.Sprintf("%s, score %d", g.Mode(), g.Score()))

	return nil
}

func printField(label string, value any) {
	fmt.Printf("  %s %s\n", labelStyle.Render(fmt.Sprintf("%-12s", label)), valueStyle.Render(fmt.Sprint(value)))
}
