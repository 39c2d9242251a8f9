package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akmonengine/breach/game"
	"github.com/akmonengine/breach/internal/storage"
)

var (
	flagLimit int
	flagClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display the best recorded rounds, with the seed they were played with.

Examples:
  breach scores
  breach scores --limit 20`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete every recorded score")
}

func runScores(cmd *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearScores(game.ID); err != nil {
			return err
		}
		fmt.Println("Scores cleared.")
		return nil
	}

	scores, err := store.TopScores(game.ID, flagLimit)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("High Scores - Breach"))
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Run 'breach run' to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-6s  %-20s  %s\n", "Rank", "Score", "Seed", "Date")
	fmt.Printf("  %-4s  %-6s  %-20s  %s\n", "----", "-----", "----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %s  %-20d  %s\n",
			i+1,
			valueStyle.Render(fmt.Sprintf("%-6d", entry.Score)),
			entry.Seed,
			entry.CreatedAt.Format("2006-01-02 15:04"),
		)
	}

	fmt.Println()
	if highScore, err := store.HighScore(game.ID); err == nil {
		fmt.Printf("Best: %d\n", highScore)
	}

	return nil
}
