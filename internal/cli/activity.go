package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRiddleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "riddle",
		Short: "Riddle attempt commands",
	}

	cmd.AddCommand(newRiddleLogCmd())
	cmd.AddCommand(newRiddleHistoryCmd())

	return cmd
}

func newRiddleLogCmd() *cobra.Command {
	var riddleID, location string
	var correct bool
	var timeTaken float64

	cmd := &cobra.Command{
		Use:   "log <player-id>",
		Short: "Log a riddle attempt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"riddle_id":  riddleID,
				"location":   location,
				"is_correct": correct,
				"time_taken": timeTaken,
			}

			var result AttemptResult
			if err := client.Post("/api/v1/players/"+args[0]+"/riddle-attempts", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&riddleID, "riddle", "", "Riddle identifier (required)")
	cmd.Flags().StringVar(&location, "location", "", "Location name")
	cmd.Flags().BoolVar(&correct, "correct", false, "Whether the answer was correct")
	cmd.Flags().Float64Var(&timeTaken, "time", 0, "Seconds taken to answer")
	_ = cmd.MarkFlagRequired("riddle")

	return cmd
}

func newRiddleHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <player-id>",
		Short: "Show a player's riddle attempts, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/players/%s/riddle-attempts?limit=%d", args[0], limit)

			var result RiddleHistory
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum attempts to return")

	return cmd
}

func newTreasureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "treasure",
		Short: "Treasure find commands",
	}

	cmd.AddCommand(newTreasureLogCmd())
	cmd.AddCommand(newTreasureHistoryCmd())

	return cmd
}

func newTreasureLogCmd() *cobra.Command {
	var treasureID, location string
	var lat, lon float64

	cmd := &cobra.Command{
		Use:   "log <player-id>",
		Short: "Log a treasure find",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"treasure_id": treasureID,
				"location":    location,
				"latitude":    lat,
				"longitude":   lon,
			}

			var result FindResult
			if err := client.Post("/api/v1/players/"+args[0]+"/treasures", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&treasureID, "treasure", "", "Treasure identifier (required)")
	cmd.Flags().StringVar(&location, "location", "", "Location name")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude")
	_ = cmd.MarkFlagRequired("treasure")

	return cmd
}

func newTreasureHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <player-id>",
		Short: "Show a player's treasure finds, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/players/%s/treasures?limit=%d", args[0], limit)

			var result TreasureHistory
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum finds to return")

	return cmd
}
