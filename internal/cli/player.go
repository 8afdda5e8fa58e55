package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player management commands",
	}

	cmd.AddCommand(newPlayerCreateCmd())
	cmd.AddCommand(newPlayerGetCmd())
	cmd.AddCommand(newPlayerLookupCmd())
	cmd.AddCommand(newPlayerListCmd())
	cmd.AddCommand(newPlayerCountCmd())
	cmd.AddCommand(newPlayerUpdateCmd())
	cmd.AddCommand(newPlayerDeactivateCmd())
	cmd.AddCommand(newPlayerReactivateCmd())
	cmd.AddCommand(newPlayerDeleteCmd())

	return cmd
}

func newPlayerCreateCmd() *cobra.Command {
	var handle, contact, given, family string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new player",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"handle":          handle,
				"contact_address": contact,
				"given_name":      given,
				"family_name":     family,
			}
			var result Player

			if err := client.Post("/api/v1/players", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&handle, "handle", "", "Unique handle (required)")
	cmd.Flags().StringVar(&contact, "contact", "", "Contact address (required)")
	cmd.Flags().StringVar(&given, "given-name", "", "Given name (required)")
	cmd.Flags().StringVar(&family, "family-name", "", "Family name (required)")
	_ = cmd.MarkFlagRequired("handle")
	_ = cmd.MarkFlagRequired("contact")
	_ = cmd.MarkFlagRequired("given-name")
	_ = cmd.MarkFlagRequired("family-name")

	return cmd
}

func newPlayerGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <player-id>",
		Short: "Show a player by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Player

			if err := client.Get("/api/v1/players/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlayerLookupCmd() *cobra.Command {
	var handle, contact string

	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Find a player by handle or contact address",
		RunE: func(cmd *cobra.Command, args []string) error {
			if handle == "" && contact == "" {
				return fmt.Errorf("--handle or --contact is required")
			}

			q := url.Values{}
			if handle != "" {
				q.Set("handle", handle)
			} else {
				q.Set("contact", contact)
			}

			var result Player
			if err := client.Get("/api/v1/players/lookup?"+q.Encode(), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&handle, "handle", "", "Handle to look up")
	cmd.Flags().StringVar(&contact, "contact", "", "Contact address to look up")

	return cmd
}

func newPlayerListCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List players",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/players?limit=%d&offset=%d", limit, offset)

			var result PlayerList
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum players to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Players to skip")

	return cmd
}

func newPlayerCountCmd() *cobra.Command {
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count players",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/players/count"
			if activeOnly {
				path += "?active=true"
			}

			var result CountResult
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&activeOnly, "active", false, "Count only active players")

	return cmd
}

func newPlayerUpdateCmd() *cobra.Command {
	var handle, contact, given, family string

	cmd := &cobra.Command{
		Use:   "update <player-id>",
		Short: "Update a player's profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{}
			if cmd.Flags().Changed("handle") {
				req["handle"] = handle
			}
			if cmd.Flags().Changed("contact") {
				req["contact_address"] = contact
			}
			if cmd.Flags().Changed("given-name") {
				req["given_name"] = given
			}
			if cmd.Flags().Changed("family-name") {
				req["family_name"] = family
			}
			if len(req) == 0 {
				return fmt.Errorf("at least one field flag is required")
			}

			var result ModifiedResult
			if err := client.Patch("/api/v1/players/"+args[0], req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&handle, "handle", "", "New handle")
	cmd.Flags().StringVar(&contact, "contact", "", "New contact address")
	cmd.Flags().StringVar(&given, "given-name", "", "New given name")
	cmd.Flags().StringVar(&family, "family-name", "", "New family name")

	return cmd
}

func newPlayerDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <player-id>",
		Short: "Deactivate a player (removes them from the leaderboard)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/players/"+args[0]+"/deactivate", nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Player deactivated")
			return nil
		},
	}
}

func newPlayerReactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reactivate <player-id>",
		Short: "Reactivate a previously deactivated player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/players/"+args[0]+"/reactivate", nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Player reactivated")
			return nil
		},
	}
}

func newPlayerDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <player-id>",
		Short: "Permanently delete a player record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/players/" + args[0]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Player deleted")
			return nil
		},
	}
}
