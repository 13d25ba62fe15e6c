package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func markCMD(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:       "mark read|unread|fav|unfav <topicId>...",
		Short:     "Update read or favorite flags",
		Args:      cobra.MinimumNArgs(2),
		ValidArgs: []string{"read", "unread", "fav", "unfav"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()
			action, ids := args[0], args[1:]
			switch action {
			case "read":
				err = a.flags.Read.SetMany(ctx, ids)
			case "fav":
				err = a.flags.Favorite.SetMany(ctx, ids)
			case "unread", "unfav":
				store := a.flags.Read
				if action == "unfav" {
					store = a.flags.Favorite
				}
				for _, id := range ids {
					if err = store.Unset(ctx, id); err != nil {
						break
					}
				}
			default:
				return fmt.Errorf("unknown action %q (read, unread, fav, unfav)", action)
			}
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "%s: %d topics", action, len(ids))
			return nil
		},
	}
}
