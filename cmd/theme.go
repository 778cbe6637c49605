package cmd

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"moviedeck-cli/model"
)

func newThemeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, deps Deps) error {
				mode := deps.Theme.Load(ctx)
				if len(args) == 1 {
					switch args[0] {
					case "toggle":
						mode = deps.Theme.Toggle(ctx)
					default:
						next, ok := model.ParseThemeMode(args[0])
						if !ok {
							return errors.Errorf("unknown theme %q (want light or dark)", args[0])
						}
						if err := deps.Theme.Set(ctx, next); err != nil {
							return err
						}
						mode = next
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s\n", mode)
				return nil
			})
		},
	}
}
