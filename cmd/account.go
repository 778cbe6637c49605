package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"moviedeck-cli/model"
	"moviedeck-cli/state"
)

func newLoginCommand(opts *rootOptions) *cobra.Command {
	var creds model.LoginCredentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if creds.Username == "" {
				if creds.Username, err = promptText(cmd, "Username", false); err != nil {
					return err
				}
			}
			if creds.Password == "" {
				if creds.Password, err = promptText(cmd, "Password", true); err != nil {
					return err
				}
			}
			if err := problemsError(creds.Validate()); err != nil {
				return err
			}
			return opts.run(cmd, func(ctx context.Context, deps Deps) error {
				if err := deps.Auth.Login(ctx, creds.Username, creds.Password); err != nil {
					return authFailure(deps.Auth, err)
				}
				printSignedIn(cmd, deps.Auth.Snapshot())
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&creds.Username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&creds.Password, "password", "p", "", "account password (prompted when omitted)")
	return cmd
}

func newRegisterCommand(opts *rootOptions) *cobra.Command {
	var creds model.RegisterCredentials
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if creds.Username == "" {
				if creds.Username, err = promptText(cmd, "Username", false); err != nil {
					return err
				}
			}
			if creds.Email == "" {
				if creds.Email, err = promptText(cmd, "Email", false); err != nil {
					return err
				}
			}
			if creds.Password == "" {
				if creds.Password, err = promptText(cmd, "Password", true); err != nil {
					return err
				}
				if creds.ConfirmPassword, err = promptText(cmd, "Confirm password", true); err != nil {
					return err
				}
			} else {
				creds.ConfirmPassword = creds.Password
			}
			if err := problemsError(creds.Validate()); err != nil {
				return err
			}
			return opts.run(cmd, func(ctx context.Context, deps Deps) error {
				if err := deps.Auth.Register(ctx, creds); err != nil {
					return authFailure(deps.Auth, err)
				}
				printSignedIn(cmd, deps.Auth.Snapshot())
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&creds.Username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&creds.Email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&creds.Password, "password", "p", "", "account password (prompted when omitted)")
	return cmd
}

func newLogoutCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, deps Deps) error {
				deps.Auth.Restore(ctx)
				deps.Auth.Logout(ctx)
				fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
				return nil
			})
		},
	}
}

func newWhoamiCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, deps Deps) error {
				snap := deps.Auth.Restore(ctx)
				if !snap.IsAuthenticated() {
					fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
					return nil
				}
				renderSession(cmd.OutOrStdout(), *snap.Session)
				return nil
			})
		},
	}
}

func printSignedIn(cmd *cobra.Command, snap state.AuthSnapshot) {
	if snap.Session == nil {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", snap.Session.DisplayName())
}

func authFailure(auth *state.Auth, err error) error {
	if message := auth.Snapshot().Err; message != "" {
		return errors.New(message)
	}
	return err
}

// problemsError folds field problems into one error with a stable order.
func problemsError(problems map[string]string) error {
	if len(problems) == 0 {
		return nil
	}
	keys := make([]string, 0, len(problems))
	for key := range problems {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", key, problems[key]))
	}
	return errors.New(strings.Join(parts, "; "))
}
