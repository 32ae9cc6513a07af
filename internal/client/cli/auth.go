package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/controlpanel/internal/client/api"
	"github.com/spf13/cobra"
)

type credentialsFlags struct {
	email string
}

func newSignupCmd(s *Settings) *cobra.Command {
	f := &credentialsFlags{}

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and print its access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCredentials(cmd, s, f, (*api.Client).Signup)
		},
	}
	cmd.Flags().StringVar(&f.email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLoginCmd(s *Settings) *cobra.Command {
	f := &credentialsFlags{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print an access token",
		Long: `Log in with email and password. The password is read without echo
from the terminal, or as a single line from stdin when it is piped.
Only the token is written to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCredentials(cmd, s, f, (*api.Client).Login)
		},
	}
	cmd.Flags().StringVar(&f.email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

type credentialsCall func(c *api.Client, ctx context.Context, email, password string) (*api.Token, error)

func runCredentials(cmd *cobra.Command, s *Settings, f *credentialsFlags, call credentialsCall) error {
	c, err := s.client()
	if err != nil {
		return err
	}

	pw, err := getPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	defer wipe(pw)

	ctx, cancel := s.commandContext(cmd)
	defer cancel()

	tok, err := call(c, ctx, f.email, string(pw))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), tok.AccessToken)
	return err
}

func newMeCmd(s *Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the account the token belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := s.client()
			if err != nil {
				return err
			}
			ctx, cancel := s.commandContext(cmd)
			defer cancel()

			a, err := c.Me(ctx)
			if err != nil {
				return hint(err)
			}
			return printJSON(cmd, a)
		},
	}
}

// hint adds the next step to errors a user can fix by logging in.
func hint(err error) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Status == 401 {
		return fmt.Errorf("%w; run cpctl login and set CONTROLPANEL_TOKEN", err)
	}
	return err
}
