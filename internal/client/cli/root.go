package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/controlpanel/internal/client/api"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/spf13/cobra"
)

// Settings are the connection parameters shared by every command.
type Settings struct {
	Server  string        `env:"CONTROLPANEL_SERVER" env-default:"http://localhost:8000"`
	Token   string        `env:"CONTROLPANEL_TOKEN"`
	Timeout time.Duration `env:"CONTROLPANEL_TIMEOUT" env-default:"15s"`
}

// LoadSettings reads Settings from the environment, applying defaults.
func LoadSettings() (*Settings, error) {
	var s Settings
	if err := cleanenv.ReadEnv(&s); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return &s, nil
}

// NewRootCmd builds the cpctl command tree on top of s. Flags registered
// here override the values already in s.
func NewRootCmd(s *Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cpctl",
		Short:         "Command-line client for the control panel API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&s.Server, "server", s.Server, "base URL of the API server")
	cmd.PersistentFlags().StringVar(&s.Token, "token", s.Token, "access token for authenticated commands")
	cmd.PersistentFlags().DurationVar(&s.Timeout, "timeout", s.Timeout, "per-command timeout")

	cmd.AddCommand(newSignupCmd(s))
	cmd.AddCommand(newLoginCmd(s))
	cmd.AddCommand(newMeCmd(s))
	cmd.AddCommand(newLayoutCmd(s))
	cmd.AddCommand(newHealthCmd(s))

	return cmd
}

// Execute loads settings and runs the command tree with args.
func Execute(ctx context.Context, args []string) error {
	s, err := LoadSettings()
	if err != nil {
		return err
	}
	cmd := NewRootCmd(s)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func (s *Settings) client() (*api.Client, error) {
	return api.New(s.Server, api.WithToken(s.Token))
}

// commandContext bounds a command by the configured timeout.
func (s *Settings) commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if s.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.Timeout)
}
