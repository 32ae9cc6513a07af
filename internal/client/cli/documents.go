package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/controlpanel/internal/client/api"
	"github.com/spf13/cobra"
)

type (
	getDocument  func(c *api.Client, ctx context.Context) (json.RawMessage, error)
	saveDocument func(c *api.Client, ctx context.Context, doc json.RawMessage) (json.RawMessage, error)
)

// newDocumentCmd builds a "get"/"set" pair for a JSON document resource.
func newDocumentCmd(s *Settings, use, short string, get getDocument, save saveDocument) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the current " + use,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := s.client()
			if err != nil {
				return err
			}
			ctx, cancel := s.commandContext(cmd)
			defer cancel()

			doc, err := get(c, ctx)
			if err != nil {
				return hint(err)
			}
			return printRaw(cmd, doc)
		},
	})

	var file string
	set := &cobra.Command{
		Use:   "set",
		Short: "Replace the " + use + " with a JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := readDocument(file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if !json.Valid(b) {
				return fmt.Errorf("%s: not valid JSON", file)
			}

			c, err := s.client()
			if err != nil {
				return err
			}
			ctx, cancel := s.commandContext(cmd)
			defer cancel()

			doc, err := save(c, ctx, b)
			if err != nil {
				return hint(err)
			}
			return printRaw(cmd, doc)
		},
	}
	set.Flags().StringVarP(&file, "file", "f", "", `JSON document to upload ("-" for stdin)`)
	_ = set.MarkFlagRequired("file")
	cmd.AddCommand(set)

	return cmd
}

func newLayoutCmd(s *Settings) *cobra.Command {
	return newDocumentCmd(s, "layout", "Read or replace the dashboard widget layout",
		(*api.Client).GetLayout, (*api.Client).SaveLayout)
}

func newHealthCmd(s *Settings) *cobra.Command {
	return newDocumentCmd(s, "health", "Read or replace the health summary",
		(*api.Client).GetHealth, (*api.Client).SaveHealth)
}

func printRaw(cmd *cobra.Command, doc json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, doc, "", "  "); err != nil {
		return errors.New("server returned malformed JSON")
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), buf.String())
	return err
}

func printJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return err
}
