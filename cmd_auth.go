package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minios-linux/cliptr/i18n"
	"github.com/minios-linux/cliptr/settings"
)

// ---------------------------------------------------------------------------
// auth
// ---------------------------------------------------------------------------

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the translation API key",
		Long: `Manage the API key used for translation requests.

Lookup order:
  1. --api-key flag
  2. OPENROUTER_API_KEY environment variable (.env is honored)
  3. Stored key in $XDG_DATA_HOME/cliptr/auth.json

Examples:
  cliptr auth set-key sk-or-...
  echo sk-or-... | cliptr auth set-key -
  cliptr auth show
  cliptr auth remove`,
	}

	cmd.AddCommand(
		newAuthSetKeyCmd(),
		newAuthShowCmd(a),
		newAuthRemoveCmd(),
	)

	return cmd
}

func newAuthSetKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-key <key|->",
		Short: "Store the API key (use - to read it from stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if key == "-" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("reading key from stdin: %w", err)
				}
				key = line
			}
			key = strings.TrimSpace(key)
			if key == "" {
				return errors.New(i18n.T("API key is empty"))
			}

			if err := settings.SetAPIKey(settings.ProviderOpenRouter, key); err != nil {
				return fmt.Errorf("saving API key: %w", err)
			}
			logSuccess(i18n.T("API key saved to %s"), settings.FilePath())
			return nil
		},
	}
}

func newAuthShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show which API key would be used",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			key, from := settings.APIKey("", a.env)
			if key == "" {
				fmt.Fprintf(out, "%s%s%s\n", colorRed, i18n.T("not configured"), colorReset)
				return
			}
			fmt.Fprintf(out, "%s%s%s (%s)\n", colorGreen, settings.MaskKey(key), colorReset, from)
			if from == "env" && settings.GetAPIKey(settings.ProviderOpenRouter) != "" {
				logWarning(i18n.T("OPENROUTER_API_KEY overrides the stored key"))
			}
		},
	}
}

func newAuthRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Remove the stored API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := settings.Remove(settings.ProviderOpenRouter); err != nil {
				return fmt.Errorf("removing API key: %w", err)
			}
			logSuccess(i18n.T("Stored API key removed"))
			return nil
		},
	}
}
