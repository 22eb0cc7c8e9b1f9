package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/minios-linux/cliptr/config"
	"github.com/minios-linux/cliptr/i18n"
	"github.com/minios-linux/cliptr/language"
)

// ---------------------------------------------------------------------------
// config
// ---------------------------------------------------------------------------

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the configuration",
		Long: `Show or change config.toml.

Languages can be given as ISO 639-1 codes (DE), locale tags (de_AT) or
names (German, Deutsch).

Examples:
  cliptr config show --output yaml
  cliptr config set-primary ru
  cliptr config add Japanese
  cliptr config remove PL
  cliptr config set-endpoint http://localhost:11434/v1 --model llama3`,
	}

	cmd.AddCommand(
		newConfigShowCmd(a),
		newConfigPathCmd(a),
		newLanguageSetterCmd(a, "set-primary", "Set the primary language", func(l language.Language) error {
			return a.state.SetPrimary(l)
		}, i18n.T("Primary language set to %s")),
		newLanguageSetterCmd(a, "set-secondary", "Set the secondary language", func(l language.Language) error {
			return a.state.SetSecondary(l)
		}, i18n.T("Secondary language set to %s")),
		newLanguageSetterCmd(a, "add", "Add a selectable target language", func(l language.Language) error {
			return a.state.AddLanguage(l)
		}, i18n.T("Added %s to target languages")),
		newLanguageSetterCmd(a, "remove", "Remove a selectable target language", func(l language.Language) error {
			return a.state.RemoveLanguage(l)
		}, i18n.T("Removed %s from target languages")),
		newConfigSetEndpointCmd(a),
	)

	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeConfig(cmd.OutOrStdout(), a.state.Config(), output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "toml", "Output format: toml, yaml or json")
	_ = cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"toml", "yaml", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// writeConfig renders cfg in the requested format.
func writeConfig(w io.Writer, cfg *config.Config, format string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(format) {
	case "toml", "":
		data, err = config.Encode(cfg)
	case "yaml", "yml":
		data, err = yaml.Marshal(cfg)
	case "json":
		data, err = json.MarshalIndent(cfg, "", "  ")
		data = append(data, '\n')
	default:
		return fmt.Errorf("unknown output format %q (want toml, yaml or json)", format)
	}
	if err != nil {
		return fmt.Errorf("rendering config: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func newConfigPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfgStore.Path()
			if path == "" {
				return config.ErrPathUnavailable
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

// newLanguageSetterCmd builds a command taking one language argument.
func newLanguageSetterCmd(a *app, use, short string, apply func(language.Language) error, done string) *cobra.Command {
	return &cobra.Command{
		Use:               use + " <language>",
		Short:             short,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeLanguages,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := language.Parse(args[0])
			if err != nil {
				return err
			}
			if err := apply(l); err != nil {
				return err
			}
			logSuccess(done, l.Name())
			return nil
		},
	}
}

func newConfigSetEndpointCmd(a *app) *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "set-endpoint <url>",
		Short: "Set the translation API endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.state.SetEndpoint(args[0], model); err != nil {
				return err
			}
			cfg := a.state.Config()
			logSuccess(i18n.T("Endpoint set to %s (model %s)"), cfg.APIURL, cfg.ModelVersion)
			return nil
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "Model identifier (default: keep current)")

	return cmd
}

func completeLanguages(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	all := language.All()
	out := make([]string, 0, len(all))
	for _, l := range all {
		out = append(out, fmt.Sprintf("%s\t%s", l.Code(), l.Name()))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// ---------------------------------------------------------------------------
// last
// ---------------------------------------------------------------------------

func newLastCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "last",
		Short: "Show the last used target language",
		RunE: func(cmd *cobra.Command, args []string) error {
			l := a.state.Last()
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", l.Code(), l.Name())
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:               "set <language>",
		Short:             "Change the last used target language",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeLanguages,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := language.Parse(args[0])
			if err != nil {
				return err
			}
			if err := a.state.SetLast(l); err != nil {
				return err
			}
			logSuccess(i18n.T("Last language set to %s"), l.Name())
			return nil
		},
	})

	return cmd
}

// ---------------------------------------------------------------------------
// languages
// ---------------------------------------------------------------------------

// languageRow is one entry of `languages --output yaml`.
type languageRow struct {
	Code       string `yaml:"code"`
	Name       string `yaml:"name"`
	Native     string `yaml:"native"`
	Flag       string `yaml:"flag"`
	Selectable bool   `yaml:"selectable"`
	Role       string `yaml:"role,omitempty"`
}

func languageRows(cfg *config.Config) []languageRow {
	rows := make([]languageRow, 0, len(language.All()))
	for _, l := range language.All() {
		row := languageRow{
			Code:       l.Code(),
			Name:       l.Name(),
			Native:     l.Native(),
			Flag:       l.Flag(),
			Selectable: cfg.Selectable(l),
		}
		switch l {
		case cfg.PrimaryLanguage:
			row.Role = "primary"
		case cfg.SecondaryLanguage:
			row.Role = "secondary"
		}
		rows = append(rows, row)
	}
	return rows
}

func newLanguagesCmd(a *app) *cobra.Command {
	var (
		output     string
		selectable bool
	)

	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List supported languages",
		Long: `List every supported language. Selectable target languages are marked
with *, the primary with P and the secondary with S.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := languageRows(a.state.Config())
			if selectable {
				filtered := rows[:0]
				for _, r := range rows {
					if r.Selectable {
						filtered = append(filtered, r)
					}
				}
				rows = filtered
			}

			out := cmd.OutOrStdout()
			switch strings.ToLower(output) {
			case "yaml", "yml":
				return yaml.NewEncoder(out).Encode(rows)
			case "text", "":
			default:
				return fmt.Errorf("unknown output format %q (want text or yaml)", output)
			}

			for _, r := range rows {
				mark := " "
				if r.Selectable {
					mark = "*"
				}
				role := " "
				switch r.Role {
				case "primary":
					role = "P"
				case "secondary":
					role = "S"
				}
				fmt.Fprintf(out, "%s%s %s  %-12s %-14s %s\n", mark, role, r.Code, r.Name, r.Native, r.Flag)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text or yaml")
	cmd.Flags().BoolVar(&selectable, "selectable", false, "Only list selectable target languages")

	return cmd
}
