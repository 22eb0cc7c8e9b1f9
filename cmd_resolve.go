package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/minios-linux/cliptr/clipboard"
	"github.com/minios-linux/cliptr/i18n"
	"github.com/minios-linux/cliptr/selection"
	"github.com/minios-linux/cliptr/settings"
	"github.com/minios-linux/cliptr/translate"
)

// ---------------------------------------------------------------------------
// resolve
// ---------------------------------------------------------------------------

// resolveOutput is what `resolve --json` prints.
type resolveOutput struct {
	Decision selection.Decision `json:"decision"`
	Request  *translate.Request `json:"request,omitempty"`
	KeyFrom  string             `json:"api_key_source,omitempty"`
}

func newResolveCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		apiKey string
	)

	cmd := &cobra.Command{
		Use:   "resolve [text...]",
		Short: "Choose the target language for text",
		Long: `Detect the language of the given text (or stdin when no arguments are
given), choose the target language and remember it as the last used one.

Prints the target language code. With --json, prints the full decision and
the translation request that would be sent.

Examples:
  cliptr resolve "Guten Morgen"
  echo "Hello there" | cliptr resolve --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				text = string(data)
			}
			if strings.TrimSpace(text) == "" {
				return translate.ErrEmptyText
			}

			r, err := a.newResolver()
			if err != nil {
				return err
			}
			d := r.Resolve(cmd.Context(), text)

			out := cmd.OutOrStdout()
			if !asJSON {
				fmt.Fprintln(out, d.Target.Code())
				return nil
			}

			key, from := settings.APIKey(apiKey, a.env)
			req, err := translate.NewRequest(text, d.Target, a.state.Config(), key)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(resolveOutput{Decision: d, Request: req, KeyFrom: from})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the decision and translation request as JSON")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key for the translation request (default: $OPENROUTER_API_KEY or stored key)")

	return cmd
}

// ---------------------------------------------------------------------------
// watch
// ---------------------------------------------------------------------------

func newWatchCmd(a *app) *cobra.Command {
	var includeCurrent bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the clipboard and resolve every new copy",
		Long: `Poll the clipboard and print one line per new clipboard text:

  <source> -> <target>  (<reason>)  <text preview>

Stops on Ctrl+C. Requires xclip, xsel or wl-clipboard on Linux.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if clipboard.Unsupported() {
				return errors.New(i18n.T("no clipboard utility found (install xclip, xsel or wl-clipboard)"))
			}

			r, err := a.newResolver()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := &clipboard.Watcher{
				Reader:      clipboard.System{},
				Interval:    a.env.PollInterval,
				Log:         a.log,
				SkipInitial: !includeCurrent,
			}
			logInfo(i18n.T("Watching clipboard (Ctrl+C to stop)"))
			return watchLoop(ctx, w.Run(ctx), r, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&includeCurrent, "include-current", false, "Also resolve the text already on the clipboard")

	return cmd
}

// watchLoop resolves every snapshot until the channel closes.
func watchLoop(ctx context.Context, texts <-chan string, r *selection.Resolver, out io.Writer) error {
	for text := range texts {
		d := r.Resolve(ctx, text)
		src := d.Source.Code()
		if src == "" {
			src = "??"
		}
		fmt.Fprintf(out, "%s -> %s  (%s)  %s\n", src, d.Target.Code(), d.Reason, preview(text, 60))
	}
	return nil
}

// preview flattens text to a single line of at most n runes.
func preview(text string, n int) string {
	flat := strings.Join(strings.Fields(text), " ")
	runes := []rune(flat)
	if len(runes) <= n {
		return flat
	}
	return string(runes[:n-1]) + "…"
}
