// cliptr — clipboard translator: picks the language clipboard text should be
// translated into and keeps the user's language preferences.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/minios-linux/cliptr/config"
	"github.com/minios-linux/cliptr/detect"
	"github.com/minios-linux/cliptr/i18n"
	"github.com/minios-linux/cliptr/lastlang"
	"github.com/minios-linux/cliptr/logging"
	"github.com/minios-linux/cliptr/prefs"
	"github.com/minios-linux/cliptr/selection"
	"github.com/minios-linux/cliptr/settings"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Shared state
// ---------------------------------------------------------------------------

// app is built once per invocation by the root command's pre-run hook.
type app struct {
	// flags
	configDir string
	logLevel  string
	detector  string
	timeout   time.Duration
	envFile   string

	env      settings.Env
	log      *slog.Logger
	cfgStore *config.Store
	state    *prefs.State
}

func (a *app) setup() error {
	var files []string
	if a.envFile != "" {
		files = append(files, a.envFile)
	}
	e, err := settings.LoadEnv(files...)
	if err != nil {
		return err
	}
	a.env = e

	levelName := a.logLevel
	if levelName == "" {
		levelName = e.LogLevel
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return err
	}
	a.log = logging.New(os.Stderr, level)
	slog.SetDefault(a.log)

	dir := a.configDir
	if dir == "" {
		dir = e.ConfigDir
	}
	if dir == "" {
		if d, err := config.DefaultDir(); err == nil {
			dir = d
		}
	}

	a.cfgStore = config.NewStore(dir, a.log)
	a.state = prefs.Open(a.cfgStore, lastlang.NewStore(dir, a.log))
	if msg := loadNotice(a.state.LoadErr(), a.cfgStore.Path()); msg != "" {
		logWarning("%s", msg)
	}
	return nil
}

// loadNotice returns a user-facing warning for a recovered config load, or
// "" when the load was clean.
func loadNotice(err error, path string) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, config.ErrParseFailed):
		return fmt.Sprintf(i18n.T("%s was invalid; backed up and reset to defaults"), path)
	case errors.Is(err, config.ErrReadFailed):
		return fmt.Sprintf(i18n.T("%s could not be read; using defaults"), path)
	case errors.Is(err, config.ErrPathUnavailable):
		return i18n.T("no configuration directory; using defaults, changes will not be saved")
	}
	return ""
}

// newResolver wires the detector and the preference state.
func (a *app) newResolver() (*selection.Resolver, error) {
	backend := a.detector
	if backend == "" {
		backend = a.env.Detector
	}
	d, err := detect.New(backend, a.state.Config().Languages)
	if err != nil {
		return nil, err
	}
	timeout := a.timeout
	if timeout <= 0 {
		timeout = a.env.DetectTimeout
	}
	return selection.NewResolver(d, a.state, a.state,
		selection.WithTimeout(timeout),
		selection.WithLogger(a.log),
	), nil
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "cliptr",
		Short: "Clipboard translator language selection",
		Long: `cliptr — clipboard translator.

Decides which language copied text should be translated into and keeps
your language preferences.

Text that is not in your primary language is translated into the primary
language. Text already in the primary language is translated into the last
language you used, or into the secondary language when the last one was the
primary language itself.

Commands:
  resolve     Choose the target language for some text
  watch       Watch the clipboard and resolve every new copy
  config      Show or change the configuration
  last        Show or change the last used target language
  languages   List supported languages
  auth        Manage the translation API key

Files:
  <config dir>/translator/config.toml         Preferences
  <config dir>/translator/last_language.txt   Last used target language`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configDir, "config-dir", "", "Configuration directory (default: $CLIPTR_CONFIG_DIR or <user config dir>/translator)")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (default: $CLIPTR_LOG_LEVEL or info)")
	pf.StringVar(&a.detector, "detector", "", "Language detector: lingua or whatlang (default: $CLIPTR_DETECTOR or lingua)")
	pf.DurationVar(&a.timeout, "timeout", 0, "Language detection timeout (default: $CLIPTR_DETECT_TIMEOUT or 2s)")
	pf.StringVar(&a.envFile, "env-file", "", "Read environment from this file instead of ./.env")

	root.AddCommand(
		newResolveCmd(a),
		newWatchCmd(a),
		newConfigCmd(a),
		newLastCmd(a),
		newLanguagesCmd(a),
		newAuthCmd(a),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "cliptr version %s\n", version)
			fmt.Fprintf(out, "  commit:    %s\n", commit)
			fmt.Fprintf(out, "  built:     %s\n", date)
		},
	}
}
