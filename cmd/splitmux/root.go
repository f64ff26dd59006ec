package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdullathedruid/splitmux/internal/app"
	"github.com/abdullathedruid/splitmux/internal/config"
	"github.com/abdullathedruid/splitmux/internal/logging"
	"github.com/abdullathedruid/splitmux/internal/tmux"
	"github.com/abdullathedruid/splitmux/internal/version"
)

type options struct {
	configPath string
	profile    string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "splitmux",
		Short: "Split a terminal into tmux-backed panes",
		Long: `splitmux tiles one terminal into panes. Each pane runs a profile's command
in its own tmux session; split, focus and close panes with vim-like keys.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default <config dir>/splitmux/config.yaml)")
	root.Flags().StringVarP(&opts.profile, "profile", "p", "", "profile for new panes (default from config)")
	root.Flags().StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	root.Flags().StringVar(&opts.logFormat, "log-format", "", "log format: console or json")

	root.AddCommand(newProfilesCmd(opts))
	root.AddCommand(newSessionsCmd(opts, tmux.NewClient()))
	return root
}

// loadConfig reads the config file named by opts, or the default one.
func loadConfig(opts *options) (*config.Config, string, error) {
	path := opts.configPath
	if path == "" {
		path = config.Default().ConfigFile()
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("loading config %s: %w", path, err)
	}
	return cfg, path, nil
}

// logConfig resolves logging settings: config file, then environment, then flags.
func logConfig(cfg *config.Config, opts *options) (logging.Config, error) {
	lc := logging.DefaultConfig()
	lc.File = cfg.LogFile()
	if cfg.Log.Level != "" {
		level, err := logging.ParseLevel(cfg.Log.Level)
		if err != nil {
			return lc, err
		}
		lc.Level = level
	}
	if cfg.Log.Format != "" {
		lc.Format = cfg.Log.Format
	}

	lc = logging.ApplyEnv(lc)

	if opts.logLevel != "" {
		level, err := logging.ParseLevel(opts.logLevel)
		if err != nil {
			return lc, err
		}
		lc.Level = level
	}
	switch opts.logFormat {
	case "":
	case "json", "console":
		lc.Format = opts.logFormat
	default:
		return lc, fmt.Errorf("invalid log format %q", opts.logFormat)
	}
	return lc, nil
}

func run(opts *options) error {
	cfg, path, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	lc, err := logConfig(cfg, opts)
	if err != nil {
		return err
	}
	log, closer, err := logging.New(lc)
	if err != nil {
		return err
	}
	defer closer.Close()
	log = log.With().Str("version", version.Short()).Logger()

	a, err := app.New(cfg, app.Options{
		Profile:    opts.profile,
		ConfigPath: path,
		Log:        log,
	})
	if err != nil {
		log.Error().Err(err).Msg("startup failed")
		return err
	}
	return a.Run()
}

func newProfilesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List configured profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(opts)
			if err != nil {
				return err
			}
			return printProfiles(cmd.OutOrStdout(), cfg)
		},
	}
}

// printProfiles writes one row per profile, marking the default.
func printProfiles(w io.Writer, cfg *config.Config) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCOMMAND\tCLOSE ON EXIT\tSCROLLBACK\tID")
	for _, entry := range cfg.Profiles {
		p, err := cfg.Profile(entry.Name)
		if err != nil {
			return err
		}
		s := p.Settings()
		name := p.Name
		if name == cfg.DefaultProfile {
			name += " *"
		}
		fmt.Fprintf(tw, "%s\t%s\t%t\t%d\t%s\n", name, p.Command, s.CloseOnExit, s.ScrollbackLines, p.ID)
	}
	return tw.Flush()
}

func newSessionsCmd(opts *options, client tmux.Client) *cobra.Command {
	var clean bool
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List tmux sessions left behind by splitmux",
		Long: `Every pane runs in its own tmux session. Sessions that no client is attached
to were left behind by a splitmux that did not exit cleanly; --clean kills them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if clean {
				killed, err := tmux.KillOrphans(client, cfg.SessionPrefix)
				for _, name := range killed {
					fmt.Fprintf(out, "killed %s\n", name)
				}
				return err
			}
			orphans, err := tmux.Orphans(client, cfg.SessionPrefix)
			if err != nil {
				return err
			}
			return printSessions(out, orphans)
		},
	}
	cmd.Flags().BoolVar(&clean, "clean", false, "kill the listed sessions")
	return cmd
}

func printSessions(w io.Writer, sessions []tmux.Session) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SESSION\tCREATED\tPATH")
	for _, s := range sessions {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Name, s.Created.Format(time.DateTime), s.Path)
	}
	return tw.Flush()
}
