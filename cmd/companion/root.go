package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeanpaul/companion/internal/config"
	"github.com/jeanpaul/companion/internal/headless"
	"github.com/jeanpaul/companion/internal/health"
	"github.com/jeanpaul/companion/internal/tui"
	"github.com/jeanpaul/companion/pkg/version"
)

var (
	opts   options
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:     "companion",
	Short:   "A chat companion with switchable personalities",
	Version: fmt.Sprintf("%s (%s)", version.Version, version.Commit),
	Long: `companion is a conversational partner with several modes: a chill
friend, a roast master, a debate opponent and more.

Replies come from a chat-completion service when an API key is configured
(TOGETHER_API_KEY or provider.api_key) and fall back to built-in templates
otherwise. It remembers your name and what you like for the session.

Run without arguments to start the interactive chat interface.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		opts.seedSet = cmd.Flags().Changed("seed")

		var err error
		cfg, err = config.Load(opts.configPath)
		if err != nil {
			return err
		}
		interactive := isInteractive(cmd)
		logger, err = newLogger(cfg, opts.verbose, interactive)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runChat,
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start a conversation (full-screen UI, or a line REPL with --headless)",
	RunE:  runChat,
}

var sayCmd = &cobra.Command{
	Use:   "say [message]",
	Short: "Send a single message and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := buildSession(cfg, opts, logger)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Fprintln(cmd.OutOrStdout(), headless.Once(ctx, s, strings.Join(args, " ")))
		return nil
	},
}

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List available conversation modes",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := buildCatalog(cfg, logger)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, m := range catalog.Modes() {
			marker := " "
			if m.Key == cfg.DefaultMode {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %-12s %s\n", marker, m.Key, m.Title())
		}
		return nil
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and chat service reachability",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		p := cfg.Provider
		fmt.Fprintf(out, "provider: %s\nendpoint: %s\nmodel:    %s\n", p.Name, p.BaseURL, p.Model)

		if _, err := buildCatalog(cfg, logger); err != nil {
			fmt.Fprintf(out, "modes:    FAIL %v\n", err)
			return err
		}
		fmt.Fprintln(out, "modes:    ok")

		if !cfg.HasCredentials() {
			fmt.Fprintln(out, "service:  no API key, replies will use templates")
			return nil
		}
		s := health.NewChecker(nil, p.Timeout).Check(cmd.Context(), p.Name, p.BaseURL, p.APIKey, p.Model)
		if !s.OK() {
			fmt.Fprintf(out, "service:  FAIL %s\n", s.Error)
			return fmt.Errorf("service check failed: %s", s.Error)
		}
		fmt.Fprintf(out, "service:  ok (%s, %d models)\n", s.Latency.Round(time.Millisecond), len(s.Models))
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Config file (default: ./config.yaml or ~/.config/companion/config.yaml)")
	pf.StringVarP(&opts.mode, "mode", "m", "", "Conversation mode to start in (see 'companion modes')")
	pf.BoolVar(&opts.offline, "offline", false, "Never call the chat service; use template replies")
	pf.Int64Var(&opts.seed, "seed", 0, "Seed for template choices (default: random)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	for _, c := range []*cobra.Command{rootCmd, chatCmd} {
		c.Flags().BoolVar(&opts.headless, "headless", false, "Read messages from stdin instead of the full-screen UI")
	}

	rootCmd.AddCommand(chatCmd, sayCmd, modesCmd, doctorCmd)
}

// isInteractive reports whether the command will take over the terminal.
func isInteractive(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "companion", "chat":
		return !opts.headless
	}
	return false
}

func runChat(cmd *cobra.Command, args []string) error {
	s, err := buildSession(cfg, opts, logger)
	if err != nil {
		return err
	}
	logger.Info("session started",
		zap.String("session", s.ID()),
		zap.String("mode", s.Mode().Key),
		zap.Bool("online", s.Online()))

	if !opts.headless {
		return tui.Run(s)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	r := headless.New(s, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if isTerminal(os.Stdin) {
		r = r.WithPrompt("> ")
	}
	return r.Run(ctx, cmd.InOrStdin())
}
