package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jeanpaul/companion/internal/config"
	"github.com/jeanpaul/companion/internal/intent"
	"github.com/jeanpaul/companion/internal/memory"
	"github.com/jeanpaul/companion/internal/persona"
	"github.com/jeanpaul/companion/internal/provider"
	"github.com/jeanpaul/companion/internal/reply"
	"github.com/jeanpaul/companion/internal/session"
)

// options are the command-line overrides applied on top of the config file.
type options struct {
	configPath string
	mode       string
	offline    bool
	seed       int64
	seedSet    bool
	verbose    bool
	headless   bool
}

// newLogger builds a JSON logger on stderr, or on log.file when set. The
// full-screen UI gets a no-op logger unless a file is configured so log
// lines never land on the terminal.
func newLogger(cfg *config.Config, verbose, interactive bool) (*zap.Logger, error) {
	if interactive && cfg.Log.File == "" {
		return zap.NewNop(), nil
	}
	zc := zap.NewProductionConfig()
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	if cfg.Log.File != "" {
		zc.OutputPaths = []string{cfg.Log.File}
		zc.ErrorOutputPaths = []string{cfg.Log.File}
	}
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func defaultModesGlob() string {
	return filepath.Join(config.Dir(), "modes", "**", "*.yaml")
}

// buildCatalog loads built-in modes plus any user mode packs.
func buildCatalog(cfg *config.Config, logger *zap.Logger) (*persona.Catalog, error) {
	pattern := cfg.ModesGlob
	if pattern == "" {
		pattern = defaultModesGlob()
	}
	catalog, loaded, err := persona.Build(pattern)
	if err != nil {
		return nil, err
	}
	for _, p := range loaded {
		logger.Debug("mode pack loaded", zap.String("path", p))
	}
	return catalog, nil
}

// buildCompleter returns nil when the service path is disabled or has no key.
func buildCompleter(cfg *config.Config, offline bool, logger *zap.Logger) provider.Completer {
	if offline || cfg.Offline {
		logger.Debug("offline mode, template replies only")
		return nil
	}
	if !cfg.HasCredentials() {
		logger.Info("no API key configured, template replies only")
		return nil
	}
	p := cfg.Provider
	client := provider.NewOpenAI(p.Name, p.BaseURL, p.APIKey, p.Model, provider.Sampling{
		MaxTokens:   p.MaxTokens,
		Temperature: p.Temperature,
		TopP:        p.TopP,
		Stop:        p.Stop,
	}, p.Timeout)
	return provider.WithRateLimitRetry(client, p.RetryDelay, logger)
}

// buildSession wires a ready session from config and overrides.
func buildSession(cfg *config.Config, opts options, logger *zap.Logger) (*session.Session, error) {
	catalog, err := buildCatalog(cfg, logger)
	if err != nil {
		return nil, err
	}

	seed := opts.seed
	if !opts.seedSet {
		seed = time.Now().UnixNano()
	}
	templates := reply.NewTemplates(rand.New(rand.NewSource(seed)), cfg.Replies.NameInjectionRate)

	var service *reply.Service
	if c := buildCompleter(cfg, opts.offline, logger); c != nil {
		service = reply.NewService(c, cfg.HistoryWindow, cfg.Replies.Placeholder)
	}

	classifier := intent.New(intent.Options{
		GreetingThreshold: cfg.Classifier.GreetingThreshold,
		Greetings:         cfg.Classifier.Greetings,
		Interrogatives:    cfg.Classifier.Interrogatives,
		Emotions:          cfg.Classifier.Emotions,
	})
	extractor := memory.NewExtractor(memory.Options{
		NameTriggers:     cfg.Memory.NameTriggers,
		InterestTriggers: cfg.Memory.InterestTriggers,
		MaxInterests:     cfg.Memory.MaxInterests,
		FoldInterestCase: cfg.Memory.FoldInterestCase,
	})

	mode := opts.mode
	if mode == "" {
		mode = cfg.DefaultMode
	}
	return session.New(catalog, reply.NewSelector(templates, service, logger), classifier, extractor, session.Options{
		Mode:   mode,
		Logger: logger,
	})
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
