package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sophie-backend/internal/config"
	"sophie-backend/internal/llm"
	"sophie-backend/internal/logger"
	"sophie-backend/internal/script"
)

// app holds what every subcommand needs once start-up checks have passed.
type app struct {
	cfg      config.Config
	script   *script.Script
	provider llm.Provider
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "sophie",
		Short:         "Sophie, the BillCut assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.init(cmd.Context()); err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err)
				return err
			}
			return nil
		},
	}
	root.AddCommand(newServeCmd(a), newChatCmd(a))
	return root
}

// init loads configuration, the script and the remote provider. A missing
// API key stops start-up here, before any session exists.
func (a *app) init(ctx context.Context) error {
	a.cfg = config.Load()
	logger.Configure(os.Stderr, a.cfg.LogLevel, a.cfg.LogFormat)
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	apiKey, err := a.cfg.ResolveAPIKey()
	if err != nil {
		return err
	}

	sc, err := script.Load(a.cfg.ScriptFile)
	if err != nil {
		return err
	}
	for key, shadow := range sc.Shadowed() {
		logger.Warn("faq key can never match", "key", key, "shadowed_by", shadow)
	}
	a.script = sc

	if ctx == nil {
		ctx = context.Background()
	}
	p, err := llm.New(ctx, a.cfg, apiKey)
	if err != nil {
		return fmt.Errorf("failed to create %s provider: %w", a.cfg.Provider, err)
	}
	a.provider = p
	logger.Info("provider ready", "provider", p.Name(), "model", p.Model())
	return nil
}
