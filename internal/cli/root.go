// Package cli implements the biodash commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"biodash/internal/config"
	"biodash/internal/logging"
)

var (
	configPath string
	formatFlag string
	inMemory   bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "biodash",
	Short: "Pharmacokinetic bio-score and hydration coach",
	Long: "Scores alertness from logged stimulant, caffeine and analgesic intakes, " +
		"checks interactions and paces daily water intake. Serves the dashboard and watch API.",
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $BIODASH_CONFIG)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().BoolVar(&inMemory, "memory", false, "Use a throwaway in-memory store instead of the database")
}

func getConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return os.Getenv("BIODASH_CONFIG")
}

func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// render writes v as indented JSON, or through text when --format=text.
func render(w io.Writer, v any, text func(io.Writer)) error {
	switch formatFlag {
	case "text":
		text(w)
		return nil
	case "json", "":
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}
	return fmt.Errorf("unknown format %q", formatFlag)
}
