package cmd

import (
	"fmt"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cineadmin-tui/config"
	"cineadmin-tui/core"
	"cineadmin-tui/logger"
	"cineadmin-tui/tui"
)

var confPath string

var rootCmd = &cobra.Command{
	Use:           "cineadmin-tui",
	Short:         "Terminal client for the cinema-catalog admin API",
	Long:          "Browse movies and screenings, and as an admin create, edit and delete them, against a remote cinema-catalog service.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&confPath, "config", "", "directory holding config.yaml")
	rootCmd.PersistentFlags().String("base-url", "", "API base URL (overrides config)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (overrides config)")
	_ = viper.BindPFlag("api.base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(confPath)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := logger.Configure(cfg.Log.Level, cfg.Log.File); err != nil {
		return fmt.Errorf("logger error: %w", err)
	}

	log := logger.WithComponent("main")
	log.Infof("starting against %s", cfg.API.BaseURL)

	coord := core.New(cfg.API.BaseURL, &http.Client{Timeout: cfg.API.Timeout})

	if _, err := tea.NewProgram(tui.New(coord), tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	return nil
}

// Execute runs the root command.
func Execute(version string) {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
