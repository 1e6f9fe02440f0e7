package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"starmap-server/internal/shared/config"
	"starmap-server/internal/shared/logger"
	"starmap-server/internal/worldgen"
)

var rootCmd = &cobra.Command{
	Use:   "galaxygen",
	Short: "Generate deterministic star systems offline",
	Long:  "galaxygen builds galaxies and single stars from a seed and prints them as JSON.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		slog.SetDefault(logger.New(os.Stderr, config.LoggingConfig{
			Level:      viper.GetString("log_level"),
			JSONFormat: viper.GetBool("log_json"),
		}))
		return nil
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .galaxygen.yaml)")
	rootCmd.PersistentFlags().String("catalog", "", "theme catalog YAML (default built-in)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level")
	rootCmd.PersistentFlags().Bool("log-json", false, "log as JSON")

	_ = viper.BindPFlag("catalog", rootCmd.PersistentFlags().Lookup("catalog"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log_json", rootCmd.PersistentFlags().Lookup("log-json"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".galaxygen")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("GALAXYGEN")
	viper.AutomaticEnv()

	// A missing config file leaves the flag defaults in place.
	_ = viper.ReadInConfig()
}

func loadCatalog() (*worldgen.ThemeCatalog, error) {
	path := viper.GetString("catalog")
	if path == "" {
		return worldgen.DefaultThemeCatalog(), nil
	}
	return worldgen.LoadThemeCatalogFile(path)
}
