package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"starmap-server/internal/galaxy"
	"starmap-server/internal/rules"
	"starmap-server/internal/shared/config"
)

var galaxyCmd = &cobra.Command{
	Use:   "galaxy",
	Short: "Generate a galaxy and print it as JSON",
	RunE:  runGalaxy,
}

func init() {
	f := galaxyCmd.Flags()
	f.Int32("seed", 0, "galaxy seed")
	f.Int("stars", 64, "number of stars")
	f.Float32("resource-multiplier", 1, "resource multiplier; 100 or more means infinite")
	f.String("rules", "", "JSON file holding an array of rules")
	f.Int("max-retries", galaxy.DefaultMaxRetries, "regeneration limit per star and per bulk round")

	_ = viper.BindPFlag("stars", f.Lookup("stars"))
	_ = viper.BindPFlag("resource_multiplier", f.Lookup("resource-multiplier"))
	_ = viper.BindPFlag("max_retries", f.Lookup("max-retries"))

	rootCmd.AddCommand(galaxyCmd)
}

func runGalaxy(cmd *cobra.Command, args []string) error {
	seed, _ := cmd.Flags().GetInt32("seed")

	ruleSet, err := readRules(cmd)
	if err != nil {
		return err
	}
	catalog, err := loadCatalog()
	if err != nil {
		return fmt.Errorf("failed to load theme catalog: %w", err)
	}

	defaults := config.GenerationConfig{
		StarCount:          viper.GetInt("stars"),
		ResourceMultiplier: viper.GetFloat64("resource_multiplier"),
		MaxRetries:         viper.GetInt("max_retries"),
	}
	svc := galaxy.NewService(nil, galaxy.NewCache(nil, 0), catalog, defaults, slog.Default())

	res, err := svc.Generate(cmd.Context(), galaxy.GenerateRequest{Seed: seed, Rules: ruleSet})
	if err != nil {
		return err
	}

	slog.Info("Galaxy generated", "seed", seed, "digest", res.Digest)
	_, err = cmd.OutOrStdout().Write(append(res.Body, '\n'))
	return err
}

func readRules(cmd *cobra.Command) ([]*rules.Rule, error) {
	path, _ := cmd.Flags().GetString("rules")
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules: %w", err)
	}
	var ruleSet []*rules.Rule
	if err := json.Unmarshal(data, &ruleSet); err != nil {
		return nil, fmt.Errorf("failed to parse rules %s: %w", path, err)
	}
	return ruleSet, nil
}
