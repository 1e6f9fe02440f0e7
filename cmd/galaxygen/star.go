package main

import (
	"encoding/json"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"starmap-server/internal/galaxy"
	"starmap-server/internal/shared/config"
	"starmap-server/internal/worldgen"
)

var starCmd = &cobra.Command{
	Use:   "star",
	Short: "Derive a single star and print its attributes",
	RunE:  runStar,
}

func init() {
	f := starCmd.Flags()
	f.Int32("seed", 0, "star seed")
	f.Int("index", 0, "star index within the galaxy")
	f.String("type", "MainSeqStar", "star type")
	f.String("spectr", "X", "requested spectral class, X for none")

	rootCmd.AddCommand(starCmd)
}

func runStar(cmd *cobra.Command, args []string) error {
	seed, _ := cmd.Flags().GetInt32("seed")
	index, _ := cmd.Flags().GetInt("index")
	typeName, _ := cmd.Flags().GetString("type")
	spectrName, _ := cmd.Flags().GetString("spectr")

	starType, err := worldgen.ParseStarType(typeName)
	if err != nil {
		return err
	}
	spectr, err := worldgen.ParseSpectrType(spectrName)
	if err != nil {
		return err
	}

	svc := galaxy.NewService(nil, galaxy.NewCache(nil, 0), worldgen.DefaultThemeCatalog(),
		config.GenerationConfig{StarCount: viper.GetInt("stars")}, slog.Default())
	star, err := svc.DeriveStar(galaxy.StarRequest{
		Seed:      seed,
		Index:     index,
		StarCount: viper.GetInt("stars"),
		Type:      starType,
		Spectr:    spectr,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(star)
}
