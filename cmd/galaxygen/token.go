package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"starmap-server/internal/auth"
	"starmap-server/internal/middleware"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API token signed with JWT_SECRET",
	RunE:  runToken,
}

func init() {
	f := tokenCmd.Flags()
	f.String("subject", "", "token subject, recorded as the galaxy owner")
	f.String("scope", middleware.ScopeGalaxiesWrite, "space separated scopes")
	f.Duration("ttl", 24*time.Hour, "token lifetime")

	_ = viper.BindEnv("jwt_secret", "JWT_SECRET")

	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	subject, _ := cmd.Flags().GetString("subject")
	scope, _ := cmd.Flags().GetString("scope")
	ttl, _ := cmd.Flags().GetDuration("ttl")

	if subject == "" {
		return errors.New("--subject is required")
	}

	tokens, err := auth.NewTokenService(viper.GetString("jwt_secret"), ttl)
	if err != nil {
		return err
	}
	token, err := tokens.Generate(subject, scope)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
