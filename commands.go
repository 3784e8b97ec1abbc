package main

import (
	"fmt"

	"github.com/Innayatullahh/skydragon-test/repository"
	"github.com/Innayatullahh/skydragon-test/services"
	"github.com/Innayatullahh/skydragon-test/utils"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the indexes used by the meetings service",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		client, err := utils.NewMongoClient(cmd.Context(), cfg.Database.ClientOptions())
		if err != nil {
			return err
		}
		defer client.Disconnect(cmd.Context())

		if err := repository.SetupIndexes(cmd.Context(), client.Database(cfg.Database.DatabaseName), cfg.Database); err != nil {
			return err
		}
		logger.Info("indexes created", "database", cfg.Database.DatabaseName)
		return nil
	},
}

var tokenUserID string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print an access token for a user id",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := primitive.ObjectIDFromHex(tokenUserID); err != nil {
			return fmt.Errorf("--user must be a 24 character hex id: %w", err)
		}

		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		token, err := services.NewTokenIssuer(cfg.JWT).GenerateToken(tokenUserID)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUserID, "user", "", "user id to put in the token")
	_ = tokenCmd.MarkFlagRequired("user")
}
