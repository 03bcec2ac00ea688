package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/frahmantamala/hr-payroll/internal/auth"
	"github.com/spf13/cobra"
)

var (
	tokenSubject     string
	tokenEmail       string
	tokenPermissions string
	tokenTTL         time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an operator access token for the admin API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		if cfg.Security.JWTSecret == "" {
			return fmt.Errorf("security.jwt_secret is not configured")
		}

		perms := []string{cfg.Security.AdminPermission}
		if tokenPermissions != "" {
			perms = strings.Split(tokenPermissions, ",")
		}

		token, err := auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, tokenTTL).
			GenerateAccessToken(tokenSubject, tokenEmail, perms)
		if err != nil {
			return fmt.Errorf("failed to sign token: %w", err)
		}
		fmt.Println(token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "operator", "user id carried in the token")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email carried in the token")
	tokenCmd.Flags().StringVar(&tokenPermissions, "permissions", "", "comma separated permissions, defaults to the admin permission")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime")
}
