package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/frahmantamala/hr-payroll/internal"
	"github.com/frahmantamala/hr-payroll/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configPath string
	clearData  bool
)

var rootCmd = &cobra.Command{
	Use:   "hr-payroll",
	Short: "HR Payroll",
	Long:  `Attendance, contract and payroll report generation for HR.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*internal.Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	var cfg *internal.Config
	if os.Getenv("APP_ENV") == "production" || os.Getenv("DOCKER_ENV") == "true" {
		cfg = internal.LoadConfigFromEnv()
	} else {
		v := viper.New()
		v.AddConfigPath(path)
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.SetEnvPrefix("ENV")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config: %w", err)
		}

		cfg = &internal.Config{}
		if err := v.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("error unmarshaling config: %w", err)
		}
		cfg.ApplyDefaults()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"), cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	return cfg, nil
}

// mustLoadConfig is for commands that cannot do anything useful without it.
func mustLoadConfig() *internal.Config {
	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "directory containing config.yml")
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")

	rootCmd.AddCommand(httpServerCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(workerCmd)
	rootCmd.AddCommand(attendanceCmd)
	rootCmd.AddCommand(payrollCmd)
	rootCmd.AddCommand(contractsCmd)
	rootCmd.AddCommand(tokenCmd)
}
