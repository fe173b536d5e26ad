package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"db-respawn/internal/dialect"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	dsn        string
	driverName string
	cfgFile    string

	DB      *sql.DB
	Dialect dialect.Dialect
)

var RootCmd = &cobra.Command{
	Use:   "db-respawn",
	Short: "Reset a test database to empty tables in a foreign-key safe order",
	Long: `
  ____  ____    ____  _____ ____  ____   ___        ___   _
 |  _ \| __ )  |  _ \| ____/ ___||  _ \ / \ \      / / \ | |
 | | | |  _ \  | |_) |  _| \___ \| |_) / _ \ \ /\ / /|  \| |
 | |_| | |_) | |  _ <| |___ ___) |  __/ ___ \ V  V / | |\  |
 |____/|____/  |_| \_\_____|____/|_| /_/   \_\_/\_/  |_| \_|

DB RESPAWN - deletes every row between test runs, cycles included
`,
	SilenceUsage: true,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if DB == nil {
			return nil
		}
		err := DB.Close()
		DB = nil
		return err
	},
}

// connect opens and pings the configured database. Only commands that talk to
// the database call it, so help and completion work without a DSN.
func connect(ctx context.Context) error {
	config, err := resolveDBConfig()
	if err != nil {
		return err
	}

	DB, err = sql.Open(config.Driver, config.DSN)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	if err := DB.PingContext(ctx); err != nil {
		DB.Close()
		DB = nil
		return fmt.Errorf("failed to connect to db: %w", err)
	}

	Dialect = dialect.GetDialect(config.Driver)
	fmt.Printf("Connected to %s (%s)\n", config.Name, Dialect.Name())
	return nil
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./db-respawn.yaml)")
	RootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Database Source Name (DSN)")
	RootCmd.PersistentFlags().StringVar(&driverName, "driver", "", "database/sql driver (postgres, sqlserver, mysql, oracle); detected from the DSN if empty")

	viper.BindPFlag("database.dsn", RootCmd.PersistentFlags().Lookup("dsn"))
	viper.BindPFlag("database.driver", RootCmd.PersistentFlags().Lookup("driver"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Executable directory first, then the working directory.
		ex, err := os.Executable()
		if err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}
		viper.AddConfigPath(".")

		viper.SetConfigName("db-respawn")
		viper.SetConfigType("yaml")
	}

	// RESPAWN_DATABASE_DSN overrides database.dsn, and so on.
	viper.SetEnvPrefix("respawn")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
