package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/stanleyamo/library-management-system/circulation/shell/config"
)

const (
	serviceName    = "library-circulation"
	serviceVersion = "0.1.0"
)

// rootFlags override the environment.
type rootFlags struct {
	envFile string
	driver  string
	dsn     string
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "library",
		Short:         "Library circulation service",
		Long:          "Runs the circulation HTTP API and its maintenance tasks for the book catalog, loans and fines.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	root.PersistentFlags().StringVar(&flags.driver, "driver", "", "database driver: pgx, sql, sqlx, sqlite or memory (overrides "+config.EnvDBDriver+")")
	root.PersistentFlags().StringVar(&flags.dsn, "dsn", "", "database DSN or SQLite path (overrides "+config.EnvDBDSN+")")

	root.AddCommand(
		newServeCommand(flags),
		newMigrateCommand(flags),
		newImportBooksCommand(flags),
	)

	return root
}

// settings loads the configuration and applies the flag overrides.
func (f *rootFlags) settings() (config.Settings, error) {
	s, err := config.LoadSettings(f.envFile)
	if err != nil {
		return config.Settings{}, err
	}

	overridden := false

	if f.driver != "" {
		s.DBDriver = f.driver
		overridden = true

		// Drop the default DSN of the environment's driver.
		if os.Getenv(config.EnvDBDSN) == "" {
			s.DBDSN = ""
		}
	}

	if f.dsn != "" {
		s.DBDSN = f.dsn
		overridden = true
	}

	if overridden {
		if err := s.Validate(); err != nil {
			return config.Settings{}, err
		}
	}

	return s, nil
}
