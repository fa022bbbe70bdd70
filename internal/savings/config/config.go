package config

import (
	"flag"
	"os"

	"github.com/joho/godotenv"
)

const defaultDataFile = "data/savings_data.json"

// Config contains application configuration
type Config struct {
	DataFile    string
	DatabaseURI string
	LogLevel    string
	LogDev      bool
	LogFile     string
}

// NewConfig creates a new configuration from environment variables or flags.
// A local .env file is loaded first when present.
func NewConfig() *Config {
	// best-effort: without a .env file the real environment is used
	_ = godotenv.Load()
	return parse(flag.CommandLine, os.Args[1:])
}

func parse(fs *flag.FlagSet, args []string) *Config {
	var cfg Config

	// Parse flags
	fs.StringVar(&cfg.DataFile, "f", "", "Data file path")
	fs.StringVar(&cfg.DatabaseURI, "d", "", "Database URI (uses PostgreSQL instead of the data file)")
	fs.StringVar(&cfg.LogLevel, "l", "", "Log level")
	fs.StringVar(&cfg.LogFile, "log-file", "", "Log file pattern")
	_ = fs.Parse(args)

	// Override with env vars if present
	if envFile := os.Getenv("DATA_FILE"); envFile != "" {
		cfg.DataFile = envFile
	}

	if envDBURI := os.Getenv("DATABASE_URI"); envDBURI != "" {
		cfg.DatabaseURI = envDBURI
	}

	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		cfg.LogLevel = envLevel
	}

	if envLogFile := os.Getenv("LOG_FILE"); envLogFile != "" {
		cfg.LogFile = envLogFile
	}

	cfg.LogDev = os.Getenv("LOG_DEV") == "1"

	// Set defaults if needed
	if cfg.DataFile == "" {
		cfg.DataFile = defaultDataFile
	}

	if cfg.LogLevel == "" {
		if cfg.LogDev {
			cfg.LogLevel = "debug"
		} else {
			cfg.LogLevel = "info"
		}
	}

	return &cfg
}
