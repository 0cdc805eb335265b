package main

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vocdoni/maci-domainobjs/crypto"
	"github.com/vocdoni/maci-domainobjs/db"
	"github.com/vocdoni/maci-domainobjs/internal"
)

const (
	defaultAPIHost   = "0.0.0.0"
	defaultAPIPort   = 9090
	defaultLogLevel  = "info"
	defaultLogOutput = "stdout"
	defaultDatadir   = ".maci" // Will be prefixed with user's home directory
	defaultDBType    = db.TypePebble
	envPrefix        = "MACI"
)

// Version is the build version, set at build time with -ldflags
var Version = internal.Version

// Config holds the application configuration
type Config struct {
	API     APIConfig
	Log     LogConfig
	DB      DBConfig
	State   StateConfig
	Datadir string
}

// APIConfig holds the API-specific configuration
type APIConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Output string `mapstructure:"output"`
}

// DBConfig selects the database backend
type DBConfig struct {
	Type string `mapstructure:"type"`
}

// StateConfig holds the parameters of the state tree
type StateConfig struct {
	// EmptyVoteOptionRoot is the decimal root of an empty vote option tree,
	// used to build blank state leaves.
	EmptyVoteOptionRoot string `mapstructure:"emptyVoteOptionRoot"`
}

// loadConfig loads configuration from flags, environment variables, and
// defaults.
func loadConfig(args []string) (*Config, error) {
	v := viper.New()

	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		userHomeDir = "."
	}
	defaultDatadirPath := filepath.Join(userHomeDir, defaultDatadir)

	v.SetDefault("api.host", defaultAPIHost)
	v.SetDefault("api.port", defaultAPIPort)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.output", defaultLogOutput)
	v.SetDefault("db.type", defaultDBType)
	v.SetDefault("datadir", defaultDatadirPath)

	flags := flag.NewFlagSet("maci-node", flag.ContinueOnError)
	flags.StringP("api.host", "a", defaultAPIHost, "API host")
	flags.IntP("api.port", "p", defaultAPIPort, "API port")
	flags.StringP("log.level", "l", defaultLogLevel, "log level (debug, info, warn, error)")
	flags.StringP("log.output", "o", defaultLogOutput, "log output (stdout, stderr or filepath)")
	flags.String("db.type", defaultDBType, fmt.Sprintf("database backend (%s or %s)", db.TypePebble, db.TypeInMemory))
	flags.String("state.emptyVoteOptionRoot", "", "decimal root of an empty vote option tree (required)")
	flags.StringP("datadir", "d", defaultDatadirPath, "data directory for the database")

	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "maci-node v%s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: maci-node [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flags.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment variables are also available with the same name as flags,\n")
		fmt.Fprintf(os.Stderr, "  except for dots (.) which are replaced by underscores (_).\n")
		fmt.Fprintf(os.Stderr, "  For example, MACI_API_PORT or MACI_DB_TYPE\n")
	}

	flags.SortFlags = false
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("error binding flags: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return cfg, nil
}

// validateConfig validates the loaded configuration and returns the parsed
// empty vote option tree root.
func validateConfig(cfg *Config) (*big.Int, error) {
	if cfg.DB.Type != db.TypePebble && cfg.DB.Type != db.TypeInMemory {
		return nil, fmt.Errorf("invalid database type %q", cfg.DB.Type)
	}
	if cfg.DB.Type == db.TypePebble && cfg.Datadir == "" {
		return nil, fmt.Errorf("datadir is required with the %s database", db.TypePebble)
	}
	if cfg.API.Port <= 0 || cfg.API.Port > 65535 {
		return nil, fmt.Errorf("invalid API port %d", cfg.API.Port)
	}
	if cfg.State.EmptyVoteOptionRoot == "" {
		return nil, fmt.Errorf("state.emptyVoteOptionRoot is required")
	}
	root, ok := new(big.Int).SetString(cfg.State.EmptyVoteOptionRoot, 10)
	if !ok || !crypto.IsInField(root) {
		return nil, fmt.Errorf("invalid empty vote option root %q", cfg.State.EmptyVoteOptionRoot)
	}
	return root, nil
}
