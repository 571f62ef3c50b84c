// Package config loads tool configuration from config files, environment
// variables and .env files.
package config

import (
	"path/filepath"

	"github.com/joho/godotenv"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// AppFs is the filesystem everything goes through. Tests swap in a memory fs.
var AppFs = afero.NewOsFs()

// Config holds the run configuration. Flag values take precedence over what
// is loaded here.
type Config struct {
	MaxHeaderLines int
	FixHeaderLines int // -1 means auto-detect
	Verbose        bool
}

// LoadConfig reads .csvcombine.yaml (cwd, home, ~/.config/csvcombine),
// CSVCOMBINE_* environment variables and an optional .env file. Missing
// config files are fine.
func LoadConfig() (*Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	viper.SetConfigName(".csvcombine")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath(home)
	viper.AddConfigPath(filepath.Join(home, ".config", "csvcombine"))

	viper.SetEnvPrefix("CSVCOMBINE")
	viper.AutomaticEnv()

	viper.SetDefault("max_header_lines", 100)
	viper.SetDefault("fix_header_lines", -1)
	viper.SetDefault("verbose", false)

	_ = viper.ReadInConfig()

	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}

	cfg := &Config{
		MaxHeaderLines: viper.GetInt("max_header_lines"),
		FixHeaderLines: viper.GetInt("fix_header_lines"),
		Verbose:        viper.GetBool("verbose"),
	}

	return cfg, nil
}
