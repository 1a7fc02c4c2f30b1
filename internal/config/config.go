package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	FileBackend   = "file"
	SQLiteBackend = "sqlite"
)

const (
	UTF8   = "utf-8"
	Latin1 = "iso-8859-1"
)

type Configuration struct {
	// DataDir is the directory holding usuarios.txt, comunidades.txt and mensagens.txt when the file
	// backend is in use.
	DataDir string `mapstructure:"data_dir" validate:"required"`
	// Backend selects where the persisted documents live: "file" or "sqlite".
	Backend string `mapstructure:"backend" validate:"oneof=file sqlite"`
	// DbUrl is the SQLite connection string, used only by the sqlite backend.
	DbUrl string `mapstructure:"db_url" validate:"required_if=Backend sqlite"`
	// MigrationsFolder is the directory with the SQL migrations applied before the sqlite backend
	// is used.
	MigrationsFolder string `mapstructure:"migrations_folder" validate:"required_if=Backend sqlite"`
	// Charset is the character set of the persisted documents. Data written by older installations
	// is ISO-8859-1.
	Charset string `mapstructure:"charset" validate:"oneof=utf-8 iso-8859-1"`
	// Debug, if true, lowers the log level to debug.
	Debug bool `mapstructure:"debug"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "database")
	v.SetDefault("backend", FileBackend)
	v.SetDefault("db_url", "file:jackut.db")
	v.SetDefault("migrations_folder", "migrations")
	v.SetDefault("charset", UTF8)
	v.SetDefault("debug", false)
}

// ReadConfig reads the configuration from jackut.{yaml,toml,json} in the working directory or in
// $HOME/.jackut, then from JACKUT_* environment variables, which may also come from a .env file.
func ReadConfig() (Configuration, error) {
	return Load(viper.New())
}

// Load is ReadConfig on a caller supplied viper instance, so command line flags bound to it take
// precedence. A config file set with SetConfigFile must exist; the default search path may not.
func Load(v *viper.Viper) (cfg Configuration, err error) {
	_ = godotenv.Load()

	setDefaults(v)
	v.SetEnvPrefix("JACKUT")
	v.AutomaticEnv()

	explicit := v.ConfigFileUsed() != ""
	if !explicit {
		v.SetConfigName("jackut")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.jackut")
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
		err = nil
	}

	if err = v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}

	err = cfg.Validate()
	return
}

func (c Configuration) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
