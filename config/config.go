package config

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Auth     Auth
	Locale   Locale
	Log      Log
	Gemini   Gemini
}

type Server struct {
	Port    string
	GinMode string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type Auth struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// Locale lists the locales attempt items may be rendered in. Default must be one of Supported.
type Locale struct {
	Default   string
	Supported []string
}

type Log struct {
	Level  string
	Pretty bool
}

type Gemini struct {
	ApiKey string
	Model  string
}

func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file, falling back to environment")
	}

	cfg := fromViper(v)
	log.Info().
		Str("port", cfg.Server.Port).
		Str("database_host", cfg.Database.Host).
		Str("database_name", cfg.Database.Name).
		Str("default_locale", cfg.Locale.Default).
		Strs("supported_locales", cfg.Locale.Supported).
		Bool("gemini_enabled", cfg.Gemini.ApiKey != "").
		Msg("Config loaded")
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("JWT_TTL", "72h")
	v.SetDefault("DEFAULT_LOCALE", "en")
	v.SetDefault("SUPPORTED_LOCALES", "en,es")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", true)
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
}

func fromViper(v *viper.Viper) *Config {
	var cfg Config

	cfg.Server.Port = v.GetString("SERVER_PORT")
	cfg.Server.GinMode = v.GetString("GIN_MODE")

	cfg.Database.Host = v.GetString("DATABASE_HOST")
	cfg.Database.Port = v.GetString("DATABASE_PORT")
	cfg.Database.User = v.GetString("DATABASE_USER")
	cfg.Database.Password = v.GetString("DATABASE_PASSWORD")
	cfg.Database.Name = v.GetString("DATABASE_NAME")
	cfg.Database.SSLMode = v.GetString("DATABASE_SSLMODE")

	cfg.Auth.JWTSecret = v.GetString("JWT_SECRET")
	cfg.Auth.TokenTTL = v.GetDuration("JWT_TTL")

	cfg.Locale.Default = strings.ToLower(strings.TrimSpace(v.GetString("DEFAULT_LOCALE")))
	cfg.Locale.Supported = splitList(v.GetString("SUPPORTED_LOCALES"))
	if !contains(cfg.Locale.Supported, cfg.Locale.Default) {
		cfg.Locale.Supported = append([]string{cfg.Locale.Default}, cfg.Locale.Supported...)
	}

	cfg.Log.Level = v.GetString("LOG_LEVEL")
	cfg.Log.Pretty = v.GetBool("LOG_PRETTY")

	cfg.Gemini.ApiKey = v.GetString("GEMINI_API_KEY")
	cfg.Gemini.Model = v.GetString("GEMINI_MODEL")

	return &cfg
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		p := strings.ToLower(strings.TrimSpace(part))
		if p != "" && !contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
