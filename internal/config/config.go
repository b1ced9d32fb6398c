package config

import (
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends.
const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Config holds the configuration settings for the location logger.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Port: The port for the monitoring server.
// - APIPort: The port for the HTTP API.
// - Store: Which location store to use (postgres, sqlite).
// - SQLitePath: The SQLite database file, empty for an in-memory database.
// - ProviderType: The reverse geocoding provider (google, nominatim, none).
// - APIKey: The API key of the geocoding provider (required for Google).
// - MapsKey: The Google Maps key used for static map rendering.
// - Workers: The number of concurrent address resolvers.
// - Interval: The duration between background refreshes.
// - HistoryLimit: The number of records shown on the map.
// - Timezone: The IANA zone used on marker detail surfaces.
// - Map: The map frame and zoom settings.
// - Incremental: Whether unchanged markers are kept between refreshes.
// - Database: Configuration settings for the PostgreSQL database.
type Config struct {
	Env          string
	Port         int
	APIPort      int
	Store        string
	SQLitePath   string
	ProviderType string
	APIKey       string
	MapsKey      string
	Workers      int
	Interval     time.Duration
	HistoryLimit int
	Timezone     string
	Map          MapConfig
	Incremental  bool
	Database     PostgresConfig
}

// MapConfig describes the map frame markers are fitted into.
type MapConfig struct {
	Width      int // Width of the frame in pixels.
	Height     int // Height of the frame in pixels.
	Padding    int // Padding kept free on every side, in pixels.
	SingleZoom int // Zoom used when there is a single record.
	MaxZoom    int // Upper zoom bound for fitted viewports.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

// MustLoad reads the dotenv file named by GPSMAPP_ENV_FILE (default .env),
// then the environment, and returns the resulting Config. Variables already
// set in the environment win over the file. It panics on malformed values.
func MustLoad() *Config {
	envFile := viper.New()
	envFile.AutomaticEnv()
	envFile.SetDefault("GPSMAPP_ENV_FILE", ".env")
	_ = godotenv.Load(envFile.GetString("GPSMAPP_ENV_FILE"))

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	interval, err := time.ParseDuration(v.GetString("GPSMAPP_INTERVAL"))
	if err != nil {
		panic("failed to parse interval from configuration")
	}

	incremental, err := strconv.ParseBool(v.GetString("GPSMAPP_INCREMENTAL"))
	if err != nil {
		panic("failed to parse incremental flag from configuration, must be a boolean")
	}

	return &Config{
		Env:          v.GetString("GPSMAPP_ENV"),
		Port:         mustInt(v, "GPSMAPP_HEALTH_PORT", "failed to parse port for monitoring server from configuration"),
		APIPort:      mustInt(v, "GPSMAPP_API_PORT", "failed to parse port for api server from configuration"),
		Store:        v.GetString("GPSMAPP_STORE"),
		SQLitePath:   v.GetString("GPSMAPP_SQLITE_PATH"),
		ProviderType: v.GetString("GPSMAPP_PROVIDER_TYPE"),
		APIKey:       v.GetString("GPSMAPP_PROVIDER_KEY"),
		MapsKey:      v.GetString("GPSMAPP_MAPS_KEY"),
		Workers:      mustInt(v, "GPSMAPP_WORKERS", "failed to parse workers from configuration, must be an integer types"),
		Interval:     interval,
		HistoryLimit: mustInt(v, "GPSMAPP_HISTORY_LIMIT", "failed to parse history limit from configuration"),
		Timezone:     v.GetString("GPSMAPP_TIMEZONE"),
		Map: MapConfig{
			Width:      mustInt(v, "GPSMAPP_MAP_WIDTH", "failed to parse map width from configuration"),
			Height:     mustInt(v, "GPSMAPP_MAP_HEIGHT", "failed to parse map height from configuration"),
			Padding:    mustInt(v, "GPSMAPP_MAP_PADDING", "failed to parse map padding from configuration"),
			SingleZoom: mustInt(v, "GPSMAPP_MAP_SINGLE_ZOOM", "failed to parse single marker zoom from configuration"),
			MaxZoom:    mustInt(v, "GPSMAPP_MAP_MAX_ZOOM", "failed to parse max zoom from configuration"),
		},
		Incremental: incremental,
		Database: PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USERNAME"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("GPSMAPP_ENV", "production")
	v.SetDefault("GPSMAPP_HEALTH_PORT", "8080")
	v.SetDefault("GPSMAPP_API_PORT", "8000")
	v.SetDefault("GPSMAPP_STORE", StorePostgres)
	v.SetDefault("GPSMAPP_SQLITE_PATH", "gpsmapp.db")
	v.SetDefault("GPSMAPP_PROVIDER_TYPE", "none")
	v.SetDefault("GPSMAPP_WORKERS", "4")
	v.SetDefault("GPSMAPP_INTERVAL", "1m")
	v.SetDefault("GPSMAPP_HISTORY_LIMIT", "20")
	v.SetDefault("GPSMAPP_TIMEZONE", "Local")
	v.SetDefault("GPSMAPP_MAP_WIDTH", "800")
	v.SetDefault("GPSMAPP_MAP_HEIGHT", "600")
	v.SetDefault("GPSMAPP_MAP_PADDING", "20")
	v.SetDefault("GPSMAPP_MAP_SINGLE_ZOOM", "15")
	v.SetDefault("GPSMAPP_MAP_MAX_ZOOM", "19")
	v.SetDefault("GPSMAPP_INCREMENTAL", "false")
	v.SetDefault("DB_PORT", "5432")
}

func mustInt(v *viper.Viper, key, message string) int {
	value, err := strconv.Atoi(v.GetString(key))
	if err != nil {
		panic(message)
	}

	return value
}
