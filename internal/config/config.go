package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// ConfigFileName is the JSON config file searched for in the config dir.
const ConfigFileName = "mrdarcy.cfg.json"

// StorageConfig selects the mission source backend.
type StorageConfig struct {
	Type string `json:"type" mapstructure:"type"`
	// Path is the mission JSON file for the file backend.
	Path string `json:"path" mapstructure:"path"`
	// Mission names the archived mission to load from a database backend.
	Mission string `json:"mission" mapstructure:"mission"`
}

// Load reads configuration from the JSON file in configDir and seeds
// default values first, so a missing key never breaks startup.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./replaylogs")

	viper.SetDefault("replay.speed", 1.0)
	viper.SetDefault("replay.trails", true)
	viper.SetDefault("replay.labels", true)
	viper.SetDefault("replay.frameIntervalMs", 33)

	viper.SetDefault("source.type", "sample")
	viper.SetDefault("source.path", "")
	viper.SetDefault("source.mission", "")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "missions")
	viper.SetDefault("db.sqlitePath", "./missions.db")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "replay-metrics")

	viper.SetDefault("stream.enabled", false)
	viper.SetDefault("stream.listen", ":8723")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "mrdarcy-replay")
	viper.SetDefault("otel.batchTimeoutSec", 5)
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", false)

	viper.SetConfigName(ConfigFileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// Source returns the configured mission source settings.
func Source() StorageConfig {
	return StorageConfig{
		Type:    viper.GetString("source.type"),
		Path:    viper.GetString("source.path"),
		Mission: viper.GetString("source.mission"),
	}
}

// OTelConfig holds the OpenTelemetry settings.
type OTelConfig struct {
	Enabled      bool
	ServiceName  string
	BatchTimeout time.Duration
	Endpoint     string
	Insecure     bool
}

// GetOTelConfig returns the configured OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: time.Duration(viper.GetInt("otel.batchTimeoutSec")) * time.Second,
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetFloat returns a float config value.
func GetFloat(key string) float64 {
	return viper.GetFloat64(key)
}
