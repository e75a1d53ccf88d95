package configs

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ServiceConfig defines the book service configuration.
type ServiceConfig struct {
	LogLevel         string                 `yaml:"logLevel"`
	API              APIConfig              `yaml:"api"`
	ServiceDiscovery serviceDiscoveryConfig `yaml:"serviceDiscovery"`
	Database         DatabaseConfig         `yaml:"database"`
	Messenger        MessengerConfig        `yaml:"messenger"`
	ML               MLConfig               `yaml:"ml"`
	Recommendation   RecommendationConfig   `yaml:"recommendation"`
	Cache            CacheConfig            `yaml:"cache"`
	Jaeger           JaegerConfig           `yaml:"jaeger"`
	Prometheus       PrometheusConfig       `yaml:"prometheus"`
}

// APIConfig defines the listening ports of the service.
type APIConfig struct {
	HTTPPort        int      `yaml:"httpPort"`
	GRPCPort        int      `yaml:"grpcPort"`
	ShutdownTimeout Duration `yaml:"shutdownTimeout"`
}

type serviceDiscoveryConfig struct {
	Consul consulConfig `yaml:"consul"`
}

type consulConfig struct {
	Address string `yaml:"address"`
}

// DatabaseConfig selects and configures the store.
type DatabaseConfig struct {
	Driver string       `yaml:"driver"`
	Mysql  MysqlConfig  `yaml:"mysql"`
	Sqlite SqliteConfig `yaml:"sqlite"`
}

// MysqlConfig defines a MySQL connection.
type MysqlConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	User string `yaml:"user"`
	Pass string `yaml:"password"`
	Name string `yaml:"db_name"`
}

// SqliteConfig defines a SQLite database file. ":memory:" keeps the database in memory.
type SqliteConfig struct {
	Path string `yaml:"path"`
}

// MessengerConfig defines the rating events source.
type MessengerConfig struct {
	Kafka KafkaConfig `yaml:"kafka"`
}

// KafkaConfig defines a Kafka consumer. An empty address disables ingestion.
type KafkaConfig struct {
	Address string `yaml:"address"`
	GroupID string `yaml:"groupId"`
	Topic   string `yaml:"topic"`
}

// MLConfig defines how the ML recommendation service is reached. The ML
// stage is disabled when both URL and ServiceName are empty.
type MLConfig struct {
	URL         string   `yaml:"url"`
	ServiceName string   `yaml:"serviceName"`
	Timeout     Duration `yaml:"timeout"`
	RateLimit   float64  `yaml:"rateLimit"`
	Burst       int      `yaml:"burst"`
}

// Enabled reports whether an ML service is configured.
func (c MLConfig) Enabled() bool {
	return c.URL != "" || c.ServiceName != ""
}

// RecommendationConfig defines recommendation limits.
type RecommendationConfig struct {
	DefaultLimit int `yaml:"defaultLimit"`
	MaxLimit     int `yaml:"maxLimit"`
}

// CacheConfig defines the book cache.
type CacheConfig struct {
	TTL Duration `yaml:"ttl"`
}

// JaegerConfig defines the trace exporter endpoint. Empty disables tracing.
type JaegerConfig struct {
	URL string `yaml:"url"`
}

// PrometheusConfig defines the metrics endpoint.
type PrometheusConfig struct {
	MetricsPort int `yaml:"metricsPort"`
}

// Duration is a time.Duration decoded from strings like "5s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Load reads the configuration file at path on top of the built-in defaults.
func Load(path string) (*ServiceConfig, error) {
	cfg := Default()
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the configuration used for values missing from the file.
func Default() *ServiceConfig {
	return &ServiceConfig{
		LogLevel: "info",
		API: APIConfig{
			HTTPPort:        8081,
			GRPCPort:        8082,
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			Sqlite: SqliteConfig{Path: "taletrail.db"},
		},
		Messenger: MessengerConfig{
			Kafka: KafkaConfig{GroupID: "book", Topic: "ratings"},
		},
		ML: MLConfig{
			Timeout:   Duration(5 * time.Second),
			RateLimit: 50,
			Burst:     20,
		},
		Recommendation: RecommendationConfig{DefaultLimit: 10, MaxLimit: 100},
		Cache:          CacheConfig{TTL: Duration(time.Minute)},
	}
}
