package config

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Log     LogConfig     `yaml:"log"`
	Auth    AuthConfig    `yaml:"auth"`
	Flights FlightsConfig `yaml:"flights"`
	Redis   RedisConfig   `yaml:"redis"`
	Events  EventsConfig  `yaml:"events"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Rabbit  RabbitConfig  `yaml:"rabbitmq"`
}

type HTTPConfig struct {
	Address    string `yaml:"address"`
	SwaggerDir string `yaml:"swagger_dir"`
}

type LogConfig struct {
	Service string `yaml:"service"`
	Level   string `yaml:"level"`
}

// AuthConfig holds the token signing key and the pre-provisioned principals.
// The secret key is constant for the process lifetime; changing it
// invalidates every outstanding token.
type AuthConfig struct {
	SecretKey       string       `yaml:"secret_key"`
	AccessTTLMinute int          `yaml:"access_token_ttl_minutes"`
	BcryptCost      int          `yaml:"bcrypt_cost"`
	Users           []UserConfig `yaml:"users"`
}

// UserConfig seeds one principal. PasswordHash wins over Password when both
// are set.
type UserConfig struct {
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	PasswordHash string `yaml:"password_hash"`
	IsAdmin      bool   `yaml:"is_admin"`
}

type FlightsConfig struct {
	// GuardConfirmCancelled rejects confirm on a cancelled flight. Off by
	// default, so a cancelled flight can be confirmed again.
	GuardConfirmCancelled bool `yaml:"guard_confirm_cancelled"`
	CacheTTLSeconds       int  `yaml:"cache_ttl_seconds"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// EventsConfig selects the broker used for reservation and flight events.
// An empty broker disables publishing.
type EventsConfig struct {
	Broker             string `yaml:"broker"`
	ReservationsTopic  string `yaml:"reservations_topic"`
	FlightsTopic       string `yaml:"flights_topic"`
	NotificationsTopic string `yaml:"notifications_topic"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	GroupID string   `yaml:"group_id"`
}

type RabbitConfig struct {
	URL string `yaml:"url"`
}

const (
	BrokerKafka    = "kafka"
	BrokerRabbitMQ = "rabbitmq"
)

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("AUTH_SECRET_KEY"); v != "" {
		c.Auth.SecretKey = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		c.Rabbit.URL = v
	}
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.Log.Service == "" {
		c.Log.Service = "flightbooking"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Auth.AccessTTLMinute <= 0 {
		c.Auth.AccessTTLMinute = 30
	}
	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = bcrypt.DefaultCost
	}
	if len(c.Auth.Users) == 0 {
		c.Auth.Users = []UserConfig{{Username: "admin@example.com", Password: "admin", IsAdmin: true}}
	}
	if c.Flights.CacheTTLSeconds <= 0 {
		c.Flights.CacheTTLSeconds = 60
	}
	if c.Events.ReservationsTopic == "" {
		c.Events.ReservationsTopic = "reservations"
	}
	if c.Events.FlightsTopic == "" {
		c.Events.FlightsTopic = "flights"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "flightbooking-worker"
	}
}

func (c *Config) validate() error {
	if c.Auth.SecretKey == "" {
		return fmt.Errorf("auth.secret_key is required")
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	switch c.Events.Broker {
	case "":
	case BrokerKafka:
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers is required for the kafka broker")
		}
	case BrokerRabbitMQ:
		if c.Rabbit.URL == "" {
			return fmt.Errorf("rabbitmq.url is required for the rabbitmq broker")
		}
	default:
		return fmt.Errorf("unknown events.broker %q", c.Events.Broker)
	}
	return nil
}
