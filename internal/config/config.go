package config

import (
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Kafka      KafkaConfig
	University UniversityConfig
}

var (
	ConfigInstance *Config
	once           sync.Once
)

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	URL string
}

type JWTConfig struct {
	Secret         string
	ExpirationTime time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type UniversityConfig struct {
	DataFile      string
	LookupURL     string
	LookupTimeout time.Duration
}

func LoadConfig() (*Config, error) {
	once.Do(func() {
		viper.SetDefault("GRADPOLLS_HOST", "")
		viper.SetDefault("GRADPOLLS_PORT", "8080")
		viper.SetDefault("GRADPOLLS_READ_TIMEOUT", 30*time.Second)
		viper.SetDefault("GRADPOLLS_WRITE_TIMEOUT", 30*time.Second)
		viper.SetDefault("GRADPOLLS_IDLE_TIMEOUT", 60*time.Second)
		viper.SetDefault("GRADPOLLS_JWT_SECRET", "secret")
		viper.SetDefault("GRADPOLLS_JWT_EXPIRE", "168h")
		viper.SetDefault("REDIS_URL", "redis://127.0.0.1:6379/0")
		viper.SetDefault("POSTGRES_USER", "postgres")
		viper.SetDefault("POSTGRES_PASSWORD", "password")
		viper.SetDefault("POSTGRES_HOST", "localhost")
		viper.SetDefault("POSTGRES_PORT", "5432")
		viper.SetDefault("POSTGRES_DB", "gradpolls")
		viper.SetDefault("POSTGRES_SSLMODE", "disable")
		viper.SetDefault("KAFKA_BROKERS", "")
		viper.SetDefault("KAFKA_TOPIC", "gradpolls.events")
		viper.SetDefault("UNIVERSITY_DATA_FILE", "data/universities.json")
		viper.SetDefault("UNIVERSITY_LOOKUP_URL", "http://universities.hipolabs.com/search")
		viper.SetDefault("UNIVERSITY_LOOKUP_TIMEOUT", 5*time.Second)
		viper.AutomaticEnv()

		var brokers []string
		if raw := viper.GetString("KAFKA_BROKERS"); raw != "" {
			for _, b := range strings.Split(raw, ",") {
				brokers = append(brokers, strings.TrimSpace(b))
			}
		}

		ConfigInstance = &Config{
			Server: ServerConfig{
				Host:         viper.GetString("GRADPOLLS_HOST"),
				Port:         viper.GetString("GRADPOLLS_PORT"),
				ReadTimeout:  viper.GetDuration("GRADPOLLS_READ_TIMEOUT"),
				WriteTimeout: viper.GetDuration("GRADPOLLS_WRITE_TIMEOUT"),
				IdleTimeout:  viper.GetDuration("GRADPOLLS_IDLE_TIMEOUT"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("POSTGRES_HOST"),
				Port:     viper.GetString("POSTGRES_PORT"),
				User:     viper.GetString("POSTGRES_USER"),
				Password: viper.GetString("POSTGRES_PASSWORD"),
				DBName:   viper.GetString("POSTGRES_DB"),
				SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
			},
			Redis: RedisConfig{
				URL: viper.GetString("REDIS_URL"),
			},
			JWT: JWTConfig{
				Secret:         viper.GetString("GRADPOLLS_JWT_SECRET"),
				ExpirationTime: viper.GetDuration("GRADPOLLS_JWT_EXPIRE"),
			},
			Kafka: KafkaConfig{
				Brokers: brokers,
				Topic:   viper.GetString("KAFKA_TOPIC"),
			},
			University: UniversityConfig{
				DataFile:      viper.GetString("UNIVERSITY_DATA_FILE"),
				LookupURL:     viper.GetString("UNIVERSITY_LOOKUP_URL"),
				LookupTimeout: viper.GetDuration("UNIVERSITY_LOOKUP_TIMEOUT"),
			},
		}
	})

	return ConfigInstance, nil
}
