package core

import (
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Session storage backends
const (
	StorageMemory   = "memory"
	StorageBolt     = "bolt"
	StoragePostgres = "postgres"
)

// Evaluator backends
const (
	EvaluatorMock   = "mock"
	EvaluatorGemini = "gemini"
)

type (
	Config struct {
		Env          string
		Build        string
		Debug        bool
		TestMode     bool
		AppName      string
		SecretKey    string
		RollbarToken string
		WorkDir      string

		JWTExpirationDelta time.Duration

		Server   ServerConfig
		Session  SessionConfig
		Database DatabaseConfig
		Latency  LatencyConfig

		Evaluator string
		Gemini    GeminiConfig
	}

	ServerConfig struct {
		Host            string
		Address         string
		ShutdownTimeout time.Duration
	}

	SessionConfig struct {
		Storage  string
		BoltPath string
	}

	DatabaseConfig struct {
		Engine     string
		Host       string
		Port       string
		Name       string
		User       string
		Password   string
		DisableTLS bool
	}

	// LatencyConfig holds the artificial delays standing in for backend round-trips.
	LatencyConfig struct {
		Login        time.Duration
		Register     time.Duration
		Grading      time.Duration
		Presentation time.Duration
	}

	GeminiConfig struct {
		APIKey string
		Model  string
	}
)

func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// NewConfig loads the configuration from defaults, the optional `config/.env.<env>` file
// and the environment (prefixed with the upper-cased env name, eg. `DEV_SECRETKEY`).
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("build", "develop")
	conf.SetDefault("appName", "SmartGrade")
	conf.SetDefault("secretKey", "t8m!x2c$k^9vqz@e4p+r7w&n0y#ha1s6")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("jwtExpirationDelta", 7*24*time.Hour)

	conf.SetDefault("server.host", "localhost")
	conf.SetDefault("server.address", ":8000")
	conf.SetDefault("server.shutdownTimeout", 5*time.Second)

	conf.SetDefault("session.storage", StorageBolt)
	conf.SetDefault("session.boltPath", filepath.Join("var", "session.db"))

	conf.SetDefault("database.engine", "postgres")
	conf.SetDefault("database.host", "localhost")
	conf.SetDefault("database.port", "5432")
	conf.SetDefault("database.name", "smartgrade")
	conf.SetDefault("database.user", "smartgrade")
	conf.SetDefault("database.password", "")
	conf.SetDefault("database.disableTLS", true)

	conf.SetDefault("latency.login", time.Second)
	conf.SetDefault("latency.register", time.Second)
	conf.SetDefault("latency.grading", 2*time.Second)
	conf.SetDefault("latency.presentation", 2*time.Second)

	conf.SetDefault("evaluator", EvaluatorMock)
	conf.SetDefault("gemini.apiKey", "")
	conf.SetDefault("gemini.model", "gemini-pro")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("config.os.Getwd(): %v", err)
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Env:                env,
		Build:              conf.GetString("build"),
		Debug:              conf.GetBool("debug"),
		TestMode:           conf.GetBool("testMode"),
		AppName:            conf.GetString("appName"),
		SecretKey:          conf.GetString("secretKey"),
		RollbarToken:       conf.GetString("rollbarToken"),
		WorkDir:            wd,
		JWTExpirationDelta: conf.GetDuration("jwtExpirationDelta"),
		Server: ServerConfig{
			Host:            conf.GetString("server.host"),
			Address:         conf.GetString("server.address"),
			ShutdownTimeout: conf.GetDuration("server.shutdownTimeout"),
		},
		Session: SessionConfig{
			Storage:  strings.ToLower(conf.GetString("session.storage")),
			BoltPath: conf.GetString("session.boltPath"),
		},
		Database: DatabaseConfig{
			Engine:     conf.GetString("database.engine"),
			Host:       conf.GetString("database.host"),
			Port:       conf.GetString("database.port"),
			Name:       conf.GetString("database.name"),
			User:       conf.GetString("database.user"),
			Password:   conf.GetString("database.password"),
			DisableTLS: conf.GetBool("database.disableTLS"),
		},
		Latency: LatencyConfig{
			Login:        conf.GetDuration("latency.login"),
			Register:     conf.GetDuration("latency.register"),
			Grading:      conf.GetDuration("latency.grading"),
			Presentation: conf.GetDuration("latency.presentation"),
		},
		Evaluator: strings.ToLower(conf.GetString("evaluator")),
		Gemini: GeminiConfig{
			APIKey: conf.GetString("gemini.apiKey"),
			Model:  conf.GetString("gemini.model"),
		},
	}
}

// NewTestConfig returns a Config suited for tests: no latency, in-memory session storage.
func NewTestConfig() *Config {
	return &Config{
		Env:                "TEST",
		Build:              "test",
		Debug:              false,
		TestMode:           true,
		AppName:            "SmartGrade",
		SecretKey:          "secret",
		JWTExpirationDelta: time.Hour,
		Server:             ServerConfig{Host: "localhost", ShutdownTimeout: time.Second},
		Session:            SessionConfig{Storage: StorageMemory},
		Evaluator:          EvaluatorMock,
	}
}
