package core

import (
	"fmt"
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug    bool
		TestMode bool
		Env      string // DEV (default), TEST, QA, PROD
		Build    string
		AppName  string

		SecretKey        string
		FrontendBaseURL  string
		DefaultFromEmail mail.Address
		SendgridAPIKey   string
		RollbarToken     string

		Server   ServerConfig
		Database DatabaseConfig
		Redis    RedisConfig
	}

	ServerConfig struct {
		Host                      string
		Address                   string
		DebugHost                 string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		Port          string
		DisableTLS    bool
	}

	RedisConfig struct {
		URL      string
		StatsTTL time.Duration
	}
)

func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// NewConfig loads the app configuration from the environment,
// sourcing a `config/.env.<env>` file first if one exists.
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Shule")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "w3&yn-#7m2(h!x)4c2(#yg4h^$ceqm2emy+57=dz&uoxh2poq5")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverAddress", ":8000")
	v.SetDefault("serverDebugHost", ":4000")
	v.SetDefault("shutdownTimeout", 5*time.Second)
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)
	v.SetDefault("dbEngine", "postgres")
	v.SetDefault("dbName", "shule")
	v.SetDefault("dbHost", "localhost")
	v.SetDefault("dbPort", "5432")
	v.SetDefault("dbDisableTLS", true)
	v.SetDefault("redisStatsTTL", 30*time.Second)

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Debug:    v.GetBool("debug"),
		TestMode: env == "TEST",
		Env:      env,
		Build:    v.GetString("build"),
		AppName:  v.GetString("appName"),

		SecretKey:       v.GetString("secretKey"),
		FrontendBaseURL: v.GetString("frontendBaseURL"),
		DefaultFromEmail: mail.Address{
			Name:    v.GetString("appName"),
			Address: v.GetString("defaultFromEmail"),
		},
		SendgridAPIKey: v.GetString("sendgridAPIKey"),
		RollbarToken:   v.GetString("rollbarToken"),

		Server: ServerConfig{
			Host:                      v.GetString("serverHost"),
			Address:                   v.GetString("serverAddress"),
			DebugHost:                 v.GetString("serverDebugHost"),
			ShutdownTimeout:           v.GetDuration("shutdownTimeout"),
			JWTExpirationDelta:        v.GetDuration("jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("jwtRefreshExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("dbEngine"),
			Name:          v.GetString("dbName"),
			User:          v.GetString("dbUser"),
			Password:      v.GetString("dbPassword"),
			AdminUser:     v.GetString("dbAdminUser"),
			AdminPassword: v.GetString("dbAdminPassword"),
			Host:          v.GetString("dbHost"),
			Port:          v.GetString("dbPort"),
			DisableTLS:    v.GetBool("dbDisableTLS"),
		},
		Redis: RedisConfig{
			URL:      v.GetString("redisURL"),
			StatsTTL: v.GetDuration("redisStatsTTL"),
		},
	}
	if conf.TestMode {
		conf.Debug = false
	}
	return conf
}

func (c *Config) String() string {
	return fmt.Sprintf("%s (%s build %s)", c.AppName, c.Env, c.Build)
}
