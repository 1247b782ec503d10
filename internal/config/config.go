package config

import (
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Admin    AdminConfig
	Lottery  LotteryConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int // seconds
}

// AdminConfig holds the password admins exchange for an admin token
type AdminConfig struct {
	Password string
}

// LotteryConfig holds the lottery business parameters
type LotteryConfig struct {
	TicketPrice      float64
	StartingBalance  float64
	NumbersPerTicket int
	NumberMin        int
	NumberMax        int
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// It's okay if the config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "8080")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "lotterysystem")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("Admin.Password", "admin123")
	viper.SetDefault("Lottery.TicketPrice", 10.0)
	viper.SetDefault("Lottery.StartingBalance", 100.0)
	viper.SetDefault("Lottery.NumbersPerTicket", 5)
	viper.SetDefault("Lottery.NumberMin", 1)
	viper.SetDefault("Lottery.NumberMax", 100)
	viper.SetDefault("LogLevel", "info")
}
