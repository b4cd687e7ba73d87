// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/diewo77/go-quotations/internal/models"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	App       AppConfig
	Quotation QuotationConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// DatabaseConfig holds archive database settings.
type DatabaseConfig struct {
	Driver   string // "sqlite" or "postgres"
	Path     string // sqlite file
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev        bool
	Migrations bool
	Lang       string
}

// QuotationConfig describes the companies of a bulk quotation and the
// engine knobs.
type QuotationConfig struct {
	Source     models.Company
	Dependents []DependentConfig

	TaxRate       float64
	MinAdjustment float64
	MaxAdjustment float64

	PriceKeys      []string
	QtyKeys        []string
	SubstringMatch bool
}

// DependentConfig is one dependent company and its default markup.
type DependentConfig struct {
	Company           models.Company
	AdjustmentPercent float64
}

// DSN returns the connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		return d.Path
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load reads an optional .env file, then configuration from environment
// variables. It uses sensible defaults for local development.
func Load() *Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads configuration from environment variables only.
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "sqlite"),
			Path:     getEnv("DB_PATH", "quotations.db"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "quotations"),
			Password: getEnv("DB_PASSWORD", "quotations123"),
			DBName:   getEnv("DB_NAME", "quotations"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		App: AppConfig{
			Dev:        getEnvBool("DEV", true),
			Migrations: getEnvBool("MIGRATIONS", true),
			Lang:       getEnv("LANG_DEFAULT", "fr"),
		},
		Quotation: QuotationConfig{
			Source: company("SOURCE", "gtc", "GTC"),
			Dependents: []DependentConfig{
				{Company: company("DEPENDENT1", "gdc", "GDC"), AdjustmentPercent: getEnvFloat("DEPENDENT1_ADJUSTMENT", 0)},
				{Company: company("DEPENDENT2", "rudharma", "Rudharma"), AdjustmentPercent: getEnvFloat("DEPENDENT2_ADJUSTMENT", 0)},
			},
			TaxRate:        getEnvFloat("QUOTE_TAX_RATE", 18),
			MinAdjustment:  getEnvFloat("ADJUSTMENT_MIN", -100),
			MaxAdjustment:  getEnvFloat("ADJUSTMENT_MAX", 1000),
			PriceKeys:      getEnvList("PRICE_COLUMNS", []string{"price", "rate"}),
			QtyKeys:        getEnvList("QTY_COLUMNS", []string{"qty", "quantity"}),
			SubstringMatch: getEnvBool("COLUMN_SUBSTRING_MATCH", true),
		},
	}
}

// company reads one company's presentation settings under prefix.
func company(prefix, defID, defName string) models.Company {
	return models.Company{
		ID:           models.EntityID(getEnv(prefix+"_ID", defID)),
		Name:         getEnv(prefix+"_NAME", defName),
		Address:      getEnv(prefix+"_ADDRESS", ""),
		Phone:        getEnv(prefix+"_PHONE", ""),
		Email:        getEnv(prefix+"_EMAIL", ""),
		GSTIN:        getEnv(prefix+"_GSTIN", ""),
		NumberPrefix: getEnv(prefix+"_NUMBER_PREFIX", strings.ToUpper(defID)+"/"),
		AccentColor:  getEnv(prefix+"_COLOR", "#1f4e79"),
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}

// getEnvList splits a comma-separated variable, dropping empty entries.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
