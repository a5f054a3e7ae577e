package common

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/invoice-to-csv/constants"
)

// Config holds all application configuration
type Config struct {
	Invoice    InvoiceConfig
	Extract    ExtractConfig
	Output     OutputConfig
	Categories CategoriesConfig
	Ledger     LedgerConfig
	Log        LogConfig
}

// InvoiceConfig holds the vendor layout landmarks
type InvoiceConfig struct {
	StartAnchor string
	EndAnchor   string
	DateLabel   string
	OrderLabel  string
	ItemColumns string // quantity,unit,total token indexes
	Location    string
	Page        int
}

// ExtractConfig holds page-text extraction configuration
type ExtractConfig struct {
	Method    string // auto | pdftotext | native
	Pdftotext string
	Timeout   time.Duration
}

// OutputConfig holds output-file configuration
type OutputConfig struct {
	Dir string
}

// CategoriesConfig holds category classification configuration
type CategoriesConfig struct {
	File        string
	Default     string
	MaxAttempts int
}

// LedgerConfig holds database-related configuration for the processing ledger
type LedgerConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
	JSON  bool
}

// Extraction methods.
const (
	ExtractAuto      = "auto"
	ExtractPdftotext = "pdftotext"
	ExtractNative    = "native"
)

// LoadDotEnv loads KEY=VALUE pairs from the given files (default ".env") into the
// process environment. Missing files are ignored; variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return NewAppError(CodeConfig, "load "+f, err)
		}
	}
	return nil
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Invoice: InvoiceConfig{
			StartAnchor: getEnv("INVOICE_START_ANCHOR", "Billable  Products & Other Charges"),
			EndAnchor:   getEnv("INVOICE_END_ANCHOR", "Total"),
			DateLabel:   getEnv("INVOICE_DATE_LABEL", "BCB Homes"),
			OrderLabel:  getEnv("INVOICE_ORDER_LABEL", "Service Request Number"),
			ItemColumns: getEnv("INVOICE_ITEM_COLUMNS", "0,1,2"),
			Location:    getEnv("ASSET_LOCATION", constants.DefaultLocation),
			Page:        getEnvAsInt("INVOICE_PAGE", 1),
		},
		Extract: ExtractConfig{
			Method:    strings.ToLower(getEnv("EXTRACT_METHOD", ExtractAuto)),
			Pdftotext: getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Timeout:   getEnvAsDuration("EXTRACT_TIMEOUT", 30*time.Second),
		},
		Output: OutputConfig{
			Dir: getEnv("OUTPUT_DIR", "."),
		},
		Categories: CategoriesConfig{
			File:        getEnv("CATEGORIES_FILE", ""),
			Default:     getEnv("CATEGORY_DEFAULT", ""),
			MaxAttempts: getEnvAsInt("CATEGORY_MAX_ATTEMPTS", 3),
		},
		Ledger: LedgerConfig{
			DSN:              getEnv("LEDGER_DSN", ""),
			MaxConns:         getEnvAsInt32("LEDGER_MAX_CONNS", 4),
			MinConns:         getEnvAsInt32("LEDGER_MIN_CONNS", 1),
			MaxConnLifetime:  getEnvAsDuration("LEDGER_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("LEDGER_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("LEDGER_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("LEDGER_STATEMENT_TIMEOUT", 0),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			JSON:  getEnvAsBool("LOG_JSON", false),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Invoice.StartAnchor) == "" || strings.TrimSpace(c.Invoice.EndAnchor) == "" {
		return NewAppError(CodeConfig, "INVOICE_START_ANCHOR and INVOICE_END_ANCHOR are required", ErrInvalidInput)
	}
	if strings.TrimSpace(c.Invoice.DateLabel) == "" || strings.TrimSpace(c.Invoice.OrderLabel) == "" {
		return NewAppError(CodeConfig, "INVOICE_DATE_LABEL and INVOICE_ORDER_LABEL are required", ErrInvalidInput)
	}
	if strings.ContainsAny(c.Invoice.Location, ",\n") {
		return NewAppError(CodeConfig, "ASSET_LOCATION must not contain commas or line breaks", ErrInvalidInput)
	}
	if c.Invoice.Page < 1 {
		return NewAppError(CodeConfig, "INVOICE_PAGE must be >= 1", ErrInvalidInput)
	}
	switch c.Extract.Method {
	case ExtractAuto, ExtractPdftotext, ExtractNative:
	default:
		return NewAppError(CodeConfig, "EXTRACT_METHOD must be one of auto|pdftotext|native", ErrInvalidInput)
	}
	if c.Extract.Timeout <= 0 {
		return NewAppError(CodeConfig, "EXTRACT_TIMEOUT must be positive", ErrInvalidInput)
	}
	if c.Categories.MaxAttempts < 1 {
		return NewAppError(CodeConfig, "CATEGORY_MAX_ATTEMPTS must be >= 1", ErrInvalidInput)
	}
	return nil
}
