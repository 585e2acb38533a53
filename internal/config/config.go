package config

import (
	"os"
	"path/filepath"
	"strconv"

	"remasep/internal/ingest"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath            string
	LogDir              string
	TemplatePath        string
	SheetName           string
	OutputDir           string
	ReportPrefix        string
	RejectedDisposition string
	Columns             ingest.Columns
	EnableMermaidCharts bool
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory first
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve Data Paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := filepath.Join(dataPath, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}

	defaults := ingest.DefaultColumns()
	cfg := &AppConfig{
		DataPath:            dataPath,
		LogDir:              logDir,
		TemplatePath:        getEnv("TEMPLATE_PATH", filepath.Join(dataPath, "en_blanco", "Urgencia.xlsx")),
		SheetName:           getEnv("TEMPLATE_SHEET", ""),
		OutputDir:           getEnv("OUTPUT_DIR", filepath.Join(dataPath, "reports")),
		ReportPrefix:        getEnv("REPORT_PREFIX", "REPORT"),
		RejectedDisposition: getEnv("REJECTED_DISPOSITION", "RECHAZO"),
		Columns: ingest.Columns{
			Age:         getEnv("COLUMN_AGE", defaults.Age),
			Admission:   getEnv("COLUMN_ADMISSION", defaults.Admission),
			Discharge:   getEnv("COLUMN_DISCHARGE", defaults.Discharge),
			Sex:         getEnv("COLUMN_SEX", defaults.Sex),
			Insurance:   getEnv("COLUMN_INSURANCE", defaults.Insurance),
			Diagnosis:   getEnv("COLUMN_DIAGNOSIS", defaults.Diagnosis),
			Triage:      getEnv("COLUMN_TRIAGE", defaults.Triage),
			Specialty:   getEnv("COLUMN_SPECIALTY", defaults.Specialty),
			Disposition: getEnv("COLUMN_DISPOSITION", defaults.Disposition),
		},
		EnableMermaidCharts: getEnvBool("ENABLE_MERMAID_CHARTS", false),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
