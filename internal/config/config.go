package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DataDir    string
	DBPath     string
	RawMailDir string
	OutputDir  string
	VocabDir   string
	BackupDir  string

	DefaultCollection string
	FuzzyThreshold    float64

	OCRExportBaseURL  string
	OCRExportToken    string
	OCRExportRPS      int
	OCRExportTimeout  int
	OCRExportPageSize int

	GmailClientID     string
	GmailClientSecret string
	GmailRedirectURI  string
	GmailRefreshToken string
	GmailSearchQuery  string

	IMAPHost     string
	IMAPPort     int
	IMAPSecure   bool
	IMAPUser     string
	IMAPPassword string
	IMAPMarkSeen bool

	ScanListenerProvider     string
	ScanListenerLabel        string
	ScanListenerIntervalSec  int
	ScanListenerFetchMax     int
	ScanListenerProcessBatch int
	ScanListenerAutoExport   bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	dataDir := getEnv("DATA_DIR", filepath.Join(cwd, "data"))

	cfg := Config{
		DataDir:    dataDir,
		DBPath:     getEnv("DB_PATH", filepath.Join(dataDir, "lookbook.db")),
		RawMailDir: getEnv("MAIL_RAW_DIR", filepath.Join(dataDir, "raw")),
		OutputDir:  getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),
		VocabDir:   getEnv("VOCAB_DIR", filepath.Join(dataDir, "vocab")),
		BackupDir:  getEnv("BACKUP_DIR", filepath.Join(dataDir, "backups")),

		DefaultCollection: getEnv("DEFAULT_COLLECTION", "summer"),
		FuzzyThreshold:    getEnvFloat("SEARCH_FUZZY_THRESHOLD", 0.6),

		OCRExportBaseURL:  getEnv("OCR_EXPORT_BASE_URL", ""),
		OCRExportToken:    getEnv("OCR_EXPORT_TOKEN", ""),
		OCRExportRPS:      getEnvInt("OCR_EXPORT_RATE_LIMIT_RPS", 5),
		OCRExportTimeout:  getEnvInt("OCR_EXPORT_TIMEOUT_MS", 30000),
		OCRExportPageSize: getEnvInt("OCR_EXPORT_PAGE_SIZE", 50),

		GmailClientID:     getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailRedirectURI:  getEnv("GMAIL_REDIRECT_URI", "https://developers.google.com/oauthplayground"),
		GmailRefreshToken: getEnv("GMAIL_REFRESH_TOKEN", ""),
		GmailSearchQuery:  getEnv("GMAIL_SEARCH_QUERY", ""),

		IMAPHost:     getEnv("IMAP_HOST", ""),
		IMAPPort:     getEnvInt("IMAP_PORT", 993),
		IMAPSecure:   getEnvBool("IMAP_SECURE", true),
		IMAPUser:     getEnv("IMAP_USER", ""),
		IMAPPassword: getEnv("IMAP_PASSWORD", ""),
		IMAPMarkSeen: getEnvBool("IMAP_MARK_SEEN", false),

		ScanListenerProvider:     getEnv("SCAN_LISTENER_PROVIDER", "gmail"),
		ScanListenerLabel:        getEnv("SCAN_LISTENER_LABEL", "INBOX"),
		ScanListenerIntervalSec:  getEnvInt("SCAN_LISTENER_INTERVAL_SEC", 60),
		ScanListenerFetchMax:     getEnvInt("SCAN_LISTENER_FETCH_MAX", 20),
		ScanListenerProcessBatch: getEnvInt("SCAN_LISTENER_PROCESS_BATCH", 20),
		ScanListenerAutoExport:   getEnvBool("SCAN_LISTENER_AUTO_EXPORT", true),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
