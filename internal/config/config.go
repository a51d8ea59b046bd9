package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	StoreModeMemory   = "memory"
	StoreModeBadger   = "badger"
	StoreModePostgres = "postgres"
	StoreModeS3       = "s3"
	StoreModeAuto     = "auto"
)

// DefaultNamespace prefixes every persisted key. Bump the version when the
// stored JSON shape changes incompatibly.
const DefaultNamespace = "mealsim.v1"

type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	MaxWritesPerSec int // 0 disables write throttling
}

func (c S3Config) MissingRequired() []string {
	missing := make([]string, 0, 5)
	if strings.TrimSpace(c.Endpoint) == "" {
		missing = append(missing, "S3_ENDPOINT")
	}
	if strings.TrimSpace(c.Region) == "" {
		missing = append(missing, "S3_REGION")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		missing = append(missing, "S3_BUCKET")
	}
	if strings.TrimSpace(c.AccessKeyID) == "" {
		missing = append(missing, "S3_ACCESS_KEY_ID")
	}
	if strings.TrimSpace(c.SecretAccessKey) == "" {
		missing = append(missing, "S3_SECRET_ACCESS_KEY")
	}
	return missing
}

func (c S3Config) IsConfigured() bool {
	return len(c.MissingRequired()) == 0
}

func (c S3Config) Diagnostics() (level string, code string, msg string) {
	allEmpty := strings.TrimSpace(c.Endpoint) == "" &&
		strings.TrimSpace(c.Region) == "" &&
		strings.TrimSpace(c.Bucket) == "" &&
		strings.TrimSpace(c.AccessKeyID) == "" &&
		strings.TrimSpace(c.SecretAccessKey) == ""

	if allEmpty {
		return "INFO", "s3_not_configured", "not configured (all empty)"
	}

	missing := c.MissingRequired()
	if len(missing) > 0 {
		return "WARN", "s3_partial_config", fmt.Sprintf("partial config, missing=%v", missing)
	}

	return "INFO", "s3_ready", "ready"
}

// DiagnosticsSummary returns a detailed summary for logging (no secrets)
func (c S3Config) DiagnosticsSummary() string {
	return fmt.Sprintf("endpoint=%s region=%s bucket=%s max_writes_per_sec=%d access_key_id=%s secret_access_key=%s",
		nonEmptyOrDash(c.Endpoint),
		nonEmptyOrDash(c.Region),
		nonEmptyOrDash(c.Bucket),
		c.MaxWritesPerSec,
		setOrNot(c.AccessKeyID),
		setOrNot(c.SecretAccessKey),
	)
}

type BadgerConfig struct {
	Path       string // empty means in-memory
	SyncWrites bool
}

// StoreConfig selects where the persisted state lives.
type StoreConfig struct {
	Mode        string // memory|badger|postgres|s3|auto
	Namespace   string
	DatabaseURL string
	Badger      BadgerConfig
	S3          S3Config
}

// ResolveMode turns auto into a concrete mode: postgres when a database is
// configured, then s3, then badger when a path is set, else memory.
func (c StoreConfig) ResolveMode() string {
	if c.Mode != StoreModeAuto {
		return c.Mode
	}
	switch {
	case c.DatabaseURL != "":
		return StoreModePostgres
	case c.S3.IsConfigured():
		return StoreModeS3
	case c.Badger.Path != "":
		return StoreModeBadger
	default:
		return StoreModeMemory
	}
}

type Config struct {
	Env      string // local | staging | production
	LogLevel string

	// Database
	DatabaseURL       string // runtime connection (resolved: pooled > url > direct)
	DatabaseURLRaw    string // DATABASE_URL as provided
	DatabaseURLPooled string // DATABASE_URL_POOLED as provided
	DatabaseURLDirect string // for migrations / DDL (may be empty)

	RunMigrationsOnStartup bool

	Store StoreConfig

	SavesCapacity   int
	CatalogSeedPath string // YAML catalog used instead of the built-in one
}

// Load reads the configuration from environment variables.
func Load() *Config {
	// APP_ENV (fallback to ENV, default: local)
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = os.Getenv("ENV")
	}
	if env == "" {
		env = "local"
	}

	// LOG_LEVEL (default: info)
	logLevel := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if logLevel == "" {
		logLevel = "info"
	}

	// ---------- Database ----------
	// Priority: DATABASE_URL_POOLED > DATABASE_URL > DATABASE_URL_DIRECT
	dbPooled := strings.TrimSpace(os.Getenv("DATABASE_URL_POOLED"))
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	dbDirect := strings.TrimSpace(os.Getenv("DATABASE_URL_DIRECT"))

	runtimeDB := dbPooled
	if runtimeDB == "" {
		runtimeDB = dbURL
	}
	if runtimeDB == "" {
		runtimeDB = dbDirect
	}

	runMigrationsOnStartup := parseBoolEnv("RUN_MIGRATIONS_ON_STARTUP")

	// ---------- Store ----------
	storeMode := parseStoreMode("STORE_MODE", StoreModeAuto)

	namespace := strings.Trim(strings.TrimSpace(os.Getenv("STORE_NAMESPACE")), "/")
	if namespace == "" {
		namespace = DefaultNamespace
	}

	// S3_MAX_WRITES_PER_SEC (default: 0 = unlimited)
	s3MaxWrites := envInt("S3_MAX_WRITES_PER_SEC", 0)
	if s3MaxWrites < 0 {
		s3MaxWrites = 0
	}

	s3Cfg := S3Config{
		Endpoint:        strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
		Region:          strings.TrimSpace(os.Getenv("S3_REGION")),
		Bucket:          strings.TrimSpace(os.Getenv("S3_BUCKET")),
		AccessKeyID:     strings.TrimSpace(os.Getenv("S3_ACCESS_KEY_ID")),
		SecretAccessKey: strings.TrimSpace(os.Getenv("S3_SECRET_ACCESS_KEY")),
		MaxWritesPerSec: s3MaxWrites,
	}

	badgerCfg := BadgerConfig{
		Path:       strings.TrimSpace(os.Getenv("BADGER_PATH")),
		SyncWrites: envBool("BADGER_SYNC_WRITES", true),
	}

	// SAVES_CAPACITY (default: 50, enforce > 0)
	savesCapacity := envInt("SAVES_CAPACITY", 50)
	if savesCapacity <= 0 {
		log.Printf("WARNING: SAVES_CAPACITY=%d is not positive, fallback to 50", savesCapacity)
		savesCapacity = 50
	}

	return &Config{
		Env:               env,
		LogLevel:          logLevel,
		DatabaseURL:       runtimeDB,
		DatabaseURLRaw:    dbURL,
		DatabaseURLPooled: dbPooled,
		DatabaseURLDirect: dbDirect,

		RunMigrationsOnStartup: runMigrationsOnStartup,

		Store: StoreConfig{
			Mode:        storeMode,
			Namespace:   namespace,
			DatabaseURL: runtimeDB,
			Badger:      badgerCfg,
			S3:          s3Cfg,
		},

		SavesCapacity:   savesCapacity,
		CatalogSeedPath: strings.TrimSpace(os.Getenv("CATALOG_SEED_PATH")),
	}
}

func parseStoreMode(key string, defaultVal string) string {
	mode := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if mode == "" {
		return defaultVal
	}
	switch mode {
	case StoreModeMemory, StoreModeBadger, StoreModePostgres, StoreModeS3, StoreModeAuto:
		return mode
	default:
		log.Printf("WARNING: unknown %s=%q, fallback to %s", key, mode, defaultVal)
		return defaultVal
	}
}

// envInt reads an int env var with a default value.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// envBool is parseBoolEnv with a default for unset variables.
func envBool(key string, defaultVal bool) bool {
	if strings.TrimSpace(os.Getenv(key)) == "" {
		return defaultVal
	}
	return parseBoolEnv(key)
}

func parseBoolEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func nonEmptyOrDash(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "-"
	}
	return v
}

func setOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}
