package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

const (
	defaultDatabaseDriver = "sqlite"
	defaultRedisAddr      = "localhost:6379"
	defaultAppPort        = "8080"
	defaultAppEnv         = "local"
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

// Load reads configuration from config/app.json and .env (in that order,
// later sources win) plus the process environment. It is safe to call from
// multiple goroutines; only the first call does any work.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadSources("config/app.json", ".env")
	})
	return loadErr
}

// MustLoad loads configuration and verifies the variables the application
// cannot run without. DATABASE_DSN (the backend endpoint) and APP_KEY (the
// signing key) have no usable defaults: their absence is a startup error.
func MustLoad() error {
	if err := Load(); err != nil {
		return err
	}
	if get("DATABASE_DSN", "") == "" {
		return fmt.Errorf("config: DATABASE_DSN is not set (add it to .env or the environment)")
	}
	if get("APP_KEY", "") == "" {
		return fmt.Errorf("config: APP_KEY is not set (add it to .env or the environment)")
	}
	return nil
}

func defaultValues() map[string]string {
	return map[string]string{
		"DB_DRIVER":      defaultDatabaseDriver,
		"DATABASE_DSN":   "",
		"APP_KEY":        "",
		"APP_PORT":       defaultAppPort,
		"APP_ENV":        defaultAppEnv,
		"REDIS_ADDR":     defaultRedisAddr,
		"REDIS_PASSWORD": "",
	}
}

// ── Core ─────────────────────────────────────────────────────────────────────

func DatabaseDriver() string {
	_ = Load()

	driver := strings.ToLower(get("DB_DRIVER", defaultDatabaseDriver))
	switch driver {
	case "sqlite", "postgres", "mysql", "sqlserver":
		return driver
	default:
		return defaultDatabaseDriver
	}
}

func DatabaseDSN() string {
	_ = Load()
	return get("DATABASE_DSN", "")
}

// AppKey is the application signing key. JWTs and the cart-token cookie are
// both keyed off this value.
func AppKey() string {
	_ = Load()
	return get("APP_KEY", "")
}

func AppPort() string {
	_ = Load()
	return get("APP_PORT", defaultAppPort)
}

func AppEnv() string {
	_ = Load()
	return get("APP_ENV", defaultAppEnv)
}

func RedisAddr() string {
	_ = Load()
	return get("REDIS_ADDR", defaultRedisAddr)
}

func RedisPassword() string {
	_ = Load()
	return get("REDIS_PASSWORD", "")
}

// ── Storage ──────────────────────────────────────────────────────────────────

func StorageDefault() string {
	_ = Load()
	return get("STORAGE_DISK", "local")
}

func StorageLocalRoot() string {
	_ = Load()
	return get("STORAGE_LOCAL_ROOT", "storage")
}

func StorageURL() string {
	_ = Load()
	return get("STORAGE_URL", "http://localhost:8080/storage")
}

func StorageS3Bucket() string   { _ = Load(); return get("S3_BUCKET", "") }
func StorageS3Region() string   { _ = Load(); return get("S3_REGION", "us-east-1") }
func StorageS3Key() string      { _ = Load(); return get("S3_KEY", "") }
func StorageS3Secret() string   { _ = Load(); return get("S3_SECRET", "") }
func StorageS3Endpoint() string { _ = Load(); return get("S3_ENDPOINT", "") }
func StorageS3URL() string      { _ = Load(); return get("S3_URL", "") }

// ── Optional services ────────────────────────────────────────────────────────

// KafkaBrokers returns the comma-separated broker list for the order event
// stream, or "" when event publishing is disabled.
func KafkaBrokers() string { _ = Load(); return get("KAFKA_BROKERS", "") }

func KafkaOrderTopic() string { _ = Load(); return get("KAFKA_ORDER_TOPIC", "angotech.orders") }

// GRPCPort returns the gRPC health-check listener port, or "" when disabled.
func GRPCPort() string { _ = Load(); return get("GRPC_PORT", "") }

// LogMongoURI enables the async MongoDB log sink when non-empty.
func LogMongoURI() string        { _ = Load(); return get("LOG_MONGO_URI", "") }
func LogMongoDatabase() string   { _ = Load(); return get("LOG_MONGO_DB", "angotech") }
func LogMongoCollection() string { _ = Load(); return get("LOG_MONGO_COLLECTION", "logs") }

// Get reads any config key by name with an optional fallback.
// Keys from .env and app.json are available after config.Load().
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}

// ── Loading machinery ────────────────────────────────────────────────────────

func loadSources(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	// Process environment wins over files.
	for key := range loaded {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			loaded[key] = v
		}
	}

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		s, ok := val.(string)
		if !ok {
			continue
		}

		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(s)
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}

		key := strings.ToUpper(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}
		out[key] = value
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	return nil
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

// Set overrides a config value at runtime. Intended for tests.
func Set(key, value string) {
	mu.Lock()
	values[strings.ToUpper(key)] = value
	mu.Unlock()
}
