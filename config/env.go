// Package config resolves runtime settings for the teahouse server.
//
// Values are layered, lowest precedence first:
//
//	built-in defaults → config/app.json → .env → process environment
//
// Every getter calls Load lazily, so callers never need to remember to.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort           = "4000"
	defaultAppEnv         = "local"
	defaultLogLevel       = "debug"
	defaultMongoDatabase  = "teahouse"
	defaultMongoTimeout   = 5 * time.Second
	defaultOrdersCacheTTL = 30 * time.Second
	defaultCurrencySymbol = "₹"
	defaultNotifyWorkers  = 4
	defaultMaxBodyBytes   = 1 << 20
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

// Load reads config/app.json and .env from the working directory once.
// Missing files are not an error.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

func defaultValues() map[string]string {
	return map[string]string{
		"PORT":            defaultPort,
		"APP_ENV":         defaultAppEnv,
		"LOG_LEVEL":       defaultLogLevel,
		"MONGO_DB":        defaultMongoDatabase,
		"CURRENCY_SYMBOL": defaultCurrencySymbol,
		"CORS_ORIGINS":    "*",
	}
}

func Port() string     { _ = Load(); return get("PORT", defaultPort) }
func AppEnv() string   { _ = Load(); return get("APP_ENV", defaultAppEnv) }
func LogLevel() string { _ = Load(); return get("LOG_LEVEL", defaultLogLevel) }

// IsProduction reports whether APP_ENV names a production deployment.
func IsProduction() bool {
	switch strings.ToLower(AppEnv()) {
	case "production", "prod":
		return true
	}
	return false
}

// ── Storage ──────────────────────────────────────────────────────────────────

// MongoURL is the document-store connection string. Empty means the
// in-memory order store is used.
func MongoURL() string { _ = Load(); return get("MONGO_URL", "") }

func MongoDatabase() string { _ = Load(); return get("MONGO_DB", defaultMongoDatabase) }

func MongoTimeout() time.Duration {
	_ = Load()
	return getDuration("MONGO_TIMEOUT", defaultMongoTimeout)
}

// RedisAddr enables the order listing cache when non-empty.
func RedisAddr() string     { _ = Load(); return get("REDIS_ADDR", "") }
func RedisPassword() string { _ = Load(); return get("REDIS_PASSWORD", "") }

func OrdersCacheTTL() time.Duration {
	_ = Load()
	return getDuration("ORDERS_CACHE_TTL", defaultOrdersCacheTTL)
}

// ── Notifications ────────────────────────────────────────────────────────────

// NotifyRecipient is the operator address for new-order mail. It falls back
// to the sender identity when ORDER_NOTIFY_TO is unset.
func NotifyRecipient() string {
	_ = Load()
	return get("ORDER_NOTIFY_TO", get("MAIL_USERNAME", ""))
}

func CurrencySymbol() string { _ = Load(); return get("CURRENCY_SYMBOL", defaultCurrencySymbol) }

func NotifyWorkers() int { _ = Load(); return getInt("NOTIFY_WORKERS", defaultNotifyWorkers) }

// ── HTTP ─────────────────────────────────────────────────────────────────────

func MaxBodyBytes() int64 {
	_ = Load()
	return int64(getInt("MAX_BODY_BYTES", defaultMaxBodyBytes))
}

// CORSOrigins splits CORS_ORIGINS on commas.
func CORSOrigins() []string {
	_ = Load()
	var out []string
	for _, o := range strings.Split(get("CORS_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Get reads any config key by name with a fallback.
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}

func loadFromFiles(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil && !os.IsNotExist(err) {
		return err
	}

	env, err := godotenv.Read(envPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read %s: %w", envPath, err)
	}
	for k, v := range env {
		loaded[strings.ToUpper(strings.TrimSpace(k))] = strings.TrimSpace(v)
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
		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		switch v := val.(type) {
		case string:
			out[k] = strings.TrimSpace(v)
		case float64:
			out[k] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(v)
		}
	}

	return nil
}

// get resolves key from the process environment first, then the loaded
// file values.
func get(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}

	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(get(key, ""))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := get(key, "")
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
