package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/americascouted/ncaa-stats/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	DataDir           string
	LogosDir          string
	DivisionTablePath string

	CacheEnabled bool
	CacheTTL     time.Duration

	CORSAllowedOrigins []string

	PprofEnabled bool
	PprofAddr    string

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	NCAABaseURL               string
	NCAATimeout               time.Duration
	NCAAMaxRetries            int
	NCAACircuitEnabled        bool
	NCAACircuitFailureCount   int
	NCAACircuitOpenTimeout    time.Duration
	NCAACircuitHalfOpenMaxReq int

	CollectorWorkers int

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	ncaaTimeout, err := time.ParseDuration(getEnv("NCAA_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NCAA_TIMEOUT: %w", err)
	}
	if ncaaTimeout <= 0 {
		return Config{}, fmt.Errorf("NCAA_TIMEOUT must be > 0")
	}
	ncaaMaxRetries, err := getEnvAsInt("NCAA_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse NCAA_MAX_RETRIES: %w", err)
	}
	if ncaaMaxRetries < 0 {
		return Config{}, fmt.Errorf("NCAA_MAX_RETRIES must be >= 0")
	}
	ncaaCircuitEnabled, err := strconv.ParseBool(getEnv("NCAA_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NCAA_CIRCUIT_ENABLED: %w", err)
	}
	ncaaCircuitFailureCount, err := getEnvAsInt("NCAA_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse NCAA_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if ncaaCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("NCAA_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	ncaaCircuitOpenTimeout, err := time.ParseDuration(getEnv("NCAA_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NCAA_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if ncaaCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("NCAA_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	ncaaCircuitHalfOpenMaxReq, err := getEnvAsInt("NCAA_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse NCAA_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if ncaaCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("NCAA_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	collectorWorkers, err := getEnvAsInt("COLLECTOR_WORKERS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse COLLECTOR_WORKERS: %w", err)
	}
	if collectorWorkers < 1 {
		return Config{}, fmt.Errorf("COLLECTOR_WORKERS must be >= 1")
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("APP_SERVICE_NAME", "ncaa-stats-api"),
		ServiceVersion: getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,

		DataDir:           getEnv("DATA_DIR", "data"),
		LogosDir:          getEnv("LOGOS_DIR", "static/logos"),
		DivisionTablePath: strings.TrimSpace(getEnv("DIVISION_TABLE_PATH", "")),

		CacheEnabled: cacheEnabled,
		CacheTTL:     cacheTTL,

		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		PprofEnabled: pprofEnabled,
		PprofAddr:    pprofAddr,

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,

		NCAABaseURL:               getEnv("NCAA_BASE_URL", "https://data.ncaa.com/casablanca"),
		NCAATimeout:               ncaaTimeout,
		NCAAMaxRetries:            ncaaMaxRetries,
		NCAACircuitEnabled:        ncaaCircuitEnabled,
		NCAACircuitFailureCount:   ncaaCircuitFailureCount,
		NCAACircuitOpenTimeout:    ncaaCircuitOpenTimeout,
		NCAACircuitHalfOpenMaxReq: ncaaCircuitHalfOpenMaxReq,

		CollectorWorkers: collectorWorkers,

		LogLevel: parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}

	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		return Config{}, fmt.Errorf("DATA_DIR cannot be empty")
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
