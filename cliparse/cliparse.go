package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Minimum voter handle secret length in bytes (HS256 key)
const minHandleSecretLen = 32

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	// Voter handles
	HandleSecret string
	HandleTTL    time.Duration

	// Credential hashing cost factor
	BcryptCost int

	// Connection pool
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration

	// Failed login limiter (disabled when RedisURL is empty)
	RedisURL         string
	LoginMaxAttempts int
	LoginCooldown    time.Duration

	// Candidate allowlist (empty accepts any label)
	Candidates []string
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile, candidates string

	fs := flag.NewFlagSet("quickly-vote", flag.ContinueOnError)

	fs.StringVar(&envFile, "env", ".env", "Path to dotenv file (ignored if missing)")

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.HandleSecret, "handle-secret", "", "Voter handle signing secret (prefer env)")
	fs.DurationVar(&cfg.HandleTTL, "handle-ttl", 0, "Voter handle lifetime")
	fs.IntVar(&cfg.BcryptCost, "bcrypt-cost", 0, "bcrypt cost factor")

	fs.IntVar(&cfg.MaxOpenConns, "max-open-conns", 0, "Max open database connections")
	fs.IntVar(&cfg.MaxIdleConns, "max-idle-conns", 0, "Max idle database connections")
	fs.DurationVar(&cfg.ConnMaxLifetime, "conn-max-lifetime", 0, "Max database connection lifetime")
	fs.DurationVar(&cfg.QueryTimeout, "query-timeout", 0, "Per-operation storage timeout")

	fs.StringVar(&cfg.RedisURL, "redis-url", "", "Redis URL for the login limiter")
	fs.IntVar(&cfg.LoginMaxAttempts, "login-max-attempts", 0, "Failed logins before lockout")
	fs.DurationVar(&cfg.LoginCooldown, "login-cooldown", 0, "Failed login window")

	fs.StringVar(&candidates, "candidates", "", "Comma-separated candidate allowlist")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// godotenv never overrides variables that are already set
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	var err error

	// Fall back to environment variables
	if cfg.Port, err = intSetting(cfg.Port, "PORT", 3318); err != nil {
		return Config{}, err
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	// Secrets - MUST be provided
	if cfg.HandleSecret == "" {
		cfg.HandleSecret = os.Getenv("VOTER_HANDLE_SECRET")
	}
	if cfg.HandleSecret == "" {
		return Config{}, errors.New("VOTER_HANDLE_SECRET required")
	}
	if len(cfg.HandleSecret) < minHandleSecretLen {
		return Config{}, fmt.Errorf("VOTER_HANDLE_SECRET must be at least %d bytes", minHandleSecretLen)
	}

	if cfg.HandleTTL, err = durationSetting(cfg.HandleTTL, "VOTER_HANDLE_TTL", 15*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.BcryptCost, err = intSetting(cfg.BcryptCost, "BCRYPT_COST", 12); err != nil {
		return Config{}, err
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return Config{}, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	if cfg.MaxOpenConns, err = intSetting(cfg.MaxOpenConns, "DB_MAX_OPEN_CONNS", 10); err != nil {
		return Config{}, err
	}
	if cfg.MaxIdleConns, err = intSetting(cfg.MaxIdleConns, "DB_MAX_IDLE_CONNS", 5); err != nil {
		return Config{}, err
	}
	if cfg.MaxIdleConns > cfg.MaxOpenConns {
		cfg.MaxIdleConns = cfg.MaxOpenConns
	}
	if cfg.ConnMaxLifetime, err = durationSetting(cfg.ConnMaxLifetime, "DB_CONN_MAX_LIFETIME", 30*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.QueryTimeout, err = durationSetting(cfg.QueryTimeout, "DB_QUERY_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}

	if cfg.RedisURL == "" {
		cfg.RedisURL = os.Getenv("REDIS_URL")
	}
	if cfg.LoginMaxAttempts, err = intSetting(cfg.LoginMaxAttempts, "LOGIN_MAX_ATTEMPTS", 5); err != nil {
		return Config{}, err
	}
	if cfg.LoginCooldown, err = durationSetting(cfg.LoginCooldown, "LOGIN_COOLDOWN", 15*time.Minute); err != nil {
		return Config{}, err
	}

	if candidates == "" {
		candidates = os.Getenv("CANDIDATES")
	}
	cfg.Candidates = splitList(candidates)

	return cfg, nil
}

// intSetting returns flagVal if set, else the env var, else def
func intSetting(flagVal int, env string, def int) (int, error) {
	if flagVal != 0 {
		if flagVal < 0 {
			return 0, fmt.Errorf("%s must be positive", env)
		}
		return flagVal, nil
	}
	s := os.Getenv(env)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s env variable", env)
	}
	return v, nil
}

func durationSetting(flagVal time.Duration, env string, def time.Duration) (time.Duration, error) {
	if flagVal != 0 {
		if flagVal < 0 {
			return 0, fmt.Errorf("%s must be positive", env)
		}
		return flagVal, nil
	}
	s := os.Getenv(env)
	if s == "" {
		return def, nil
	}
	v, err := time.ParseDuration(s)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s env variable", env)
	}
	return v, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
