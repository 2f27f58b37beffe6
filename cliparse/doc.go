// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Precedence

CLI flags win over environment variables. Environment variables are seeded
from a dotenv file (-env, default ".env") without overriding anything that is
already set. A missing dotenv file is not an error.

# Settings

	-p                  PORT                  (default: 3318)
	-d                  DATABASE_URL          (required)
	-t                  DATABASE_TYPE         sqlite | postgres (default: sqlite)
	-handle-secret      VOTER_HANDLE_SECRET   (required, at least 32 bytes)
	-handle-ttl         VOTER_HANDLE_TTL      (default: 15m)
	-bcrypt-cost        BCRYPT_COST           (default: 12)
	-max-open-conns     DB_MAX_OPEN_CONNS     (default: 10)
	-max-idle-conns     DB_MAX_IDLE_CONNS     (default: 5)
	-conn-max-lifetime  DB_CONN_MAX_LIFETIME  (default: 30m)
	-query-timeout      DB_QUERY_TIMEOUT      (default: 5s)
	-redis-url          REDIS_URL             (empty disables the login limiter)
	-login-max-attempts LOGIN_MAX_ATTEMPTS    (default: 5)
	-login-cooldown     LOGIN_COOLDOWN        (default: 15m)
	-candidates         CANDIDATES            (comma-separated; empty accepts any label)

# Validation

ParseFlags returns an error if required values are missing, a number or
duration does not parse, the database type is unknown, or the bcrypt cost is
outside the range the bcrypt package accepts.
*/
package cliparse
