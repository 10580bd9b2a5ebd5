package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadPriority(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"server":{"address":":9000"},"database":{"dbname":"from_file","port":3307},"env":"staging"}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config failed: %v", err)
	}

	t.Setenv("APP_CONFIG", path)
	t.Setenv("DB_PORT", "3310")
	t.Setenv("JWT_ALGORITHM", " hs512 ")
	t.Setenv("JWT_EXPIRATION", "2h")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg := Load()

	if cfg.Server.Address != ":9000" {
		t.Fatalf("expected address from file, got %q", cfg.Server.Address)
	}
	if cfg.Database.DBName != "from_file" {
		t.Fatalf("expected dbname from file, got %q", cfg.Database.DBName)
	}
	if cfg.Database.Port != 3310 {
		t.Fatalf("env should override file, got %d", cfg.Database.Port)
	}
	if cfg.Database.Username != "root" {
		t.Fatalf("unset fields keep defaults, got %q", cfg.Database.Username)
	}
	if cfg.Middleware.JWT.SigningMethod != "HS512" || cfg.Middleware.JWT.ExpireDuration != 2*time.Hour {
		t.Fatalf("unexpected jwt config: %+v", cfg.Middleware.JWT)
	}
	if got := cfg.Middleware.CORS.AllowOrigins; len(got) != 2 || got[1] != "https://b.example.com" {
		t.Fatalf("unexpected cors origins: %v", got)
	}
	if cfg.IsProd() {
		t.Fatalf("staging is not production")
	}
}

func TestLoadRejectsUnknownJWTAlgorithm(t *testing.T) {
	t.Setenv("APP_CONFIG", filepath.Join(t.TempDir(), "missing.json"))
	t.Setenv("JWT_ALGORITHM", "RS256")

	if cfg := Load(); cfg.Middleware.JWT.SigningMethod != "HS256" {
		t.Fatalf("unsupported algorithm should be ignored, got %q", cfg.Middleware.JWT.SigningMethod)
	}
}

func TestDSN(t *testing.T) {
	cfg := Default()
	if dsn := cfg.DSN(); !strings.HasPrefix(dsn, "root:root@tcp(localhost:3306)/delicious_moments?") {
		t.Fatalf("unexpected tcp dsn: %s", dsn)
	}

	cfg.Database.UseUnixSock = true
	cfg.Database.Host = "/var/run/mysqld/mysqld.sock"
	if dsn := cfg.DSN(); !strings.Contains(dsn, "@unix(/var/run/mysqld/mysqld.sock)/") {
		t.Fatalf("unexpected socket dsn: %s", dsn)
	}
}

func TestDefaultReturnsCopy(t *testing.T) {
	a := Default()
	a.Server.Address = ":1"
	if b := Default(); b.Server.Address != ":8080" {
		t.Fatalf("Default must not share state, got %q", b.Server.Address)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("APP_CONFIG", filepath.Join(t.TempDir(), "missing.json"))
	t.Setenv("DB_PORT", "not-a-port")
	t.Setenv("RATE_LIMIT", "fast")
	t.Setenv("DB_AUTO_MIGRATE", "no")

	cfg := Load()
	if cfg.Database.Port != 3306 || cfg.Middleware.RateLimit.Rate != 50 {
		t.Fatalf("malformed values should keep defaults: port=%d rate=%v", cfg.Database.Port, cfg.Middleware.RateLimit.Rate)
	}
	if cfg.Database.AutoMigrate {
		t.Fatalf("DB_AUTO_MIGRATE=no should disable migration")
	}
}
