package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"delicious-moments/pkg/core/user/model"
)

type ServerConfig struct {
	Address string `json:"address"`
}

type SecurityConfig struct {
	MaxBodySize int `json:"maxBodySize"` // 单位：字节
}

type TimeoutConfig struct {
	RequestTimeout int `json:"requestTimeout"` // 单位：秒
}

type CORSConfig struct {
	AllowOrigins     []string      `json:"allowOrigins"`
	AllowMethods     []string      `json:"allowMethods"`
	AllowHeaders     []string      `json:"allowHeaders"`
	ExposeHeaders    []string      `json:"exposeHeaders"`
	AllowCredentials bool          `json:"allowCredentials"`
	MaxAge           time.Duration `json:"maxAge"`
	TrustedDomains   []string      `json:"trustedDomains"`
}

type JWTAuthConfig struct {
	Enabled        bool          `json:"enabled"` // 开启后资料接口需要携带令牌
	Secret         string        `json:"secret"`
	ExpireDuration time.Duration `json:"expireDuration"`
	Issuer         string        `json:"issuer"`
	SigningMethod  string        `json:"signingMethod"`
	Realm          string        `json:"realm"`
}

type RateLimitConfig struct {
	Rate  float64 `json:"rate"`  // 每秒令牌数
	Burst int     `json:"burst"` // 桶容量
}

type MiddlewareConfig struct {
	Security  SecurityConfig  `json:"security"`
	JWT       JWTAuthConfig   `json:"jwt"`
	Timeout   TimeoutConfig   `json:"timeout"`
	CORS      CORSConfig      `json:"cors"`
	RateLimit RateLimitConfig `json:"rateLimit"`
}

type DatabaseConfig struct {
	Host        string `json:"host"` // UseUnixSock 时为 socket 路径
	Port        int    `json:"port"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	DBName      string `json:"dbname"`
	UseUnixSock bool   `json:"useUnixSock"`
	MinPoolSize int    `json:"minPoolSize"` // 空闲连接数
	MaxPoolSize int    `json:"maxPoolSize"`
	LogLevel    string `json:"logLevel"` // silent/error/warn/info
	AutoMigrate bool   `json:"autoMigrate"`
}

type LogConfig struct {
	Level string `json:"level"`
	Dev   bool   `json:"dev"` // 开发模式使用控制台格式
}

type Config struct {
	Server     ServerConfig     `json:"server"`
	Database   DatabaseConfig   `json:"database"`
	Middleware MiddlewareConfig `json:"middleware"`
	Log        LogConfig        `json:"log"`
	Env        string           `json:"env"` // production 时隐藏异常细节
}

var defaultConfig = Config{
	Server: ServerConfig{
		Address: ":8080",
	},
	Database: DatabaseConfig{
		Host:        "localhost",
		Port:        3306,
		Username:    "root",
		Password:    "root",
		DBName:      "delicious_moments",
		UseUnixSock: false,
		MinPoolSize: 5,
		MaxPoolSize: 50,
		LogLevel:    "warn",
		AutoMigrate: true,
	},
	Middleware: MiddlewareConfig{
		Security: SecurityConfig{
			MaxBodySize: 4 << 20, // 4MB
		},
		JWT: JWTAuthConfig{
			Enabled:        false,
			Secret:         "dev-secret-change-me-in-production",
			ExpireDuration: 7 * 24 * time.Hour,
			Issuer:         "delicious-moments",
			SigningMethod:  "HS256",
			Realm:          "delicious-moments",
		},
		Timeout: TimeoutConfig{
			RequestTimeout: 15,
		},
		CORS: CORSConfig{
			AllowOrigins:     []string{"http://localhost:10086"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "Authorization", "X-Requested-With", "X-Request-ID"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
			TrustedDomains:   []string{".servicewechat.com"},
		},
		RateLimit: RateLimitConfig{
			Rate:  50,
			Burst: 100,
		},
	},
	Log: LogConfig{
		Level: "info",
	},
	Env: "development",
}

// Default 返回默认配置副本，测试中使用
func Default() *Config {
	cfg := defaultConfig
	return &cfg
}

// IsProd 判断当前是否生产环境
func (c *Config) IsProd() bool {
	return c.Env == "production"
}

// Load 默认值 -> .env -> 配置文件 -> 环境变量，后者覆盖前者
func Load() *Config {
	cfg := defaultConfig

	// .env 只补充尚未设置的环境变量
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		hlog.Warnf("load .env: %v", err)
	}

	if path := configFilePath(); path != "" {
		if err := loadFromFile(&cfg, path); err != nil {
			hlog.Warnf("load config file %s: %v", path, err)
		}
	}

	applyEnv(&cfg)
	return &cfg
}

// configFilePath APP_CONFIG 优先，其次按顺序查找
func configFilePath() string {
	if path := os.Getenv("APP_CONFIG"); path != "" {
		return path
	}
	for _, path := range []string{"./config.json", "../config.json", "/etc/delicious-moments/config.json"} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, cfg)
}

func applyEnv(cfg *Config) {
	envString("SERVER_ADDR", &cfg.Server.Address)
	envString("APP_ENV", &cfg.Env)

	envLower("LOG_LEVEL", &cfg.Log.Level)
	envBool("LOG_DEV", &cfg.Log.Dev)

	mw := &cfg.Middleware
	envInt("MAX_BODY_SIZE", &mw.Security.MaxBodySize)
	envInt("REQUEST_TIMEOUT", &mw.Timeout.RequestTimeout)
	envFloat("RATE_LIMIT", &mw.RateLimit.Rate)
	envInt("RATE_LIMIT_BURST", &mw.RateLimit.Burst)
	if v := os.Getenv("CORS_ALLOW_ORIGINS"); v != "" {
		mw.CORS.AllowOrigins = splitEnvList(v)
	}
	if v := os.Getenv("CORS_TRUSTED_DOMAINS"); v != "" {
		mw.CORS.TrustedDomains = splitEnvList(v)
	}

	envBool("JWT_ENABLED", &mw.JWT.Enabled)
	envString("JWT_SECRET", &mw.JWT.Secret)
	envString("JWT_ISSUER", &mw.JWT.Issuer)
	if v := os.Getenv("JWT_EXPIRATION"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			mw.JWT.ExpireDuration = d
		} else {
			hlog.Warnf("invalid JWT_EXPIRATION %q: %v", v, err)
		}
	}
	if v := os.Getenv("JWT_ALGORITHM"); v != "" {
		if method, ok := hmacSigningMethod(v); ok {
			mw.JWT.SigningMethod = method
		} else {
			hlog.Warnf("unsupported JWT_ALGORITHM %q, keep %s", v, mw.JWT.SigningMethod)
		}
	}

	db := &cfg.Database
	envString("DB_HOST", &db.Host)
	envInt("DB_PORT", &db.Port)
	envString("DB_USER", &db.Username)
	envString("DB_PASSWORD", &db.Password)
	envString("DB_NAME", &db.DBName)
	envBool("DB_SOCKET", &db.UseUnixSock)
	envInt("DB_MIN_POOL", &db.MinPoolSize)
	envInt("DB_MAX_POOL", &db.MaxPoolSize)
	envLower("DB_LOG_LEVEL", &db.LogLevel)
	envBool("DB_AUTO_MIGRATE", &db.AutoMigrate)
}

// hmacSigningMethod 令牌只用共享密钥签名，仅接受 HS 系列
func hmacSigningMethod(raw string) (string, bool) {
	method := strings.ToUpper(strings.ReplaceAll(raw, " ", ""))
	switch method {
	case "HS256", "HS384", "HS512":
		return method, true
	}
	return "", false
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envLower(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = strings.ToLower(v)
	}
}

func envBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		*dst = parseBool(v)
	}
}

// envInt 解析失败时保留原值
func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envFloat(key string, dst *float64) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func splitEnvList(value string) []string {
	var out []string
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseBool(value string) bool {
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// DSN 拼接 MySQL 连接串
func (c *Config) DSN() string {
	d := c.Database
	const params = "charset=utf8mb4&parseTime=True&loc=Local"
	if d.UseUnixSock {
		return fmt.Sprintf("%s:%s@unix(%s)/%s?%s", d.Username, d.Password, d.Host, d.DBName, params)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s", d.Username, d.Password, d.Host, d.Port, d.DBName, params)
}

// GormConfig 按日志级别生成 GORM 配置
func (c *Config) GormConfig() *gorm.Config {
	gormConfig := &gorm.Config{TranslateError: true}
	switch c.Database.LogLevel {
	case "silent":
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	case "error":
		gormConfig.Logger = logger.Default.LogMode(logger.Error)
	case "warn":
		gormConfig.Logger = logger.Default.LogMode(logger.Warn)
	case "info":
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}
	return gormConfig
}

func (c *Config) InitDB() (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(c.DSN()), c.GormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(c.Database.MinPoolSize)
	sqlDB.SetMaxOpenConns(c.Database.MaxPoolSize)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if c.Database.AutoMigrate {
		if err := model.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	return db, nil
}
