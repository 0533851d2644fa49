package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
)

// Configはアプリ全体の設定
type Config struct {
	Port  string `env:"PORT" envDefault:"8080"`    // サーバーポート
	GoEnv string `env:"GO_ENV" envDefault:"dev"` // dev/prod

	DB DBConfig

	JWTSecret string `env:"JWT_SECRET"` // 空ならseller/adminの認可を無効にする（ローカル用）

	Gateway GatewayConfig

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","` // 空ならイベント送信しない
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"order-events"`

	RedisAddr     string        `env:"REDIS_ADDR"` // 空ならキャッシュしない
	RedisPassword string        `env:"REDIS_PASSWORD"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"5m"`
}

type DBConfig struct {
	Driver string `env:"DB_DRIVER" envDefault:"postgres"` // postgres / mysql

	// DATABASE_URL があれば最優先で使う
	DatabaseURL string `env:"DATABASE_URL"`

	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"postgres"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"marketplace"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	MySQLDSN string `env:"MYSQL_DSN"`

	MaxOpenConns int `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns int `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
}

// 決済ゲートウェイ（Razorpay）
type GatewayConfig struct {
	KeyID     string `env:"RAZORPAY_KEY_ID"`
	KeySecret string `env:"RAZORPAY_KEY_SECRET,required,notEmpty"` // 署名検証にも使う
	BaseURL   string `env:"RAZORPAY_BASE_URL" envDefault:"https://api.razorpay.com"`
	Currency  string `env:"PAYMENT_CURRENCY" envDefault:"INR"`

	Timeout         time.Duration `env:"GATEWAY_TIMEOUT" envDefault:"10s"`
	MaxAttempts     int           `env:"GATEWAY_MAX_ATTEMPTS" envDefault:"3"`
	Backoff         time.Duration `env:"GATEWAY_BACKOFF" envDefault:"200ms"`
	BreakerFailures int           `env:"GATEWAY_BREAKER_FAILURES" envDefault:"5"`
	BreakerReset    time.Duration `env:"GATEWAY_BREAKER_RESET" envDefault:"30s"`
}

// Loadは環境変数から読む
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}

	//整合性チェック
	if err := cfg.DB.validate(); err != nil {
		return Config{}, err
	}
	if cfg.Gateway.MaxAttempts < 1 {
		return Config{}, fmt.Errorf("GATEWAY_MAX_ATTEMPTS must be >= 1")
	}
	cfg.Gateway.BaseURL = strings.TrimRight(cfg.Gateway.BaseURL, "/")

	return cfg, nil
}

// LoadDB はDB設定だけ読む（ゲートウェイの鍵が無いバッチ用）
func LoadDB() (DBConfig, error) {
	var cfg DBConfig
	if err := env.Parse(&cfg); err != nil {
		return DBConfig{}, err
	}
	if err := cfg.validate(); err != nil {
		return DBConfig{}, err
	}
	return cfg, nil
}

func (c DBConfig) validate() error {
	switch c.Driver {
	case "postgres":
	case "mysql":
		if c.MySQLDSN == "" && c.DatabaseURL == "" {
			return fmt.Errorf("MYSQL_DSN is required when DB_DRIVER=mysql")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or mysql: %q", c.Driver)
	}
	return nil
}

func (c Config) IsProd() bool {
	return c.GoEnv == "prod"
}

// PostgresDSN はDATABASE_URLが無いときの組み立て
func (c DBConfig) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

func (c DBConfig) MySQL() string {
	if c.MySQLDSN != "" {
		return c.MySQLDSN
	}
	return c.DatabaseURL
}
