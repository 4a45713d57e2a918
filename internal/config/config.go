package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Session   SessionConfig
	Checkout  CheckoutConfig
	Discounts DiscountConfig
	Bootstrap BootstrapConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

func (d DatabaseConfig) ConnectionString() string {
	return "host=" + d.Host +
		" port=" + strconv.Itoa(d.Port) +
		" user=" + d.User +
		" password=" + d.Password +
		" dbname=" + d.Name +
		" sslmode=" + d.SSLMode
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers     []string
	OrdersTopic string
	Enabled     bool
}

type SessionConfig struct {
	CookieName string
	TTL        time.Duration
}

type CheckoutConfig struct {
	Currency     string
	ShippingCost decimal.Decimal
}

// BootstrapConfig seeds the back-office account on first boot. An empty
// password disables seeding.
type BootstrapConfig struct {
	AdminName     string
	AdminPassword string
}

// DiscountConfig enumerates the coupon table and catalog defaults at
// startup instead of scattering them as literals.
type DiscountConfig struct {
	Coupons         map[string]decimal.Decimal
	DefaultImageURL string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:  time.Duration(getEnvInt("SERVER_READ_TIMEOUT", 30)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT", 30)) * time.Second,
		},
		Database: DatabaseConfig{
			Host:         getEnvString("DB_HOST", "localhost"),
			Port:         getEnvInt("DB_PORT", 5432),
			User:         getEnvString("DB_USER", "tienda"),
			Password:     getEnvString("DB_PASSWORD", "tienda"),
			Name:         getEnvString("DB_NAME", "tienda_masiva"),
			SSLMode:      getEnvString("DB_SSLMODE", "disable"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 10),
			MaxLifetime:  time.Duration(getEnvInt("DB_MAX_LIFETIME", 1800)) * time.Second,
		},
		Redis: RedisConfig{
			Host:     getEnvString("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnvString("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers:     strings.Split(getEnvString("KAFKA_BROKERS", "localhost:9092"), ","),
			OrdersTopic: getEnvString("KAFKA_ORDERS_TOPIC", "storefront.orders"),
			Enabled:     getEnvBool("KAFKA_ENABLED", false),
		},
		Session: SessionConfig{
			CookieName: getEnvString("SESSION_COOKIE", "storefront_session"),
			TTL:        time.Duration(getEnvInt("SESSION_TTL", 86400)) * time.Second,
		},
		Checkout: CheckoutConfig{
			Currency:     getEnvString("CHECKOUT_CURRENCY", "USD"),
			ShippingCost: getEnvDecimal("CHECKOUT_SHIPPING_COST", "0"),
		},
		Discounts: DiscountConfig{
			Coupons:         parseCoupons(getEnvString("DISCOUNT_COUPONS", "PROMO2026:0.10,VERANO:0.20")),
			DefaultImageURL: getEnvString("DEFAULT_IMAGE_URL", "https://via.placeholder.com/300"),
		},
		Bootstrap: BootstrapConfig{
			AdminName:     getEnvString("ADMIN_USER", "admin"),
			AdminPassword: getEnvString("ADMIN_PASSWORD", ""),
		},
	}
}

// parseCoupons reads a CODE:rate,CODE:rate list. Codes are uppercased;
// rates outside [0,1) are dropped.
func parseCoupons(raw string) map[string]decimal.Decimal {
	coupons := make(map[string]decimal.Decimal)
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) != 2 {
			continue
		}
		rate, err := decimal.NewFromString(parts[1])
		if err != nil {
			continue
		}
		if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			continue
		}
		code := strings.ToUpper(strings.TrimSpace(parts[0]))
		if code == "" {
			continue
		}
		coupons[code] = rate
	}
	return coupons
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDecimal(key, defaultValue string) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	d, _ := decimal.NewFromString(defaultValue)
	return d
}
