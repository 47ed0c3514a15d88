package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Env struct {
	AppAddr string `envconfig:"APP_ADDR" default:":8080"`
	GinMode string `envconfig:"GIN_MODE"`

	DBDSN  string `envconfig:"DB_DSN"`
	DBUser string `envconfig:"DB_USER" default:"root"`
	DBPass string `envconfig:"DB_PASS"`
	DBHost string `envconfig:"DB_HOST" default:"127.0.0.1"`
	DBPort string `envconfig:"DB_PORT" default:"3306"`
	DBName string `envconfig:"DB_NAME" default:"desert_safari"`

	JWTSecret string `envconfig:"JWT_SECRET"`
	JWTTTLMin int    `envconfig:"JWT_TTL_MIN" default:"720"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`
	BookingRatePerMin  int      `envconfig:"BOOKING_RATE_PER_MIN" default:"20"`

	RedisAddr       string `envconfig:"REDIS_ADDR"`
	RedisPassword   string `envconfig:"REDIS_PASSWORD"`
	RabbitURL       string `envconfig:"RABBIT_URL"`
	BookingExchange string `envconfig:"BOOKING_EXCHANGE" default:"booking.exchange"`

	VoucherSecret string `envconfig:"VOUCHER_SECRET"`

	AdminName     string `envconfig:"ADMIN_NAME" default:"Administrator"`
	AdminEmail    string `envconfig:"ADMIN_EMAIL"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`
}

// LoadEnv reads an optional .env file, then the process environment.
func LoadEnv() (Env, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[CONFIG] no .env file, using process environment")
	}
	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return Env{}, fmt.Errorf("load env: %w", err)
	}
	env.CORSAllowedOrigins = cleanList(env.CORSAllowedOrigins)
	if err := env.validate(); err != nil {
		return Env{}, err
	}
	return env, nil
}

// validate refuses to start without the signing keys for admin tokens and
// voucher codes.
func (e Env) validate() error {
	var missing []string
	if strings.TrimSpace(e.JWTSecret) == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if strings.TrimSpace(e.VoucherSecret) == "" {
		missing = append(missing, "VOUCHER_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("load env: %s must be set", strings.Join(missing, ", "))
	}
	return nil
}

// DSN returns DB_DSN when set, otherwise builds one from the DB_* parts.
func (e Env) DSN() string {
	if dsn := strings.TrimSpace(e.DBDSN); dsn != "" {
		return dsn
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s",
		e.DBUser, e.DBPass, e.DBHost, e.DBPort, e.DBName)
}

func (e Env) JWTTTL() time.Duration {
	if e.JWTTTLMin <= 0 {
		return 12 * time.Hour
	}
	return time.Duration(e.JWTTTLMin) * time.Minute
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
