package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y
// opcionalmente archivo .env).
type Config struct {
	App        AppConfig
	DB         DBConfig
	JWT        JWTConfig
	HTTP       HTTPConfig
	Billing    BillingConfig
	Scheduling SchedulingConfig
	Identity   IdentityConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// BillingConfig constantes de negocio de facturación. Antes vivían como literales
// en el código; aquí son configurables con los valores históricos por defecto.
type BillingConfig struct {
	IGVRate        decimal.Decimal // tasa de IGV (0.18)
	MinimumAdvance decimal.Decimal // adelanto mínimo que confirma una cita (S/ 50)
	PaidEpsilon    decimal.Decimal // umbral bajo el cual el saldo se considera saldado
	DefaultSeries  string          // serie por defecto para boletas
}

// SchedulingConfig constantes de negocio de agenda.
type SchedulingConfig struct {
	DailyQuota       int // máximo de citas pending/confirmed por fecha
	MinLeadDays      int // anticipación mínima de la reserva, en días
	SweepBackDays    int // ventana de la pasada de vencimiento hacia atrás
	SweepForwardDays int // ventana de la pasada de vencimiento hacia adelante
	ExpiryHours      int // horas antes de la cita en que vence una pendiente
}

// IdentityConfig configuración del servicio externo de consulta DNI/RUC.
type IdentityConfig struct {
	APIURL string
	Token  string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, BILLING_IGV_RATE, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración .env en el directorio de trabajo
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "gestion-decomori"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "gestion_decomori"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "gestion-decomori"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Billing: BillingConfig{
			IGVRate:        getDecimal(v, "BILLING_IGV_RATE", "0.18"),
			MinimumAdvance: getDecimal(v, "BILLING_MIN_ADVANCE", "50.00"),
			PaidEpsilon:    getDecimal(v, "BILLING_PAID_EPSILON", "0.01"),
			DefaultSeries:  getString(v, "BILLING_DEFAULT_SERIES", "B001"),
		},
		Scheduling: SchedulingConfig{
			DailyQuota:       getInt(v, "SCHEDULING_DAILY_QUOTA", 3),
			MinLeadDays:      getInt(v, "SCHEDULING_MIN_LEAD_DAYS", 1),
			SweepBackDays:    getInt(v, "SCHEDULING_SWEEP_BACK_DAYS", 730),
			SweepForwardDays: getInt(v, "SCHEDULING_SWEEP_FORWARD_DAYS", 5),
			ExpiryHours:      getInt(v, "SCHEDULING_EXPIRY_HOURS", 24),
		},
		Identity: IdentityConfig{
			APIURL: getString(v, "IDENTITY_API_URL", "https://apiperu.dev/api/dni"),
			Token:  getString(v, "IDENTITY_API_TOKEN", ""),
		},
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getDecimal(v *viper.Viper, key, def string) decimal.Decimal {
	s := def
	if v.IsSet(key) {
		s = v.GetString(key)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		d, _ = decimal.NewFromString(def)
	}
	return d
}
