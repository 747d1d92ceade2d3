package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/ilyakaznacheev/cleanenv"
)

const defaultConfigPath = "./config/local.yaml"

type Config struct {
	Env         string `yaml:"env" env:"ENV" env-default:"prod"`
	Timezone    string `yaml:"timezone" env:"TZ_NAME" env-default:"Europe/Istanbul"`
	FrontendDir string `yaml:"frontend_dir" env-default:"./frontend-dist"`
	ErrorLog    string `yaml:"error_log" env-default:"errors.log"`
	HTTPServer  `yaml:"http_server"`
	DB          `yaml:"db"`
	Auth        `yaml:"auth"`
	CORS        `yaml:"cors"`
	Report      `yaml:"report"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:4001"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	// SSE streams are long lived, so the write timeout only covers plain handlers.
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"0s"`
}

type DB struct {
	User          string `yaml:"user" env:"DB_USER" env-required:"true"`
	Password      string `yaml:"password" env:"DB_PASSWORD"`
	Host          string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port          int    `yaml:"port" env:"DB_PORT" env-default:"3306"`
	Name          string `yaml:"name" env:"DB_NAME" env-required:"true"`
	MigrateOnBoot bool   `yaml:"migrate_on_boot" env-default:"true"`
}

type Auth struct {
	JWTSecret       string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	TokenTTL        time.Duration `yaml:"token_ttl" env-default:"1h"`
	SessionSecret   string        `yaml:"session_secret" env:"SESSION_SECRET" env-required:"true"`
	SecureCookie    bool          `yaml:"secure_cookie" env-default:"false"`
	ResolveDeadline time.Duration `yaml:"resolve_deadline" env-default:"3s"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env-default:"http://localhost:5173"`
}

type Report struct {
	Title string `yaml:"title" env-default:"Üretim Raporları"`
	// LogoPath is optional; the PDF header is drawn without a logo when empty.
	LogoPath string `yaml:"logo_path"`
}

func MustConfig() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return &cfg
}

// Location returns the zone all day/week/month boundaries are computed in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: unknown timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// DSN builds the driver connection string. The session runs in UTC and
// timestamps are converted to Location by the callers.
func (d DB) DSN() string {
	return d.mysqlConfig().FormatDSN()
}

// MigrationDSN is DSN with multi statement support for migration files.
func (d DB) MigrationDSN() string {
	mc := d.mysqlConfig()
	mc.MultiStatements = true
	return mc.FormatDSN()
}

func (d DB) mysqlConfig() *mysql.Config {
	mc := mysql.NewConfig()
	mc.User = d.User
	mc.Passwd = d.Password
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", d.Host, d.Port)
	mc.DBName = d.Name
	mc.ParseTime = true
	mc.Loc = time.UTC
	// affected rows count matched rows, so an update that changes nothing is not "not found"
	mc.ClientFoundRows = true
	mc.Params = map[string]string{
		"charset":   "utf8mb4",
		"time_zone": "'+00:00'",
	}
	return mc
}
