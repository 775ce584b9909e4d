package config

import (
	"errors"
	"fmt"
	"macrobacktest/internal/domain"
	treasury_client "macrobacktest/pkg/treasury"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces every environment override, e.g. MACRO_DB_HOST
const EnvPrefix = "MACRO_"

type AppConfig struct {
	Env      string         `yaml:"env"`
	Db       DbConfig       `yaml:"db"`
	Api      ApiConfig      `yaml:"api"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Treasury TreasuryConfig `yaml:"treasury"`
}

type DbConfig struct {
	Host      string `yaml:"host"`
	Port      string `yaml:"port"`
	User      string `yaml:"user"`
	Password  string `yaml:"password"`
	Database  string `yaml:"database"`
	EnableSsl bool   `yaml:"enableSsl"`
}

func (t DbConfig) ToConnectionStr() string {
	x := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s",
		t.Host, t.Port, t.User, t.Password, t.Database)
	if !t.EnableSsl {
		x += " sslmode=disable"
	}
	return x
}

type ApiConfig struct {
	Port           int      `yaml:"port"`
	JwtSecret      string   `yaml:"jwtSecret"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

type IngestConfig struct {
	// standard five field cron spec, evaluated in UTC
	Cron         string   `yaml:"cron"`
	Symbols      []string `yaml:"symbols"`
	LookbackDays int      `yaml:"lookbackDays"`
}

type TreasuryConfig struct {
	BaseURL        string `yaml:"baseUrl"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

func Default() AppConfig {
	symbols := []string{}
	for _, a := range domain.KnownAssets() {
		symbols = append(symbols, a.Symbol)
	}
	return AppConfig{
		Env: "dev",
		Db: DbConfig{
			Host:     "localhost",
			Port:     "5440",
			User:     "postgres",
			Password: "postgres",
			Database: "postgres",
		},
		Api: ApiConfig{
			Port:           3009,
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Ingest: IngestConfig{
			Cron:         "0 22 * * 1-5",
			Symbols:      symbols,
			LookbackDays: 10,
		},
		Treasury: TreasuryConfig{
			BaseURL:        treasury_client.DefaultBaseURL,
			TimeoutSeconds: 10,
		},
	}
}

// Load reads .env, then the first yaml file found in paths, then
// MACRO_* environment overrides. with no paths it looks for
// ./config.yaml and ./configs/macro.yaml
func Load(paths ...string) (*AppConfig, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	c := Default()
	if len(paths) == 0 {
		paths = []string{"./config.yaml", "./configs/macro.yaml"}
	}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		fi, err := os.Stat(abs)
		if err != nil || fi.IsDir() {
			continue
		}
		b, err := os.ReadFile(abs)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", abs, err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", abs, err)
		}
		break
	}

	c.applyEnv(EnvPrefix)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *AppConfig) Validate() error {
	switch strings.ToLower(c.Env) {
	case "dev", "test", "prod":
		c.Env = strings.ToLower(c.Env)
	case "":
		c.Env = "dev"
	default:
		return fmt.Errorf("invalid env %q: expected dev, test or prod", c.Env)
	}
	if c.Db.Host == "" || c.Db.Database == "" {
		return errors.New("db.host and db.database are required")
	}
	if c.Api.Port <= 0 || c.Api.Port > 65535 {
		return fmt.Errorf("invalid api.port %d", c.Api.Port)
	}
	if c.Env == "prod" && c.Api.JwtSecret == "" {
		return errors.New("api.jwtSecret is required in prod")
	}
	if _, err := cron.ParseStandard(c.Ingest.Cron); err != nil {
		return fmt.Errorf("invalid ingest.cron %q: %w", c.Ingest.Cron, err)
	}
	if c.Ingest.LookbackDays < 1 {
		return fmt.Errorf("ingest.lookbackDays must be positive, got %d", c.Ingest.LookbackDays)
	}
	if c.Treasury.TimeoutSeconds < 1 {
		c.Treasury.TimeoutSeconds = 10
	}
	return nil
}

func (c *AppConfig) applyEnv(prefix string) {
	c.Env = pickStr(os.Getenv(prefix+"ENV"), c.Env)

	c.Db.Host = pickStr(os.Getenv(prefix+"DB_HOST"), c.Db.Host)
	c.Db.Port = pickStr(os.Getenv(prefix+"DB_PORT"), c.Db.Port)
	c.Db.User = pickStr(os.Getenv(prefix+"DB_USER"), c.Db.User)
	c.Db.Password = pickStr(os.Getenv(prefix+"DB_PASSWORD"), c.Db.Password)
	c.Db.Database = pickStr(os.Getenv(prefix+"DB_NAME"), c.Db.Database)
	c.Db.EnableSsl = pickBool(os.Getenv(prefix+"DB_SSL"), c.Db.EnableSsl)

	c.Api.Port = pickInt(os.Getenv(prefix+"API_PORT"), c.Api.Port)
	c.Api.JwtSecret = pickStr(os.Getenv(prefix+"JWT_SECRET"), c.Api.JwtSecret)
	if v := os.Getenv(prefix + "ALLOWED_ORIGINS"); v != "" {
		c.Api.AllowedOrigins = splitCSV(v)
	}

	c.Ingest.Cron = pickStr(os.Getenv(prefix+"INGEST_CRON"), c.Ingest.Cron)
	if v := os.Getenv(prefix + "INGEST_SYMBOLS"); v != "" {
		c.Ingest.Symbols = splitCSV(v)
	}
	c.Ingest.LookbackDays = pickInt(os.Getenv(prefix+"INGEST_LOOKBACK_DAYS"), c.Ingest.LookbackDays)

	c.Treasury.BaseURL = pickStr(os.Getenv(prefix+"TREASURY_URL"), c.Treasury.BaseURL)
}

func pickStr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return strings.TrimSpace(v)
}

func pickInt(v string, fallback int) int {
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return i
}

func pickBool(v string, fallback bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return b
}

func splitCSV(v string) []string {
	out := []string{}
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
