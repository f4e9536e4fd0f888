package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// ErrMissingRequired indica que uma configuração obrigatória não foi informada
var ErrMissingRequired = errors.New("configuração obrigatória ausente")

// ErrInvalidValue indica um valor de configuração fora do domínio aceito
var ErrInvalidValue = errors.New("valor de configuração inválido")

type Config struct {
	App          App          `mapstructure:",squash"`
	Server       Server       `mapstructure:",squash"`
	Database     Database     `mapstructure:",squash"`
	Rokt         Rokt         `mapstructure:",squash"`
	CampaignSync CampaignSync `mapstructure:",squash"`
	SecretKey    string       `mapstructure:"secret_key"`
}

type App struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Enabled  bool   `mapstructure:"database_enabled"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
	SSLMode  string `mapstructure:"database_sslmode"`
}

// Rokt reúne as credenciais e os parâmetros da consulta de relatórios
type Rokt struct {
	ClientID          string        `mapstructure:"rokt_client_id"`
	ClientSecret      string        `mapstructure:"rokt_client_secret"`
	AccountID         string        `mapstructure:"rokt_account_id"`
	TokenURL          string        `mapstructure:"rokt_token_url"`
	APIBase           string        `mapstructure:"rokt_api_base"`
	StartDate         string        `mapstructure:"rokt_start_date"`
	EndDate           string        `mapstructure:"rokt_end_date"`
	DaysBack          *int          `mapstructure:"rokt_days_back"` // nil usa o padrão de 14 dias
	Currency          string        `mapstructure:"rokt_currency"`
	TimeZoneVariation string        `mapstructure:"rokt_time_zone_variation"`
	RequestTimeout    time.Duration `mapstructure:"rokt_request_timeout"`
}

type CampaignSync struct {
	CronSchedule string `mapstructure:"campaign_sync_cron"`
	Enabled      bool   `mapstructure:"campaign_sync_enabled"`
}

// tapConfigKeys são as chaves aceitas no arquivo de configuração do tap
// (config.json / config.yaml), sem o prefixo rokt_
var tapConfigKeys = []string{
	"client_id",
	"client_secret",
	"account_id",
	"start_date",
	"end_date",
	"days_back",
	"currency",
	"time_zone_variation",
	"token_url",
	"api_base",
	"request_timeout",
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("HOST", "localhost")
	v.SetDefault("PORT", "8000")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")

	v.SetDefault("DATABASE_ENABLED", false)
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_URL", "localhost:5432/rokt")
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "root")
	v.SetDefault("DATABASE_SSLMODE", "disable")

	v.SetDefault("ROKT_CLIENT_ID", "")
	v.SetDefault("ROKT_CLIENT_SECRET", "")
	v.SetDefault("ROKT_ACCOUNT_ID", "")
	v.SetDefault("ROKT_TOKEN_URL", "https://api.rokt.com/auth/oauth2/token")
	v.SetDefault("ROKT_API_BASE", "https://api.rokt.com")
	v.SetDefault("ROKT_START_DATE", "")
	v.SetDefault("ROKT_END_DATE", "")
	v.SetDefault("ROKT_DAYS_BACK", 14)
	v.SetDefault("ROKT_CURRENCY", "USD")
	v.SetDefault("ROKT_TIME_ZONE_VARIATION", "UTC")
	v.SetDefault("ROKT_REQUEST_TIMEOUT", "60s")

	v.SetDefault("SECRET_KEY", "")

	v.SetDefault("CAMPAIGN_SYNC_CRON", "0 6 * * *") // Todos os dias às 6h da manhã
	v.SetDefault("CAMPAIGN_SYNC_ENABLED", false)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

// NewConfig carrega a configuração de variáveis de ambiente (.env incluso) e,
// se configFile não for vazio, do arquivo de configuração do tap.
// Valores do arquivo têm precedência sobre as variáveis de ambiente.
func NewConfig(configFile string) (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		if err := mergeTapConfigFile(v, configFile); err != nil {
			return nil, err
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	config := &Config{}

	err := v.Unmarshal(config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, fmt.Errorf("erro ao decodificar configuração: %w", err)
	}

	config.Rokt.APIBase = strings.TrimRight(config.Rokt.APIBase, "/")

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s?sslmode=%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
		config.Database.SSLMode,
	)

	return config, nil
}

// mergeTapConfigFile lê um config.json/config.yaml no formato do tap
// (client_id, account_id, ...) e aplica os valores nas chaves rokt_*
func mergeTapConfigFile(v *viper.Viper, path string) error {
	file := viper.New()
	file.SetConfigFile(path)
	if err := file.ReadInConfig(); err != nil {
		return fmt.Errorf("erro ao ler arquivo de configuração %s: %w", path, err)
	}

	for _, key := range tapConfigKeys {
		if file.IsSet(key) {
			v.Set("rokt_"+key, file.Get(key))
		}
	}

	logrus.WithField("path", path).Debug("Arquivo de configuração do tap carregado")
	return nil
}

// Validate verifica as configurações necessárias para uma sincronização
func (c *Config) Validate() error {
	missing := make([]string, 0)
	if c.Rokt.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if c.Rokt.ClientSecret == "" {
		missing = append(missing, "client_secret")
	}
	if c.Rokt.AccountID == "" {
		missing = append(missing, "account_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingRequired, strings.Join(missing, ", "))
	}

	if c.Rokt.DaysBack != nil && *c.Rokt.DaysBack < 0 {
		return fmt.Errorf("%w: days_back não pode ser negativo (%d)", ErrInvalidValue, *c.Rokt.DaysBack)
	}
	if c.Rokt.TokenURL == "" || c.Rokt.APIBase == "" {
		return fmt.Errorf("%w: token_url e api_base são obrigatórios", ErrInvalidValue)
	}

	return nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Debug("Arquivo .env carregado de:", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
}
