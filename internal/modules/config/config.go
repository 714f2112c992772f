package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"signal_bot/internal/models"
	"signal_bot/internal/strategy"
)

const (
	configFilePathENV = "CONFIG_FILE"
	quantityEnvPrefix = "TRADE_QUANTITY_"

	SourceYahoo    = "yahoo"
	SourcePostgres = "postgres"
)

type Config struct {
	Exchange   ExchangeConfig   `mapstructure:"exchange" yaml:"exchange"`
	Telegram   TelegramConfig   `mapstructure:"telegram" yaml:"telegram"`
	Trading    TradingConfig    `mapstructure:"trading" yaml:"trading"`
	Strategy   StrategyConfig   `mapstructure:"strategy" yaml:"strategy"`
	MarketData MarketDataConfig `mapstructure:"market_data" yaml:"market_data"`
	Schedule   ScheduleConfig   `mapstructure:"schedule" yaml:"schedule"`
	Service    ServiceConfig    `mapstructure:"service" yaml:"service"`
	Tracing    TracingConfig    `mapstructure:"tracing" yaml:"tracing"`
	DB         string           `mapstructure:"db_dsn" yaml:"db_dsn"`
	LogLevel   string           `mapstructure:"log_level" yaml:"log_level"`
}

type ExchangeConfig struct {
	BaseURL   string        `mapstructure:"base_url" yaml:"base_url"`
	APIKey    string        `mapstructure:"api_key" yaml:"api_key"`
	APISecret string        `mapstructure:"api_secret" yaml:"api_secret"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit" yaml:"rate_limit"` // req/s, 0: без лимита
}

type TelegramConfig struct {
	Token    string `mapstructure:"token" yaml:"token"`
	ChatID   int64  `mapstructure:"chat_id" yaml:"chat_id"`
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
}

type TradingConfig struct {
	Symbols        []string           `mapstructure:"symbols" yaml:"symbols"`
	Quantities     map[string]float64 `mapstructure:"quantities" yaml:"quantities"` // base asset (lower case) -> qty
	InitialBalance float64            `mapstructure:"initial_balance" yaml:"initial_balance"`
}

type StrategyConfig struct {
	RSIPeriod       int     `mapstructure:"rsi_period" yaml:"rsi_period"`
	RSIBuy          float64 `mapstructure:"rsi_buy" yaml:"rsi_buy"`
	RSISell         float64 `mapstructure:"rsi_sell" yaml:"rsi_sell"`
	SMAPeriod       int     `mapstructure:"sma_period" yaml:"sma_period"`
	ChangeThreshold float64 `mapstructure:"change_threshold" yaml:"change_threshold"`
}

type MarketDataConfig struct {
	Source   string        `mapstructure:"source" yaml:"source"` // yahoo | postgres
	BaseURL  string        `mapstructure:"base_url" yaml:"base_url"`
	Lookback time.Duration `mapstructure:"lookback" yaml:"lookback"`
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type ScheduleConfig struct {
	PollInterval   time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	ReportInterval time.Duration `mapstructure:"report_interval" yaml:"report_interval"`
	TickInterval   time.Duration `mapstructure:"tick_interval" yaml:"tick_interval"`
}

type ServiceConfig struct {
	Host      string `mapstructure:"host" yaml:"host"`
	AdminPort int    `mapstructure:"admin_port" yaml:"admin_port"`
}

type TracingConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Host    string `mapstructure:"host" yaml:"host"`
	Port    int    `mapstructure:"port" yaml:"port"`
}

// env-переменные исходного бота и куда они ложатся
var envBindings = map[string]string{
	"exchange.base_url":         "PIONEX_BASE_URL",
	"exchange.api_key":          "PIONEX_API_KEY",
	"exchange.api_secret":       "PIONEX_API_SECRET",
	"exchange.timeout":          "PIONEX_TIMEOUT",
	"exchange.rate_limit":       "PIONEX_RATE_LIMIT",
	"telegram.token":            "TELEGRAM_TOKEN",
	"telegram.chat_id":          "TELEGRAM_CHAT_ID",
	"telegram.endpoint":         "TELEGRAM_API_ENDPOINT",
	"trading.symbols":           "SYMBOLS",
	"trading.initial_balance":   "INITIAL_BALANCE_USDT",
	"strategy.rsi_period":       "RSI_PERIOD",
	"strategy.rsi_buy":          "RSI_OVERSOLD",
	"strategy.rsi_sell":         "RSI_OVERBOUGHT",
	"strategy.sma_period":       "SMA_PERIOD",
	"strategy.change_threshold": "CHANGE_THRESHOLD",
	"market_data.source":        "MARKET_DATA_SOURCE",
	"market_data.base_url":      "MARKET_DATA_URL",
	"market_data.lookback":      "MARKET_DATA_LOOKBACK",
	"market_data.interval":      "MARKET_DATA_INTERVAL",
	"schedule.poll_interval":    "POLL_INTERVAL",
	"schedule.report_interval":  "REPORT_INTERVAL",
	"schedule.tick_interval":    "TICK_INTERVAL",
	"service.host":              "SERVICE_HOST",
	"service.admin_port":        "ADMIN_PORT",
	"tracing.enabled":           "TRACING_ENABLED",
	"tracing.host":              "JAEGER_AGENT_HOST",
	"tracing.port":              "JAEGER_AGENT_PORT",
	"db_dsn":                    "DATABASE_DSN",
	"log_level":                 "LOG_LEVEL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("exchange.base_url", "https://api.pionex.com")
	v.SetDefault("exchange.timeout", 10*time.Second)
	v.SetDefault("exchange.rate_limit", 5.0)

	v.SetDefault("telegram.endpoint", "")

	v.SetDefault("trading.symbols", []string{"BTC-USD", "ETH-USD"})
	v.SetDefault("trading.quantities.btc", 0.001)
	v.SetDefault("trading.quantities.eth", 0.01)
	v.SetDefault("trading.initial_balance", 1000.0)

	p := strategy.DefaultParams()
	v.SetDefault("strategy.rsi_period", p.RSIPeriod)
	v.SetDefault("strategy.rsi_buy", p.RSIBuy)
	v.SetDefault("strategy.rsi_sell", p.RSISell)
	v.SetDefault("strategy.sma_period", p.SMAPeriod)
	v.SetDefault("strategy.change_threshold", p.ChangeThreshold)

	v.SetDefault("market_data.source", SourceYahoo)
	v.SetDefault("market_data.base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("market_data.lookback", 60*24*time.Hour)
	v.SetDefault("market_data.interval", time.Hour)
	v.SetDefault("market_data.timeout", 15*time.Second)

	v.SetDefault("schedule.poll_interval", 15*time.Minute)
	v.SetDefault("schedule.report_interval", 2*time.Hour)
	v.SetDefault("schedule.tick_interval", time.Minute)

	v.SetDefault("service.host", "0.0.0.0")
	v.SetDefault("service.admin_port", 8081)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.host", "localhost")
	v.SetDefault("tracing.port", 6831)

	v.SetDefault("db_dsn", "")
	v.SetDefault("log_level", "info")
}

// NewConfig читает .env, файл из CONFIG_FILE (если задан) и переменные окружения.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()
	return Load(os.Getenv(configFilePathENV))
}

// Load собирает конфиг: дефолты < yaml-файл < env.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := quantitiesFromEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// TRADE_QUANTITY_BTC=0.002 и т.п.: по одной переменной на базовый актив
func quantitiesFromEnv(cfg *Config) error {
	if cfg.Trading.Quantities == nil {
		cfg.Trading.Quantities = map[string]float64{}
	}
	for _, kv := range os.Environ() {
		key, val, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, quantityEnvPrefix) || val == "" {
			continue
		}
		base := strings.ToLower(strings.TrimPrefix(key, quantityEnvPrefix))
		q, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		cfg.Trading.Quantities[base] = q
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Exchange.APIKey == "" || c.Exchange.APISecret == "" {
		return fmt.Errorf("PIONEX_API_KEY and PIONEX_API_SECRET are required")
	}
	if len(c.Trading.Symbols) == 0 {
		return fmt.Errorf("no symbols configured")
	}
	for _, s := range c.Trading.Symbols {
		base := strings.ToLower(models.BaseAsset(s))
		if q := c.Trading.Quantities[base]; q <= 0 {
			return fmt.Errorf("symbol %s: trade quantity for %s must be positive", s, strings.ToUpper(base))
		}
	}
	st := c.Strategy
	if st.RSIPeriod <= 0 || st.SMAPeriod <= 0 {
		return fmt.Errorf("indicator periods must be positive (rsi=%d, sma=%d)", st.RSIPeriod, st.SMAPeriod)
	}
	if st.RSIBuy >= st.RSISell {
		return fmt.Errorf("rsi_buy (%.1f) must be below rsi_sell (%.1f)", st.RSIBuy, st.RSISell)
	}
	if st.ChangeThreshold < 0 {
		return fmt.Errorf("change_threshold must not be negative")
	}
	sc := c.Schedule
	if sc.PollInterval <= 0 || sc.ReportInterval <= 0 || sc.TickInterval <= 0 {
		return fmt.Errorf("schedule intervals must be positive")
	}
	md := c.MarketData
	if md.Lookback <= 0 || md.Interval <= 0 {
		return fmt.Errorf("market data lookback and interval must be positive")
	}
	switch md.Source {
	case SourceYahoo:
	case SourcePostgres:
		if c.DB == "" {
			return fmt.Errorf("DATABASE_DSN is required for market_data.source=postgres")
		}
	default:
		return fmt.Errorf("unknown market_data.source %q", md.Source)
	}
	return nil
}

// Instruments: инструменты в порядке из конфига.
func (c *Config) Instruments() []models.Instrument {
	out := make([]models.Instrument, 0, len(c.Trading.Symbols))
	for _, s := range c.Trading.Symbols {
		base := strings.ToLower(models.BaseAsset(s))
		out = append(out, models.NewInstrument(s, c.Trading.Quantities[base]))
	}
	return out
}

func (c *Config) Params() strategy.Params {
	return strategy.Params{
		RSIPeriod:       c.Strategy.RSIPeriod,
		RSIBuy:          c.Strategy.RSIBuy,
		RSISell:         c.Strategy.RSISell,
		SMAPeriod:       c.Strategy.SMAPeriod,
		ChangeThreshold: c.Strategy.ChangeThreshold,
	}
}

// TelegramEnabled: без токена или чата уведомления уходят в лог.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.Token != "" && c.Telegram.ChatID != 0
}

// Redacted: эффективный конфиг в yaml, секреты замаскированы.
func (c *Config) Redacted() string {
	cp := *c
	cp.Exchange.APIKey = mask(cp.Exchange.APIKey)
	cp.Exchange.APISecret = mask(cp.Exchange.APISecret)
	cp.Telegram.Token = mask(cp.Telegram.Token)
	if cp.DB != "" {
		cp.DB = "***"
	}
	out, err := yaml.Marshal(cp)
	if err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return string(out)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "***"
	}
	return s[:2] + "***" + s[len(s)-2:]
}
