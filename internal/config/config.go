// Package config loads service settings from defaults, an optional YAML file
// and KASIR_ environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/georgemunganga/kasir-backend/internal/modules/receipt"

	// shop time zones resolve on hosts without zoneinfo
	_ "time/tzdata"
)

const envPrefix = "KASIR_"

type Config struct {
	HTTP     HTTP
	Location *time.Location
	Storage  Storage
	Events   Events
	Printer  Printer
	Receipt  receipt.Template
	Auth     Auth
}

type HTTP struct {
	Addr        string
	CORSOrigins []string
}

type Storage struct {
	Driver   string // memory, file, postgres or mongo
	Path     string
	DSN      string
	URI      string
	Database string
}

type Events struct {
	Driver   string // none, nats or amqp
	URL      string
	Exchange string
}

type Printer struct {
	Driver     string // ble or none
	Address    string
	NamePrefix string
	Encoding   string
	Timeout    time.Duration
}

type Auth struct {
	Secret   string
	TTL      time.Duration
	Cashiers []string
}

func defaults() map[string]interface{} {
	tpl := receipt.DefaultTemplate()
	return map[string]interface{}{
		"http.addr":        ":8080",
		"http.cors":        "*",
		"shop.timezone":    "Asia/Jakarta",
		"storage.driver":   "file",
		"storage.path":     "data/orderHistory.json",
		"storage.database": "kasir",
		"events.driver":    "none",
		"events.exchange":  "orders_topic",
		"printer.driver":   "ble",
		"printer.prefix":   "Printer",
		"printer.encoding": "utf-8",
		"printer.timeout":  "30s",
		"receipt.name":     tpl.BusinessName,
		"receipt.address":  tpl.Address,
		"receipt.phone":    tpl.Phone,
		"receipt.employee": tpl.Employee,
		"receipt.terminal": tpl.Terminal,
		"receipt.service":  tpl.ServiceMode,
		"receipt.closing":  tpl.Closing,
		"receipt.width":    tpl.Width,
		"receipt.feed":     tpl.FeedLines,
		"auth.ttl":         "12h",
	}
}

// Load reads .env if present, then layers defaults, the YAML file named by
// KASIR_CONFIG and KASIR_* variables (KASIR_STORAGE_DRIVER is storage.driver).
// DATABASE_URL and APP_PORT are honoured when the KASIR_ equivalents are unset.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if path := os.Getenv(envPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	legacy := map[string]interface{}{}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		legacy["storage.dsn"] = v
	}
	if v := os.Getenv("APP_PORT"); v != "" {
		legacy["http.addr"] = ":" + v
	}
	if err := k.Load(confmap.Provider(legacy, "."), nil); err != nil {
		return nil, fmt.Errorf("load legacy env: %w", err)
	}
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	return parse(k)
}

// envKey maps KASIR_PRINTER_TIMEOUT to printer.timeout.
func envKey(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	if s == "CONFIG" {
		return ""
	}
	return strings.Replace(strings.ToLower(s), "_", ".", 1)
}

func parse(k *koanf.Koanf) (*Config, error) {
	loc, err := time.LoadLocation(k.String("shop.timezone"))
	if err != nil {
		return nil, fmt.Errorf("shop.timezone: %w", err)
	}

	cfg := &Config{
		HTTP: HTTP{
			Addr:        k.String("http.addr"),
			CORSOrigins: list(k, "http.cors"),
		},
		Location: loc,
		Storage: Storage{
			Driver:   strings.ToLower(k.String("storage.driver")),
			Path:     k.String("storage.path"),
			DSN:      k.String("storage.dsn"),
			URI:      k.String("storage.uri"),
			Database: k.String("storage.database"),
		},
		Events: Events{
			Driver:   strings.ToLower(k.String("events.driver")),
			URL:      k.String("events.url"),
			Exchange: k.String("events.exchange"),
		},
		Printer: Printer{
			Driver:     strings.ToLower(k.String("printer.driver")),
			Address:    k.String("printer.address"),
			NamePrefix: k.String("printer.prefix"),
			Encoding:   k.String("printer.encoding"),
			Timeout:    k.Duration("printer.timeout"),
		},
		Receipt: receipt.Template{
			BusinessName: k.String("receipt.name"),
			Address:      k.String("receipt.address"),
			Phone:        k.String("receipt.phone"),
			Employee:     k.String("receipt.employee"),
			Terminal:     k.String("receipt.terminal"),
			ServiceMode:  k.String("receipt.service"),
			Closing:      k.String("receipt.closing"),
			Width:        k.Int("receipt.width"),
			FeedLines:    k.Int("receipt.feed"),
			Location:     loc,
		},
		Auth: Auth{
			Secret:   k.String("auth.secret"),
			TTL:      k.Duration("auth.ttl"),
			Cashiers: list(k, "auth.cashiers"),
		},
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "memory":
	case "file":
		if c.Storage.Path == "" {
			return errors.New("storage.path is required for the file driver")
		}
	case "postgres":
		if c.Storage.DSN == "" {
			return errors.New("storage.dsn is required for the postgres driver")
		}
	case "mongo":
		if c.Storage.URI == "" {
			return errors.New("storage.uri is required for the mongo driver")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}

	switch c.Events.Driver {
	case "none":
	case "nats", "amqp":
		if c.Events.URL == "" {
			return fmt.Errorf("events.url is required for the %s driver", c.Events.Driver)
		}
	default:
		return fmt.Errorf("unknown events.driver %q", c.Events.Driver)
	}

	switch c.Printer.Driver {
	case "ble", "none":
	default:
		return fmt.Errorf("unknown printer.driver %q", c.Printer.Driver)
	}

	if len(c.Auth.Cashiers) > 0 && c.Auth.Secret == "" {
		return errors.New("auth.secret is required when cashiers are configured")
	}
	return nil
}

// list accepts both YAML sequences and comma-separated strings.
func list(k *koanf.Koanf, key string) []string {
	var raw []string
	if s, ok := k.Get(key).(string); ok {
		raw = strings.Split(s, ",")
	} else {
		raw = k.Strings(key)
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
