package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// BillingConfig is the firm-wide billing policy. It is loaded from
// billing.yml and hot-reloaded so tax or rate changes do not need a restart.
type BillingConfig struct {
	// TaxRate is a fraction, e.g. 0.19 for 19% IVA.
	TaxRate float64 `mapstructure:"taxRate"`
	// BaseCurrency is the currency every lawyer rate is stored in.
	BaseCurrency string `mapstructure:"baseCurrency"`
	// Timezone is the practice's civil timezone; all time entries are
	// normalized into it before persistence.
	Timezone string `mapstructure:"timezone"`

	// StoreTimeoutSeconds bounds each data-store round trip inside an
	// invoice transaction.
	StoreTimeoutSeconds int `mapstructure:"storeTimeoutSeconds"`
	// StoreRetries is the number of retries after a transient failure.
	StoreRetries int `mapstructure:"storeRetries"`
	// InvoiceLockTTLSeconds bounds how long a per-task invoice lock is held.
	InvoiceLockTTLSeconds int `mapstructure:"invoiceLockTTLSeconds"`
}

func DefaultBillingConfig() BillingConfig {
	return BillingConfig{
		TaxRate:               0.19,
		BaseCurrency:          "COP",
		Timezone:              "America/Bogota",
		StoreTimeoutSeconds:   5,
		StoreRetries:          1,
		InvoiceLockTTLSeconds: 30,
	}
}

// Location resolves the configured practice timezone, falling back to UTC
// when the zone name is unknown.
func (c BillingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type BillingConfigHolder struct {
	current atomic.Value // holds BillingConfig
}

func NewBillingConfigHolder() (*BillingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("billing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/praxis/config") // Volume-mounted config
	v.AddConfigPath("/etc/praxis")            // System config
	v.AddConfigPath(".")                      // Current directory (dev mode)

	v.SetEnvPrefix("PRAXIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultBillingConfig()
	v.SetDefault("billing.taxRate", defaults.TaxRate)
	v.SetDefault("billing.baseCurrency", defaults.BaseCurrency)
	v.SetDefault("billing.timezone", defaults.Timezone)
	v.SetDefault("billing.storeTimeoutSeconds", defaults.StoreTimeoutSeconds)
	v.SetDefault("billing.storeRetries", defaults.StoreRetries)
	v.SetDefault("billing.invoiceLockTTLSeconds", defaults.InvoiceLockTTLSeconds)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg BillingConfig
	if err := v.UnmarshalKey("billing", &cfg); err != nil {
		return nil, err
	}
	if err := validateBillingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &BillingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated BillingConfig
		if err := v.UnmarshalKey("billing", &updated); err != nil {
			log.Printf("[billing-config] reload failed: %v", err)
			return
		}
		if err := validateBillingConfig(updated); err != nil {
			log.Printf("[billing-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[billing-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticBillingConfigHolder wraps a fixed config; test helper.
func NewStaticBillingConfigHolder(cfg BillingConfig) *BillingConfigHolder {
	holder := &BillingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *BillingConfigHolder) Get() BillingConfig {
	return h.current.Load().(BillingConfig)
}

func validateBillingConfig(cfg BillingConfig) error {
	if cfg.TaxRate < 0 || cfg.TaxRate >= 1 {
		return errors.New("billing.taxRate must be in [0, 1)")
	}
	if strings.TrimSpace(cfg.BaseCurrency) == "" {
		return errors.New("billing.baseCurrency cannot be empty")
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return err
	}
	if cfg.StoreTimeoutSeconds <= 0 {
		return errors.New("billing.storeTimeoutSeconds must be positive")
	}
	if cfg.StoreRetries < 0 {
		return errors.New("billing.storeRetries cannot be negative")
	}
	return nil
}
