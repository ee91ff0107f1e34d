package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds process configuration. Values come from an optional
// YAML file, overridable via SHOP_-prefixed environment variables.
type Config struct {
	DataDir     string `mapstructure:"data_dir"`
	Backend     string `mapstructure:"backend"` // pebble|badger|memory
	AuditSink   string `mapstructure:"audit_sink"`
	AuditDir    string `mapstructure:"audit_dir"`
	KafkaBroker string `mapstructure:"kafka_broker"`
	KafkaTopic  string `mapstructure:"kafka_topic"`
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// Audit sink selectors.
const (
	SinkNone  = "none"
	SinkFile  = "file"
	SinkKafka = "kafka"
	SinkBoth  = "both"
	SinkLog   = "log"
)

// Load reads config from path. A missing file is fine: defaults plus
// environment variables apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("data_dir", "./data/shop")
	v.SetDefault("backend", "pebble")
	v.SetDefault("audit_sink", SinkFile)
	v.SetDefault("audit_dir", "./audit")
	v.SetDefault("kafka_broker", "")
	v.SetDefault("kafka_topic", "shop.store-writes")
	v.SetDefault("metrics_addr", ":8080")

	v.SetEnvPrefix("SHOP")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, statErr := os.Stat(path); statErr == nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cf Config
	if err := v.Unmarshal(&cf); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	switch cf.Backend {
	case "pebble", "badger", "memory":
	default:
		return nil, fmt.Errorf("unknown backend %q", cf.Backend)
	}
	switch cf.AuditSink {
	case SinkNone, SinkFile, SinkKafka, SinkBoth, SinkLog:
	default:
		return nil, fmt.Errorf("unknown audit sink %q", cf.AuditSink)
	}
	if (cf.AuditSink == SinkKafka || cf.AuditSink == SinkBoth) && cf.KafkaBroker == "" {
		return nil, fmt.Errorf("audit sink %q requires kafka_broker", cf.AuditSink)
	}
	return &cf, nil
}
