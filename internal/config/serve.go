package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type ServeConfig struct {
	Listen           string
	NodeID           string
	Peers            []string
	PeerTimeout      time.Duration
	MaxConcurrency   uint
	EnablePrometheus bool
	PrometheusAddr   string
}

func (c ServeConfig) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if c.MaxConcurrency == 0 {
		return fmt.Errorf("max-concurrency must be at least 1")
	}
	if c.PeerTimeout <= 0 {
		return fmt.Errorf("peer-timeout must be positive")
	}
	if c.EnablePrometheus && c.PrometheusAddr == "" {
		return fmt.Errorf("prometheus-addr must not be empty when Prometheus is enabled")
	}
	return nil
}

func LoadServeConfigFromCLI() ServeConfig {
	return ServeConfig{
		Listen:           viper.GetString("listen"),
		NodeID:           viper.GetString("node-id"),
		Peers:            viper.GetStringSlice("peer"),
		PeerTimeout:      viper.GetDuration("peer-timeout"),
		MaxConcurrency:   viper.GetUint("max-concurrency"),
		EnablePrometheus: viper.GetBool("enable-prometheus"),
		PrometheusAddr:   viper.GetString("prometheus-addr"),
	}
}
