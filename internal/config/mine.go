package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type MineConfig struct {
	Count uint
}

func (c MineConfig) Validate() error {
	if c.Count == 0 {
		return fmt.Errorf("count must be at least 1")
	}
	return nil
}

func LoadMineConfigFromCLI() MineConfig {
	return MineConfig{
		Count: viper.GetUint("count"),
	}
}
