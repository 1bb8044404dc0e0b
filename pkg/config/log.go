package config

import "fmt"

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func (c *LogConfig) Validate() error {
	switch c.Format {
	case "", "json", "text":
		return nil
	default:
		return fmt.Errorf("invalid log format: %s", c.Format)
	}
}
