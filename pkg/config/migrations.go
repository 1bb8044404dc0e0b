package config

import "fmt"

type MigrationsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

func (c *MigrationsConfig) Validate() error {
	if c.Enabled && c.Path == "" {
		return fmt.Errorf("migrations are enabled but path is not configured")
	}
	return nil
}
