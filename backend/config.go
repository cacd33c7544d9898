package backend

import (
	"os"
	"sync"

	"github.com/dweymouth/mprisbar/backend/module"
	"github.com/pelletier/go-toml/v2"
)

type AppConfig struct {
	// CommandPrefix is the shell command polybar runs for click actions;
	// the module command identifier is appended to it.
	CommandPrefix string
	// PlainText disables click actions in the output.
	PlainText bool
}

type Config struct {
	Application AppConfig
	Module      module.Config
}

func DefaultConfig(appName string) *Config {
	return &Config{
		Application: AppConfig{
			CommandPrefix: appName + " -command ",
			PlainText:     false,
		},
		Module: module.DefaultConfig(),
	}
}

func ReadConfigFile(filepath, appName string) (*Config, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c := DefaultConfig(appName)
	if err := toml.NewDecoder(f).Decode(c); err != nil {
		return nil, err
	}
	if c.Module.Interval <= 0 {
		c.Module.Interval = module.DefaultConfig().Interval
	}
	return c, nil
}

var writeLock sync.Mutex

// WriteConfigFile saves c, e.g. to seed a config file with the defaults.
func (c *Config) WriteConfigFile(filepath string) error {
	if !writeLock.TryLock() {
		return nil // another write in progress
	}
	defer writeLock.Unlock()

	b, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, b, 0644)
}
