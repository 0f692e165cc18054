package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the global application configuration
var Config AppConfig

// LoadAppConfig loads and validates the application configuration from config.yml
func LoadAppConfig() error {
	paths := []string{"config.yml", "./golang/config.yml"}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}
	v := validator.New()
	if err := v.Struct(cfg.Server); err != nil {
		return err
	}
	if err := v.Struct(cfg.Cache); err != nil {
		return err
	}
	if err := v.Struct(cfg.Router); err != nil {
		return err
	}
	Config = cfg
	ApplyDefaults(&Config)
	return nil
}

// ApplyDefaults fills unset fields with production defaults.
func ApplyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 16282
	}
	if cfg.Dataset.StopsPath == "" {
		cfg.Dataset.StopsPath = "assets/stops.bin"
	}
	if cfg.Dataset.RoutesPath == "" {
		cfg.Dataset.RoutesPath = "assets/routes.bin"
	}
	if cfg.Cache.MemoryCapacity == 0 {
		cfg.Cache.MemoryCapacity = 100
	}
	if cfg.Cache.MemoryTTLMinutes == 0 {
		cfg.Cache.MemoryTTLMinutes = 30
	}
	if cfg.Cache.PreloadLimit == 0 {
		cfg.Cache.PreloadLimit = 200
	}
	if cfg.Router.MaxRounds == 0 {
		cfg.Router.MaxRounds = 5
	}
}
