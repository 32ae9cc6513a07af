package config

import "github.com/ilyakaznacheev/cleanenv"

// parseEnv overlays variables named by the `env` struct tags. Unset variables
// leave the current value untouched. Malformed values panic.
func parseEnv(config *Config) {
	if err := cleanenv.ReadEnv(config); err != nil {
		panic(err)
	}
}
