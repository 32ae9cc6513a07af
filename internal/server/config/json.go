package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/controlpanel/internal/flagx"
	"github.com/dmitrijs2005/controlpanel/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Only keys present
// in the file override the current values.
type JsonConfig struct {
	AppName                  *string         `json:"app_name"`
	Environment              *string         `json:"environment"`
	HTTPAddr                 *string         `json:"http_addr"`
	GRPCAddr                 *string         `json:"grpc_addr"`
	DatabaseDSN              *string         `json:"database_url"`
	SecretKey                *string         `json:"secret_key"`
	Algorithm                *string         `json:"algorithm"`
	AccessTokenExpireMinutes *int            `json:"access_token_expire_minutes"`
	BcryptCost               *int            `json:"bcrypt_cost"`
	FitnessUsername          *string         `json:"garmin_username"`
	FitnessPassword          *string         `json:"garmin_password"`
	APIBaseURL               *string         `json:"api_base_url"`
	LogLevel                 *string         `json:"log_level"`
	LogFormat                *string         `json:"log_format"`
	RequestTimeout           *timex.Duration `json:"request_timeout"`
	CORSAllowedOrigins       []string        `json:"cors_allowed_origins"`
}

// parseJson loads the file named by -c / -config (or $CONFIG_PATH) into config.
// Nothing happens when no path is given. Unreadable or invalid files panic.
func parseJson(config *Config) {
	path := flagx.ConfigFilePath()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.AppName, c.AppName)
	setString(&config.Environment, c.Environment)
	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCAddr, c.GRPCAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.Algorithm, c.Algorithm)
	setString(&config.FitnessUsername, c.FitnessUsername)
	setString(&config.FitnessPassword, c.FitnessPassword)
	setString(&config.APIBaseURL, c.APIBaseURL)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)

	if c.AccessTokenExpireMinutes != nil {
		config.AccessTokenExpireMinutes = *c.AccessTokenExpireMinutes
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.RequestTimeout != nil {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
	if c.CORSAllowedOrigins != nil {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
