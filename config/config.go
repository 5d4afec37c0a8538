package config

import (
	"fmt"

	"github.com/spf13/viper"
)

var Config Configuration

type Configuration struct {
	Mode   string `mapstructure:"mode"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	OpenAI struct {
		APIKey string `mapstructure:"api_key"`
		Model  string `mapstructure:"model"`
	} `mapstructure:"openai"`
	OpenWeather struct {
		APIKey         string  `mapstructure:"api_key"`
		BaseURL        string  `mapstructure:"base_url"`
		TimeoutSeconds float64 `mapstructure:"timeout_seconds"`
		MaxRetries     int     `mapstructure:"max_retries"`
		BackoffFactor  float64 `mapstructure:"backoff_factor"`
		DefaultUnits   string  `mapstructure:"default_units"`
		DefaultLang    string  `mapstructure:"default_lang"`
	} `mapstructure:"openweather"`
	Agent struct {
		MaxTurns int `mapstructure:"max_turns"`
	} `mapstructure:"agent"`
}

func LoadConfig(env string) error {
	viper.SetConfigName(env)    // name of config file (without extension)
	viper.SetConfigType("yaml") // required if config file doesn't have an extension
	viper.AddConfigPath("config")

	viper.SetEnvPrefix("nimbus")
	viper.AutomaticEnv() // override config file with environment variables

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	if err := viper.Unmarshal(&Config); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	return nil
}
