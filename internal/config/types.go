package config

import "time"

// Config is the top-level dn-house configuration, corresponding to
// config.yaml.
type Config struct {
	API    APIConfig    `yaml:"api" koanf:"api"`
	Server ServerConfig `yaml:"server" koanf:"server"`
	Cache  CacheConfig  `yaml:"cache" koanf:"cache"`
	Menu   MenuConfig   `yaml:"menu" koanf:"menu"`
	Log    LogConfig    `yaml:"log" koanf:"log"`
}

// APIConfig points the backend client at the persistence API.
type APIConfig struct {
	BaseURL string        `yaml:"base_url" koanf:"base_url"`
	Timeout time.Duration `yaml:"timeout" koanf:"timeout"`
	Retries int           `yaml:"retries" koanf:"retries"`
}

// MarshalYAML writes the timeout as a duration string.
func (a APIConfig) MarshalYAML() (any, error) {
	return struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
		Retries int    `yaml:"retries"`
	}{a.BaseURL, a.Timeout.String(), a.Retries}, nil
}

// ServerConfig holds site server settings.
type ServerConfig struct {
	Addr           string        `yaml:"addr" koanf:"addr"`
	AllowedOrigins []string      `yaml:"allowed_origins" koanf:"allowed_origins"`
	RequestTimeout time.Duration `yaml:"request_timeout" koanf:"request_timeout"`
}

// MarshalYAML writes the request timeout as a duration string.
func (s ServerConfig) MarshalYAML() (any, error) {
	return struct {
		Addr           string   `yaml:"addr"`
		AllowedOrigins []string `yaml:"allowed_origins"`
		RequestTimeout string   `yaml:"request_timeout"`
	}{s.Addr, s.AllowedOrigins, s.RequestTimeout.String()}, nil
}

// CacheConfig selects the cache backend. RedisAddr wins over Dir when set.
type CacheConfig struct {
	Disabled      bool   `yaml:"disabled" koanf:"disabled"`
	Dir           string `yaml:"dir" koanf:"dir"`
	RedisAddr     string `yaml:"redis_addr" koanf:"redis_addr"`
	RedisPassword string `yaml:"redis_password,omitempty" koanf:"redis_password"`
	RedisDB       int    `yaml:"redis_db" koanf:"redis_db"`
}

// MenuConfig holds the default canvas settings for the photo menu.
type MenuConfig struct {
	Source     string  `yaml:"source" koanf:"source"`
	Count      int     `yaml:"count" koanf:"count"`
	Seed       uint64  `yaml:"seed" koanf:"seed"`
	Width      float64 `yaml:"width" koanf:"width"`
	Height     float64 `yaml:"height" koanf:"height"`
	Grid       bool    `yaml:"grid" koanf:"grid"`
	Background string  `yaml:"background" koanf:"background"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level" koanf:"level"`
}
