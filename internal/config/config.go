package config

// Config holds client configuration values.
type Config struct {
	Host      string   `mapstructure:"host" yaml:"host"`
	Port      string   `mapstructure:"port" yaml:"port"`
	Transport string   `mapstructure:"transport" yaml:"transport"`
	Nick      string   `mapstructure:"nick" yaml:"nick"`
	Token     string   `mapstructure:"token" yaml:"token"`
	Channels  []string `mapstructure:"channels" yaml:"channels"`
	LogLevel  string   `mapstructure:"log_level" yaml:"log_level"`
}

// Default returns configuration pointing at the well-known secure chat
// endpoint. Nick and Token stay empty: an unset identity means an
// anonymous session.
func Default() Config {
	return Config{
		Host:      "irc.chat.twitch.tv",
		Port:      "6697",
		Transport: "tls",
		LogLevel:  "info",
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Host != "" {
		c.Host = other.Host
	}
	if other.Port != "" {
		c.Port = other.Port
	}
	if other.Transport != "" {
		c.Transport = other.Transport
	}
	if other.Nick != "" {
		c.Nick = other.Nick
	}
	if other.Token != "" {
		c.Token = other.Token
	}
	if len(other.Channels) > 0 {
		c.Channels = other.Channels
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
}
