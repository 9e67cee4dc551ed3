package config

// DefaultReportPort is the port show-report listens on when PORT is unset.
const DefaultReportPort = "9323"

// ServerConfig holds report server configuration
type ServerConfig struct {
	Port string `toml:"port" validate:"required,numeric"`
}

// LoadServerConfig loads server configuration from environment variables
func LoadServerConfig(getenv func(string) string) ServerConfig {
	port := getenv("PORT")
	if port == "" {
		port = DefaultReportPort
	}

	return ServerConfig{
		Port: port,
	}
}

// Addr returns the listen address for the report server.
func (c ServerConfig) Addr() string {
	return ":" + c.Port
}
