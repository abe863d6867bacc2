package config

import (
	"encoding/json"
	"fmt"
)

// PrintConfig dumps the effective configuration to stdout with secrets
// redacted.
func PrintConfig(cfg *Config) {
	redacted := *cfg
	redacted.Database.Password = mask(redacted.Database.Password)
	redacted.RabbitMQ.Password = mask(redacted.RabbitMQ.Password)
	redacted.Redis.Password = mask(redacted.Redis.Password)
	redacted.Geocoder.APIKey = mask(redacted.Geocoder.APIKey)
	redacted.Auth.JWTSecret = mask(redacted.Auth.JWTSecret)

	out, err := json.MarshalIndent(redacted, "", "  ")
	if err != nil {
		fmt.Printf("failed to print config: %v\n", err)
		return
	}

	fmt.Printf("configuration:\n%s\n", out)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}
