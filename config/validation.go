package config

import "fmt"

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that every field the server cannot run without
// is present. S3 and catalog settings are optional: photo upload and
// remote lookup degrade gracefully.
func ValidateConfig(cfg *Config) error {
	required := map[string]string{
		"jwt_secret": cfg.JWTSecret,
		"db_user":    cfg.DBUser,
		"db_name":    cfg.DBName,
	}
	for field, value := range required {
		if value == "" {
			return ValidationError{Field: field, Message: "is required"}
		}
	}
	if _, err := fmt.Sscanf(cfg.ServerPort, "%d", new(int)); err != nil {
		return ValidationError{Field: "server_port", Message: "must be numeric"}
	}
	return nil
}
