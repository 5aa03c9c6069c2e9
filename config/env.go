package config

import "os"

// Environment selects how configuration is loaded
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment reads the runtime environment. CI is detected from the
// runner's variable; everything else comes from ENV and defaults to
// development.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}
	switch os.Getenv("ENV") {
	case "production":
		return Production
	case "test":
		return Test
	default:
		return Development
	}
}

// IsProduction reports whether credentials must come from Docker secrets
// rather than plain environment variables
func IsProduction() bool {
	return GetEnvironment() == Production
}
