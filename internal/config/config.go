package config

import "os"

// Config holds the server configuration, read from the environment.
type Config struct {
	MongoURI  string
	MongoDB   string
	RedisAddr string
	HTTPPort  string

	JWTSecret              string
	InstructorUsername     string
	InstructorPassword     string
	InstructorPasswordHash string
}

// Load reads the configuration from environment variables, falling back to
// development defaults.
func Load() *Config {
	return &Config{
		MongoURI:  getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:   getEnvOrDefault("MONGO_DB", "liveform"),
		RedisAddr: getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		HTTPPort:  getEnvOrDefault("HTTP_PORT", "8080"),

		JWTSecret:              getEnvOrDefault("JWT_SECRET", "super-secret-key-change-in-production"),
		InstructorUsername:     getEnvOrDefault("INSTRUCTOR_USERNAME", "prof"),
		InstructorPassword:     getEnvOrDefault("INSTRUCTOR_PASSWORD", "password123"),
		InstructorPasswordHash: os.Getenv("INSTRUCTOR_PASSWORD_HASH"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
