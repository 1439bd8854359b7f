package config

// Config holds service-level settings read from the environment.
type Config struct {
	MongoURI      string
	MongoDatabase string
	RedisAddr     string
	HTTPPort      string

	AdminUsername string
	AdminPassword string
	JWTSecret     string
}

// Load reads configuration from the environment with development
// defaults.
func Load() *Config {
	return &Config{
		MongoURI:      getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnvOrDefault("MONGO_DATABASE", "aroha"),
		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		HTTPPort:      getEnvOrDefault("PORT", "8080"),
		AdminUsername: getEnvOrDefault("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnvOrDefault("ADMIN_PASSWORD", "password123"),
		JWTSecret:     getEnvOrDefault("JWT_SECRET", "super-secret-key-change-in-production"),
	}
}
