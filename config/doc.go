// Package config loads service configuration with Viper.
//
// Sources are applied in order: a YAML config file, a dotenv file loaded
// with godotenv, then environment variables carrying the service prefix.
// MODELOPTIONS_REDIS_OPTION_TTL=1h sets redis.option_ttl for the
// "modeloptions" service.
//
//	var cfg bootstrap.Config
//	if err := config.Load("modeloptions", &cfg); err != nil { ... }
package config
