// Package config provides configuration management for the loader CLI.
//
// It utilizes Viper for loading configuration from environment variables
// and a .env file; struct-tag defaults are bound via reflection so every
// key works with AutomaticEnv.
//
// The Config struct is divided into subsections:
//   - Database: connection details (driver, host, credentials)
//   - Storage: S3/MinIO credentials and bucket for remote input files
//   - Log: logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Database.Host)
package config
