package config

import (
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Storage
		Auth
		Audit
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Storage struct {
		Root string // Base directory under which books/ and users/ live
	}
	Auth struct {
		BcryptCost int
	}
	Audit struct {
		Dir             string
		RetentionDays   int    // Days to keep audit events (default: 30)
		CleanupSchedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("storage_root", DefaultStorageRoot)
	v.SetDefault("audit_dir", "./audit")
	v.SetDefault("audit_retention_days", 30)
	v.SetDefault("audit_cleanup_schedule", "0 3 * * *")

	// Auth defaults
	v.SetDefault("auth_bcrypt_cost", 12) // bcrypt cost factor

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Storage: Storage{
			Root: v.GetString("STORAGE_ROOT"),
		},
		Auth: Auth{
			BcryptCost: v.GetInt("AUTH_BCRYPT_COST"),
		},
		Audit: Audit{
			Dir:             v.GetString("AUDIT_DIR"),
			RetentionDays:   v.GetInt("AUDIT_RETENTION_DAYS"),
			CleanupSchedule: v.GetString("AUDIT_CLEANUP_SCHEDULE"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
