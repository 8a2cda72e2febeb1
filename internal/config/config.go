package config

import (
	"os"
	"strconv"

	pkgcfg "github.com/Skotchmaster/restaurant/pkg/config"
	"github.com/Skotchmaster/restaurant/pkg/db"
)

type Config struct {
	pkgcfg.Config

	MaxBookingsPerUser int

	ReceiptsDir      string
	ReceiptsS3Bucket string
	ReceiptsS3Prefix string

	AdminName        string
	AdminEmail       string
	AdminPassword    string
	AllowAdminSignup bool
}

func Load() *Config {
	cfg := &Config{
		Config: pkgcfg.Load(),

		MaxBookingsPerUser: pkgcfg.EnvIntDefault("MAX_BOOKINGS_PER_USER", 10),

		ReceiptsDir:      pkgcfg.EnvDefault("RECEIPTS_DIR", "receipts"),
		ReceiptsS3Bucket: os.Getenv("RECEIPTS_S3_BUCKET"),
		ReceiptsS3Prefix: pkgcfg.EnvDefault("RECEIPTS_S3_PREFIX", "receipts"),

		AdminName:     pkgcfg.EnvDefault("ADMIN_NAME", "Administrator"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
	cfg.AllowAdminSignup, _ = strconv.ParseBool(os.Getenv("ALLOW_ADMIN_SIGNUP"))

	pkgcfg.MustOneOf(cfg.DBDriver, "DB_DRIVER", db.DriverPostgres, db.DriverMySQL, db.DriverSQLite)
	pkgcfg.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	pkgcfg.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	pkgcfg.MustNonEmptyBytes(cfg.JWTRefreshSecret, "JWT_REFRESH_SECRET")
	pkgcfg.MustDiffer(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, "JWT_SECRET", "JWT_REFRESH_SECRET")

	if cfg.MaxBookingsPerUser <= 0 {
		cfg.MaxBookingsPerUser = 10
	}
	return cfg
}
