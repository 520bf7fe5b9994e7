package config

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// PostgresConfig defines the configuration for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`

	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`

	// SSMPrefix is the Parameter Store path holding host, user and password in prod.
	SSMPrefix string `mapstructure:"ssm_prefix"`
}

// Resolve returns a copy of cfg with the host and credentials it will connect
// with. In "prod" they come from AWS SSM Parameter Store under SSMPrefix,
// fetched in a single GetParameters call; elsewhere cfg is returned as is.
func (cfg PostgresConfig) Resolve(ctx context.Context, env string) (PostgresConfig, error) {
	if env != "prod" {
		return cfg, nil
	}

	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return cfg, fmt.Errorf("load aws config: %w", err)
	}
	return cfg.resolveFrom(ctx, ssm.NewFromConfig(awsCfg))
}

type parameterGetter interface {
	GetParameters(ctx context.Context, params *ssm.GetParametersInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersOutput, error)
}

func (cfg PostgresConfig) resolveFrom(ctx context.Context, api parameterGetter) (PostgresConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	host := path.Join(cfg.SSMPrefix, "host")
	user := path.Join(cfg.SSMPrefix, "user")
	password := path.Join(cfg.SSMPrefix, "password")
	decrypt := true

	out, err := api.GetParameters(ctx, &ssm.GetParametersInput{
		Names:          []string{host, user, password},
		WithDecryption: &decrypt,
	})
	if err != nil {
		return cfg, fmt.Errorf("ssm get parameters under %s: %w", cfg.SSMPrefix, err)
	}
	if len(out.InvalidParameters) > 0 {
		return cfg, fmt.Errorf("ssm parameters not found: %s", strings.Join(out.InvalidParameters, ", "))
	}

	values := make(map[string]string, len(out.Parameters))
	for _, p := range out.Parameters {
		if p.Name != nil && p.Value != nil {
			values[*p.Name] = *p.Value
		}
	}
	for _, name := range []string{host, user, password} {
		if values[name] == "" {
			return cfg, fmt.Errorf("ssm parameter %s is empty", name)
		}
	}

	cfg.Host, cfg.User, cfg.Password = values[host], values[user], values[password]
	return cfg, nil
}

// DSN builds the connection string for DBName. Call it on a resolved config.
func (cfg *PostgresConfig) DSN() string {
	return cfg.dsnFor(cfg.DBName)
}

// AdminDSN points at the maintenance "postgres" database, used to create cfg.DBName.
func (cfg *PostgresConfig) AdminDSN() string {
	return cfg.dsnFor("postgres")
}

func (cfg *PostgresConfig) dsnFor(dbName string) string {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, dbName, cfg.SSLMode,
	)

	if cfg.TimeZone != "" {
		dsn += fmt.Sprintf(" TimeZone=%s", cfg.TimeZone)
	}

	return dsn
}
