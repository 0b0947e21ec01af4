package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "DNS_ADJUSTER"

const (
	DefaultTTL       = 300
	DefaultTimeout   = 10
	DefaultPrimary   = "https://api.ipify.org"
	DefaultSecondary = "https://ident.me"
	DefaultRegion    = "us-east-1"
)

var ErrInvalid = errors.New("invalid configuration")

// New returns a viper instance reading DNS_ADJUSTER_* environment variables,
// the optional config file and the bound command line flags.
func New(configFile string, flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogPath", "")
	v.SetDefault("IPFilePath", "")
	v.SetDefault("TTL", DefaultTTL)
	v.SetDefault("Network", "tcp4")
	v.SetDefault("Timeout", DefaultTimeout)
	v.SetDefault("Resolver.Primary", DefaultPrimary)
	v.SetDefault("Resolver.Secondary", DefaultSecondary)
	v.SetDefault("AWS.AccessKeyID", "")
	v.SetDefault("AWS.SecretAccessKey", "")
	v.SetDefault("AWS.Region", DefaultRegion)
	v.SetDefault("AWS.Profile", "")
	v.SetDefault("Notify.Enable", false)
	v.SetDefault("Notify.Provider", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// the target list keeps its historical variable name
	if err := v.BindEnv("Targets", EnvPrefix+"_CONFIG", EnvPrefix+"_TARGETS"); err != nil {
		return nil, err
	}

	if flags != nil {
		if f := flags.Lookup("log-level"); f != nil {
			if err := v.BindPFlag("LogLevel", f); err != nil {
				return nil, err
			}
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/" + strings.ToLower(AppName))
		v.AddConfigPath("$HOME/." + strings.ToLower(AppName))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return v, nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	c := new(Config)
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	switch {
	case c.LogPath == "":
		return fmt.Errorf("%w: %s_LOGPATH environment variable not set", ErrInvalid, EnvPrefix)
	case c.IPFilePath == "":
		return fmt.Errorf("%w: %s_IPFILEPATH environment variable not set", ErrInvalid, EnvPrefix)
	case strings.TrimSpace(c.Targets) == "":
		return fmt.Errorf("%w: %s_CONFIG environment variable not set", ErrInvalid, EnvPrefix)
	case c.TTL <= 0:
		return fmt.Errorf("%w: TTL must be positive, got %d", ErrInvalid, c.TTL)
	case c.Timeout <= 0:
		return fmt.Errorf("%w: Timeout must be positive, got %d", ErrInvalid, c.Timeout)
	}

	if c.Network != "tcp4" && c.Network != "tcp6" {
		return fmt.Errorf("%w: unsupported network %q", ErrInvalid, c.Network)
	}

	if c.Resolver == nil || c.Resolver.Primary == "" || c.Resolver.Secondary == "" {
		return fmt.Errorf("%w: both resolver URLs are required", ErrInvalid)
	}

	if c.AWS == nil {
		c.AWS = &AWS{Region: DefaultRegion}
	}

	if c.Notify != nil && c.Notify.Enable {
		switch c.Notify.Provider {
		case "telegram", "pushplus":
		default:
			return fmt.Errorf("%w: unsupported notify provider %q", ErrInvalid, c.Notify.Provider)
		}
	}

	return nil
}
