package providers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"signin/internal/structures"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("webServer.host", "127.0.0.1")
	v.SetDefault("webServer.port", 8090)
	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.filePath", "./data/signin.dat")
	v.SetDefault("storage.sqlitePath", "./data/signin.db")
	v.SetDefault("storage.redisAddr", "127.0.0.1:6379")
	v.SetDefault("storage.redisPrefix", "signin:")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("logger.dir", "./logs")
	v.SetDefault("cache.size", 8)
	v.SetDefault("cache.ttl", "30s")
	v.SetDefault("remote.timeout", "5s")
	v.SetDefault("signin.courses", []string{"Piano", "Guzheng"})
	v.SetDefault("signin.idStrategy", "timestamp")
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	if flags.EnvFile != "" {
		if err := godotenv.Load(flags.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("unable to load env file: %w", err)
		}
	}

	v := viper.New()
	setConfigDefaults(v)

	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	_ = v.BindEnv("logger.level", "SIGNIN_LOG_LEVEL")
	_ = v.BindEnv("storage.driver", "SIGNIN_STORAGE_DRIVER")
	_ = v.BindEnv("storage.filePath", "SIGNIN_STORAGE_FILE")
	_ = v.BindEnv("remote.enabled", "USE_REMOTE_API")
	_ = v.BindEnv("remote.baseUrl", "API_BASE_URL")
	_ = v.BindEnv("remote.key", "WECHAT_SCHEDULER_KEY")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "AttendanceSignIn"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
