package structures

import "time"

type Server struct {
	Host string `mapstructure:"host" yaml:"host" validate:"required"`
	Port int    `mapstructure:"port" yaml:"port" validate:"required|uint|min:1|max:65535"`
}

type StorageConfig struct {
	Driver      string `mapstructure:"driver" yaml:"driver" validate:"required|in:file,sqlite,redis"`
	FilePath    string `mapstructure:"filePath" yaml:"filePath"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
	SQLitePath  string `mapstructure:"sqlitePath" yaml:"sqlitePath"`
	RedisAddr   string `mapstructure:"redisAddr" yaml:"redisAddr"`
	RedisPrefix string `mapstructure:"redisPrefix" yaml:"redisPrefix"`
}

type LoggerConfig struct {
	Level string `mapstructure:"level" yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `mapstructure:"mode" yaml:"mode" validate:"required|uint"`
	Dir   string `mapstructure:"dir" yaml:"dir" validate:"required"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled" yaml:"enabled"`
	Size    int           `mapstructure:"size" yaml:"size"`
	TTL     time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// RemoteConfig is the read-only configuration of the sync boundary.
// Enabled, BaseURL and Key map onto USE_REMOTE_API, API_BASE_URL and
// WECHAT_SCHEDULER_KEY.
type RemoteConfig struct {
	Enabled bool          `mapstructure:"enabled" yaml:"enabled"`
	BaseURL string        `mapstructure:"baseUrl" yaml:"baseUrl"`
	Key     string        `mapstructure:"key" yaml:"key"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type SignInConfig struct {
	Courses    []string `mapstructure:"courses" yaml:"courses"`
	Timezone   string   `mapstructure:"timezone" yaml:"timezone"`
	IDStrategy string   `mapstructure:"idStrategy" yaml:"idStrategy" validate:"in:timestamp,uuid"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server        `mapstructure:"webServer" yaml:"webServer"`
	Storage   StorageConfig `mapstructure:"storage" yaml:"storage"`
	Logger    LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Cache     CacheConfig   `mapstructure:"cache" yaml:"cache"`
	Metrics   MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	Remote    RemoteConfig  `mapstructure:"remote" yaml:"remote"`
	SignIn    SignInConfig  `mapstructure:"signin" yaml:"signin"`
}
