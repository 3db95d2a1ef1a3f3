package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

type SysConfig struct {
	Location string `json:"location" yaml:"location"`
	Workdir  string `json:"workdir" yaml:"workdir"`
}

type WebConfig struct {
	Host   string `json:"host" yaml:"host"`
	Port   int    `json:"port" yaml:"port"`
	Secret string `json:"secret" yaml:"secret"`
}

type DBConfig struct {
	Type     string `json:"type" yaml:"type"`
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	Name     string `json:"name" yaml:"name"`
	User     string `json:"user" yaml:"user"`
	Passwd   string `json:"passwd" yaml:"passwd"`
	MaxConn  int    `json:"max_conn" yaml:"max_conn"`
	IdleConn int    `json:"idle_conn" yaml:"idle_conn"`
	Debug    bool   `json:"debug" yaml:"debug"`
}

type LogConfig struct {
	Mode       string `json:"mode" yaml:"mode"`
	FileEnable bool   `json:"file_enable" yaml:"file_enable"`
	Filename   string `json:"filename" yaml:"filename"`
}

type PollerConfig struct {
	Interval int `json:"interval" yaml:"interval"` // seconds between telemetry sweeps
	Workers  int `json:"workers" yaml:"workers"`   // concurrent device collectors
	Timeout  int `json:"timeout" yaml:"timeout"`   // per-device dial timeout seconds
}

type AppConfig struct {
	System   SysConfig    `json:"system" yaml:"system"`
	Web      WebConfig    `json:"web" yaml:"web"`
	Database DBConfig     `json:"database" yaml:"database"`
	Logger   LogConfig    `json:"logger" yaml:"logger"`
	Poller   PollerConfig `json:"poller" yaml:"poller"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("system.location", "Asia/Jakarta")
	v.SetDefault("system.workdir", "/var/radman")
	v.SetDefault("web.host", "0.0.0.0")
	v.SetDefault("web.port", 1816)
	v.SetDefault("web.secret", "9b6de5cc-radman-1816-b5aa-0dbb3be6a506")
	v.SetDefault("database.type", "postgres")
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "radman")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.passwd", "")
	v.SetDefault("database.max_conn", 100)
	v.SetDefault("database.idle_conn", 10)
	v.SetDefault("database.debug", false)
	v.SetDefault("logger.mode", "development")
	v.SetDefault("logger.file_enable", true)
	v.SetDefault("logger.filename", "/var/radman/radman.log")
	v.SetDefault("poller.interval", 300)
	v.SetDefault("poller.workers", 16)
	v.SetDefault("poller.timeout", 10)
}

// LoadConfig reads the yaml configuration file and merges RADMAN_*
// environment overrides. A missing file is not an error; defaults apply.
func LoadConfig(cfile string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("RADMAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if cfile != "" {
		if _, err := os.Stat(cfile); err == nil {
			v.SetConfigFile(cfile)
			if err := v.ReadInConfig(); err != nil {
				return nil, err
			}
		}
	}
	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
