package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LogConfig 日志输出与滚动策略
type LogConfig struct {
	File       string
	Level      string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Config 进程级配置：监听端口、静态资源目录、日志
type Config struct {
	Port      int
	StaticDir string
	Log       LogConfig

	// RoomIdleTimeout 创建后无人加入的房间保留时长
	RoomIdleTimeout time.Duration
}

// Addr 返回监听地址，例如 ":10000"
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// LoadConfig 读取配置：默认值 < 配置文件（可选）< 环境变量
// 端口来自环境变量 PORT，其余键使用 PADDLEBALL_ 前缀，如 PADDLEBALL_LOG_LEVEL
func LoadConfig(file string) (Config, error) {
	v := viper.New()
	v.SetDefault("port", 10000)
	v.SetDefault("static_dir", "public")
	v.SetDefault("room_idle_timeout", "10m")
	v.SetDefault("log.file", "app.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 7)
	v.SetDefault("log.compress", false)

	v.SetEnvPrefix("paddleball")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// 托管平台约定的端口变量不带前缀
	if err := v.BindEnv("port", "PORT"); err != nil {
		return Config{}, fmt.Errorf("bind PORT: %w", err)
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	cfg := Config{
		Port:            v.GetInt("port"),
		StaticDir:       v.GetString("static_dir"),
		RoomIdleTimeout: v.GetDuration("room_idle_timeout"),
		Log: LogConfig{
			File:       v.GetString("log.file"),
			Level:      v.GetString("log.level"),
			MaxSizeMB:  v.GetInt("log.max_size_mb"),
			MaxBackups: v.GetInt("log.max_backups"),
			MaxAgeDays: v.GetInt("log.max_age_days"),
			Compress:   v.GetBool("log.compress"),
		},
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.RoomIdleTimeout <= 0 {
		return Config{}, fmt.Errorf("invalid room_idle_timeout %s", cfg.RoomIdleTimeout)
	}
	return cfg, nil
}
