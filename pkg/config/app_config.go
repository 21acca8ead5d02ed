// Package config 应用启动配置
//
// 配置来源（优先级从低到高）：
//  1. 字段默认值（envDefault）
//  2. 环境变量 TUX_*
//  3. main.go 中的命令行参数
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// 窗口尺寸（逻辑分辨率）
const (
	GameWindowWidth  = 640
	GameWindowHeight = 480
)

// DefaultWorld 内置世界的目录名
const DefaultWorld = "icyisland"

// AppConfig 应用配置
type AppConfig struct {
	// DataDir 数据目录：存放世界和存档，为空时使用用户配置目录下的 AppName
	DataDir string `env:"TUX_DATA_DIR"`
	// AppName gdata 存储使用的应用名
	AppName string `env:"TUX_APP_NAME" envDefault:"tux"`
	// Lang 界面语言（BCP 47），为空时使用已保存的设置
	Lang string `env:"TUX_LANG"`
	// Profile 存档槽位，0 表示使用已保存的设置
	Profile int `env:"TUX_PROFILE"`
	// Verbose 启用详细日志输出
	Verbose bool `env:"TUX_VERBOSE"`
	// WatchLevels 监听关卡文件变化并刷新关卡名
	WatchLevels bool `env:"TUX_WATCH_LEVELS"`
}

// LoadAppConfig 从环境变量读取配置
//
// 返回：
//   - AppConfig: 配置（DataDir 已补全）
//   - error: 环境变量格式错误（例如 TUX_PROFILE=abc）
func LoadAppConfig() (AppConfig, error) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Profile < 0 {
		cfg.Profile = 0
	}
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir(cfg.AppName)
	}
	return cfg, nil
}

func defaultDataDir(appName string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", appName)
	}
	return filepath.Join(dir, appName)
}

// WorldsDir 世界目录：<DataDir>/worlds
func (c AppConfig) WorldsDir() string {
	return filepath.Join(c.DataDir, "worlds")
}

// SaveDir 存档目录：<DataDir>/saves
func (c AppConfig) SaveDir() string {
	return filepath.Join(c.DataDir, "saves")
}
