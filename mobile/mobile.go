//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包。
// 使用 ebitenmobile 工具构建时会自动调用 init() 函数。
//
// 此文件仅在使用 -tags mobile 构建时编译。
//
//	# Android
//	ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg org.supertux.tux -o build/android/tux.aar -v ./mobile
//
//	# iOS (仅 macOS)
//	ebitenmobile bind -target ios -tags mobile -o build/ios/Tux.xcframework -v ./mobile
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/decker502/tux/pkg/app"
	"github.com/decker502/tux/pkg/config"
	"github.com/decker502/tux/pkg/embedded"
)

func init() {
	// worldsFS 在 embed.go 中声明
	embedded.Init(worldsFS)

	envCfg, err := config.LoadAppConfig()
	if err != nil {
		log.Printf("[Mobile] Warning: %v (using defaults)", err)
		envCfg = config.AppConfig{AppName: "tux", Profile: 1}
	}
	envCfg.Verbose = true // Enable verbose logging for debugging

	gameApp, err := app.NewApp(app.Config{AppConfig: envCfg})
	if err != nil {
		log.Fatalf("游戏初始化失败: %v", err)
	}

	// 注册游戏到 ebitenmobile
	mobile.SetGame(gameApp)
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
