package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/tux/pkg/app"
	"github.com/decker502/tux/pkg/config"
	"github.com/decker502/tux/pkg/embedded"
)

var (
	worldFlag   = flag.String("world", "", "世界目录或世界名（默认使用内置世界）")
	levelFlag   = flag.String("level", "", "直接进入的关卡（相对于世界目录），为空则进入大地图")
	verboseFlag = flag.Bool("verbose", false, "显示详细日志")
	langFlag    = flag.String("lang", "", "界面语言，例如 de、fr")
)

func main() {
	flag.Parse()

	envCfg, err := config.LoadAppConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "配置错误: %v\n", err)
		os.Exit(2)
	}

	// 命令行参数覆盖环境变量
	if *verboseFlag {
		envCfg.Verbose = true
	}
	if *langFlag != "" {
		envCfg.Lang = *langFlag
	}

	// worldsFS 在 embed.go 中声明
	embedded.Init(worldsFS)

	gameApp, err := app.NewApp(app.Config{
		AppConfig: envCfg,
		World:     *worldFlag,
		Level:     *levelFlag,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "游戏初始化失败: %v\n", err)
		os.Exit(1)
	}
	defer gameApp.Close()

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle("SuperTux")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(gameApp.Settings().Fullscreen)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatal(err)
	}
}
