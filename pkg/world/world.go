// Package world 描述一个世界（共享存档和大地图的一组关卡）
//
// 世界目录结构：
//
//	<basedir>/info           世界信息（可选）
//	<basedir>/worldmap.stwm  默认大地图
//	<basedir>/levels/*.stl   关卡
//	<basedir>/locale/*.yaml  翻译（可选）
package world

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/decker502/tux/pkg/level"
)

const (
	// InfoFile 世界信息文件名
	InfoFile = "info"
	// InfoRootTag 世界信息文档的根标签
	InfoRootTag = "supertux-world"
	// DefaultWorldmap 默认大地图文件名
	DefaultWorldmap = "worldmap.stwm"
	// SavegameExt 存档文件扩展名
	SavegameExt = ".stsg"
)

// Options 存档位置
type Options struct {
	SaveDir string // 存档根目录
	Profile int    // 存档槽位（从 1 开始）
}

// World 世界描述，创建后不可修改
type World struct {
	basedir          string
	title            string
	description      string
	worldmap         string
	levelset         bool
	hideFromContribs bool
	saveDir          string
	profile          int
}

// Load 读取世界描述
//
// 参数：
//   - basedir: 世界根目录
//   - opts: 存档位置
//
// 返回：
//   - *World: 世界描述
//   - error: basedir 不存在或 info 文件无法解析时返回错误（info 文件缺失不是错误）
func Load(basedir string, opts Options) (*World, error) {
	stat, err := os.Stat(basedir)
	if err != nil {
		return nil, fmt.Errorf("world %s: %w", basedir, err)
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("world %s: not a directory", basedir)
	}

	if opts.Profile <= 0 {
		opts.Profile = 1
	}

	w := &World{
		basedir:  basedir,
		title:    filepath.Base(basedir),
		worldmap: DefaultWorldmap,
		saveDir:  opts.SaveDir,
		profile:  opts.Profile,
	}

	infoPath := filepath.Join(basedir, InfoFile)
	doc, err := level.ParseDocument(infoPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("[World] No info file in %s, using defaults", basedir)
			return w, nil
		}
		return nil, fmt.Errorf("world info: %w", err)
	}

	root := doc.Root()
	if root.Name() != InfoRootTag {
		return nil, fmt.Errorf("world info %s: unexpected root %q", infoPath, root.Name())
	}
	mapping, err := root.Mapping()
	if err != nil {
		return nil, fmt.Errorf("world info %s: %w", infoPath, err)
	}

	mapping.GetString("title", &w.title)
	mapping.GetString("description", &w.description)
	mapping.GetString("worldmap", &w.worldmap)
	mapping.GetBool("levelset", &w.levelset)
	mapping.GetBool("hide-from-contribs", &w.hideFromContribs)
	return w, nil
}

// Basedir returns the world's base directory.
func (w *World) Basedir() string { return w.basedir }

// Title returns the world's display title.
func (w *World) Title() string { return w.title }

// Description returns the world's description.
func (w *World) Description() string { return w.description }

// IsLevelset reports whether the world is a plain set of levels without a
// worldmap.
func (w *World) IsLevelset() bool { return w.levelset }

// HideFromContribs reports whether the world is hidden from the contrib menu.
func (w *World) HideFromContribs() bool { return w.hideFromContribs }

// WorldmapFilename 默认大地图路径：basedir + "/" + 大地图文件名
func (w *World) WorldmapFilename() string {
	return w.basedir + "/" + w.worldmap
}

// SavegameFilename 存档路径：<saveDir>/profile<N>/<世界目录名>.stsg
func (w *World) SavegameFilename() string {
	return filepath.Join(w.saveDir, fmt.Sprintf("profile%d", w.profile), filepath.Base(w.basedir)+SavegameExt)
}
