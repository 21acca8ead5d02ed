// Package embedded 提供内置世界的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）或 mobile 包中。
// 本包提供包装函数，让其他包可以访问内置的世界数据。
//
// 使用前必须调用 Init() 初始化。
package embedded

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
)

// WorldsRoot 嵌入文件系统中世界目录的前缀
const WorldsRoot = "data/worlds"

var (
	dataFS      fs.FS
	initialized bool
)

// Init 初始化嵌入的文件系统
// 必须在 main() 开始时、任何世界安装之前调用
func Init(data fs.FS) {
	dataFS = data
	initialized = true
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

func cleanPath(p string) string {
	// embed.FS 使用正斜杠
	p = filepath.ToSlash(p)
	return strings.TrimPrefix(p, "./")
}

// ReadFile 读取嵌入文件，路径必须以 "data/" 开头
func ReadFile(p string) ([]byte, error) {
	if !initialized {
		return nil, fmt.Errorf("embedded package not initialized, call Init() first")
	}
	p = cleanPath(p)
	if !strings.HasPrefix(p, "data/") {
		return nil, fmt.Errorf("unknown resource path prefix: %s (must start with 'data/')", p)
	}
	return fs.ReadFile(dataFS, p)
}

// Worlds 返回所有内置世界的目录名
func Worlds() ([]string, error) {
	if !initialized {
		return nil, fmt.Errorf("embedded package not initialized, call Init() first")
	}
	entries, err := fs.ReadDir(dataFS, WorldsRoot)
	if err != nil {
		return nil, fmt.Errorf("list bundled worlds: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// World 返回内置世界的子文件系统（根目录即世界根目录）
func World(name string) (fs.FS, error) {
	if !initialized {
		return nil, fmt.Errorf("embedded package not initialized, call Init() first")
	}
	dir := path.Join(WorldsRoot, cleanPath(name))
	if _, err := fs.Stat(dataFS, dir); err != nil {
		return nil, fmt.Errorf("bundled world %q: %w", name, err)
	}
	return fs.Sub(dataFS, dir)
}
