package world

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
)

// InstallBundled 把内置世界复制到 dst
//
// dst 已存在时什么也不做，避免覆盖玩家修改过的世界。
//
// 参数：
//   - bundle: 内置世界的文件系统（根目录即世界根目录）
//   - dst: 目标目录
func InstallBundled(bundle fs.FS, dst string) error {
	if _, err := os.Stat(dst); err == nil {
		return nil
	}

	err := fs.WalkDir(bundle, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		target := filepath.Join(dst, filepath.FromSlash(path))
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		data, err := fs.ReadFile(bundle, path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0644)
	})
	if err != nil {
		return fmt.Errorf("install bundled world to %s: %w", dst, err)
	}

	log.Printf("[World] Installed bundled world to %s", dst)
	return nil
}
