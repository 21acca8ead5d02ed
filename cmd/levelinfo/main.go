// levelinfo 打印关卡文件的名称读取结果
//
// 用法：
//
//	go run ./cmd/levelinfo [--lang de] [--verbose] <关卡文件或目录>...
//
// 目录会被递归扫描 .stl 文件。任何文件读取失败时退出码为 1。
package main

import (
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/decker502/tux/pkg/i18n"
	"github.com/decker502/tux/pkg/level"
)

var (
	lang    = flag.String("lang", "", "翻译语言，例如 de")
	verbose = flag.Bool("verbose", false, "显示详细日志")
)

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: levelinfo [--lang LANG] <level file or directory>...")
		os.Exit(2)
	}

	files, err := collect(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "levelinfo: %v\n", err)
		os.Exit(1)
	}

	dict := i18n.NewDictionary(*lang)
	out := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	failed := false
	for _, file := range files {
		res := level.ReadName(file, dict)
		line := fmt.Sprintf("%s\t%s\t%s", file, res.Status, res.Name)
		if res.Err != nil {
			line += "\t" + res.Err.Error()
		}
		if res.Status == level.NameParseFailed {
			failed = true
		}
		fmt.Fprintln(out, line)
	}
	_ = out.Flush()

	if failed {
		os.Exit(1)
	}
}

// collect 展开参数：文件原样保留，目录递归查找 .stl
func collect(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		stat, err := os.Stat(arg)
		if err != nil || !stat.IsDir() {
			// 不存在的文件交给 ReadName 报告
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".stl") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
