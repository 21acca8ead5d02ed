//go:build mobile

// embed.go - 移动端资源嵌入声明
//
// 此文件仅在使用 -tags mobile 构建时编译。
// 构建前需要把项目根目录的 data/worlds 复制到 mobile/data/worlds：
//
//	mkdir -p mobile/data && cp -r data/worlds mobile/data/
//	go build -tags mobile ./mobile
package mobile

import "embed"

//go:embed all:data/worlds
var worldsFS embed.FS
