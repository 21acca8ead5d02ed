//go:build !mobile

// Package mobile 是 Tux 的 ebitenmobile 绑定入口
//
// 桌面构建只编译这个文件：内置世界和 app.NewApp 的调用都在 mobile.go 与
// embed.go 中，需要 -tags mobile 才会参与编译。
package mobile

// Dummy 保证桌面构建时 ./mobile 仍是一个可引用的包
func Dummy() {}
