// Package i18n 提供关卡和世界文本的翻译
//
// 每个世界/关卡目录可以带一个 locale/ 子目录，其中每种语言一个 YAML 文件：
//
//	locale: de
//	messages:
//	  "Welcome to Antarctica": "Willkommen in der Antarktis"
//
// 读取关卡时调用 AddDirectory 注册关卡所在目录，之后 Translate 即可查到翻译。
package i18n

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// LocaleDir is the per-directory folder holding translation files.
const LocaleDir = "locale"

type localeFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Dictionary 翻译字典
//
// 注册过的目录会被记住，重复注册同一目录不会重新读取文件。
// 并发安全：关卡名缓存可能在文件监听协程中触发重新读取。
type Dictionary struct {
	mu       sync.RWMutex
	lang     language.Tag
	builder  *catalog.Builder
	tags     []language.Tag                  // 已加载的语言，第一个为回退语言
	keys     map[language.Tag]map[string]bool // 每种语言拥有的消息键
	dirs     map[string]bool
	printer  *message.Printer
	matchTag language.Tag
	matched  bool
}

// NewDictionary 创建翻译字典
//
// 参数：
//   - lang: 目标语言（如 "de"、"zh-CN"），空字符串或无法解析时使用英语
func NewDictionary(lang string) *Dictionary {
	d := &Dictionary{
		builder: catalog.NewBuilder(catalog.Fallback(language.English)),
		tags:    []language.Tag{language.English},
		keys:    map[language.Tag]map[string]bool{},
		dirs:    map[string]bool{},
	}
	d.lang = parseLanguage(lang)
	d.rebuild()
	return d
}

func parseLanguage(lang string) language.Tag {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return language.English
	}
	tag, err := language.Parse(lang)
	if err != nil {
		log.Printf("[Dictionary] Warning: unknown language %q, using English", lang)
		return language.English
	}
	return tag
}

// Language returns the target language.
func (d *Dictionary) Language() language.Tag {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lang
}

// SetLanguage 切换目标语言
func (d *Dictionary) SetLanguage(lang string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lang = parseLanguage(lang)
	d.rebuild()
}

// AddDirectory 注册一个翻译目录
//
// 读取 <dir>/locale/*.yaml。目录没有 locale 子目录时不是错误。
// 同一个目录只会被读取一次。
//
// 返回：
//   - error: 翻译文件存在但无法解析时返回错误（已成功读取的文件仍然生效）
func (d *Dictionary) AddDirectory(dir string) error {
	dir = filepath.Clean(dir)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.dirs[dir] {
		return nil
	}
	d.dirs[dir] = true

	paths, err := filepath.Glob(filepath.Join(dir, LocaleDir, "*.yaml"))
	if err != nil {
		return fmt.Errorf("glob translations in %s: %w", dir, err)
	}
	sort.Strings(paths)

	var firstErr error
	for _, path := range paths {
		if err := d.addFile(path); err != nil {
			log.Printf("[Dictionary] Warning: %v", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	d.rebuild()
	return firstErr
}

func (d *Dictionary) addFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read translation %s: %w", path, err)
	}

	var file localeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse translation %s: %w", path, err)
	}

	locale := strings.TrimSpace(file.Locale)
	if locale == "" {
		locale = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("translation %s: parse locale %q: %w", path, locale, err)
	}

	known, ok := d.keys[tag]
	if !ok {
		known = map[string]bool{}
		d.keys[tag] = known
		d.tags = append(d.tags, tag)
	}

	for key, value := range file.Messages {
		// 目录中的消息是格式串，翻译文本按字面输出
		if err := d.builder.SetString(tag, key, escapePercent(value)); err != nil {
			return fmt.Errorf("translation %s: key %q: %w", path, key, err)
		}
		known[key] = true
	}
	log.Printf("[Dictionary] Loaded %d messages for %s from %s", len(file.Messages), tag, path)
	return nil
}

// rebuild 重新匹配目标语言并创建 Printer，调用方必须持有写锁
func (d *Dictionary) rebuild() {
	matcher := language.NewMatcher(d.tags)
	_, index, confidence := matcher.Match(d.lang)
	d.matched = confidence != language.No && index > 0
	d.matchTag = d.tags[index]
	d.printer = message.NewPrinter(d.matchTag, message.Catalog(d.builder))
}

// Translate 翻译一条消息，没有翻译时原样返回
func (d *Dictionary) Translate(msg string) string {
	if msg == "" {
		return msg
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.matched || !d.keys[d.matchTag][msg] {
		return msg
	}
	return d.printer.Sprintf(message.Key(msg, escapePercent(msg)))
}

func escapePercent(s string) string {
	return strings.ReplaceAll(s, "%", "%%")
}
