package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/language"
)

// writeLocale 在 dir/locale 下写入翻译文件
func writeLocale(t *testing.T, dir, name, content string) {
	t.Helper()
	localeDir := filepath.Join(dir, LocaleDir)
	if err := os.MkdirAll(localeDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(localeDir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// TestDictionaryTranslate 验证注册目录后可以查到翻译
func TestDictionaryTranslate(t *testing.T) {
	dir := t.TempDir()
	writeLocale(t, dir, "de.yaml", `locale: de
messages:
  "Welcome to Antarctica": "Willkommen in der Antarktis"
`)

	d := NewDictionary("de")
	if got := d.Translate("Welcome to Antarctica"); got != "Welcome to Antarctica" {
		t.Errorf("before AddDirectory got %q", got)
	}

	if err := d.AddDirectory(dir); err != nil {
		t.Fatalf("AddDirectory() error: %v", err)
	}

	if got := d.Translate("Welcome to Antarctica"); got != "Willkommen in der Antarktis" {
		t.Errorf("Translate() = %q", got)
	}
	if got := d.Translate("Untranslated"); got != "Untranslated" {
		t.Errorf("unknown message should be returned as-is, got %q", got)
	}
}

// TestDictionaryPercentIsLiteral 翻译中的百分号按字面输出
func TestDictionaryPercentIsLiteral(t *testing.T) {
	dir := t.TempDir()
	writeLocale(t, dir, "de.yaml", `locale: de
messages:
  "100% Done": "100 % geschafft"
  "Plain": "50%d %s %%"
`)

	d := NewDictionary("de")
	if err := d.AddDirectory(dir); err != nil {
		t.Fatalf("AddDirectory() error: %v", err)
	}

	tests := []struct {
		msg  string
		want string
	}{
		{"100% Done", "100 % geschafft"},
		{"Plain", "50%d %s %%"},
		{"Missing 5% key", "Missing 5% key"},
	}
	for _, tt := range tests {
		if got := d.Translate(tt.msg); got != tt.want {
			t.Errorf("Translate(%q) = %q, want %q", tt.msg, got, tt.want)
		}
	}
}

func TestDictionaryRegionalVariantMatchesBase(t *testing.T) {
	dir := t.TempDir()
	writeLocale(t, dir, "de.yaml", "locale: de\nmessages:\n  Hello: Hallo\n")

	d := NewDictionary("de-AT")
	_ = d.AddDirectory(dir)

	if got := d.Translate("Hello"); got != "Hallo" {
		t.Errorf("Translate() = %q, want Hallo", got)
	}
}

func TestDictionaryEnglishUntouched(t *testing.T) {
	dir := t.TempDir()
	writeLocale(t, dir, "de.yaml", "locale: de\nmessages:\n  Hello: Hallo\n")

	d := NewDictionary("")
	_ = d.AddDirectory(dir)

	if d.Language() != language.English {
		t.Errorf("Language() = %v, want en", d.Language())
	}
	if got := d.Translate("Hello"); got != "Hello" {
		t.Errorf("Translate() = %q, want Hello", got)
	}
}

func TestDictionarySetLanguage(t *testing.T) {
	dir := t.TempDir()
	writeLocale(t, dir, "fr.yaml", "messages:\n  Hello: Bonjour\n")

	d := NewDictionary("en")
	_ = d.AddDirectory(dir)
	d.SetLanguage("fr")

	if got := d.Translate("Hello"); got != "Bonjour" {
		t.Errorf("Translate() = %q, want Bonjour (locale taken from filename)", got)
	}
}

// TestDictionaryMissingLocaleDir 没有 locale 目录不是错误
func TestDictionaryMissingLocaleDir(t *testing.T) {
	d := NewDictionary("de")
	if err := d.AddDirectory(t.TempDir()); err != nil {
		t.Errorf("AddDirectory() error: %v", err)
	}
}

func TestDictionaryBrokenFile(t *testing.T) {
	dir := t.TempDir()
	writeLocale(t, dir, "de.yaml", "messages: [broken")
	writeLocale(t, dir, "fr.yaml", "locale: fr\nmessages:\n  Hello: Bonjour\n")

	d := NewDictionary("fr")
	if err := d.AddDirectory(dir); err == nil {
		t.Error("expected an error for the broken file")
	}
	if got := d.Translate("Hello"); got != "Bonjour" {
		t.Errorf("valid files should still load, got %q", got)
	}
}

func TestDictionaryAddDirectoryOnce(t *testing.T) {
	dir := t.TempDir()
	writeLocale(t, dir, "de.yaml", "locale: de\nmessages:\n  Hello: Hallo\n")

	d := NewDictionary("de")
	_ = d.AddDirectory(dir)
	writeLocale(t, dir, "de.yaml", "locale: de\nmessages:\n  Hello: Servus\n")
	_ = d.AddDirectory(dir)

	if got := d.Translate("Hello"); got != "Hallo" {
		t.Errorf("second AddDirectory should not reload, got %q", got)
	}
}

func TestDictionaryInvalidLanguage(t *testing.T) {
	d := NewDictionary("!!not-a-tag")
	if d.Language() != language.English {
		t.Errorf("Language() = %v, want en", d.Language())
	}
}
