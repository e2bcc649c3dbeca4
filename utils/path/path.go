package path

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// RootPath 專案根目錄（由此檔案位置往上兩層推回）
func RootPath() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		panic("❌ 無法取得 caller 位置")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
}

// Resolve 相對路徑接在 base 之後；絕對路徑原樣回傳
func Resolve(base string, elem ...string) string {
	p := filepath.Join(elem...)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// Exists 路徑是否存在
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// EnsureParentDir 建立檔案所在目錄；sqlite 的 :memory: 與 file: DSN 不處理
func EnsureParentDir(file string) error {
	if file == "" || file == ":memory:" || strings.HasPrefix(file, "file:") {
		return nil
	}
	dir := filepath.Dir(file)
	if ok, err := Exists(dir); err != nil || ok {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}
