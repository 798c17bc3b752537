package pkg

import (
	"os"
	"path/filepath"
	"strings"
)

// CheckFileExist 检查文件是否存在
func CheckFileExist(filePath string) (bool, error) {
	_, err := os.Lstat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// OutputPath 把 filePath 的扩展名替换为 ext，没有扩展名时直接追加
func OutputPath(filePath, ext string) string {
	old := filepath.Ext(filePath)
	return strings.TrimSuffix(filePath, old) + ext
}

// WriteFileAtomic writes data to a temp file next to filePath and renames
// it into place, replacing any existing file.
func WriteFileAtomic(filePath string, data []byte, perm os.FileMode) (err error) {
	dir, base := filepath.Split(filePath)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filePath)
}
