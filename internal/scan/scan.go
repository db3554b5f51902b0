package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/John-Robertt/webp2png/internal/domain"
)

// Subdirs 列出 base 的直接子目录名（不递归）。指向目录的符号链接也算目录。
//
// 输出按名字排序，避免不同平台/文件系统的 ReadDir 顺序差异带来不确定性。
func Subdirs(base string) ([]string, error) {
	base = filepath.Clean(base)
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil, err
	}

	dirs := make([]string, 0, len(entries))
	for _, e := range entries {
		isDir, err := resolveIsDir(base, e)
		if err != nil {
			return nil, err
		}
		if isDir {
			dirs = append(dirs, e.Name())
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// Files 列出 dir 的直接文件条目（不递归，目录一律忽略）。
//
// 这是一次性快照：调用之后在 dir 中新出现的文件不会被看到。
// 扫描阶段只做 stat，不读文件内容。
func Files(dir string) ([]domain.FileEntry, error) {
	dir = filepath.Clean(dir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := make([]domain.FileEntry, 0, len(entries))
	for _, e := range entries {
		isDir, err := resolveIsDir(dir, e)
		if err != nil {
			return nil, err
		}
		if isDir {
			continue
		}

		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		if !info.Mode().IsRegular() && info.Mode()&fs.ModeSymlink == 0 {
			// 设备/管道/套接字等特殊文件：既不转换也不删除。
			continue
		}

		name := e.Name()
		files = append(files, domain.FileEntry{
			AbsPath: filepath.Join(dir, name),
			Name:    name,
			Ext:     filepath.Ext(name),
			Size:    info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// resolveIsDir 判断条目是否为目录；符号链接按其指向判断，悬空链接视为文件。
func resolveIsDir(parent string, e fs.DirEntry) (bool, error) {
	if e.IsDir() {
		return true, nil
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false, nil
	}
	fi, err := os.Stat(filepath.Join(parent, e.Name()))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return fi.IsDir(), nil
}
