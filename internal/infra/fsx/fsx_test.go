package fsx

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFileAtomicReplace_SuccessAndNoTempLeft(t *testing.T) {
	dir := t.TempDir()

	if err := WriteFileAtomicReplace(dir, "a1.png", []byte("old")); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if err := WriteFileAtomicReplace(dir, "a1.png", []byte("new")); err != nil {
		t.Fatalf("覆盖写入不期望错误：%v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "a1.png"))
	if err != nil {
		t.Fatalf("读取文件失败：%v", err)
	}
	if string(b) != "new" {
		t.Fatalf("内容不一致：%q", string(b))
	}

	assertNoTemp(t, dir, "a1.png")
}

func TestWriteFileAtomicReplace_RenameFail_CleanupTemp(t *testing.T) {
	dir := t.TempDir()

	old := renameFunc
	renameFunc = func(oldpath, newpath string) error {
		return os.ErrPermission
	}
	defer func() { renameFunc = old }()

	if err := WriteFileAtomicReplace(dir, "a1.png", []byte("x")); err == nil {
		t.Fatalf("期望失败，但得到 nil")
	}

	assertNoTemp(t, dir, "a1.png")
	if _, err := os.Stat(filepath.Join(dir, "a1.png")); !os.IsNotExist(err) {
		t.Fatalf("不应写出最终文件，Stat err=%v", err)
	}
}

func TestWriteFileAtomicReplace_TargetIsDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "a1.png"), 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}

	err := WriteFileAtomicReplace(dir, "a1.png", []byte("x"))
	if !IsPathTypeConflict(err) {
		t.Fatalf("期望 PathTypeConflictError，实际：%T %v", err, err)
	}
}

func TestRemoveFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatalf("写入失败：%v", err)
	}

	if err := RemoveFile(p); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if _, err := os.Stat(p); !os.IsNotExist(err) {
		t.Fatalf("文件应已删除，Stat err=%v", err)
	}

	// 再删一次：不存在必须报错。
	if err := RemoveFile(p); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("期望 ErrNotExist，实际：%v", err)
	}
}

func TestRemoveFile_RefusesDirectory(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "empty")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}

	if err := RemoveFile(sub); !IsPathTypeConflict(err) {
		t.Fatalf("期望 PathTypeConflictError，实际：%T %v", err, err)
	}
	if _, err := os.Stat(sub); err != nil {
		t.Fatalf("目录不应被删除：%v", err)
	}
}

func TestRemoveFile_PermissionError(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatalf("写入失败：%v", err)
	}

	old := removeFunc
	removeFunc = func(string) error { return os.ErrPermission }
	defer func() { removeFunc = old }()

	if err := RemoveFile(p); !errors.Is(err, os.ErrPermission) {
		t.Fatalf("期望 ErrPermission，实际：%v", err)
	}
}

func TestRenameNoReplace(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "[x] Set01")
	dst := filepath.Join(base, "Set01")
	if err := os.Mkdir(src, 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}

	if err := RenameNoReplace(src, dst); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("目标目录应存在：%v", err)
	}
}

func TestRenameNoReplace_TargetExists(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "[x] Set01")
	dst := filepath.Join(base, "Set01")
	for _, d := range []string{src, dst} {
		if err := os.Mkdir(d, 0o755); err != nil {
			t.Fatalf("创建目录失败：%v", err)
		}
	}

	err := RenameNoReplace(src, dst)
	if !errors.Is(err, fs.ErrExist) {
		t.Fatalf("期望 ErrExist，实际：%v", err)
	}
	// 源目录必须原样保留（空目标目录也不能被替换）。
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("源目录不应消失：%v", err)
	}
}

func assertNoTemp(t *testing.T, dir, name string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir 失败：%v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "."+name+".tmp-") {
			t.Fatalf("临时文件未清理：%q", e.Name())
		}
	}
}

func TestCheckThenRename_TargetExists(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "a")
	dst := filepath.Join(base, "b")
	for _, d := range []string{src, dst} {
		if err := os.Mkdir(d, 0o755); err != nil {
			t.Fatalf("创建目录失败：%v", err)
		}
	}

	if err := checkThenRename(src, dst); !errors.Is(err, fs.ErrExist) {
		t.Fatalf("期望 ErrExist，实际：%v", err)
	}
	if err := os.Remove(dst); err != nil {
		t.Fatalf("删除失败：%v", err)
	}
	if err := checkThenRename(src, dst); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
}
