package main

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestCLI_EndToEnd(t *testing.T) {
	base := t.TempDir()

	sample, err := os.ReadFile(filepath.Join("..", "..", "internal", "infra", "imgx", "testdata", "sample.webp"))
	if err != nil {
		t.Fatalf("读取样例失败：%v", err)
	}
	mustWrite(t, filepath.Join(base, "[x] Set01", "a1.webp"), sample)
	mustWrite(t, filepath.Join(base, "[x] Set01", "junk!!.webp"), []byte("x"))
	mustWrite(t, filepath.Join(base, "notes.txt"), []byte("x"))

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("读取 cwd 失败：%v", err)
	}
	repoRoot := filepath.Clean(filepath.Join(wd, "..", ".."))

	cmd := exec.Command("go", "run", "./cmd/webp2png", "--remove-first", "[x] ", base)
	cmd.Dir = repoRoot

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		t.Fatalf("命令执行失败：%v\nstderr=%s\nstdout=%s", err, stderr.String(), stdout.String())
	}

	if _, err := os.Stat(filepath.Join(base, "Set01", "a1.png")); err != nil {
		t.Fatalf("期望生成 Set01/a1.png：%v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "notes.txt")); !os.IsNotExist(err) {
		t.Fatalf("notes.txt 应被清扫，Stat err=%v", err)
	}
	if !strings.HasPrefix(stdout.String(), "Elapsed: ") {
		t.Fatalf("stdout 应只包含耗时：%q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "完成：dirs=1 renamed=1 converted=1") {
		t.Fatalf("stderr 缺少完成摘要：%q", stderr.String())
	}
}

func TestCLI_FailureExitCode(t *testing.T) {
	base := t.TempDir()
	mustWrite(t, filepath.Join(base, "Set01", "bad1.webp"), []byte("corrupt"))

	wd, _ := os.Getwd()
	cmd := exec.Command("go", "run", "./cmd/webp2png", "-b", base)
	cmd.Dir = filepath.Clean(filepath.Join(wd, "..", ".."))

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()

	ee, ok := err.(*exec.ExitError)
	if !ok || ee.ExitCode() != 1 {
		t.Fatalf("期望退出码 1，实际：%v\nstderr=%s", err, stderr.String())
	}
	if !strings.Contains(stderr.String(), "Image error") {
		t.Fatalf("stderr 应包含首个错误：%q", stderr.String())
	}
}

func mustWrite(t *testing.T, path string, b []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("写入失败：%v", err)
	}
}
