package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	// ErrCodeBaseNotFound 表示 base 路径不存在。
	ErrCodeBaseNotFound = "base_not_found"
	// ErrCodeBaseNotDir 表示 base 路径存在但不是目录。
	ErrCodeBaseNotDir = "base_not_dir"
	// ErrCodeInvalid 表示参数无法规范化或不合法。
	ErrCodeInvalid = "config_invalid"
)

// DefaultBasePath 是未指定 base 路径时的内置默认值（相对 cwd）。
const DefaultBasePath = "input"

// CLIArgs 是 CLI 暴露的全部入口；BasePath 为空表示使用 DefaultBasePath。
type CLIArgs struct {
	BasePath     string
	RemoveFirst  string
	RemoveSecond string
	DryRun       bool
}

// Config 是规范化后的最终配置（实现层直接消费，不再做二次默认判断）。
type Config struct {
	BasePath string // clean + absolute

	// 目录改名时依次移除的两个字面子串；空串表示不处理。
	RemoveFirst  string
	RemoveSecond string

	DryRun bool

	// Concurrency 同时约束目录 worker 数与全局同时进行的转换数。
	// 固定为硬件并行度，不对外暴露。
	Concurrency int
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeBaseNotFound:
		return fmt.Sprintf("%s：base 路径不存在 %q", e.Code, e.Path)
	case ErrCodeBaseNotDir:
		return fmt.Sprintf("%s：base 路径不是目录 %q", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%q：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：%q", e.Code, e.Path)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Load 把 CLI 参数合并为最终配置，并确认 base 路径是一个已存在的目录。
//
// - base：CLI > DefaultBasePath；相对路径以 cwd 为基准
// - 改名子串：原样保留（不 trim，空格也可能是要移除的内容）
func Load(cwd string, cli CLIArgs) (Config, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return Config{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	raw := cli.BasePath
	if strings.TrimSpace(raw) == "" {
		raw = DefaultBasePath
	}
	base := absCleanFrom(cwdAbs, raw)

	fi, err := os.Stat(base)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, &Error{Code: ErrCodeBaseNotFound, Path: base, Err: err}
		}
		return Config{}, &Error{Code: ErrCodeInvalid, Path: base, Err: err}
	}
	if !fi.IsDir() {
		return Config{}, &Error{Code: ErrCodeBaseNotDir, Path: base}
	}

	for _, s := range []string{cli.RemoveFirst, cli.RemoveSecond} {
		if strings.ContainsAny(s, `/`+string(filepath.Separator)) {
			return Config{}, &Error{Code: ErrCodeInvalid, Path: base, Err: fmt.Errorf("改名子串不能包含路径分隔符：%q", s)}
		}
	}

	return Config{
		BasePath:     base,
		RemoveFirst:  cli.RemoveFirst,
		RemoveSecond: cli.RemoveSecond,
		DryRun:       cli.DryRun,
		Concurrency:  DefaultConcurrency(),
	}, nil
}

// DefaultConcurrency 返回硬件并行度（至少为 1）。
func DefaultConcurrency() int {
	n := runtime.NumCPU()
	if n < 1 {
		n = 1
	}
	return n
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
func absCleanFrom(base, p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}
