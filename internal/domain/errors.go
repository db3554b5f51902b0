package domain

import (
	"errors"
	"fmt"
)

// Kind 区分两类失败：文件系统 I/O 与图片编解码。
type Kind string

const (
	KindIO    Kind = "io_failed"
	KindImage Kind = "image_failed"
)

// Error 是处理流程中唯一的错误类型：Kind 用于诊断，Op/Path 用于定位。
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	prefix := "IO error"
	if e.Kind == KindImage {
		prefix = "Image error"
	}
	switch {
	case e.Op != "" && e.Path != "":
		return fmt.Sprintf("%s: %s %q: %v", prefix, e.Op, e.Path, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s: %v", prefix, e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %v", prefix, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// IOError 把 err 包装为 KindIO；err 已是 *Error 时原样返回（保留最初的分类）。
func IOError(op, path string, err error) error {
	return wrap(KindIO, op, path, err)
}

// ImageError 把 err 包装为 KindImage。
func ImageError(op, path string, err error) error {
	return wrap(KindImage, op, path, err)
}

func wrap(kind Kind, op, path string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// KindOf 提取 err 的 Kind；非 *Error 返回空串。
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
