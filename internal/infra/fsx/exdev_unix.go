//go:build unix

package fsx

import (
	"errors"
	"syscall"
)

// isEXDEV 判断 rename 失败是否因为跨文件系统；*os.LinkError 会被 errors.Is 自动展开。
func isEXDEV(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}
