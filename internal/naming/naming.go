// Package naming 判定文件名是否为“规范源文件”，并计算目录改名结果。
//
// 这里的函数都是纯函数：不做 I/O，只看名字本身。
package naming

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/John-Robertt/webp2png/internal/domain"
)

const (
	// SourceExt 是源格式扩展名（大小写敏感）。
	SourceExt = ".webp"
	// TargetExt 是目标格式扩展名（大小写敏感）。
	TargetExt = ".png"
)

// 规范文件名：ASCII 字母/数字组成的 stem + 小写 .webp，两端锚定。
var canonicalRE = regexp.MustCompile(`^[a-zA-Z0-9]+\.webp$`)

// IsCanonical 报告 name 是否为规范源文件名。它是“保留还是删除”的唯一判定依据。
func IsCanonical(name string) bool {
	return canonicalRE.MatchString(name)
}

// Classify 对子目录内的文件名分类：
// - 规范源文件 => ClassConvert
// - 扩展名恰为 .png 且 stem 非空 => ClassSkip（不看内容，一律保留）；名为 ".png" 的隐藏文件没有扩展名
// - 其他 => ClassExtraneous
func Classify(name string) domain.FileClass {
	if IsCanonical(name) {
		return domain.ClassConvert
	}
	if filepath.Ext(name) == TargetExt && len(name) > len(TargetExt) {
		return domain.ClassSkip
	}
	return domain.ClassExtraneous
}

// TargetPath 把源文件路径的扩展名替换为目标扩展名（同目录、同 stem）。
func TargetPath(src string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + TargetExt
}

// RenameDir 依次移除 first、second 的所有出现；空串表示不处理。
func RenameDir(name, first, second string) string {
	if first != "" {
		name = strings.ReplaceAll(name, first, "")
	}
	if second != "" {
		name = strings.ReplaceAll(name, second, "")
	}
	return name
}
