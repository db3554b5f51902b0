package planner

import (
	"fmt"
	"path/filepath"

	"github.com/John-Robertt/webp2png/internal/domain"
	"github.com/John-Robertt/webp2png/internal/naming"
	"github.com/John-Robertt/webp2png/internal/scan"
)

// Removals 是目录改名时要移除的两个字面子串；空串表示不处理。
type Removals struct {
	First  string
	Second string
}

// ReadDir 对 base/name 做一次扫描快照并生成计划（只读，不做任何写入）。
func ReadDir(base, name string, rm Removals) (domain.DirPlan, error) {
	dirPath := filepath.Join(base, name)
	files, err := scan.Files(dirPath)
	if err != nil {
		return domain.DirPlan{}, err
	}
	return PlanDir(dirPath, name, files, rm)
}

// PlanDir 基于扫描快照生成确定性的子目录计划。
//
// - 规范 .webp => Convert
// - .png => Skip（不看内容，一律保留）
// - 其他 => Delete
// - NewName 由 naming.RenameDir 计算；结果为空或是 "."/".." 时返回错误
func PlanDir(dirPath, name string, files []domain.FileEntry, rm Removals) (domain.DirPlan, error) {
	p := domain.DirPlan{
		Name:    name,
		AbsPath: filepath.Clean(dirPath),
		NewName: naming.RenameDir(name, rm.First, rm.Second),
		Convert: make([]domain.FileEntry, 0, len(files)),
	}

	switch p.NewName {
	case "", ".", "..":
		return domain.DirPlan{}, fmt.Errorf("目录 %q 去除子串后的新名称无效：%q", name, p.NewName)
	}

	for _, f := range files {
		switch naming.Classify(f.Name) {
		case domain.ClassConvert:
			p.Convert = append(p.Convert, f)
		case domain.ClassSkip:
			p.Skip = append(p.Skip, f)
		default:
			p.Delete = append(p.Delete, f)
		}
	}
	return p, nil
}

// ReadSweep 扫描 base 的直接文件条目并生成清扫计划。
func ReadSweep(base string) (domain.SweepPlan, error) {
	files, err := scan.Files(base)
	if err != nil {
		return domain.SweepPlan{}, err
	}
	return PlanSweep(base, files), nil
}

// PlanSweep 列出 base 中所有不符合规范命名的文件（目录不在 files 中，天然被忽略）。
func PlanSweep(base string, files []domain.FileEntry) domain.SweepPlan {
	sp := domain.SweepPlan{BasePath: filepath.Clean(base)}
	for _, f := range files {
		if !naming.IsCanonical(f.Name) {
			sp.Delete = append(sp.Delete, f)
		}
	}
	return sp
}
