package domain

// DirPlan 是对单个子目录的确定性执行计划（基于一次扫描快照，不做任何写入）。
type DirPlan struct {
	Name    string // 原目录名
	AbsPath string
	NewName string // 去除两个子串后的目录名；与 Name 相同表示无需改名

	Convert []FileEntry
	Skip    []FileEntry
	Delete  []FileEntry
}

// NeedRename 报告计划是否包含一次真实的目录改名。
func (p DirPlan) NeedRename() bool { return p.NewName != p.Name }

// SweepPlan 是 base 目录清扫计划：只列出需要删除的文件。
type SweepPlan struct {
	BasePath string
	Delete   []FileEntry
}
