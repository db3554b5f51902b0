package domain

import (
	"sort"
	"time"
)

const (
	StatusDone    = "done"
	StatusFailed  = "failed"
	StatusPlanned = "planned" // dry-run
)

// RunReport 汇总一次运行的结果（仅用于展示与测试，不落盘）。
type RunReport struct {
	BasePath string `json:"base_path"`
	DryRun   bool   `json:"dry_run"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Summary ReportSummary `json:"summary"`
	Dirs    []DirResult   `json:"dirs"`
	Swept   int           `json:"swept"`
}

type ReportSummary struct {
	Dirs      int `json:"dirs"`
	Renamed   int `json:"renamed"`
	Converted int `json:"converted"`
	Skipped   int `json:"skipped"`
	Deleted   int `json:"deleted"`
	Swept     int `json:"swept"`
	Failed    int `json:"failed"`
}

// DirResult 是单个子目录的处理结果。
type DirResult struct {
	Name    string `json:"name"`
	NewName string `json:"new_name"`
	Status  string `json:"status"`
	Renamed bool   `json:"renamed"`

	Converted int `json:"converted"`
	Skipped   int `json:"skipped"`
	Deleted   int `json:"deleted"`

	ErrorKind Kind   `json:"error_kind,omitempty"`
	ErrorMsg  string `json:"error_msg,omitempty"`
}

// Elapsed 返回总耗时。
func (r *RunReport) Elapsed() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Finalize 做三件事：
// 1) 时间统一为 UTC
// 2) dirs 稳定排序：按原目录名字典序
// 3) summary 由 dirs 与 Swept 计算得出
func (r *RunReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	sort.SliceStable(r.Dirs, func(i, j int) bool { return r.Dirs[i].Name < r.Dirs[j].Name })

	s := ReportSummary{Dirs: len(r.Dirs), Swept: r.Swept}
	for _, d := range r.Dirs {
		s.Converted += d.Converted
		s.Skipped += d.Skipped
		s.Deleted += d.Deleted
		if d.Renamed {
			s.Renamed++
		}
		if d.Status == StatusFailed {
			s.Failed++
		}
	}
	r.Summary = s
}
