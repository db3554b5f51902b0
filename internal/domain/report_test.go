package domain

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func TestRunReport_Finalize_SortAndSummaryAndUTC(t *testing.T) {
	r := RunReport{
		BasePath:   "/abs/base",
		StartedAt:  time.Date(2026, 2, 9, 10, 0, 0, 0, time.FixedZone("X", 8*3600)),
		FinishedAt: time.Date(2026, 2, 9, 10, 0, 3, 0, time.FixedZone("X", 8*3600)),
		Swept:      2,
		Dirs: []DirResult{
			{Name: "Set02", Status: StatusFailed, Converted: 1, ErrorKind: KindImage},
			{Name: "Set01", Status: StatusDone, Renamed: true, Converted: 3, Skipped: 1, Deleted: 2},
		},
	}

	r.Finalize()

	if r.Dirs[0].Name != "Set01" || r.Dirs[1].Name != "Set02" {
		t.Fatalf("dirs 排序不符合预期：%v", []string{r.Dirs[0].Name, r.Dirs[1].Name})
	}
	want := ReportSummary{Dirs: 2, Renamed: 1, Converted: 4, Skipped: 1, Deleted: 2, Swept: 2, Failed: 1}
	if r.Summary != want {
		t.Fatalf("summary 统计不正确：got=%+v want=%+v", r.Summary, want)
	}
	if r.Elapsed() != 3*time.Second {
		t.Fatalf("elapsed 不正确：%v", r.Elapsed())
	}

	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("json.Marshal 失败：%v", err)
	}
	if !bytes.Contains(b, []byte(`"started_at":"2026-02-09T02:00:00Z"`)) {
		t.Fatalf("started_at 不是 UTC RFC3339：%s", string(b))
	}
}
