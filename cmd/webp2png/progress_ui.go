package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/John-Robertt/webp2png/internal/app/run"
	"github.com/John-Robertt/webp2png/internal/config"
	"github.com/John-Robertt/webp2png/internal/domain"
)

var _ run.Observer = (*progressUI)(nil)

// progressUI 是交互终端下的进度输出。
//
// - 所有过程信息写到 stderr（或 fallback 到 stdout）
// - 事件驱动：run 层只发事件，CLI 决定如何展示
// - keepalive：长时间没有目录完成时也会定期输出一行
type progressUI struct {
	w io.Writer

	mu          sync.Mutex
	startedAt   time.Time
	lastPrinted time.Time

	total int
	done  int
	ok    int
	fail  int

	keepaliveThreshold time.Duration
	tickerInterval     time.Duration

	stopCh        chan struct{}
	tickerStarted bool
}

func newProgressUI(w io.Writer) *progressUI {
	return &progressUI{
		w:                  w,
		keepaliveThreshold: 6 * time.Second,
		tickerInterval:     2 * time.Second,
	}
}

func (p *progressUI) OnStart(cfg config.Config) {
	now := time.Now()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.startedAt.IsZero() {
		p.startedAt = now
	}

	mode := "apply"
	if cfg.DryRun {
		mode = "dry-run (不转换/不删除/不改名)"
	}

	fmt.Fprintf(p.w, "[%s] webp2png\n", now.Format("15:04:05"))
	fmt.Fprintln(p.w, "配置（生效）:")
	fmt.Fprintf(p.w, "  base: %s\n", cfg.BasePath)
	fmt.Fprintf(p.w, "  mode: %s\n", mode)
	fmt.Fprintf(p.w, "  remove_first: %s\n", formatRemoval(cfg.RemoveFirst))
	fmt.Fprintf(p.w, "  remove_second: %s\n", formatRemoval(cfg.RemoveSecond))
	fmt.Fprintf(p.w, "  concurrency: %d\n", cfg.Concurrency)
	fmt.Fprintln(p.w)

	p.lastPrinted = time.Now()
}

func (p *progressUI) OnPhaseDone(name string, fields map[string]any, dur time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch name {
	case "scan":
		p.total = intField(fields, "dirs")
		fmt.Fprintf(p.w, "扫描: dirs=%d (%s)\n", p.total, formatShortDuration(dur))
		if p.total > 0 && !p.tickerStarted {
			p.startTickerLocked()
		}
	case "sweep":
		fmt.Fprintf(p.w, "清扫: deleted=%d (%s)\n", intField(fields, "deleted"), formatShortDuration(dur))
	default:
		fmt.Fprintf(p.w, "%s (%s)\n", name, formatShortDuration(dur))
	}
	p.lastPrinted = time.Now()
}

func (p *progressUI) OnDirDone(idx, total int, res domain.DirResult, dur time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done = idx
	p.total = total
	if res.Status == domain.StatusFailed {
		p.fail++
	} else {
		p.ok++
	}

	fmt.Fprintf(p.w, "%s (%s)\n", formatDirLine(idx, total, res), formatShortDuration(dur))
	p.lastPrinted = time.Now()

	if p.tickerStarted && p.done >= p.total {
		close(p.stopCh)
		p.tickerStarted = false
	}
}

func (p *progressUI) startTickerLocked() {
	p.stopCh = make(chan struct{})
	p.tickerStarted = true
	stop := p.stopCh

	go func() {
		t := time.NewTicker(p.tickerInterval)
		defer t.Stop()

		for {
			select {
			case <-t.C:
				p.mu.Lock()
				if p.total > 0 && p.done < p.total && time.Since(p.lastPrinted) > p.keepaliveThreshold {
					fmt.Fprintf(p.w, "进度: done=%d/%d ok=%d fail=%d elapsed=%s\n",
						p.done, p.total, p.ok, p.fail, formatElapsed(time.Since(p.startedAt)),
					)
					p.lastPrinted = time.Now()
				}
				p.mu.Unlock()
			case <-stop:
				return
			}
		}
	}()
}

// close 停止 keepalive（运行失败时可能还有目录没有上报）。
func (p *progressUI) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tickerStarted {
		close(p.stopCh)
		p.tickerStarted = false
	}
}

func formatDirLine(idx, total int, res domain.DirResult) string {
	name := res.Name
	if res.Renamed && res.NewName != res.Name {
		name += " -> " + res.NewName
	}

	switch res.Status {
	case domain.StatusFailed:
		return fmt.Sprintf("[%d/%d] %s FAIL %s: %s", idx, total, name, res.ErrorKind, truncate(res.ErrorMsg, 160))
	case domain.StatusPlanned:
		return fmt.Sprintf("[%d/%d] %s PLAN convert=%d delete=%d skip=%d", idx, total, name, res.Converted, res.Deleted, res.Skipped)
	default:
		return fmt.Sprintf("[%d/%d] %s OK converted=%d deleted=%d skipped=%d", idx, total, name, res.Converted, res.Deleted, res.Skipped)
	}
}

func formatRemoval(s string) string {
	if s == "" {
		return "off"
	}
	return strconv.Quote(s)
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func formatShortDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	sec := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", sec/3600, (sec%3600)/60, sec%60)
}

func intField(fields map[string]any, key string) int {
	switch x := fields[key].(type) {
	case int:
		return x
	case int64:
		return int(x)
	default:
		return 0
	}
}
