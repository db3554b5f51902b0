package run

import (
	"time"

	"github.com/John-Robertt/webp2png/internal/config"
	"github.com/John-Robertt/webp2png/internal/domain"
)

// Observer 用于把“运行进度/阶段/目录结果”从核心执行流程中解耦出来。
//
// 约束：
// - run 包只负责发事件，不做任何展示。
// - Observer 的实现必须并发安全：事件可能来自多个 goroutine。
type Observer interface {
	// OnStart 在 ExecuteWithObserver 开始时调用。
	OnStart(cfg config.Config)
	// OnPhaseDone 在阶段结束时调用："scan"（fields: dirs）与 "sweep"（fields: deleted）。
	OnPhaseDone(name string, fields map[string]any, dur time.Duration)
	// OnDirDone 在某个子目录处理完成（成功或失败）时调用。
	OnDirDone(idx, total int, res domain.DirResult, dur time.Duration)
}
