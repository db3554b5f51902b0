package run

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/John-Robertt/webp2png/internal/app/planner"
	"github.com/John-Robertt/webp2png/internal/config"
	"github.com/John-Robertt/webp2png/internal/domain"
	"github.com/John-Robertt/webp2png/internal/infra/fsx"
	"github.com/John-Robertt/webp2png/internal/infra/imgx"
	"github.com/John-Robertt/webp2png/internal/naming"
	"github.com/John-Robertt/webp2png/internal/scan"
)

// Execute 执行一次完整运行：并发处理所有子目录，全部成功后清扫 base 目录。
// 返回的 error 是第一个失败（按完成顺序）；RunReport 无论成败都会填好。
func Execute(ctx context.Context, cfg config.Config, log *slog.Logger) (domain.RunReport, error) {
	return ExecuteWithObserver(ctx, cfg, log, nil)
}

// 测试用：替换以模拟删除失败。
var removeFile = fsx.RemoveFile

// ExecuteWithObserver 与 Execute 相同，但允许传入 Observer 以输出进度/阶段信息。
//
// 错误策略：
// - 某个子目录失败不会中断兄弟目录（已开始的与尚未开始的都会照常处理）
// - 只要有任一子目录失败，就不执行 base 清扫，直接返回第一个错误
// - ctx 取消后不再派发新的目录；已派发目录中尚未开始的转换也不再开始，
//   该目录以 KindIO 失败且不改名；正在进行的转换跑完为止
func ExecuteWithObserver(ctx context.Context, cfg config.Config, log *slog.Logger, obs Observer) (domain.RunReport, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	rr := domain.RunReport{
		BasePath:  cfg.BasePath,
		DryRun:    cfg.DryRun,
		StartedAt: time.Now().UTC(),
		Dirs:      make([]domain.DirResult, 0, 16),
	}
	finish := func(err error) (domain.RunReport, error) {
		rr.FinishedAt = time.Now().UTC()
		rr.Finalize()
		return rr, err
	}

	if obs != nil {
		obs.OnStart(cfg)
	}

	scanStarted := time.Now()
	dirs, err := scan.Subdirs(cfg.BasePath)
	if err != nil {
		return finish(domain.IOError("list", cfg.BasePath, err))
	}
	if obs != nil {
		obs.OnPhaseDone("scan", map[string]any{"dirs": len(dirs)}, time.Since(scanStarted))
	}

	workers := cfg.Concurrency
	if workers < 1 {
		workers = 1
	}
	// 目录与文件两级并发共用同一个信号量：同时进行的解码/编码不超过 workers 个。
	sem := semaphore.NewWeighted(int64(workers))

	type dirOutcome struct {
		res domain.DirResult
		err error
		dur time.Duration
	}

	jobs := make(chan string)
	results := make(chan dirOutcome, len(dirs))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				oneStarted := time.Now()
				res, err := processDir(ctx, cfg, log, sem, name)
				results <- dirOutcome{res: res, err: err, dur: time.Since(oneStarted)}
			}
		}()
	}

	go func() {
		defer func() {
			close(jobs)
			wg.Wait()
			close(results)
		}()
		for _, name := range dirs {
			if ctx.Err() != nil {
				return
			}
			select {
			case jobs <- name:
			case <-ctx.Done():
				return
			}
		}
	}()

	var firstErr error
	done := 0
	for o := range results {
		done++
		rr.Dirs = append(rr.Dirs, o.res)
		if o.err != nil {
			log.Error("directory failed", "dir", o.res.Name, "err", o.err)
			if firstErr == nil {
				firstErr = o.err
			}
		}
		if obs != nil {
			obs.OnDirDone(done, len(dirs), o.res, o.dur)
		}
	}
	if firstErr == nil {
		firstErr = ctx.Err()
	}
	if firstErr != nil {
		return finish(firstErr)
	}

	sweepStarted := time.Now()
	swept, err := sweepBase(cfg, log)
	rr.Swept = swept
	if obs != nil {
		obs.OnPhaseDone("sweep", map[string]any{"deleted": swept}, time.Since(sweepStarted))
	}
	return finish(err)
}

// processDir 处理单个子目录：删除多余文件 -> 并发转换 -> 全部成功后改名。
// 任一文件级错误都会让本目录失败且不改名。
func processDir(ctx context.Context, cfg config.Config, log *slog.Logger, sem *semaphore.Weighted, name string) (domain.DirResult, error) {
	res := domain.DirResult{Name: name, NewName: name, Status: domain.StatusFailed}
	fail := func(err error) (domain.DirResult, error) {
		res.Status = domain.StatusFailed
		res.ErrorKind = domain.KindOf(err)
		res.ErrorMsg = err.Error()
		return res, err
	}

	dirPath := filepath.Join(cfg.BasePath, name)
	dlog := log.With("dir", name)

	p, err := planner.ReadDir(cfg.BasePath, name, planner.Removals{First: cfg.RemoveFirst, Second: cfg.RemoveSecond})
	if err != nil {
		return fail(domain.IOError("scan", dirPath, err))
	}
	res.NewName = p.NewName

	for _, f := range p.Skip {
		dlog.Info("skipping png", "path", f.AbsPath)
	}
	res.Skipped = len(p.Skip)

	if cfg.DryRun {
		for _, f := range p.Delete {
			dlog.Info("would delete", "path", f.AbsPath)
		}
		for _, f := range p.Convert {
			dlog.Info("would convert", "src", f.AbsPath, "dst", naming.TargetPath(f.AbsPath))
		}
		if p.NeedRename() {
			dlog.Info("would rename", "to", p.NewName)
		}
		res.Status = domain.StatusPlanned
		res.Deleted = len(p.Delete)
		res.Converted = len(p.Convert)
		res.Renamed = p.NeedRename()
		return res, nil
	}

	// 多余文件先顺序删除；第一个失败即放弃本目录（不转换、不改名）。
	for _, f := range p.Delete {
		if err := deleteFile(dlog, f.AbsPath); err != nil {
			return fail(err)
		}
		res.Deleted++
	}

	converted, err := convertAll(ctx, dlog, sem, p.Convert)
	res.Converted = converted
	if err != nil {
		if domain.KindOf(err) == "" {
			// ctx 取消：未开始的转换被放弃，仍按 IO 失败归类。
			err = domain.IOError("convert", dirPath, err)
		}
		return fail(err)
	}

	if p.NeedRename() {
		dst := filepath.Join(cfg.BasePath, p.NewName)
		if err := fsx.RenameNoReplace(p.AbsPath, dst); err != nil {
			return fail(domain.IOError("rename", p.AbsPath, err))
		}
		dlog.Info("renamed", "to", p.NewName)
		res.Renamed = true
	}

	res.Status = domain.StatusDone
	return res, nil
}

// convertAll 并发转换 files。第一个失败（或 ctx 取消）之后不再开始新的转换；已在进行的转换跑完为止。
func convertAll(ctx context.Context, log *slog.Logger, sem *semaphore.Weighted, files []domain.FileEntry) (int, error) {
	g, gctx := errgroup.WithContext(ctx)
	var n atomic.Int64
	for _, f := range files {
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			// Acquire 在 ctx 已结束时仍可能成功，这里再确认一次。
			if err := gctx.Err(); err != nil {
				return err
			}
			if _, err := convertFile(log, f.AbsPath); err != nil {
				return err
			}
			n.Add(1)
			return nil
		})
	}
	err := g.Wait()
	return int(n.Load()), err
}

// convertFile 把 src（.webp）转换为同目录同 stem 的 .png，成功后删除 src。
//
// 解码失败时不产生任何副作用；删除 src 失败时返回错误，此时 src 与 dst 同时存在。
func convertFile(log *slog.Logger, src string) (string, error) {
	b, err := os.ReadFile(src)
	if err != nil {
		return "", domain.IOError("read", src, err)
	}

	out, err := imgx.WebPToPNG(b)
	if err != nil {
		return "", domain.ImageError("convert", src, err)
	}

	dst := naming.TargetPath(src)
	if err := fsx.WriteFileAtomicReplace(filepath.Dir(dst), filepath.Base(dst), out); err != nil {
		return "", domain.IOError("write", dst, err)
	}

	if err := deleteFile(log, src); err != nil {
		return dst, err
	}
	log.Info("converted", "src", src, "dst", dst)
	return dst, nil
}

// deleteFile 删除一个文件并记录一行日志。不重试。
func deleteFile(log *slog.Logger, path string) error {
	if err := removeFile(path); err != nil {
		return domain.IOError("delete", path, err)
	}
	log.Info("deleted", "path", path)
	return nil
}

// sweepBase 删除 base 目录中所有不符合规范命名的文件（目录一律忽略）。顺序执行。
func sweepBase(cfg config.Config, log *slog.Logger) (int, error) {
	sp, err := planner.ReadSweep(cfg.BasePath)
	if err != nil {
		return 0, domain.IOError("scan", cfg.BasePath, err)
	}

	n := 0
	for _, f := range sp.Delete {
		if cfg.DryRun {
			log.Info("would delete", "path", f.AbsPath)
			n++
			continue
		}
		if err := deleteFile(log, f.AbsPath); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
