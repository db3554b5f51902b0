package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/John-Robertt/webp2png/internal/app/run"
	"github.com/John-Robertt/webp2png/internal/config"
	"github.com/John-Robertt/webp2png/internal/logging"
)

func main() {
	os.Exit(runMain(os.Args[1:]))
}

func runMain(args []string) int {
	started := time.Now()
	fmt.Fprintln(os.Stderr, "Processing started...")

	cli, err := parseArgs(args, os.Stdout)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "参数错误：%v\n\n", err)
		printUsage(os.Stderr, newFlagSet(&config.CLIArgs{}))
		return 2
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "读取当前目录失败：%v\n", err)
		return 1
	}

	cfg, err := config.Load(cwd, cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "配置错误：%v\n", err)
		return 1
	}

	log := logging.New(os.Stderr, logging.Options{Color: logging.ColorEnabled(os.Stderr)})

	var obs run.Observer
	var ui *progressUI
	if w, interactive := pickProgressWriter(); interactive {
		ui = newProgressUI(w)
		obs = ui
	}

	// SIGINT/SIGTERM 只阻止派发新目录；已开始的目录跑完为止。
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rr, err := run.ExecuteWithObserver(ctx, cfg, log, obs)
	if ui != nil {
		ui.close()
	}

	elapsed := time.Since(started)
	if err != nil {
		log.Error("run failed", "err", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stdout, "Elapsed: %s\n", elapsed)
		return 1
	}

	s := rr.Summary
	fmt.Fprintf(os.Stderr, "完成：dirs=%d renamed=%d converted=%d skipped=%d deleted=%d swept=%d\n",
		s.Dirs, s.Renamed, s.Converted, s.Skipped, s.Deleted, s.Swept,
	)
	fmt.Fprintf(os.Stdout, "Elapsed: %s\n", elapsed)
	return 0
}

func newFlagSet(cli *config.CLIArgs) *pflag.FlagSet {
	fs := pflag.NewFlagSet("webp2png", pflag.ContinueOnError)
	fs.StringVarP(&cli.BasePath, "base-path", "b", "", "要处理的 base 目录（默认 \""+config.DefaultBasePath+"\"，相对当前目录）")
	fs.StringVar(&cli.RemoveFirst, "remove-first", "", "改名时从子目录名中移除的第一个子串（空表示不处理）")
	fs.StringVar(&cli.RemoveSecond, "remove-second", "", "改名时从子目录名中移除的第二个子串（空表示不处理）")
	fs.BoolVar(&cli.DryRun, "dry-run", false, "只扫描并打印计划，不转换/不删除/不改名")
	return fs
}

// parseArgs 解析命令行：base 路径可以用 --base-path 或一个位置参数给出，但不能同时给。
// -h/--help 时把用法写到 out 并返回 pflag.ErrHelp。
func parseArgs(args []string, out io.Writer) (config.CLIArgs, error) {
	var cli config.CLIArgs
	fs := newFlagSet(&cli)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printUsage(out, fs)
		}
		return config.CLIArgs{}, err
	}

	switch rest := fs.Args(); len(rest) {
	case 0:
	case 1:
		if fs.Changed("base-path") {
			return config.CLIArgs{}, fmt.Errorf("重复的 base 路径：--base-path=%q 与 %q", cli.BasePath, rest[0])
		}
		cli.BasePath = rest[0]
	default:
		return config.CLIArgs{}, fmt.Errorf("多余的参数：%q", rest[1:])
	}
	return cli, nil
}

func printUsage(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprint(w, `用法：
  webp2png [path] [--base-path path] [--remove-first s] [--remove-second s] [--dry-run]

把 base 目录下每个子目录中的规范命名 WebP（^[a-zA-Z0-9]+\.webp$）转换为 PNG，
删除子目录中的其他非 PNG 文件，按配置的子串改名子目录，最后清理 base 目录中的非规范文件。

参数：
`)
	fs.SetOutput(w)
	fs.PrintDefaults()
	fs.SetOutput(io.Discard)
}

func pickProgressWriter() (io.Writer, bool) {
	// 进度输出只在交互终端启用；默认走 stderr。
	if isTTY(os.Stderr) {
		return os.Stderr, true
	}
	if isTTY(os.Stdout) {
		return os.Stdout, true
	}
	return nil, false
}

func isTTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

