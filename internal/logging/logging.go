// Package logging 提供面向终端的 slog.Handler：一行一条，级别可着色。
//
// 输出格式：
//
//	15:04:05 INFO  converted src=/base/Set01/a1.webp dst=/base/Set01/a1.png
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Options 控制 Handler 的级别与着色。
type Options struct {
	Level slog.Leveler // nil 表示 INFO
	Color bool
}

// New 返回写到 w 的 *slog.Logger。
func New(w io.Writer, opts Options) *slog.Logger {
	return slog.New(NewHandler(w, opts))
}

// ColorEnabled 按惯例判断是否着色：f 是终端，NO_COLOR 未设置，且 TERM 不是 dumb。
func ColorEnabled(f *os.File) bool {
	if f == nil {
		return false
	}
	if os.Getenv("NO_COLOR") != "" || strings.EqualFold(os.Getenv("TERM"), "dumb") {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Handler 实现 slog.Handler。多个 goroutine 共享同一把锁，保证行不交错。
type Handler struct {
	mu    *sync.Mutex
	w     io.Writer
	out   *termenv.Output
	level slog.Leveler

	prefix string // 由 WithAttrs 预先格式化好的属性
	groups []string
}

var _ slog.Handler = (*Handler)(nil)

func NewHandler(w io.Writer, opts Options) *Handler {
	profile := termenv.Ascii
	if opts.Color {
		profile = termenv.ANSI
	}
	level := opts.Level
	if level == nil {
		level = slog.LevelInfo
	}
	return &Handler{
		mu:    &sync.Mutex{},
		w:     w,
		out:   termenv.NewOutput(w, termenv.WithProfile(profile)),
		level: level,
	}
}

func (h *Handler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	if !r.Time.IsZero() {
		sb.WriteString(r.Time.Format("15:04:05"))
		sb.WriteByte(' ')
	}
	sb.WriteString(h.levelText(r.Level))
	sb.WriteByte(' ')
	sb.WriteString(r.Message)
	sb.WriteString(h.prefix)
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&sb, h.groups, a)
		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, sb.String())
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var sb strings.Builder
	sb.WriteString(h.prefix)
	for _, a := range attrs {
		appendAttr(&sb, h.groups, a)
	}
	h2 := *h
	h2.prefix = sb.String()
	return &h2
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.groups = append(append([]string(nil), h.groups...), name)
	return &h2
}

func (h *Handler) levelText(l slog.Level) string {
	text := l.String()
	// 对齐到 5 列（DEBUG/ERROR 最长）。
	text += strings.Repeat(" ", max(0, 5-len(text)))

	var c string
	switch {
	case l >= slog.LevelError:
		c = "9"
	case l >= slog.LevelWarn:
		c = "11"
	case l >= slog.LevelInfo:
		c = "12"
	default:
		c = "8"
	}
	return h.out.String(text).Foreground(h.out.Color(c)).Bold().String()
}

func appendAttr(sb *strings.Builder, groups []string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		sub := groups
		if a.Key != "" {
			sub = append(append([]string(nil), groups...), a.Key)
		}
		for _, ga := range a.Value.Group() {
			appendAttr(sb, sub, ga)
		}
		return
	}

	sb.WriteByte(' ')
	for _, g := range groups {
		sb.WriteString(g)
		sb.WriteByte('.')
	}
	sb.WriteString(a.Key)
	sb.WriteByte('=')
	sb.WriteString(quoteIfNeeded(a.Value.String()))
}

func quoteIfNeeded(s string) string {
	if s == "" {
		return `""`
	}
	for _, r := range s {
		if unicode.IsSpace(r) || r == '"' || r == '=' || !unicode.IsPrint(r) {
			return strconv.Quote(s)
		}
	}
	return s
}
