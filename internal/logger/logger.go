// Package logger wraps log/slog for consistent structured logging
// across the runtime.
//
// It provides run context helpers for pipeline execution logging with
// consistent snake_case field names, and two output formats:
//   - JSON (default): machine-readable structured logging
//   - Human: readable console output with level prefixes
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Logger is the default logger instance.
var Logger *slog.Logger

func init() {
	Logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// SetLevel configures the logging level, keeping JSON output.
func SetLevel(level slog.Level) {
	SetLevelAndFormat(level, FormatJSON)
}

// Info logs an informational message.
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

// RunContext carries the identifying fields attached to every log line
// emitted during a pipeline run.
type RunContext struct {
	RunID        string
	PipelineID   string
	PipelineName string
	// StageType is the configured type of the stage being executed,
	// e.g. "transform/expr" or "aggregate".
	StageType string
	// StageIndex is the zero-based position of the stage in the
	// pipeline. Negative means no stage context.
	StageIndex int
	DryRun     bool
}

// WithRun returns a logger with run context attached. Only populated
// fields are included in the output.
func WithRun(ctx RunContext) *slog.Logger {
	return Logger.With(runAttrs(ctx)...)
}

// LogRunStart logs the start of a pipeline run.
func LogRunStart(ctx RunContext) {
	Logger.Info("run started", runAttrs(ctx)...)
}

// LogRunEnd logs run completion with its final status and counts.
func LogRunEnd(ctx RunContext, status string, recordsOut int, duration time.Duration) {
	attrs := runAttrs(ctx)
	attrs = append(attrs,
		slog.String("status", status),
		slog.Int("records_out", recordsOut),
		slog.Duration("duration", duration),
	)
	Logger.Info("run completed", attrs...)
}

// LogStageStart logs the start of one pipeline stage.
func LogStageStart(ctx RunContext) {
	Logger.Debug("stage started", runAttrs(ctx)...)
}

// LogRunError logs a failed run with the error attached.
func LogRunError(ctx RunContext, err error, duration time.Duration) {
	attrs := runAttrs(ctx)
	attrs = append(attrs,
		slog.String("error", err.Error()),
		slog.String("error_type", fmt.Sprintf("%T", err)),
		slog.Duration("duration", duration),
	)
	Logger.Error("run failed", attrs...)
}

func runAttrs(ctx RunContext) []any {
	attrs := make([]any, 0, 8)
	if ctx.RunID != "" {
		attrs = append(attrs, slog.String("run_id", ctx.RunID))
	}
	attrs = append(attrs, slog.String("pipeline_id", ctx.PipelineID))
	if ctx.PipelineName != "" {
		attrs = append(attrs, slog.String("pipeline_name", ctx.PipelineName))
	}
	if ctx.StageType != "" {
		attrs = append(attrs, slog.String("stage_type", ctx.StageType))
	}
	if ctx.StageIndex >= 0 {
		attrs = append(attrs, slog.Int("stage_index", ctx.StageIndex))
	}
	if ctx.DryRun {
		attrs = append(attrs, slog.Bool("dry_run", true))
	}
	return attrs
}

// OutputFormat represents the log output format.
type OutputFormat int

const (
	// FormatJSON is the default machine-readable JSON format.
	FormatJSON OutputFormat = iota
	// FormatHuman is a readable console format with level prefixes.
	FormatHuman
)

// SetFormat sets the log output format at the default level.
func SetFormat(format OutputFormat) {
	SetLevelAndFormat(slog.LevelInfo, format)
}

// SetLevelAndFormat sets both the log level and output format.
func SetLevelAndFormat(level slog.Level, format OutputFormat) {
	switch format {
	case FormatHuman:
		Logger = slog.New(NewHumanHandler(os.Stdout, &HumanHandlerOptions{
			Level:     level,
			UseColors: isTerminal(os.Stdout),
		}))
	default:
		Logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		}))
	}
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		fi, err := f.Stat()
		if err != nil {
			return false
		}
		return (fi.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// HumanHandlerOptions configures the human-readable log handler.
type HumanHandlerOptions struct {
	Level slog.Level
	// UseColors enables ANSI color codes.
	UseColors bool
}

// HumanHandler is a slog handler that outputs single-line readable log
// messages with a timestamp and level prefix.
type HumanHandler struct {
	opts   HumanHandlerOptions
	writer io.Writer
	attrs  []slog.Attr
	groups []string
}

// NewHumanHandler creates a new human-readable log handler.
func NewHumanHandler(w io.Writer, opts *HumanHandlerOptions) *HumanHandler {
	if opts == nil {
		opts = &HumanHandlerOptions{Level: slog.LevelInfo}
	}
	return &HumanHandler{opts: *opts, writer: w}
}

// Enabled reports whether the handler handles the given level.
func (h *HumanHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level
}

// Handle outputs a log record in human-readable format.
func (h *HumanHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder

	sb.WriteString(r.Time.Format("15:04:05"))
	sb.WriteString(" ")
	sb.WriteString(h.levelPrefix(r.Level, r.Message))
	sb.WriteString(" ")
	sb.WriteString(r.Message)

	var attrs []string
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, h.formatAttr(a))
		return true
	})
	for _, a := range h.attrs {
		attrs = append(attrs, h.formatAttr(a))
	}

	if len(attrs) > 0 {
		sb.WriteString(" ")
		maxInline := 5
		if len(attrs) < maxInline {
			maxInline = len(attrs)
		}
		sb.WriteString(strings.Join(attrs[:maxInline], " "))
		if len(attrs) > 5 {
			sb.WriteString(fmt.Sprintf(" (+%d more)", len(attrs)-5))
		}
	}

	sb.WriteString("\n")
	_, err := h.writer.Write([]byte(sb.String()))
	return err
}

// WithAttrs returns a new handler with the given attributes added.
func (h *HumanHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := &HumanHandler{
		opts:   h.opts,
		writer: h.writer,
		attrs:  make([]slog.Attr, len(h.attrs)+len(attrs)),
		groups: h.groups,
	}
	copy(nh.attrs, h.attrs)
	copy(nh.attrs[len(h.attrs):], attrs)
	return nh
}

// WithGroup returns a new handler with the given group name.
func (h *HumanHandler) WithGroup(name string) slog.Handler {
	return &HumanHandler{
		opts:   h.opts,
		writer: h.writer,
		attrs:  h.attrs,
		groups: append(h.groups, name),
	}
}

func (h *HumanHandler) levelPrefix(level slog.Level, message string) string {
	isSuccess := strings.Contains(strings.ToLower(message), "completed")

	const (
		colorReset  = "\033[0m"
		colorRed    = "\033[31m"
		colorYellow = "\033[33m"
		colorGreen  = "\033[32m"
		colorCyan   = "\033[36m"
	)

	var prefix, color string
	switch {
	case level >= slog.LevelError:
		prefix = "✗"
		color = colorRed
	case level >= slog.LevelWarn:
		prefix = "⚠"
		color = colorYellow
	case level >= slog.LevelInfo:
		if isSuccess {
			prefix = "✓"
			color = colorGreen
		} else {
			prefix = "ℹ"
			color = colorCyan
		}
	default:
		prefix = "·"
		color = colorReset
	}

	if h.opts.UseColors {
		return color + prefix + colorReset
	}
	return prefix
}

func (h *HumanHandler) formatAttr(a slog.Attr) string {
	value := a.Value.Any()
	if d, ok := value.(time.Duration); ok {
		return fmt.Sprintf("%s=%s", a.Key, formatDuration(d))
	}
	if f, ok := value.(float64); ok {
		return fmt.Sprintf("%s=%.2f", a.Key, f)
	}
	return fmt.Sprintf("%s=%v", a.Key, value)
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fm", d.Minutes())
}
