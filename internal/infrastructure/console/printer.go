package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"gaia-agent/internal/application/port/output"
	"gaia-agent/internal/domain/entity"

	"github.com/fatih/color"
)

// Printer renders streamed model output and run progress for a human.
type Printer struct {
	out    io.Writer
	logger output.LoggerPort

	thinking *color.Color
	tool     *color.Color
	header   *color.Color
	good     *color.Color
	bad      *color.Color
	dim      *color.Color
}

func NewPrinter(out io.Writer, logger output.LoggerPort) *Printer {
	if out == nil {
		out = os.Stdout
	}
	return &Printer{
		out:      out,
		logger:   logger,
		thinking: color.New(color.Faint),
		tool:     color.New(color.FgYellow, color.Bold),
		header:   color.New(color.FgCyan, color.Bold),
		good:     color.New(color.FgGreen),
		bad:      color.New(color.FgRed),
		dim:      color.New(color.Faint),
	}
}

// Handle is an output.ChunkHandler. It never panics.
func (p *Printer) Handle(chunk entity.StreamChunk) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Chunk printer failed", "panic", r, "kind", chunk.Kind)
		}
	}()

	switch chunk.Kind {
	case entity.ChunkThinking:
		p.thinking.Fprint(p.out, chunk.Text)
	case entity.ChunkText:
		fmt.Fprint(p.out, chunk.Text)
	case entity.ChunkToolUse:
		icon := toolIcon(chunk.ToolName)
		p.tool.Fprintf(p.out, "\n\n%s Using %s\n\n", icon, chunk.ToolName)
	case entity.ChunkSignature, entity.ChunkToolArgs:
	case entity.ChunkStop:
		p.logger.Info("Stopping", "reason", chunk.StopReason)
	default:
		p.logger.Warn("Unknown stream chunk", "kind", chunk.Kind, "text", truncate(chunk.Text, 200))
		fmt.Fprintf(p.out, "unknown chunk %+v\n", chunk)
	}
}

func (p *Printer) ShowQuestion(index, total int, q entity.Question) {
	p.header.Fprintf(p.out, "\n━━━ Question %d/%d (%s) ━━━\n", index, total, q.TaskID)
	fmt.Fprintln(p.out, q.Question)
	if q.HasFile() {
		p.dim.Fprintf(p.out, "Attachment: %s\n", q.FileName)
	}
	fmt.Fprintln(p.out)
}

func (p *Printer) ShowResult(r entity.AnswerRecord) {
	fmt.Fprintln(p.out)
	if r.IsCorrect {
		p.good.Fprintf(p.out, "✓ %s\n", r.AgentAnswer)
	} else {
		p.bad.Fprintf(p.out, "✗ %s ", r.AgentAnswer)
		p.dim.Fprintf(p.out, "(expected %s)\n", r.GroundTruth)
	}
	if r.Error != "" {
		p.dim.Fprintf(p.out, "   %s\n", truncate(r.Error, 300))
	}
}

func (p *Printer) ShowSummary(s entity.RunSummary) {
	p.header.Fprintf(p.out, "\n━━━ Run %s ━━━\n", s.RunID)
	fmt.Fprintf(p.out, "Questions: %d  Answered: %d  Correct: %d  Errors: %d  Accuracy: %.1f%%\n",
		s.Total, s.Answered, s.Correct, s.Errored, s.Accuracy*100)
}

func toolIcon(name string) string {
	switch name {
	case "add", "subtract", "multiply", "divide":
		return "🧮"
	case "tavily_search":
		return "🔎"
	case "submit_final_answer":
		return "🏁"
	}
	return "🔧"
}

func truncate(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxLen {
		return s
	}
	for maxLen > 0 && !utf8.RuneStart(s[maxLen]) {
		maxLen--
	}
	return s[:maxLen] + "..."
}
