package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kaptinlin/jsonrepair"
	"golang.org/x/sync/errgroup"

	"gaia-agent/internal/application/port/input"
	"gaia-agent/internal/application/port/output"
	"gaia-agent/internal/domain/entity"
)

var _ input.TaskExecutor = (*UseCase)(nil)

const (
	DefaultMaxSteps   = 30
	maxObservationLen = 20000
)

// Phase is the loop's current node.
type Phase int

const (
	PhaseDeciding Phase = iota
	PhaseExecutingTools
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseDeciding:
		return "deciding"
	case PhaseExecutingTools:
		return "executing_tools"
	case PhaseDone:
		return "done"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

type Config struct {
	// MaxSteps bounds the number of phase executions, model and tool turns alike.
	MaxSteps int
	// TurnDelay is waited before every model turn to stay under rate limits.
	TurnDelay   time.Duration
	Temperature float32
}

type UseCase struct {
	llm     output.LLMPort
	tools   output.ToolRegistry
	logger  output.LoggerPort
	onChunk output.ChunkHandler
	cfg     Config
}

func New(
	llm output.LLMPort,
	tools output.ToolRegistry,
	logger output.LoggerPort,
	onChunk output.ChunkHandler,
	cfg Config,
) *UseCase {
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}
	return &UseCase{
		llm:     llm,
		tools:   tools,
		logger:  logger,
		onChunk: onChunk,
		cfg:     cfg,
	}
}

// Execute drives state until a final answer is submitted or the step ceiling
// is reached. Hitting the ceiling is not an error: the result has Answered=false.
func (uc *UseCase) Execute(ctx context.Context, state *entity.ConversationState) (*input.ExecuteResult, error) {
	log := uc.logger.WithField("task_id", state.Question.TaskID)
	toolDefs := uc.tools.Definitions()

	phase := PhaseDeciding
	steps := 0
	for phase != PhaseDone {
		if steps >= uc.cfg.MaxSteps {
			log.Warn("Step limit reached without a final answer", "steps", steps)
			return &input.ExecuteResult{State: state, Steps: steps, Answered: false}, nil
		}
		steps++

		switch phase {
		case PhaseDeciding:
			log.Debug("Considering question", "step", steps)
			if err := uc.decide(ctx, state, toolDefs); err != nil {
				return nil, err
			}
			phase = nextPhase(state)

		case PhaseExecutingTools:
			last := state.Messages[len(state.Messages)-1]
			results, answer := uc.executeTools(ctx, state.Question, last.ToolCalls)
			for _, r := range results {
				state.Append(r.Message())
			}
			if answer != nil {
				state.SetFinalAnswer(*answer)
			}
			phase = PhaseDeciding
			if state.Answered() {
				log.Info("Final answer submitted", "answer", state.FinalAnswer.AgentAnswer, "steps", steps)
				phase = PhaseDone
			}
		}
	}

	return &input.ExecuteResult{State: state, Steps: steps, Answered: true}, nil
}

func nextPhase(state *entity.ConversationState) Phase {
	if state.Answered() {
		return PhaseDone
	}
	return PhaseExecutingTools
}

func (uc *UseCase) decide(ctx context.Context, state *entity.ConversationState, toolDefs []entity.ToolDefinition) error {
	if err := sleep(ctx, uc.cfg.TurnDelay); err != nil {
		return err
	}

	resp, err := uc.llm.ChatStream(ctx, output.ChatRequest{
		Messages:    state.Messages,
		Tools:       toolDefs,
		Temperature: uc.cfg.Temperature,
	}, uc.observe)
	if err != nil {
		return fmt.Errorf("llm request failed: %w", err)
	}

	state.Append(resp.Message)
	return nil
}

// observe shields the loop from a misbehaving observer.
func (uc *UseCase) observe(chunk entity.StreamChunk) {
	if uc.onChunk == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			uc.logger.Error("Chunk observer panicked", "panic", r)
		}
	}()
	uc.onChunk(chunk)
}

// executeTools runs the calls of one turn concurrently. Results keep call
// order; the first submitted answer wins.
func (uc *UseCase) executeTools(ctx context.Context, question entity.Question, calls []entity.ToolCall) ([]entity.ToolResult, *entity.FinalAnswer) {
	results := make([]entity.ToolResult, len(calls))
	answers := make([]*entity.FinalAnswer, len(calls))

	g, gctx := errgroup.WithContext(ctx)
	for i, tc := range calls {
		g.Go(func() error {
			out, answer := uc.executeTool(gctx, question, tc)
			results[i] = entity.ToolResult{CallID: tc.ID, Name: tc.Name, Output: out}
			answers[i] = answer
			return nil
		})
	}
	_ = g.Wait()

	var final *entity.FinalAnswer
	for _, a := range answers {
		if a == nil {
			continue
		}
		if final != nil {
			uc.logger.Warn("Ignoring additional final answer", "answer", a.AgentAnswer)
			continue
		}
		final = a
	}
	return results, final
}

func (uc *UseCase) executeTool(ctx context.Context, question entity.Question, tc entity.ToolCall) (string, *entity.FinalAnswer) {
	tool, ok := uc.tools.Get(tc.Name)
	if !ok {
		uc.logger.Warn("Unknown tool called", "name", tc.Name)
		return fmt.Sprintf("Error: unknown tool '%s'", tc.Name), nil
	}

	args, repaired := repairArguments(tc.Arguments)
	if repaired {
		uc.logger.Warn("Repaired malformed tool arguments", "name", tc.Name, "raw", tc.Arguments, "repaired", args)
	}
	uc.logger.Info("Executing tool", "name", tc.Name, "args", args)

	var (
		result string
		answer *entity.FinalAnswer
		err    error
	)
	if st, ok := tool.(output.StatefulToolPort); ok {
		result, answer, err = st.ExecuteWithState(ctx, args, question)
	} else {
		result, err = tool.Execute(ctx, args)
	}
	if err != nil {
		uc.logger.Error("Tool execution failed", "name", tc.Name, "error", err)
		return "Error: " + err.Error(), nil
	}

	if len(result) > maxObservationLen {
		result = result[:runeBoundary(result, maxObservationLen)] + "\n... (truncated)"
	}

	uc.logger.Debug("Tool completed", "name", tc.Name, "resultLen", len(result))
	return result, answer
}

// runeBoundary returns the largest cut point <= n that does not split a rune.
func runeBoundary(s string, n int) int {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return n
}

// repairArguments fixes truncated or sloppy JSON the model sometimes streams.
// Arguments that cannot be repaired are passed through for the tool to reject.
func repairArguments(args string) (string, bool) {
	if strings.TrimSpace(args) == "" {
		return "{}", false
	}
	if json.Valid([]byte(args)) {
		return args, false
	}
	fixed, err := jsonrepair.JSONRepair(args)
	if err != nil || !json.Valid([]byte(fixed)) {
		return args, false
	}
	return fixed, true
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
