package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"gaia-agent/internal/application/port/output"
)

const DivideByZeroMessage = "error: cannot divide by zero."

var ErrDivideByZero = errors.New("cannot divide by zero")

func Add(x, y float64) float64      { return x + y }
func Subtract(x, y float64) float64 { return x - y }
func Multiply(x, y float64) float64 { return x * y }

func Divide(x, y float64) (float64, error) {
	if y == 0 {
		return 0, ErrDivideByZero
	}
	return x / y, nil
}

type binaryOp func(x, y float64) (float64, error)

// ArithmeticTool applies one binary operation to x and y.
type ArithmeticTool struct {
	name        string
	description string
	op          binaryOp
	logger      output.LoggerPort
}

func total(f func(x, y float64) float64) binaryOp {
	return func(x, y float64) (float64, error) { return f(x, y), nil }
}

func NewAddTool(logger output.LoggerPort) *ArithmeticTool {
	return &ArithmeticTool{name: "add", description: "This function adds two numbers.", op: total(Add), logger: logger}
}

func NewSubtractTool(logger output.LoggerPort) *ArithmeticTool {
	return &ArithmeticTool{name: "subtract", description: "This function subtracts y from x.", op: total(Subtract), logger: logger}
}

func NewMultiplyTool(logger output.LoggerPort) *ArithmeticTool {
	return &ArithmeticTool{name: "multiply", description: "This function multiplies two numbers.", op: total(Multiply), logger: logger}
}

func NewDivideTool(logger output.LoggerPort) *ArithmeticTool {
	return &ArithmeticTool{name: "divide", description: "This function divides x by y. Handles division by zero.", op: Divide, logger: logger}
}

func ArithmeticTools(logger output.LoggerPort) []output.ToolPort {
	return []output.ToolPort{
		NewAddTool(logger),
		NewSubtractTool(logger),
		NewMultiplyTool(logger),
		NewDivideTool(logger),
	}
}

func (t *ArithmeticTool) Name() string        { return t.name }
func (t *ArithmeticTool) Description() string { return t.description }
func (t *ArithmeticTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"x": map[string]interface{}{
				"type":        "number",
				"description": "First operand",
			},
			"y": map[string]interface{}{
				"type":        "number",
				"description": "Second operand",
			},
		},
		"required": []string{"x", "y"},
	}
}

func (t *ArithmeticTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
	}
	if err := json.Unmarshal([]byte(args), &input); err != nil {
		return "", fmt.Errorf("invalid input format: %w", err)
	}
	if input.X == nil || input.Y == nil {
		return "", fmt.Errorf("both x and y are required")
	}

	t.logger.Info("Arithmetic tool called", "op", t.name, "x", *input.X, "y", *input.Y)

	result, err := t.op(*input.X, *input.Y)
	if errors.Is(err, ErrDivideByZero) {
		return DivideByZeroMessage, nil
	}
	if err != nil {
		return "", err
	}
	return FormatNumber(result), nil
}

// FormatNumber renders v with the fewest digits that round-trip.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
