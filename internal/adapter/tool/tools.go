package tool

import "gaia-agent/internal/application/port/output"

// DefaultTools is the tool set offered to the model, in schema order.
func DefaultTools(search output.SearchPort, logger output.LoggerPort) []output.ToolPort {
	tools := ArithmeticTools(logger)
	tools = append(tools,
		NewSearchTool(search, DefaultSearchResults, logger),
		NewSubmitFinalAnswerTool(logger),
	)
	return tools
}
