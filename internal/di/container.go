package di

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"gaia-agent/internal/adapter/tool"
	"gaia-agent/internal/application/port/input"
	"gaia-agent/internal/application/port/output"
	"gaia-agent/internal/application/service"
	"gaia-agent/internal/infrastructure/answerlog"
	"gaia-agent/internal/infrastructure/console"
	"gaia-agent/internal/infrastructure/dataset"
	"gaia-agent/internal/infrastructure/extractor"
	"gaia-agent/internal/infrastructure/llm"
	"gaia-agent/internal/infrastructure/llm/anthropic"
	"gaia-agent/internal/infrastructure/llm/openrouter"
	"gaia-agent/internal/infrastructure/logger"
	"gaia-agent/internal/infrastructure/prompts"
	"gaia-agent/internal/infrastructure/search"
	"gaia-agent/internal/infrastructure/search/tavily"
	"gaia-agent/internal/infrastructure/transcribe"
	"gaia-agent/internal/usecase/benchmark"
	"gaia-agent/internal/usecase/executor"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderAnthropic  = "anthropic"
)

type Container struct {
	LLM       output.LLMPort
	Logger    output.LoggerPort
	Tools     output.ToolRegistry
	Questions *dataset.QuestionProvider
	Answers   *answerlog.FileStore
	Printer   *console.Printer
	Executor  input.TaskExecutor
	Answerer  input.QuestionAnswerer
	Runner    input.BenchmarkRunner

	SystemPrompt string
}

type Config struct {
	Provider string

	OpenRouterAPIKey string
	OpenRouterModel  string
	ReasoningEffort  string

	AnthropicAPIKey string
	AnthropicModel  string

	MaxTokens int

	TavilyAPIKey string

	HFToken     string
	Split       string
	Level       int
	DatasetFile string
	DataDir     string
	AnswersFile string

	MaxSteps  int
	TurnDelay time.Duration

	OpenAIAPIKey   string
	WhisperBaseURL string

	LogDir   string
	LogLevel string

	// SystemPromptFile replaces the built-in system prompt with a template.
	SystemPromptFile string
	Out              io.Writer
}

// ConfigFromEnv reads every setting; missing credentials for the selected
// provider abort through MustGet.
func ConfigFromEnv(env output.ConfigPort) Config {
	cfg := Config{
		Provider:         env.GetWithDefault("MODEL_PROVIDER", ProviderOpenRouter),
		MaxTokens:        env.GetInt("MAX_TOKENS", 5000),
		TavilyAPIKey:     env.MustGet("TAVILY_API_KEY"),
		HFToken:          env.Get("HF_TOKEN"),
		Split:            env.GetWithDefault("GAIA_SPLIT", dataset.DefaultSplit),
		Level:            env.GetInt("GAIA_LEVEL", 1),
		DatasetFile:      env.Get("GAIA_DATASET_FILE"),
		DataDir:          env.GetWithDefault("DATA_DIR", "downloaded_files"),
		AnswersFile:      env.GetWithDefault("ANSWERS_FILE", "answers.json"),
		MaxSteps:         env.GetInt("MAX_STEPS", executor.DefaultMaxSteps),
		TurnDelay:        env.GetDuration("TURN_DELAY_MS", 5*time.Second),
		OpenAIAPIKey:     env.Get("OPENAI_API_KEY"),
		WhisperBaseURL:   env.Get("WHISPER_BASE_URL"),
		LogDir:           env.GetWithDefault("LOG_DIR", "log"),
		LogLevel:         env.GetWithDefault("LOGLEVEL", "warning"),
		SystemPromptFile: env.Get("SYSTEM_PROMPT_FILE"),
	}

	switch cfg.Provider {
	case ProviderAnthropic:
		cfg.AnthropicAPIKey = env.MustGet("ANTHROPIC_API_KEY")
		cfg.AnthropicModel = env.GetWithDefault("ANTHROPIC_MODEL", anthropic.DefaultModel)
	default:
		cfg.OpenRouterAPIKey = env.MustGet("OPENROUTER_API_KEY")
		cfg.OpenRouterModel = env.MustGet("OPENROUTER_MODEL_NAME")
		if env.GetBool("THINKING_MODE", true) {
			cfg.ReasoningEffort = env.GetWithDefault("REASONING_EFFORT", "medium")
		}
	}
	return cfg
}

func NewContainer(cfg Config) (*Container, error) {
	log, err := logger.NewLoggerAdapter(logger.Config{
		Dir:          cfg.LogDir,
		Name:         "gaia",
		ConsoleLevel: cfg.LogLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	model, err := newLLM(cfg, log)
	if err != nil {
		log.Close()
		return nil, err
	}
	model = llm.NewRetryingLLM(model, nil, log)

	web, err := search.NewCachingSearch(tavily.NewClient(tavily.Config{
		APIKey:      cfg.TavilyAPIKey,
		SearchDepth: "basic",
		Logger:      log,
	}), search.DefaultCacheSize, log)
	if err != nil {
		log.Close()
		return nil, err
	}
	tools := service.NewToolRegistry(tool.DefaultTools(web, log)...)

	printer := console.NewPrinter(cfg.Out, log)

	exec := executor.New(model, tools, log, printer.Handle, executor.Config{
		MaxSteps:  cfg.MaxSteps,
		TurnDelay: cfg.TurnDelay,
	})

	hubCfg := dataset.DefaultHubConfig(cfg.HFToken, cfg.DataDir)
	hubCfg.Logger = log
	hub := dataset.NewHub(hubCfg)

	var transcriber output.Transcriber
	if cfg.OpenAIAPIKey != "" || cfg.WhisperBaseURL != "" {
		transcriber = transcribe.NewWhisper(transcribe.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.WhisperBaseURL,
			Logger:  log,
		})
	}
	files := extractor.New(dataset.NewFileCache(hub, cfg.Split), transcriber, log)

	questions := dataset.NewQuestionProvider(hub, dataset.ProviderConfig{
		Split:     cfg.Split,
		Level:     cfg.Level,
		LocalFile: cfg.DatasetFile,
		Logger:    log,
	})

	answersPath, err := filepath.Abs(cfg.AnswersFile)
	if err != nil {
		answersPath = cfg.AnswersFile
	}
	answers := answerlog.NewFileStore(answersPath, log)

	maxSteps := cfg.MaxSteps
	if maxSteps <= 0 {
		maxSteps = executor.DefaultMaxSteps
	}
	var toolNames []string
	for _, t := range tools.All() {
		toolNames = append(toolNames, t.Name())
	}
	systemPrompt, err := prompts.LoadSystemPrompt(cfg.SystemPromptFile, prompts.SystemPromptData{
		Tools:    toolNames,
		MaxSteps: maxSteps,
	})
	if err != nil {
		log.Close()
		return nil, err
	}
	answerer := benchmark.NewAnswerer(files, exec, log, systemPrompt)

	return &Container{
		LLM:       model,
		Logger:    log,
		Tools:     tools,
		Questions: questions,
		Answers:   answers,
		Printer:   printer,
		Executor:  exec,
		Answerer:  answerer,
		Runner:    benchmark.NewRunner(answerer, answers, printer, log),

		SystemPrompt: systemPrompt,
	}, nil
}

func newLLM(cfg Config, log output.LoggerPort) (output.LLMPort, error) {
	switch cfg.Provider {
	case ProviderAnthropic:
		acfg := anthropic.DefaultConfig(cfg.AnthropicAPIKey)
		if cfg.AnthropicModel != "" {
			acfg.Model = cfg.AnthropicModel
		}
		if cfg.MaxTokens > 0 {
			acfg.MaxTokens = cfg.MaxTokens
		}
		acfg.Logger = log
		a, err := anthropic.NewAdapter(acfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create anthropic client: %w", err)
		}
		return a, nil
	case ProviderOpenRouter, "":
		llmCfg := openrouter.DefaultConfig(cfg.OpenRouterAPIKey, cfg.OpenRouterModel)
		llmCfg.MaxTokens = cfg.MaxTokens
		llmCfg.ReasoningEffort = cfg.ReasoningEffort
		llmCfg.Logger = log
		return openrouter.NewOpenRouterAdapter(llmCfg), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}

func (c *Container) Close() {
	if c.Logger != nil {
		c.Logger.Close()
	}
}
