package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gaia-agent/internal/application/port/output"
	"gaia-agent/internal/di"
	"gaia-agent/internal/domain/entity"
	"gaia-agent/internal/infrastructure/env"
)

var red = color.New(color.FgRed).SprintFunc()

type runOptions struct {
	all         bool
	taskID      string
	limit       int
	answersFile string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, red("Error: "+err.Error()))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gaia",
		Short:         "Answer GAIA benchmark questions with a tool-calling agent",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newQuestionsCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Answer questions and append the results to the answer log",
		Long: `Answer benchmark questions and append one record per question to the answer log.

Examples:
  gaia run                   # first question of the selection
  gaia run --task-id 3       # third question, or a task id
  gaia run --all --limit 10  # first ten questions`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := di.ConfigFromEnv(env.NewEnvService())
			if opts.answersFile != "" {
				cfg.AnswersFile = opts.answersFile
			}
			cfg.Out = cmd.OutOrStdout()

			container, err := di.NewContainer(cfg)
			if err != nil {
				return err
			}
			defer container.Close()

			questions, err := selectQuestions(cmd.Context(), container.Questions, opts)
			if err != nil {
				return err
			}

			summary, err := container.Runner.Run(cmd.Context(), questions)
			container.Printer.ShowSummary(summary)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Answers written to %s\n", container.Answers.Path())
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.all, "all", false, "answer every question of the selected level")
	cmd.Flags().StringVar(&opts.taskID, "task-id", "", "answer a single question by task id or 1-based index")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "with --all, stop after this many questions")
	cmd.Flags().StringVar(&opts.answersFile, "answers", "", "answer log path (overrides ANSWERS_FILE)")
	cmd.MarkFlagsMutuallyExclusive("all", "task-id")
	return cmd
}

func newQuestionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "List the selected questions and their attachments",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := di.ConfigFromEnv(env.NewEnvService())
			cfg.Out = cmd.OutOrStdout()

			container, err := di.NewContainer(cfg)
			if err != nil {
				return err
			}
			defer container.Close()

			summary, err := container.Questions.Summarize(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, f := range summary.Files {
				fmt.Fprintf(out, "Level %d files: %s\n", f.Level, f.FileName)
			}
			fmt.Fprintln(out, summary.Count)
			return nil
		},
	}
}

func selectQuestions(ctx context.Context, src output.QuestionSource, opts runOptions) ([]entity.LabeledQuestion, error) {
	switch {
	case opts.taskID != "":
		q, err := src.GetQuestionByID(ctx, opts.taskID)
		if err != nil {
			return nil, err
		}
		return []entity.LabeledQuestion{q}, nil
	case opts.all:
		qs, err := src.GetQuestions(ctx)
		if err != nil {
			return nil, err
		}
		if opts.limit > 0 && opts.limit < len(qs) {
			qs = qs[:opts.limit]
		}
		return qs, nil
	default:
		q, err := src.GetQuestion(ctx)
		if err != nil {
			return nil, err
		}
		return []entity.LabeledQuestion{q}, nil
	}
}
