package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/xb0or/Gemini-TTS/internal/batch"
	"github.com/xb0or/Gemini-TTS/internal/config"
	"github.com/xb0or/Gemini-TTS/internal/gemini"
)

var (
	errBatchFailed  = errors.New("batch run finished with errors")
	errNoBatchTasks = errors.New("the task file has no usable entries")
)

func newBatchCmd(application *app) *cobra.Command {
	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "Run or scaffold pipe-delimited task files",
	}

	batchCmd.AddCommand(newBatchRunCmd(application))
	batchCmd.AddCommand(newBatchInitCmd(application))

	return batchCmd
}

func newBatchRunCmd(application *app) *cobra.Command {
	var delay float64

	runCmd := &cobra.Command{
		Use:   "run [task-file]",
		Short: "Execute every task in a file sequentially",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskPath := resolveTaskPath(args, application.cfg.BatchTasksPath)
			if taskPath == "" {
				return fmt.Errorf(
					"%w: pass a task file or configure batch_tasks_path",
					errNoBatchTasks,
				)
			}

			data, err := os.ReadFile(taskPath)
			if err != nil {
				return fmt.Errorf("failed to read task file %s: %w", taskPath, err)
			}

			// Persist the chosen file and, when given, the new delay so
			// the next invocation starts from the same place.
			cfg := application.store.Update(func(current *config.Config) {
				current.BatchTasksPath = taskPath
				if delay >= 0 {
					current.MultiDelaySeconds = delay
				}
			})
			application.cfg = cfg

			entries := batch.Decode(string(data))

			jobs, err := batch.Plan(entries, cfg.DefaultVoice, cfg.DefaultOutput)
			if err != nil {
				return fmt.Errorf("failed to plan batch: %w", err)
			}

			if len(jobs) == 0 {
				return errNoBatchTasks
			}

			synth := gemini.NewClient(gemini.Options{
				APIKey:  cfg.APIKey,
				BaseURL: cfg.BaseURL,
				Model:   cfg.Model,
			}, application.log)

			runner := batch.NewRunner(application.log)

			pause := time.Duration(cfg.MultiDelaySeconds * float64(time.Second))

			handle, err := runner.Start(cmd.Context(), jobs, pause, synth)
			if err != nil {
				return fmt.Errorf("failed to start batch run: %w", err)
			}

			// Ctrl-C requests cooperative cancellation; the entry in
			// flight still finishes.
			interrupts := make(chan os.Signal, 1)
			signal.Notify(interrupts, os.Interrupt)

			defer signal.Stop(interrupts)

			go func() {
				for range interrupts {
					handle.Cancel()
				}
			}()

			outcome := handle.Wait()

			return reportOutcome(outcome)
		},
	}

	runCmd.Flags().Float64Var(
		&delay,
		"delay",
		-1,
		"seconds to wait between tasks (default: multi_delay_seconds)",
	)

	return runCmd
}

func resolveTaskPath(args []string, configured string) string {
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		return args[0]
	}

	return strings.TrimSpace(configured)
}

func reportOutcome(outcome batch.Outcome) error {
	completed := len(outcome.Results)

	if outcome.Cancelled {
		fmt.Printf("Batch cancelled after %d of %d tasks\n", completed, outcome.Total)
	} else {
		fmt.Printf("Batch finished: %d tasks, %d failed\n", outcome.Total, outcome.Errors)
	}

	for _, result := range outcome.Results {
		if result.Err != nil {
			fmt.Printf("  task %d: %v\n", result.Position, result.Err)
		}
	}

	if outcome.Errors > 0 {
		return errBatchFailed
	}

	return nil
}

const taskTemplateHeader = `# One task per line: text | voice | output
# Escape literal pipes as \|, backslashes as \\, newlines as \n.
# Voice and output may be left empty to use the configured defaults.
`

func newBatchInitCmd(application *app) *cobra.Command {
	initCmd := &cobra.Command{
		Use:   "init <task-file>",
		Short: "Write a commented task file template",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			taskPath := args[0]

			sample := batch.Encode([]batch.TaskEntry{
				{Text: "Hello from the batch engine.", Voice: "", Output: ""},
				{Text: "Second line, custom voice.", Voice: "Puck", Output: ""},
			})

			content := taskTemplateHeader + sample

			err := os.WriteFile(taskPath, []byte(content), 0o600)
			if err != nil {
				return fmt.Errorf("failed to write task file %s: %w", taskPath, err)
			}

			application.cfg = application.store.Update(func(current *config.Config) {
				current.BatchTasksPath = taskPath
			})

			fmt.Printf("Task template written to %s\n", taskPath)

			return nil
		},
	}

	return initCmd
}
