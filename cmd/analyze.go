package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"k8s.io/client-go/util/homedir"

	"github.com/helmcode/log-analyzer/pkg/analyzer"
	"github.com/helmcode/log-analyzer/pkg/config"
	"github.com/helmcode/log-analyzer/pkg/formatter"
	"github.com/helmcode/log-analyzer/pkg/k8s"
	"github.com/helmcode/log-analyzer/pkg/llm"
	"github.com/helmcode/log-analyzer/pkg/logging"
	"github.com/helmcode/log-analyzer/pkg/logsource"
	"github.com/helmcode/log-analyzer/pkg/model"
)

const defaultLogFile = "dummy_error.log"

// analyzeOptions holds the flag values and client constructors of one
// command instance.
type analyzeOptions struct {
	logFile      string
	outputPath   string
	outputFormat string
	verbose      bool
	logLevel     string

	podName      string
	podNamespace string
	podContainer string
	podTailLines int64
	podPrevious  bool
	kubeconfig   string
	kubeContext  string

	newLLM       func(llm.Provider, llm.Options) (llm.LLM, error)
	newK8sClient func(kubeconfig, kubeContext string) (logsource.PodLogReader, error)
}

func newK8sClient(kubeconfig, kubeContext string) (logsource.PodLogReader, error) {
	return k8s.NewClient(kubeconfig, kubeContext)
}

// NewAnalyzeCmd returns the root command: it analyzes one log and prints the
// JSON summary.
func NewAnalyzeCmd() *cobra.Command {
	return newAnalyzeCmd(&analyzeOptions{newLLM: llm.New, newK8sClient: newK8sClient})
}

func newAnalyzeCmd(o *analyzeOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log-analyzer",
		Short: "Summarize an error log with an LLM",
		Long: `log-analyzer sends a log to a chat-completion API and prints a JSON summary of
the distinct error types, their counts, first and last timestamps, examples,
severity and remediation steps.

The API key is read from OPENAI_API_KEY (or ANTHROPIC_API_KEY with
--provider claude). A .env file in the working directory is loaded first
without overriding variables already set.

Examples:
  # Analyze a log file
  log-analyzer -f app.log

  # Use another model and keep a copy of the result
  log-analyzer -f app.log -m gpt-4o -o analysis.json

  # Analyze the last 500 lines of a pod's log
  log-analyzer --pod api-7d9f -n production --tail 500`,
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadDotenv()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd)
		},
		SilenceUsage: true,
	}

	flags := cmd.Flags()
	flags.StringVarP(&o.logFile, "file", "f", defaultLogFile, "Path to the log file")
	flags.StringP("model", "m", "", fmt.Sprintf("Model to use (default: %s, or %s with --provider claude)", llm.DefaultOpenAIModel, llm.DefaultClaudeModel))
	flags.StringVarP(&o.outputPath, "output", "o", "", "Path to write JSON output (optional)")
	flags.String("provider", string(llm.ProviderOpenAI), "LLM provider (openai, claude)")
	flags.String("base-url", "", "Override the provider API base URL")
	flags.Duration("timeout", 0, "Timeout for the model request (0 waits indefinitely)")
	flags.StringVar(&o.outputFormat, "format", formatter.FormatJSON, "Output format (json, yaml, human)")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "Verbose output")
	flags.StringVar(&o.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	flags.StringVar(&o.podName, "pod", "", "Read the log of this Kubernetes pod instead of a file")
	flags.StringVarP(&o.podNamespace, "namespace", "n", "default", "Kubernetes namespace of --pod")
	flags.StringVarP(&o.podContainer, "container", "c", "", "Container of --pod (defaults to the only container)")
	flags.Int64Var(&o.podTailLines, "tail", 0, "Only read the last N lines of the pod log")
	flags.BoolVar(&o.podPrevious, "previous", false, "Read the log of the previous container instance")
	defaultKubeconfig := ""
	if home := homedir.HomeDir(); home != "" {
		defaultKubeconfig = filepath.Join(home, ".kube", "config")
	}
	flags.StringVar(&o.kubeconfig, "kubeconfig", defaultKubeconfig, "Path to kubeconfig file")
	flags.StringVar(&o.kubeContext, "context", "", "Kubeconfig context (overrides current-context)")

	return cmd
}

func (o *analyzeOptions) run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	level := logging.ParseLevel(o.logLevel)
	if o.verbose {
		level = slog.LevelDebug
	}
	logging.InitWriter(stderr, level)
	slog.SetDefault(slog.Default().With("run_id", uuid.NewString()))

	if !isKnownFormat(o.outputFormat) {
		return fmt.Errorf("unknown output format %q (supported: %s)", o.outputFormat, strings.Join(formatter.Formats, ", "))
	}

	source, err := o.buildSource()
	if err != nil {
		return err
	}

	s := newSpinner(stderr, " Reading "+source.Describe()+"...")
	s.Start()
	logText, err := source.Load(ctx)
	s.Stop()
	if err != nil {
		return err
	}
	slog.Debug("log loaded", "source", source.Describe(), "bytes", len(logText))

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	client, err := o.newLLM(cfg.Provider, cfg.LLMOptions())
	if err != nil {
		return fmt.Errorf("failed to initialize LLM client: %w", err)
	}

	s = newSpinner(stderr, fmt.Sprintf(" Analyzing with %s (%s)...", cfg.Provider, client.GetModel()))
	s.Start()
	result, err := analyzer.NewWithLLM(client).Analyze(ctx, logText)
	s.Stop()
	if err != nil {
		return fmt.Errorf("AI analysis failed: %w", err)
	}

	if err := formatter.DisplayResults(stdout, result, o.outputFormat); err != nil {
		return err
	}

	if o.outputPath != "" {
		writeOutput(stderr, o.outputPath, result)
	}
	return nil
}

func (o *analyzeOptions) buildSource() (logsource.Source, error) {
	if o.podName == "" {
		return &logsource.FileSource{Path: o.logFile}, nil
	}

	client, err := o.newK8sClient(o.kubeconfig, o.kubeContext)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to cluster: %w", err)
	}
	return &logsource.PodSource{
		Client:    client,
		Namespace: o.podNamespace,
		Pod:       o.podName,
		Options: k8s.PodLogOptions{
			Container: o.podContainer,
			TailLines: o.podTailLines,
			Previous:  o.podPrevious,
		},
	}, nil
}

// writeOutput saves the JSON result. A failure is reported but never turns
// into a command error, since the result was already printed.
func writeOutput(w io.Writer, path string, result *model.Result) {
	data, err := formatter.RenderJSON(result)
	if err == nil {
		err = formatter.WriteJSON(path, data)
	}
	if err != nil {
		slog.Warn("output file not written", "path", path, "error", err)
		printWarning(w, fmt.Sprintf("Failed to write output file %s: %v", path, err))
		return
	}
	printSuccess(w, "Wrote analysis JSON to: "+path)
}

func isKnownFormat(format string) bool {
	for _, f := range formatter.Formats {
		if f == format {
			return true
		}
	}
	return false
}

func newSpinner(w io.Writer, suffix string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = suffix
	return s
}
