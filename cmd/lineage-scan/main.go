package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lineage-scan/internal/auditor"
	"lineage-scan/internal/config"
	"lineage-scan/internal/engine"
	"lineage-scan/internal/language"
	"lineage-scan/internal/logging"
	"lineage-scan/internal/model"
	"lineage-scan/internal/parser"
	"lineage-scan/internal/reporter"
	"lineage-scan/internal/scanner"
	"lineage-scan/internal/summarizer"
)

var (
	configPath  string
	srcPath     string
	schemaPath  string
	reportFmt   string
	outputFile  string
	excludes    []string
	workers     int
	llmProvider string
	logLevel    string
	explainSQL  string
)

var rootCmd = &cobra.Command{
	Use:   "lineage-scan [path]",
	Short: "Static code and data-lineage analysis for source trees",
	Long: `lineage-scan reads a zip archive or a directory of source code,
extracts functions, classes, imports, SQL and DataFrame operations,
measures code quality and builds data-flow and lineage graphs.
Optional narratives are produced by an OpenAI or Gemini model.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			srcPath = args[0]
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		fmt.Printf("Scanning source: %s\n", srcPath)
		if len(cfg.Excludes) > 0 {
			fmt.Printf("Excluding patterns: %v\n", cfg.Excludes)
		}
		if cfg.Schema != "" {
			fmt.Printf("Using schema: %s\n", cfg.Schema)
		}
		fmt.Printf("Report format: %s\n", cfg.Report.Format)

		return runAnalysis(cmd.Context(), cfg)
	},
}

var explainCmd = &cobra.Command{
	Use:   "explain [file]",
	Short: "Explain one source file or SQL statement in plain language",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && explainSQL == "" {
			return errors.New("explain needs a file or --sql")
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return runExplain(cmd.Context(), cfg, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML or TOML config file")
	rootCmd.PersistentFlags().StringVar(&llmProvider, "llm-provider", "", "Narrative provider (none, openai, gemini)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.Flags().StringVarP(&srcPath, "src", "s", ".", "Zip archive or directory to scan")
	rootCmd.Flags().StringVarP(&schemaPath, "schema", "S", "", "Path to a database schema SQL file")
	rootCmd.Flags().StringVarP(&reportFmt, "report", "r", "console", "Report format (console, json)")
	rootCmd.Flags().StringVarP(&outputFile, "out", "o", "", "Output file for the json report (default: stdout)")
	rootCmd.Flags().StringSliceVarP(&excludes, "exclude", "e", nil, "Glob patterns to exclude from scan")
	rootCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of analysis workers")

	explainCmd.Flags().StringVar(&explainSQL, "sql", "", "SQL statement to explain")
	rootCmd.AddCommand(explainCmd)
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}

// loadConfig reads the config file and the environment, then applies the
// flags the user actually set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("schema") {
		cfg.Schema = schemaPath
	}
	if flags.Changed("report") {
		cfg.Report.Format = reportFmt
	}
	if flags.Changed("out") {
		cfg.Report.Output = outputFile
	}
	if flags.Changed("exclude") {
		cfg.Excludes = append(cfg.Excludes, excludes...)
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("llm-provider") {
		cfg.LLM.Provider = llmProvider
		cfg.FromEnv(func(key string) string {
			if key == config.EnvProvider {
				return ""
			}
			return os.Getenv(key)
		})
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newSummarizer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (model.Summarizer, error) {
	return summarizer.New(ctx, summarizer.Options{
		Provider:    cfg.LLM.Provider,
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		Timeout:     cfg.LLM.Timeout(),
		MaxAttempts: cfg.LLM.MaxAttempts,
		CacheSize:   cfg.LLM.CacheSize,
	}, logger)
}

func runAnalysis(ctx context.Context, cfg *config.Config) error {
	// 0. Validate Inputs
	if _, err := os.Stat(srcPath); os.IsNotExist(err) {
		return fmt.Errorf("source path does not exist: %s", srcPath)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// 1. Collaborators
	sum, err := newSummarizer(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to configure summarizer: %w", err)
	}
	var detector model.LanguageDetector
	if cfg.LLM.DetectLanguage {
		if _, off := sum.(summarizer.Disabled); !off {
			detector = summarizer.NewDetector(sum)
		}
	}

	// 2. Analyze
	eng := engine.New(engine.Options{
		Workers:     cfg.Workers,
		TopN:        cfg.TopN,
		Excludes:    cfg.Excludes,
		Schema:      cfg.Schema,
		DetectEvery: cfg.LLM.DetectEvery,
		Narratives: engine.NarrativeOptions{
			Project:    cfg.LLM.SummarizeProject,
			FilesEvery: cfg.LLM.SummarizeFilesEvery,
			SQL:        cfg.LLM.SummarizeSQL,
		},
	}, sum, detector, logger)

	fmt.Printf("Scanning started on %s...\n", srcPath)
	result, err := eng.Run(ctx, srcPath)
	if err != nil {
		if errors.Is(err, scanner.ErrInvalidArchive) {
			return fmt.Errorf("cannot read archive %s: %w", srcPath, err)
		}
		return fmt.Errorf("analysis failed: %w", err)
	}
	fmt.Printf("Scan complete. %d files, %d SQL statements, %d issues.\n",
		result.Stats.TotalFiles, len(result.SQL), len(result.Issues))

	// 3. Report
	rpt, err := reporter.New(cfg.Report.Format, cfg.Report.Output)
	if err != nil {
		return err
	}
	if err := rpt.Report(result); err != nil {
		return fmt.Errorf("reporting failed: %w", err)
	}
	if cfg.Report.Format == reporter.FormatJSON && cfg.Report.Output != "" {
		fmt.Printf("Report written to %s\n", cfg.Report.Output)
	}
	return nil
}

func runExplain(ctx context.Context, cfg *config.Config, args []string) error {
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	sum, err := newSummarizer(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to configure summarizer: %w", err)
	}
	eng := engine.New(engine.Options{}, sum, nil, logger)

	if explainSQL != "" {
		fmt.Println(eng.ExplainSQL(ctx, explainSQL))
		return auditSQL(explainSQL, logger)
	}
	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	fmt.Println(eng.ExplainFile(ctx, language.Classify(args[0], content), content))
	return nil
}

// auditSQL prints the anti-pattern findings for a single statement.
func auditSQL(sql string, logger *zap.Logger) error {
	a := auditor.NewDefaultAuditor(nil, parser.NewSQLParser(), logger)
	issues, err := a.Audit([]model.SQLSegment{{SQL: sql, Location: model.Location{FilePath: "<sql>", Line: 1}}})
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}
	reporter.NewConsoleReporter(nil).ReportIssues(issues)
	return nil
}
