package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/claimsight/gomatch/internal/app"
	"github.com/claimsight/gomatch/internal/export"
	"github.com/claimsight/gomatch/internal/matcher"
	"github.com/claimsight/gomatch/internal/product"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		baseURL       string
		apiKey        string
		deepBackend   string
		llmBaseURL    string
		llmModel      string
		llmKey        string
		strategy      string
		maxResults    int
		format        string
		outputPath    string
		configPath    string
		searchTimeout time.Duration
		taskTimeout   time.Duration
		maxAttempts   int
		rps           float64
		noBreaker     bool
		verbose       bool
	)

	flag.StringVar(&baseURL, "base", os.Getenv("PARALLEL_BASE_URL"), "Research service base URL")
	flag.StringVar(&apiKey, "key", os.Getenv("PARALLEL_API_KEY"), "Research service API key")
	flag.StringVar(&deepBackend, "deep", envOr("GOMATCH_DEEP_BACKEND", app.DefaultDeepBackend), "Deep research backend: task or chat")
	flag.StringVar(&llmBaseURL, "llm.base", os.Getenv("LLM_BASE_URL"), "OpenAI-compatible base URL (chat deep backend)")
	flag.StringVar(&llmModel, "llm.model", os.Getenv("LLM_MODEL"), "Model name (chat deep backend)")
	flag.StringVar(&llmKey, "llm.key", os.Getenv("LLM_API_KEY"), "API key for OpenAI-compatible server")
	flag.StringVar(&strategy, "strategy", envOr("GOMATCH_STRATEGY", app.DefaultStrategy), "Backend strategy: search_first, task_first, search_only or task_only")
	flag.IntVar(&maxResults, "max", 0, "Maximum products to return (0 uses the configured default)")
	flag.StringVar(&format, "format", "table", "Output format: table, json or csv")
	flag.StringVar(&outputPath, "output", "", "Write output to file instead of stdout")
	flag.StringVar(&configPath, "config", os.Getenv("GOMATCH_CONFIG"), "Path to YAML or JSON config file")
	flag.DurationVar(&searchTimeout, "timeout.search", envDurationOr("GOMATCH_SEARCH_TIMEOUT", app.DefaultSearchTimeout), "Timeout for one search invocation including retries")
	flag.DurationVar(&taskTimeout, "timeout.task", envDurationOr("GOMATCH_TASK_TIMEOUT", app.DefaultTaskTimeout), "Timeout for one deep research invocation")
	flag.IntVar(&maxAttempts, "retry.attempts", app.DefaultMaxAttempts, "Attempts per backend call including the first")
	flag.Float64Var(&rps, "rate.rps", 0, "Client-side request rate limit per backend (0 disables)")
	flag.BoolVar(&noBreaker, "no-breaker", false, "Disable the per-backend circuit breaker")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	description := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if description == "" {
		fmt.Fprintln(os.Stderr, "usage: gomatch [flags] <item description>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg := app.Config{
		BaseURL:           baseURL,
		APIKey:            apiKey,
		DeepBackend:       deepBackend,
		LLMBaseURL:        llmBaseURL,
		LLMModel:          llmModel,
		LLMAPIKey:         llmKey,
		Strategy:          strategy,
		DefaultMaxResults: 0,
		SearchTimeout:     searchTimeout,
		TaskTimeout:       taskTimeout,
		MaxAttempts:       maxAttempts,
		RequestsPerSecond: rps,
		DisableBreaker:    noBreaker,
		Verbose:           verbose,
	}
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("load config file")
			os.Exit(2)
		}
		app.ApplyFileConfig(&cfg, fc)
		// Env still outranks file values.
		app.ApplyEnvOverrides(&cfg)
	} else {
		app.ApplyEnvToConfig(&cfg)
	}

	if err := run(cfg, description, maxResults, format, outputPath); err != nil {
		log.Error().Err(err).Msg("run failed")
		var verr *matcher.ValidationError
		if errors.As(err, &verr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// envOr seeds a flag default from the environment so env vars apply on
// the plain no-config path too; an explicit flag still wins.
func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if s := strings.TrimSpace(os.Getenv(key)); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
	}
	return fallback
}

func run(cfg app.Config, description string, maxResults int, format, outputPath string) error {
	ctx := context.Background()

	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	res, err := a.Match(ctx, description, maxResults)
	if err != nil {
		return err
	}

	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "json":
		data, err := export.JSON(res)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case "csv":
		return export.WriteCSV(out, res)
	case "table":
		return renderTable(out, res)
	default:
		return fmt.Errorf("unknown format %q (want table, json or csv)", format)
	}
}

func renderTable(out *os.File, res product.SearchResult) error {
	table := tablewriter.NewWriter(out)
	if err := table.Append([]string{"#", "Name", "Price", "Condition", "Source", "Confidence", "URL"}); err != nil {
		return err
	}
	for i, p := range res.MatchedProducts {
		price := "-"
		if p.Price != nil {
			price = fmt.Sprintf("%.2f %s", *p.Price, p.Currency)
		}
		row := []string{
			strconv.Itoa(i + 1),
			p.Name,
			price,
			string(p.Condition),
			p.Source,
			fmt.Sprintf("%.2f", p.Confidence),
			p.URL,
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "%d of %d candidates shown, %.2fs\n",
		len(res.MatchedProducts), res.TotalResults, res.ProcessingTime)
	return err
}
