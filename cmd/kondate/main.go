// Package main is the kondate CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/kondate/internal/cli"
	"github.com/hyperjump/kondate/internal/config"
	"github.com/hyperjump/kondate/internal/models"
	"github.com/hyperjump/kondate/internal/server"
	"github.com/hyperjump/kondate/internal/storage"
	"github.com/hyperjump/kondate/internal/telemetry"
	"github.com/hyperjump/kondate/internal/watcher"
	"github.com/hyperjump/kondate/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/kondate/config.yaml"

// loadConfig loads config from path. With the default path, a config.yaml in
// the current directory wins, and when neither exists the built-in defaults
// are used. It returns the path actually loaded ("" for defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, err := os.Getwd(); err == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, err := os.Stat(fallback); err == nil {
				cfg, err := config.Load(fallback)
				if err != nil {
					return nil, "", err
				}
				return cfg, fallback, nil
			}
		}
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			cfg, err := config.Default()
			return cfg, "", err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// setup loads the config and builds the logger. It exits on failure.
func setup(configPath string, debug bool) (*config.Config, string, *zap.Logger) {
	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug || debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	return cfg, resolved, logger
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	switch command := os.Args[1]; command {
	case "server":
		runServer()
	case "plan":
		runPlan()
	case "ingest":
		runIngest()
	case "search":
		runSearch()
	case "delete":
		runDelete()
	case "status":
		runStatus()
	case "watch":
		runWatch()
	case "lambda":
		runLambda()
	case "version", "--version", "-v":
		fmt.Printf("kondate version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, logger := setup(*configPath, *debug)
	defer logger.Sync()
	logger.Info("config loaded", zap.String("config_path", resolvedConfigPath), zap.Bool("debug", cfg.Debug || *debug))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, shutdownTelemetry, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	components, err := initializeComponents(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	for _, source := range cfg.Corpus.Sources {
		n, err := ingestSource(ctx, components, source)
		if err != nil {
			logger.Warn("corpus source ingest failed", zap.String("source", source), zap.Error(err))
			continue
		}
		logger.Info("Ingested corpus source", zap.String("source", source), zap.Int("updated", n))
	}

	svc, err := newPlanner(ctx, cfg, components, providers, logger)
	if err != nil {
		logger.Fatal("Failed to initialize planner", zap.Error(err))
	}

	watchSvc := watcher.New(components.Indexer, cfg.Corpus,
		watcher.WithLogger(logger),
		watcher.WithOnChange(components.SaveVectors),
	)
	if err := watchSvc.Start(ctx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	watchSvc.Sync()
	components.SaveVectors()

	if n, err := components.Storage.CountFoods(ctx); err == nil && n == 0 {
		logger.Warn("food corpus is empty; plans will have no candidates (try: kondate ingest --sample)")
	}

	srv := server.NewServer(svc, components.Engine, components.Indexer, components.Storage, cfg, logger,
		server.WithWatch(watchSvc, resolvedConfigPath),
		server.WithVersion(version),
	)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")
	watchSvc.Stop()
	components.SaveVectors()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(shutdownCtx)
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Warn("telemetry shutdown failed", zap.Error(err))
	}
}

// planFlags collects the plan request given on the command line.
type planFlags struct {
	file   string
	target int
	eaten  []string
	wants  []string
	intent string
}

// planRequest is the JSON body of a meal plan request.
type planRequest struct {
	UserProfile *models.UserProfile `json:"user_profile,omitempty"`
	ParsedInput models.ParsedInput  `json:"parsed_input"`
}

// buildPlanRequest reads the request file (or stdin for "-") and applies the
// flag overrides. --eaten takes "slot" or "slot=item;item"; --want takes
// "slot=free text".
func buildPlanRequest(pf planFlags, stdin io.Reader) (*planRequest, error) {
	req := &planRequest{}
	if pf.file != "" {
		var data []byte
		var err error
		if pf.file == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(pf.file)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read request: %w", err)
		}
		if err := json.Unmarshal(data, req); err != nil {
			return nil, fmt.Errorf("failed to parse request: %w", err)
		}
	}
	if req.UserProfile == nil {
		p := models.DefaultUserProfile()
		req.UserProfile = &p
	}
	if pf.target != 0 {
		req.UserProfile.TargetCalories = pf.target
	}
	if req.ParsedInput.AlreadyEaten == nil {
		req.ParsedInput.AlreadyEaten = make(map[models.MealSlot][]string)
	}
	if req.ParsedInput.MealRequests == nil {
		req.ParsedInput.MealRequests = make(map[models.MealSlot]string)
	}
	for _, e := range pf.eaten {
		name, items, _ := strings.Cut(e, "=")
		slot, err := models.ParseMealSlot(strings.TrimSpace(name))
		if err != nil {
			return nil, fmt.Errorf("--eaten %q: %w", e, err)
		}
		list := splitItems(items)
		if len(list) == 0 {
			list = []string{"eaten"}
		}
		req.ParsedInput.AlreadyEaten[slot] = list
	}
	for _, w := range pf.wants {
		name, text, ok := strings.Cut(w, "=")
		if !ok {
			return nil, fmt.Errorf("--want %q: expected slot=text", w)
		}
		slot, err := models.ParseMealSlot(strings.TrimSpace(name))
		if err != nil {
			return nil, fmt.Errorf("--want %q: %w", w, err)
		}
		req.ParsedInput.MealRequests[slot] = strings.TrimSpace(text)
	}
	if pf.intent != "" {
		req.ParsedInput.UserIntent = pf.intent
	}
	if req.UserProfile.TargetCalories <= 0 {
		return nil, fmt.Errorf("target calories must be positive")
	}
	return req, nil
}

func splitItems(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ";") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func runPlan() {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "", "server URL (empty = plan in process)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	var pf planFlags
	fs.StringVar(&pf.file, "file", "", `JSON request {"user_profile":…, "parsed_input":…}; "-" reads stdin`)
	fs.IntVar(&pf.target, "target", 0, "daily calorie target (overrides the request file)")
	fs.StringVar(&pf.intent, "intent", "", "free-text intent passed to the generator")
	fs.Func("eaten", `slot already eaten, optionally with items: breakfast or "breakfast=eggs;toast" (repeatable)`, func(v string) error {
		pf.eaten = append(pf.eaten, v)
		return nil
	})
	fs.Func("want", `preference for a slot: "dinner=something with fish" (repeatable)`, func(v string) error {
		pf.wants = append(pf.wants, v)
		return nil
	})
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	req, err := buildPlanRequest(pf, os.Stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var result *models.PlanResult
	if *serverURL != "" {
		result, err = planViaHTTP(*serverURL, req)
	} else {
		result, err = planInProcess(*configPath, req)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Planning failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WritePlan(os.Stdout, result, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func planInProcess(configPath string, req *planRequest) (*models.PlanResult, error) {
	cfg, _, logger := setup(configPath, false)
	defer logger.Sync()
	ctx := context.Background()

	components, err := initializeComponents(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	defer components.Close()
	svc, err := newPlanner(ctx, cfg, components, nil, logger)
	if err != nil {
		return nil, err
	}
	return svc.Plan(ctx, *req.UserProfile, req.ParsedInput)
}

func planViaHTTP(serverURL string, req *planRequest) (*models.PlanResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/meal-plan", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	var out struct {
		Success bool               `json:"success"`
		Message string             `json:"message"`
		Error   string             `json:"error"`
		Data    *models.PlanResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if !out.Success || out.Data == nil {
		return nil, fmt.Errorf("server returned %d: %s %s", resp.StatusCode, out.Message, out.Error)
	}
	return out.Data, nil
}

// ingestPath indexes a file, or every corpus file under a directory. It
// returns the items stored for a file and the files indexed for a directory.
func ingestPath(ctx context.Context, c *Components, path string) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat path: %w", err)
	}
	if info.IsDir() {
		return c.Indexer.IndexDirectory(ctx, path, c.Config.Corpus.Extensions, c.Config.Corpus.RecursiveOrDefault())
	}
	n, _, err := c.Indexer.IndexFile(ctx, path, nil)
	return n, err
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	sample := fs.Bool("sample", false, "ingest the built-in sample corpus")
	_ = fs.Parse(os.Args[2:])

	sources := fs.Args()
	if *sample {
		sources = append(sources, "sample")
	}
	if len(sources) == 0 {
		fmt.Println("Usage: kondate ingest [--sample] [flags] <file|directory|s3://bucket/key>...")
		os.Exit(1)
	}

	cfg, _, logger := setup(*configPath, false)
	defer logger.Sync()
	ctx := context.Background()
	components, err := initializeComponents(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	failed := false
	for _, source := range sources {
		n, err := ingestSource(ctx, components, source)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ingest %s failed: %v\n", source, err)
			failed = true
			continue
		}
		fmt.Printf("Ingested %s (%d updated)\n", source, n)
	}
	components.SaveVectors()
	if failed {
		os.Exit(1)
	}
}

// argsReorder moves flags that follow the positional arguments to the front
// so flag.Parse sees them ("kondate search salmon --limit 3").
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// buildSearchQuery joins the positional args so multi-word queries work
// with or without quotes.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", `server URL (--server "" searches storage directly)`)
	limit := fs.Int("limit", 10, "number of results")
	category := fs.String("category", "", "restrict to breakfast, lunch, dinner, snacks or other")
	kwEnabled := fs.Bool("keyword", true, "enable keyword search")
	semEnabled := fs.Bool("semantic", true, "enable semantic search")
	fuzzy := fs.Bool("fuzzy", false, "tolerate typos in keyword terms")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(argsReorder(os.Args[2:]))

	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" {
		fmt.Println("Usage: kondate search [flags] <query>")
		fs.PrintDefaults()
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	query := &models.SearchQuery{
		Query:           queryStr,
		Limit:           *limit,
		Category:        *category,
		KeywordEnabled:  *kwEnabled,
		SemanticEnabled: *semEnabled,
		Fuzzy:           *fuzzy,
	}

	var search func(*models.SearchQuery) (*models.SearchResponse, error)
	if *serverURL != "" {
		search = func(q *models.SearchQuery) (*models.SearchResponse, error) {
			return searchViaHTTP(*serverURL, q)
		}
	} else {
		cfg, _, logger := setup(*configPath, false)
		defer logger.Sync()
		components, err := initializeComponents(context.Background(), cfg, logger)
		if err != nil {
			logger.Fatal("Failed to initialize", zap.Error(err))
		}
		defer components.Close()
		search = func(q *models.SearchQuery) (*models.SearchResponse, error) {
			return components.Engine.Search(context.Background(), q)
		}
	}

	response, err := search(query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	// Retry with typo tolerance before reporting nothing.
	if response.Total == 0 && !query.Fuzzy {
		query.Fuzzy = true
		if fuzzyResponse, err := search(query); err == nil && fuzzyResponse.Total > 0 {
			response = fuzzyResponse
		}
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func searchViaHTTP(serverURL string, query *models.SearchQuery) (*models.SearchResponse, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/foods/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", `server URL (--server "" reads storage directly)`)
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var status cli.Status
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = *res
	} else {
		cfg, _, logger := setup(*configPath, false)
		defer logger.Sync()
		ctx := context.Background()
		components, err := initializeComponents(ctx, cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
			os.Exit(1)
		}
		defer components.Close()
		if status.Foods, err = components.Storage.CountFoods(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Count foods failed: %v\n", err)
			os.Exit(1)
		}
		if status.FoodsByCategory, err = components.Storage.CountFoodsByCategory(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Count categories failed: %v\n", err)
			os.Exit(1)
		}
		status.KeywordDocuments, _ = components.Engine.KeywordDocCount()
		status.VectorIndexSize = components.Engine.VectorIndexSize()
		if usage, err := storage.Usage(cfg.Storage); err == nil {
			status.DiskUsageBytes = usage.Total()
		}
	}
	if err := cli.WriteStatus(os.Stdout, status, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*cli.Status, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s cli.Status
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

func runDelete() {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: kondate delete [flags] <food-id>")
		os.Exit(1)
	}
	id := fs.Arg(0)

	cfg, _, logger := setup(*configPath, false)
	defer logger.Sync()
	components, err := initializeComponents(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	if err := components.Indexer.DeleteFood(context.Background(), id); err != nil {
		fmt.Printf("Deletion failed: %v\n", err)
		os.Exit(1)
	}
	components.SaveVectors()
	fmt.Printf("Food deleted: %s\n", id)
}

func runWatch() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: kondate watch <add|remove|list> [path]")
		os.Exit(1)
	}
	sub := os.Args[2]
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	_ = fs.Parse(argsReorder(os.Args[3:]))

	var (
		req  *http.Request
		want int
		err  error
	)
	switch sub {
	case "add", "remove":
		if fs.NArg() < 1 {
			fmt.Printf("Usage: kondate watch %s <path>\n", sub)
			os.Exit(1)
		}
		path, _ := filepath.Abs(fs.Arg(0))
		if sub == "add" {
			body, _ := json.Marshal(map[string]interface{}{"path": path, "sync": true})
			req, err = http.NewRequest(http.MethodPost, *serverURL+"/api/v1/watch/directories", bytes.NewReader(body))
			want = http.StatusCreated
		} else {
			req, err = http.NewRequest(http.MethodDelete, *serverURL+"/api/v1/watch/directories?path="+url.QueryEscape(path), nil)
			want = http.StatusOK
		}
	case "list":
		req, err = http.NewRequest(http.MethodGet, *serverURL+"/api/v1/watch/directories", nil)
		want = http.StatusOK
	default:
		fmt.Printf("Unknown watch subcommand: %s\n", sub)
		os.Exit(1)
	}
	if err != nil {
		fmt.Printf("Request failed: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != want {
		b, _ := io.ReadAll(resp.Body)
		fmt.Printf("Watch %s failed (%d): %s\n", sub, resp.StatusCode, string(b))
		os.Exit(1)
	}

	var out struct {
		Path        string   `json:"path"`
		Status      string   `json:"status"`
		Directories []string `json:"directories"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	if sub == "list" {
		for _, d := range out.Directories {
			fmt.Println(d)
		}
		return
	}
	fmt.Printf("%s: %s\n", out.Status, out.Path)
}

func printUsage() {
	fmt.Println(`kondate - daily meal planner over a searchable food corpus

Usage:
  kondate server [flags]                      Start the HTTP API (and MCP endpoint)
  kondate plan [flags]                        Plan the rest of the day
  kondate ingest [flags] <source>...          Add foods from files, directories or s3:// objects
  kondate search [flags] <query>              Search the food corpus
  kondate delete [flags] <id>                 Delete a food item
  kondate status [flags]                      Show corpus and index status
  kondate watch <add|remove|list> [path]      Manage watched corpus directories
  kondate lambda [flags]                      Serve plan requests as an AWS Lambda function
  kondate version                             Show version
  kondate help                                Show this help

Plan Flags:
  --file string      JSON request {"user_profile":…, "parsed_input":…} ("-" = stdin)
  --target int       Daily calorie target
  --eaten value      Slot already eaten, e.g. breakfast or "lunch=salad;apple" (repeatable)
  --want value       Slot preference, e.g. "dinner=something with fish" (repeatable)
  --intent string    Free-text intent
  --server string    Plan via a running server instead of in process
  --output string    text or json

Ingest Flags:
  --sample           Ingest the built-in 30-item sample corpus

Search Flags:
  --server string    Server URL (default: http://localhost:8080; "" = direct storage)
  --limit int        Number of results (default: 10)
  --category string  breakfast, lunch, dinner, snacks or other
  --keyword          Enable keyword search (default: true)
  --semantic         Enable semantic search (default: true)
  --fuzzy            Tolerate typos
  --output string    text or json

Common Flags:
  --config string    Config file path (default: /usr/local/etc/kondate/config.yaml)

Examples:
  kondate ingest --sample
  kondate ingest ./menus s3://my-bucket/foods.csv
  kondate plan --target 1800 --eaten breakfast --want "dinner=something with fish"
  kondate plan --file request.json --output json
  kondate search --category dinner salmon
  kondate server`)
}
