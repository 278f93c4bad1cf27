package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/ndpa"
	"github.com/fwojciec/ndpa/eval"
	"github.com/fwojciec/ndpa/fs"
	"github.com/fwojciec/ndpa/gemini"
	"github.com/fwojciec/ndpa/goquery"
	ndpahttp "github.com/fwojciec/ndpa/http"
	"github.com/fwojciec/ndpa/prometheus"
	ndpaslog "github.com/fwojciec/ndpa/slog"
	"github.com/fwojciec/ndpa/sqlite"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Default database path, used when neither --db nor NDPA_DB is set.
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Models, if set, is used instead of connecting to Gemini.
	Models gemini.ContentGenerator

	// Fetcher, if set, is used instead of an HTTP fetcher.
	Fetcher ndpa.Fetcher

	// Extractor, if set, is used instead of the goquery text extractor.
	Extractor ndpa.TextExtractor

	// scoring schedules background evaluation of agent runs.
	scoring *eval.Agent
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close waits for pending scoring and closes the database.
func (m *Main) Close() error {
	if m.scoring != nil {
		m.scoring.Wait()
	}
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("ndpa"),
		kong.Description("Look up and explain sections of the Nigeria Data Protection Act."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'ndpa --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	deps.Logger = newLogger(stderr, cli.LogJSON, logLevel(cmd, cli.Verbose))
	deps.DocumentPath = cli.Document
	defer m.Close()

	switch cmd {
	case "prepare":
		m.wirePrepare(deps)
	case "scores":
		if err := m.openDB(cli, deps, stderr); err != nil {
			return err
		}
	default:
		if err := m.wireQuery(ctx, cmd, cli, deps, stderr); err != nil {
			return err
		}
	}

	return kongCtx.Run(deps)
}

// wirePrepare sets up fetching and HTML extraction for the prepare command.
func (m *Main) wirePrepare(deps *Dependencies) {
	fetcher := m.Fetcher
	if fetcher == nil {
		fetcher = ndpahttp.NewFetcher()
	}
	deps.Fetcher = ndpaslog.NewLoggingFetcher(fetcher, deps.Logger)
	deps.Extractor = m.Extractor
	if deps.Extractor == nil {
		deps.Extractor = goquery.NewTextExtractor()
	}
}

// wireQuery loads the document and builds the services used by the serve,
// find, explain and ask commands.
func (m *Main) wireQuery(ctx context.Context, cmd string, cli *CLI, deps *Dependencies, stderr io.Writer) error {
	doc, checksum, err := fs.LoadDocument(cli.Document)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Run 'ndpa prepare' or set NDPA_DOCUMENT to point at the structured act")
		return fmt.Errorf("failed to load document %q: %w", cli.Document, err)
	}
	index := ndpa.NewIndex(doc)
	deps.Logger.Debug("document loaded", "path", cli.Document, "sections", index.Len(), "checksum", checksum)

	var finder ndpa.Finder = index
	if cmd == "serve" {
		deps.Metrics = prometheus.NewMetrics()
		finder = prometheus.NewFinder(finder, deps.Metrics)
	}
	deps.Finder = ndpaslog.NewLoggingFinder(finder, deps.Logger)

	if cmd == "find" {
		return nil
	}

	models, err := m.models(ctx, stderr)
	if err != nil {
		return err
	}
	deps.Explainer = ndpaslog.NewLoggingExplainer(gemini.NewExplainer(models, cli.Model), deps.Logger)

	if cmd == "explain" {
		return nil
	}

	var agent ndpa.Agent = gemini.NewAgent(models, deps.Finder, cli.Model)
	agent = ndpaslog.NewLoggingAgent(agent, gemini.AgentID, deps.Logger)
	if deps.Metrics != nil {
		agent = prometheus.NewAgent(agent, gemini.AgentID, deps.Metrics)
	}

	sampling := 1.0
	switch {
	case cmd == "serve":
		sampling = cli.Serve.ScoreSampling
	case cli.Ask.NoScore:
		sampling = 0
	}
	if sampling > 0 {
		if err := m.openDB(cli, deps, stderr); err != nil {
			return err
		}
		scores := deps.Scores
		if deps.Metrics != nil {
			scores = prometheus.NewScoreService(scores, deps.Metrics)
		}
		m.scoring = eval.NewAgent(agent, gemini.AgentID, &eval.Runner{
			Scorers: []ndpa.Scorer{
				&eval.ToolCallAccuracy{Expected: ndpa.ToolID},
				eval.Completeness{},
				gemini.NewRelevanceJudge(models, cli.Model),
			},
			Scores:           scores,
			Logger:           deps.Logger,
			Sampling:         sampling,
			DocumentChecksum: checksum,
		})
		agent = m.scoring
	}
	deps.Agent = agent
	return nil
}

// openDB opens the score database.
func (m *Main) openDB(cli *CLI, deps *Dependencies, stderr io.Writer) error {
	path := cli.DB
	if path == "" {
		path = m.DBPath
	}
	if path != ":memory:" {
		_ = os.MkdirAll(filepath.Dir(path), 0755)
	}

	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintln(stderr, "Hint: Set NDPA_DB to use a different database path")
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	deps.Scores = ndpaslog.NewLoggingScoreService(sqlite.NewScoreService(m.DB), deps.Logger)
	return nil
}

// models returns the Gemini content generator, connecting if necessary.
func (m *Main) models(ctx context.Context, stderr io.Writer) (gemini.ContentGenerator, error) {
	if m.Models != nil {
		return m.Models, nil
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
		return nil, fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}
	return client.Models, nil
}

// logLevel returns the minimum log level. The server logs requests at info;
// one-shot commands only surface warnings unless verbose.
func logLevel(cmd string, verbose bool) slog.Level {
	switch {
	case verbose:
		return slog.LevelDebug
	case cmd == "serve":
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

func newLogger(w io.Writer, json bool, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "ndpa.db"
	}
	return filepath.Join(home, ".ndpa", "ndpa.db")
}
