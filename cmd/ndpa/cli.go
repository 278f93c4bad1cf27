package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/ndpa"
	"github.com/fwojciec/ndpa/prometheus"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Finder    ndpa.Finder
	Explainer ndpa.Explainer
	Agent     ndpa.Agent
	Scores    ndpa.ScoreService
	Fetcher   ndpa.Fetcher
	Extractor ndpa.TextExtractor
	Metrics   *prometheus.Metrics

	// DocumentPath is the structured document the other services were
	// built from; prepare writes here unless told otherwise.
	DocumentPath string
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Document string `name:"document" env:"NDPA_DOCUMENT" default:"ndpa_structured.json" help:"Path to the structured act (JSON)"`
	DB       string `name:"db" env:"NDPA_DB" help:"Score database path (default ~/.ndpa/ndpa.db)"`
	Model    string `name:"model" env:"NDPA_MODEL" default:"gemini-2.5-flash" help:"Gemini model"`
	LogJSON  bool   `name:"log-json" help:"Write logs as JSON"`
	Verbose  bool   `short:"v" help:"Enable debug logging"`

	Serve   ServeCmd   `cmd:"" help:"Serve agents over A2A JSON-RPC"`
	Find    FindCmd    `cmd:"" help:"Find the section of the act answering a question"`
	Explain ExplainCmd `cmd:"" help:"Find a section and explain it in plain English"`
	Ask     AskCmd     `cmd:"" help:"Ask the NDPA agent a question"`
	Prepare PrepareCmd `cmd:"" help:"Structure the text of the act into parts and sections"`
	Scores  ScoresCmd  `cmd:"" help:"List stored evaluation scores"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr           string  `help:"Bind address (overrides --port)"`
	Port           int     `env:"PORT" default:"4111" help:"Port to listen on"`
	RateLimitRPS   float64 `name:"rate-limit-rps" env:"RATE_LIMIT_RPS" default:"10" help:"Requests per second per client IP"`
	RateLimitBurst int     `name:"rate-limit-burst" env:"RATE_LIMIT_BURST" default:"20" help:"Burst size per client IP"`
	TrustProxy     bool    `name:"trust-proxy" env:"TRUST_PROXY" help:"Rate limit by X-Forwarded-For (only behind a trusted proxy)"`
	ScoreSampling  float64 `name:"score-sampling" env:"NDPA_SCORE_SAMPLING" default:"1" help:"Fraction of agent runs to score (0 disables)"`
}

// FindCmd is the "find" subcommand.
type FindCmd struct {
	Question string `arg:"" help:"Question about the act"`
}

// ExplainCmd is the "explain" subcommand.
type ExplainCmd struct {
	Question string `arg:"" help:"Question about the act"`
	JSON     bool   `help:"Print the workflow output as JSON"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" help:"Question for the agent"`
	Tools    bool   `help:"Also print the tool calls the agent made"`
	NoScore  bool   `name:"no-score" help:"Skip evaluation scoring of the answer"`
}

// PrepareCmd is the "prepare" subcommand.
type PrepareCmd struct {
	Source string `arg:"" optional:"" help:"Text or HTML file containing the act"`
	URL    string `name:"url" help:"Fetch the act from a URL instead of a file"`
	Output string `short:"o" help:"Output path (default: --document)"`
}

// ScoresCmd is the "scores" subcommand.
type ScoresCmd struct {
	Scorer string `help:"Only show scores from this scorer"`
	RunID  string `name:"run" help:"Only show scores for this run"`
	Limit  int    `short:"n" default:"20" help:"Maximum number of scores"`
	Offset int    `help:"Number of scores to skip"`
}
