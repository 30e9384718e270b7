// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/sift"
	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/engine"
	"github.com/poiesic/sift/ingestion"
	"github.com/poiesic/sift/storage/badger"
	"github.com/urfave/cli/v2"
)

// errNoMatch makes the process exit with status 1, like other finders do
// when the filter selects nothing.
var errNoMatch = errors.New("no match")

func main() {
	app := newApp(os.Stdin, os.Stdout)
	if err := app.Run(os.Args); err != nil {
		if errors.Is(err, errNoMatch) {
			os.Exit(1)
		}
		log.Fatal(err)
	}
}

func newApp(in io.Reader, out io.Writer) *cli.App {
	return &cli.App{
		Name:      "sift",
		Usage:     "Filter lines from stdin with fuzzy, exact or regex queries",
		Reader:    in,
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
			&cli.StringFlag{
				Name:    "filter",
				Aliases: []string{"f", "query", "q"},
				Usage:   "Query to filter the input with",
			},
			&cli.StringFlag{
				Name:  "tiebreak",
				Usage: "Comma-separated rank criteria (score, begin, end, length, prefixed with - to negate)",
				Value: "score,begin,end",
			},
			&cli.StringFlag{
				Name:  "case",
				Usage: "Case matching: smart, respect or ignore",
				Value: "smart",
			},
			&cli.BoolFlag{
				Name:    "exact",
				Aliases: []string{"e"},
				Usage:   "Match terms exactly; prefix a term with ' for fuzzy",
			},
			&cli.BoolFlag{
				Name:  "regex",
				Usage: "Treat the query as a regular expression",
			},
			&cli.StringFlag{
				Name:  "algo",
				Usage: "Fuzzy algorithm: v2 or simple",
				Value: "v2",
			},
			&cli.IntFlag{
				Name:  "header-lines",
				Usage: "Treat the first N lines as a header that is never matched",
			},
			&cli.StringFlag{
				Name:    "delimiter",
				Aliases: []string{"d"},
				Usage:   "Field delimiter regex",
				Value:   ingestion.DefaultDelimiter,
			},
			&cli.StringFlag{
				Name:    "nth",
				Aliases: []string{"n"},
				Usage:   "Fields to match against, e.g. 1,3..",
			},
			&cli.StringFlag{
				Name:  "with-nth",
				Usage: "Fields to display and match, the original line is printed",
			},
			&cli.BoolFlag{
				Name:  "read0",
				Usage: "Read input delimited by NUL instead of newline",
			},
			&cli.BoolFlag{
				Name:  "print0",
				Usage: "Print output delimited by NUL instead of newline",
			},
			&cli.BoolFlag{
				Name:  "print-query",
				Usage: "Print the query as the first line",
			},
			&cli.BoolFlag{
				Name:  "print-header",
				Usage: "Print header lines before the matches",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Print at most N matches (0 for all)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of matching workers (0 for one per CPU)",
			},
			&cli.StringFlag{
				Name:    "history",
				Aliases: []string{"H"},
				Usage:   "Path to the query history database directory",
				EnvVars: []string{"SIFT_HISTORY"},
			},
		},
		Before: setupLogger,
		Action: filterCommand,
		Commands: []*cli.Command{
			{
				Name:  "history",
				Usage: "Inspect or clear the query history",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "Print recent queries, most recent first",
						Action: historyListCommand,
						Flags: []cli.Flag{
							&cli.IntFlag{
								Name:  "limit",
								Usage: "Print at most N queries (0 for all)",
								Value: 20,
							},
						},
					},
					{
						Name:   "clear",
						Usage:  "Remove every stored query",
						Action: historyClearCommand,
					},
				},
			},
		},
	}
}

func sessionOptions(c *cli.Context) ([]sift.SessionOption, error) {
	tiebreak, err := core.ParseTiebreak(c.String("tiebreak"))
	if err != nil {
		return nil, err
	}
	caseMatching, err := core.ParseCaseMatching(c.String("case"))
	if err != nil {
		return nil, err
	}
	algorithm, err := engine.ParseAlgorithm(c.String("algo"))
	if err != nil {
		return nil, err
	}

	opts := []sift.SessionOption{
		sift.WithTiebreak(tiebreak...),
		sift.WithCaseMatching(caseMatching),
		sift.WithExact(c.Bool("exact")),
		sift.WithRegex(c.Bool("regex")),
		sift.WithAlgorithm(algorithm),
		sift.WithHeaderLines(c.Int("header-lines")),
		sift.WithLogger(slog.Default()),
	}
	if workers := c.Int("workers"); workers > 0 {
		opts = append(opts, sift.WithWorkers(workers))
	}
	if dir := c.String("history"); dir != "" {
		opts = append(opts, sift.WithHistoryDir(dir))
	}
	return opts, nil
}

func filterCommand(c *cli.Context) error {
	ctx := c.Context

	opts, err := sessionOptions(c)
	if err != nil {
		return err
	}
	session, err := sift.NewSession(opts...)
	if err != nil {
		return err
	}
	defer session.Close()

	_, err = session.Ingest(ctx, c.App.Reader, ingestion.Options{
		ReadZero:  c.Bool("read0"),
		Delimiter: c.String("delimiter"),
		WithNth:   c.String("with-nth"),
		Nth:       c.String("nth"),
	})
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	query := c.String("filter")
	if err := session.Query(query); err != nil {
		return err
	}
	results, err := session.Wait(ctx)
	if err != nil {
		return err
	}

	if query != "" && c.String("history") != "" {
		if err := session.RecordQuery(ctx, query); err != nil {
			slog.Warn("failed to record query", "query", query, "err", err)
		}
	}

	terminator := "\n"
	if c.Bool("print0") {
		terminator = "\x00"
	}
	w := c.App.Writer
	if c.Bool("print-query") {
		fmt.Fprint(w, query, terminator)
	}
	if c.Bool("print-header") {
		for _, item := range session.Header() {
			fmt.Fprint(w, item.Output(), terminator)
		}
	}

	limit := c.Int("limit")
	printed := 0
	for _, result := range results {
		if limit > 0 && printed >= limit {
			break
		}
		item, ok := result.Item()
		if !ok {
			continue
		}
		fmt.Fprint(w, item.Output(), terminator)
		printed++
	}

	slog.Debug("filter done", "query", query, "matched", len(results), "printed", printed)
	if printed == 0 {
		return errNoMatch
	}
	return nil
}

func openHistory(c *cli.Context) (*badger.HistoryRepository, error) {
	dir := c.String("history")
	if dir == "" {
		return nil, fmt.Errorf("history database path is required (--history or SIFT_HISTORY)")
	}
	return badger.OpenHistory(dir, slog.Default())
}

func historyListCommand(c *cli.Context) error {
	repo, err := openHistory(c)
	if err != nil {
		return err
	}
	defer repo.Close()

	entries, err := repo.RecentQueries(c.Context, c.Int("limit"))
	if err != nil {
		return err
	}
	for _, entry := range entries {
		fmt.Fprintf(c.App.Writer, "%s\t%s\n", entry.Timestamp.Local().Format("2006-01-02 15:04:05"), entry.Query)
	}
	return nil
}

func historyClearCommand(c *cli.Context) error {
	repo, err := openHistory(c)
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.Clear(c.Context); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "history cleared")
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
