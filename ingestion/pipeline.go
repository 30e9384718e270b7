package ingestion

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/poiesic/sift/core"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultDelimiter separates fields when no delimiter is configured.
	DefaultDelimiter = `[\t ]+`

	// DefaultBatchSize is the number of lines appended to the sink at once.
	DefaultBatchSize = 1024

	pendingBatches = 4
)

// Sink receives built items. *pool.ItemPool satisfies it.
type Sink interface {
	Append(items []core.Item) int
}

// Options controls how input is split and turned into items.
type Options struct {
	ReadZero  bool   // Lines end with NUL instead of newline
	Delimiter string // Field delimiter regexp; DefaultDelimiter when empty
	WithNth   string // Fields to display and match, e.g. "2..,1"
	Nth       string // Fields to match within the displayed text
	BatchSize int    // Lines per Append; DefaultBatchSize when zero
}

// Validate checks the options and reports the first problem found.
func (o Options) Validate() error {
	if o.BatchSize < 0 {
		return fmt.Errorf("batch size must not be negative: %d", o.BatchSize)
	}
	if _, err := o.delimiter(); err != nil {
		return err
	}
	if _, err := ParseFieldRanges(o.WithNth); err != nil {
		return fmt.Errorf("with-nth: %w", err)
	}
	if _, err := ParseFieldRanges(o.Nth); err != nil {
		return fmt.Errorf("nth: %w", err)
	}
	return nil
}

func (o Options) delimiter() (*regexp.Regexp, error) {
	expr := o.Delimiter
	if expr == "" {
		expr = DefaultDelimiter
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDelimiter, err)
	}
	return re, nil
}

// Pipeline reads lines from a stream and appends items to a sink.
type Pipeline struct {
	sink      Sink
	readZero  bool
	batchSize int
	delimiter *regexp.Regexp
	transform []FieldRange
	matching  []FieldRange
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a pipeline feeding sink.
func NewPipeline(sink Sink, opts Options, options ...Option) (*Pipeline, error) {
	if sink == nil {
		return nil, ErrSinkRequired
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	delimiter, _ := opts.delimiter()
	transform, _ := ParseFieldRanges(opts.WithNth)
	matching, _ := ParseFieldRanges(opts.Nth)

	batchSize := opts.BatchSize
	if batchSize == 0 {
		batchSize = DefaultBatchSize
	}

	p := &Pipeline{
		sink:      sink,
		readZero:  opts.ReadZero,
		batchSize: batchSize,
		delimiter: delimiter,
		transform: transform,
		matching:  matching,
		logger:    slog.Default(),
	}
	for _, opt := range options {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Run reads r to the end and returns the number of items appended.
// Items appended before an error or cancellation stay in the sink.
func (p *Pipeline) Run(ctx context.Context, r io.Reader) (int, error) {
	g, ctx := errgroup.WithContext(ctx)
	batches := make(chan []string, pendingBatches)

	g.Go(func() error {
		defer close(batches)
		return p.read(ctx, r, batches)
	})

	total := 0
	g.Go(func() error {
		for lines := range batches {
			items := make([]core.Item, len(lines))
			for i, line := range lines {
				items[i] = p.build(line)
			}
			p.sink.Append(items)
			total += len(items)
		}
		return nil
	})

	err := g.Wait()
	p.logger.Debug("ingestion finished", "items", total, "err", err)
	return total, err
}

func (p *Pipeline) read(ctx context.Context, r io.Reader, out chan<- []string) error {
	terminator := byte('\n')
	if p.readZero {
		terminator = 0
	}

	reader := bufio.NewReaderSize(r, 64*1024)
	batch := make([]string, 0, p.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		select {
		case out <- batch:
		case <-ctx.Done():
			return ctx.Err()
		}
		batch = make([]string, 0, p.batchSize)
		return nil
	}

	for {
		line, err := reader.ReadString(terminator)
		if len(line) > 0 {
			batch = append(batch, trimLine(line, terminator))
			if len(batch) >= p.batchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		if errors.Is(err, io.EOF) {
			return flush()
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (p *Pipeline) build(line string) core.Item {
	if len(p.transform) == 0 && len(p.matching) == 0 {
		return core.NewTextItem(line)
	}
	return NewFieldItem(line, p.delimiter, p.transform, p.matching)
}

// trimLine drops the terminator. Newline-terminated lines also lose a
// trailing carriage return; NUL-terminated records are kept as they are.
func trimLine(line string, terminator byte) string {
	line = strings.TrimSuffix(line, string(terminator))
	if terminator != '\n' {
		return line
	}
	return strings.TrimSuffix(line, "\r")
}
