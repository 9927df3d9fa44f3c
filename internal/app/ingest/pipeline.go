package ingest

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/log0ymxm/parse-click-data/internal/clicklog"
	"github.com/log0ymxm/parse-click-data/internal/domain"
	"github.com/log0ymxm/parse-click-data/pkg/ctxutil"
)

// VisitSink receives parsed visits in batches. Sinks are only ever called
// from a single goroutine per pipeline.
type VisitSink interface {
	WriteVisits(ctx context.Context, visits []domain.Visit) (int, error)
}

// FileResult holds the outcome of processing a single input file.
type FileResult struct {
	Path     string
	Day      string
	Lines    int
	Parsed   int
	Clicks   int
	Skipped  int
	Written  int
	Duration time.Duration
	Err      error
}

// Pipeline turns click-log files into visits and hands them to sinks.
type Pipeline struct {
	log     *slog.Logger
	cfg     Config
	parser  *clicklog.Parser
	sinks   []VisitSink
	runID   uuid.UUID
	results []FileResult
}

// NewPipeline creates a new Pipeline. Every run gets a fresh run ID.
func NewPipeline(log *slog.Logger, cfg Config, sinks ...VisitSink) *Pipeline {
	cfg = cfg.withDefaults()
	return &Pipeline{
		log:    log,
		cfg:    cfg,
		parser: clicklog.NewParser(cfg.Dimension),
		sinks:  sinks,
		runID:  uuid.New(),
	}
}

// RunID identifies this pipeline run in logs and stored rows.
func (p *Pipeline) RunID() uuid.UUID {
	return p.runID
}

// Results returns per-file results in processing order.
func (p *Pipeline) Results() []FileResult {
	return p.results
}

// HasErrors returns true if any file failed. Skipped lines do not count.
func (p *Pipeline) HasErrors() bool {
	for _, r := range p.results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// Run expands the configured input glob and processes every match.
func (p *Pipeline) Run(ctx context.Context) error {
	paths, err := ExpandInputs(p.cfg.InputGlob)
	if err != nil {
		return err
	}
	return p.RunFiles(ctx, paths)
}

// RunFiles processes the given files in order.
//
// A malformed line aborts the run unless SkipMalformed is set. Other
// per-file failures (unreadable file, missing day label) are recorded
// in the file's result and the run moves on to the next file.
func (p *Pipeline) RunFiles(ctx context.Context, paths []string) error {
	ctx = ctxutil.WithRunID(ctx, p.runID)
	log := p.logger(ctx)

	log.Info("starting ingest",
		slog.Int("files", len(paths)),
		slog.Int("workers", p.cfg.Workers),
		slog.Bool("dry_run", p.cfg.DryRun),
	)

	start := time.Now()
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		result := p.processFile(ctxutil.WithSource(ctx, path), path)
		p.results = append(p.results, result)

		if result.Err == nil {
			log.Info("file completed",
				slog.String("file", path),
				slog.String("day", result.Day),
				slog.Int("lines", result.Lines),
				slog.Int("parsed", result.Parsed),
				slog.Int("clicks", result.Clicks),
				slog.Int("skipped", result.Skipped),
				slog.Int("written", result.Written),
				slog.Duration("duration", result.Duration),
			)
			continue
		}

		log.Warn("file failed",
			slog.String("file", path),
			slog.String("error", result.Err.Error()),
			slog.Duration("duration", result.Duration),
		)

		var perr *domain.ParseError
		if errors.As(result.Err, &perr) || errors.Is(result.Err, context.Canceled) ||
			errors.Is(result.Err, context.DeadlineExceeded) {
			return result.Err
		}
	}

	total := p.Totals()
	log.Info("ingest completed",
		slog.Int("files", len(p.results)),
		slog.String("lines", humanize.Comma(int64(total.Lines))),
		slog.String("written", humanize.Comma(int64(total.Written))),
		slog.Int("skipped", total.Skipped),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

// Totals sums the per-file counters of the run so far.
func (p *Pipeline) Totals() FileResult {
	var t FileResult
	for _, r := range p.results {
		t.Lines += r.Lines
		t.Parsed += r.Parsed
		t.Clicks += r.Clicks
		t.Skipped += r.Skipped
		t.Written += r.Written
		t.Duration += r.Duration
	}
	return t
}

type rawLine struct {
	num  int
	text []byte
}

type parsedLine struct {
	num   int
	visit domain.Visit
	err   error
}

// processFile runs one reader, cfg.Workers parsers and one collector.
// With a single worker, visits reach the sinks in input order.
func (p *Pipeline) processFile(ctx context.Context, path string) FileResult {
	start := time.Now()
	result := FileResult{Path: path}

	day, err := DayLabel(path)
	if err != nil {
		result.Err = err
		return result
	}
	result.Day = day

	src, err := OpenSource(path)
	if err != nil {
		result.Err = err
		return result
	}
	defer src.Close()

	lines := make(chan rawLine, p.cfg.Workers*64)
	parsed := make(chan parsedLine, p.cfg.Workers*64)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(lines)

		scanner := bufio.NewScanner(src)
		scanner.Buffer(make([]byte, 0, min(64*1024, p.cfg.MaxLineBytes)), p.cfg.MaxLineBytes)

		num := 0
		for scanner.Scan() {
			num++
			text := scanner.Bytes()
			if len(bytes.TrimSpace(text)) == 0 {
				continue
			}
			select {
			case lines <- rawLine{num: num, text: bytes.Clone(text)}:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("read %s line %d: %w", path, num+1, err)
		}
		return nil
	})

	var workers sync.WaitGroup
	for range p.cfg.Workers {
		workers.Add(1)
		g.Go(func() error {
			defer workers.Done()
			for ln := range lines {
				v, err := p.parser.ParseVisit(day, ln.text)
				select {
				case parsed <- parsedLine{num: ln.num, visit: v, err: err}:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}

	go func() {
		workers.Wait()
		close(parsed)
	}()

	g.Go(func() error {
		return p.collect(gctx, path, parsed, &result)
	})

	result.Err = g.Wait()
	result.Duration = time.Since(start)
	return result
}

// collect batches parsed visits and flushes them to the sinks.
func (p *Pipeline) collect(ctx context.Context, path string, in <-chan parsedLine, res *FileResult) error {
	log := p.logger(ctx)
	batch := make([]domain.Visit, 0, p.cfg.BatchSize)
	started := time.Now()

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := p.write(ctx, batch)
		res.Written += n
		batch = make([]domain.Visit, 0, p.cfg.BatchSize)
		return err
	}

	for pl := range in {
		res.Lines++

		if pl.err != nil {
			if !p.cfg.SkipMalformed {
				return fmt.Errorf("%s line %d: %w", path, pl.num, pl.err)
			}
			res.Skipped++
			log.Warn("skipping malformed line",
				slog.Int("line", pl.num),
				slog.String("error", pl.err.Error()),
			)
			continue
		}

		res.Parsed++
		if pl.visit.Clicked() {
			res.Clicks++
		}
		batch = append(batch, pl.visit)
		if len(batch) >= p.cfg.BatchSize {
			if err := flush(); err != nil {
				return err
			}
		}

		if p.cfg.ProgressEvery > 0 && res.Lines%p.cfg.ProgressEvery == 0 {
			rate := float64(res.Lines) / max(time.Since(started).Seconds(), 1e-9)
			log.Info("progress",
				slog.String("lines", humanize.Comma(int64(res.Lines))),
				slog.String("rate", humanize.CommafWithDigits(rate, 1)+" lines/s"),
			)
		}
	}

	return flush()
}

// write hands a batch to every sink and reports the smallest accepted count.
func (p *Pipeline) write(ctx context.Context, batch []domain.Visit) (int, error) {
	if p.cfg.DryRun || len(p.sinks) == 0 {
		return 0, nil
	}

	written := len(batch)
	for _, s := range p.sinks {
		n, err := s.WriteVisits(ctx, batch)
		if err != nil {
			return 0, fmt.Errorf("write visits: %w", err)
		}
		written = min(written, n)
	}
	return written, nil
}

func (p *Pipeline) logger(ctx context.Context) *slog.Logger {
	log := p.log
	if id, ok := ctxutil.RunIDFromCtx(ctx); ok {
		log = log.With(slog.String("run_id", id.String()))
	}
	if src := ctxutil.SourceFromCtx(ctx); src != "" {
		log = log.With(slog.String("file", src))
	}
	return log
}
