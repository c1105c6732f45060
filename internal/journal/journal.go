// Package journal keeps a JSON-lines record of every run: one line per
// analyst signal and one per run, in daily files named by IST date.
package journal

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"indian-hedge-fund/internal/logger"
	"indian-hedge-fund/internal/types"
)

var ist = time.FixedZone("IST", 19800)

type SignalEntry struct {
	Time       string         `json:"time"`
	RunID      string         `json:"run_id"`
	Analyst    string         `json:"analyst"`
	Ticker     string         `json:"ticker"`
	Signal     string         `json:"signal"`
	Confidence float64        `json:"confidence"`
	Reasoning  string         `json:"reasoning"`
	Extra      map[string]any `json:"extra,omitempty"`
}

type RunEntry struct {
	Time           string                 `json:"time"`
	RunID          string                 `json:"run_id"`
	Tickers        []string               `json:"tickers"`
	Analysts       []string               `json:"analysts"`
	Summary        types.PortfolioSummary `json:"summary"`
	Recommendation string                 `json:"recommendation"`
}

type Journal struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

func New(dir string) *Journal {
	if dir == "" {
		dir = "journal"
	}
	return &Journal{dir: dir, now: time.Now}
}

func (j *Journal) signalsPath(t time.Time) string {
	return filepath.Join(j.dir, "signals", t.In(ist).Format("2006-01-02")+".jsonl")
}

func (j *Journal) runsPath(t time.Time) string {
	return filepath.Join(j.dir, "runs", t.In(ist).Format("2006-01-02")+".jsonl")
}

// Record appends every signal of r and then a run line.
func (j *Journal) Record(r *types.PortfolioReport) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now().In(ist)
	stamp := now.Format("2006-01-02 15:04:05")

	var (
		signals  []any
		analysts []string
		seen     = map[string]bool{}
		tickers  []string
	)
	for _, rep := range r.Reports {
		analysts = append(analysts, rep.Analyst)
		keys := make([]string, 0, len(rep.Signals))
		for t := range rep.Signals {
			keys = append(keys, t)
		}
		sort.Strings(keys)
		for _, t := range keys {
			s := rep.Signals[t]
			signals = append(signals, SignalEntry{
				Time:       stamp,
				RunID:      r.RunID,
				Analyst:    rep.Analyst,
				Ticker:     t,
				Signal:     string(s.Signal),
				Confidence: s.Confidence,
				Reasoning:  s.Reasoning,
			})
			if !seen[t] {
				seen[t] = true
				tickers = append(tickers, t)
			}
		}
	}
	sort.Strings(tickers)

	if err := appendLines(j.signalsPath(now), signals...); err != nil {
		return fmt.Errorf("journal signals: %w", err)
	}
	run := RunEntry{
		Time:           stamp,
		RunID:          r.RunID,
		Tickers:        tickers,
		Analysts:       analysts,
		Summary:        r.Summary,
		Recommendation: r.Recommendation,
	}
	if err := appendLines(j.runsPath(now), run); err != nil {
		return fmt.Errorf("journal run: %w", err)
	}
	return nil
}

func appendLines(p string, entries ...any) error {
	if len(entries) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, e := range entries {
		b, err := json.Marshal(e)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(f, string(b)); err != nil {
			return err
		}
	}
	return nil
}

// CompressOlder gzips journal files last modified more than retentionDays
// ago. A source file is removed only once its lines are in the .gz; a .gz
// left by an earlier run is extended rather than replaced. Per-file failures
// are logged and the file is kept for the next run.
func (j *Journal) CompressOlder(ctx context.Context, retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := j.now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(j.dir, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".jsonl" {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		if err := compressInto(p, p+".gz"); err != nil {
			logger.ErrorWithErr(ctx, "Failed to compress journal file", err, "path", p)
			return nil
		}
		if err := os.Remove(p); err != nil {
			logger.Warn(ctx, "Failed to remove compressed journal file", "path", p, "error", err)
		}
		return nil
	})
}

// compressInto makes dst hold src's lines. When dst already holds exactly
// those lines nothing is written; otherwise src is appended to whatever dst
// held and the result replaces dst atomically.
func compressInto(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	prior, err := readGzip(dst)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read existing %s: %w", filepath.Base(dst), err)
	}
	if prior != nil && bytes.Equal(prior, data) {
		return nil
	}

	tmp := dst + ".tmp"
	if err := gzipFile(tmp, prior, data); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func readGzip(p string) ([]byte, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer gr.Close()
	return io.ReadAll(gr)
}

func gzipFile(dst string, chunks ...[]byte) error {
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	gw := gzip.NewWriter(out)
	for _, c := range chunks {
		if _, err := gw.Write(c); err != nil {
			_ = gw.Close()
			_ = out.Close()
			return err
		}
	}
	if err := gw.Close(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
