// Package blobcopy copies a list of blob keys from one object store to
// another.
//
// The copy is deliberately dumb: keys are copied in any order, so e.g. an
// alias may land before the content it refers to.  It is meant for urgent
// situations like repairing a corrupted repo, where the key list comes from
// an external scan.  Each key's outcome (copied, missing from the source, or
// errored) is recorded so that a partial run can be resumed or audited.
package blobcopy

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/shale-scm/shale/src/internal/errors"
	"github.com/shale-scm/shale/src/internal/log"
	"github.com/shale-scm/shale/src/internal/obj"
	"github.com/shale-scm/shale/src/internal/shalerr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is how many blobs are copied at once when the caller
// does not say.
const DefaultConcurrency = 100

// Config controls one copy run.
type Config struct {
	// Concurrency is how many blobs to copy at once.
	Concurrency int
	// IgnoreErrors keeps the run going when a key fails to copy.
	IgnoreErrors bool
}

// Outcome classifies what happened to one key.
type Outcome int

const (
	// Copied means the blob was read from the source and written to the
	// target.
	Copied Outcome = iota
	// Missing means the source store has no blob for the key.
	Missing
	// Errored means reading or writing the blob failed.
	Errored
)

// Stats counts outcomes for a whole run.
type Stats struct {
	Copied  int
	Missing int
	Errored int
}

// ReadKeys reads a newline-separated key list.  If stripPrefix is non-empty
// every key must start with it, and it is removed; a key without the prefix
// is an error.  Blank lines are skipped.
func ReadKeys(r io.Reader, stripPrefix string) ([]string, error) {
	var keys []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if stripPrefix != "" {
			key, ok := strings.CutPrefix(line, stripPrefix)
			if !ok {
				return nil, errors.Errorf("key %s doesn't start with prefix %s", line, stripPrefix)
			}
			line = key
		}
		keys = append(keys, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading key list")
	}
	return keys, nil
}

// Copy copies every key from src to dst, cfg.Concurrency keys at a time.
// record is called once per key with its outcome, serialized (never
// concurrently).  Unless cfg.IgnoreErrors is set, the first failed key stops
// the run; missing keys never stop the run.
func Copy(ctx context.Context, src, dst obj.Client, keys []string, cfg Config, record func(key string, outcome Outcome) error) (Stats, error) {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	log.Info(ctx, "starting copy", zap.Int("keys", len(keys)), zap.Int("concurrency", concurrency))
	logStep := len(keys) / 10
	if logStep < 1 {
		logStep = 1
	}

	var (
		mu        sync.Mutex
		stats     Stats
		processed int
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)
	for _, key := range keys {
		key := key
		eg.Go(func() error {
			outcome := Copied
			err := obj.Copy(ctx, src, dst, key, key)
			switch {
			case err == nil:
			case shalerr.IsNotExist(err):
				outcome = Missing
			default:
				outcome = Errored
			}

			mu.Lock()
			defer mu.Unlock()
			switch outcome {
			case Copied:
				stats.Copied++
			case Missing:
				stats.Missing++
			case Errored:
				stats.Errored++
			}
			if record != nil {
				if err := record(key, outcome); err != nil {
					return err
				}
			}
			if outcome == Errored {
				if !cfg.IgnoreErrors {
					return errors.Wrapf(err, "failed to copy %s", key)
				}
				log.Error(ctx, "failed to copy key", zap.String("key", key), zap.Error(err))
			}
			processed++
			if processed%logStep == 0 {
				log.Info(ctx, "keys processed", zap.Int("processed", processed), zap.Int("total", len(keys)))
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return stats, err
	}
	log.Info(ctx, "copy complete", zap.Int("copied", stats.Copied),
		zap.Int("missing", stats.Missing), zap.Int("errored", stats.Errored))
	return stats, nil
}
