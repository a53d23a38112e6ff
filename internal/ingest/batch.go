package ingest

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Source is a named bulk file opened on demand.
type Source struct {
	Name string
	Open func(ctx context.Context) (io.ReadCloser, error)
}

// FileResult is the parse outcome for one Source.
type FileResult struct {
	Name string
	Result
	Err error
}

type fileJob struct {
	index  int
	source Source
}

// ParseSources fetches and parses sources with a pool of workers. Results
// keep the order of sources; a failed file carries its error and does not
// stop the others.
func ParseSources(ctx context.Context, sources []Source, workers int) []FileResult {
	if workers < 1 {
		workers = 1
	}

	results := make([]FileResult, len(sources))
	jobChan := make(chan fileJob, len(sources))
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for job := range jobChan {
				results[job.index] = parseSource(ctx, job.source)
				if err := results[job.index].Err; err != nil {
					log.Warn().Err(err).Int("worker", workerID).Str("source", job.source.Name).Msg("ingest: file failed")
				}
			}
		}(i)
	}

	for i, src := range sources {
		jobChan <- fileJob{index: i, source: src}
	}
	close(jobChan)
	wg.Wait()

	return results
}

func parseSource(ctx context.Context, src Source) FileResult {
	out := FileResult{Name: src.Name}
	if err := ctx.Err(); err != nil {
		out.Err = err
		return out
	}

	start := time.Now()
	r, err := src.Open(ctx)
	if err != nil {
		out.Err = fmt.Errorf("open %s: %w", src.Name, err)
		return out
	}
	defer r.Close()

	out.Result, out.Err = ParseFile(src.Name, r)
	log.Debug().
		Str("source", src.Name).
		Int("items", len(out.Items)).
		Int("skipped", len(out.Skipped)).
		Dur("took", time.Since(start)).
		Msg("ingest: file parsed")

	return out
}
