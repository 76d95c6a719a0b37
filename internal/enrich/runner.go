package enrich

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/district-cli/internal/dataset"
)

// Summary reports the outcome of an enrichment pass.
type Summary struct {
	RunID       string
	Total       int
	Processed   int
	Checkpoints int
}

// Runner drives the sequential enrichment pass over a dataset. It owns the
// dataset exclusively for the duration of Run.
type Runner struct {
	proc            *Processor
	checkpointEvery int
	checkpointDir   string
	now             func() time.Time
}

// NewRunner creates a runner that checkpoints after every checkpointEvery
// fully processed records.
func NewRunner(proc *Processor, checkpointEvery int, checkpointDir string) *Runner {
	if checkpointEvery <= 0 {
		checkpointEvery = 10
	}
	if checkpointDir == "" {
		checkpointDir = "."
	}
	return &Runner{
		proc:            proc,
		checkpointEvery: checkpointEvery,
		checkpointDir:   checkpointDir,
		now:             time.Now,
	}
}

// Run processes every record in index order. Records that exit early on
// missing data or a failed geocode do not count toward the checkpoint
// cadence. Checkpoint write failures are logged and swallowed; a record
// failure never aborts the pass.
func (r *Runner) Run(ctx context.Context, ds *dataset.Dataset) (*Summary, error) {
	sum := &Summary{RunID: uuid.NewString(), Total: ds.Len()}
	log := zap.L().With(zap.String("run_id", sum.RunID))
	log.Info("starting enrichment pass", zap.Int("records", sum.Total))

	for i := range ds.Records {
		if err := ctx.Err(); err != nil {
			return sum, eris.Wrap(err, "enrich: run cancelled")
		}

		log.Info("processing record", zap.Int("record", i+1), zap.Int("total", sum.Total))

		if !r.proc.Process(ctx, &ds.Records[i]) {
			continue
		}
		sum.Processed++

		if sum.Processed%r.checkpointEvery == 0 {
			path, err := ds.SaveCheckpoint(r.checkpointDir, r.now())
			if err != nil {
				log.Error("checkpoint save failed", zap.Error(err))
				continue
			}
			sum.Checkpoints++
			log.Info("progress saved",
				zap.String("path", path),
				zap.Int("processed", sum.Processed),
				zap.Int("total", sum.Total),
			)
		}
	}

	log.Info("enrichment pass complete",
		zap.Int("processed", sum.Processed),
		zap.Int("total", sum.Total),
	)
	return sum, nil
}
