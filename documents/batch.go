package documents

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Job is one document to generate in a batch. Exactly one of Lease, Payment
// and Landlord is used, selected by Kind.
type Job struct {
	Kind     Kind
	AgencyID string
	Lease    *Lease
	Payment  *Payment
	Landlord *Landlord
}

// Outcome is the result of one Job.
type Outcome struct {
	Result *Result
	Err    error
}

// Run generates the document of job.
func (e *Engine) Run(ctx context.Context, job Job) (*Result, error) {
	switch job.Kind {
	case KindContract:
		return e.Contract(ctx, job.AgencyID, job.Lease)
	case KindReceipt:
		return e.Receipt(ctx, job.AgencyID, job.Payment)
	case KindMandate:
		return e.Mandate(ctx, job.AgencyID, job.Landlord)
	}
	return nil, fmt.Errorf("documents: unknown document kind %q", job.Kind)
}

// Batch generates jobs with at most concurrency documents in flight.
// Outcomes are returned in the order of jobs; a failed job does not stop the
// others. Jobs not started when ctx is done fail with the context error.
func Batch(ctx context.Context, e *Engine, jobs []Job, concurrency int) []Outcome {
	if concurrency < 1 {
		concurrency = 1
	}
	out := make([]Outcome, len(jobs))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(jobs); j++ {
				out[j].Err = err
			}
			break
		}
		i, job := i, job // per-iteration copies (module targets go 1.21)
		g.Go(func() error {
			res, err := e.Run(ctx, job)
			out[i] = Outcome{Result: res, Err: err}
			return nil
		})
	}
	g.Wait()
	return out
}
