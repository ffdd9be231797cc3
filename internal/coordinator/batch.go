package coordinator

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/interview-coach/internal/types"
)

// BatchResult pairs one answer's evaluation with its terminal error, if any.
// Exactly one of Evaluation and Err is set.
type BatchResult struct {
	AnswerID   string
	Evaluation *Evaluation
	Err        error
}

// EvaluateAll evaluates a practice session's answers with at most
// concurrency evaluations in flight. Results are returned in input order.
// One answer's total failure never aborts the rest of the batch; only a
// caller cancellation stops early.
func (c *Coordinator) EvaluateAll(ctx context.Context, answers []*types.Answer, concurrency int) ([]BatchResult, error) {
	if concurrency <= 0 {
		concurrency = 2
	}

	results := make([]BatchResult, len(answers))

	var g errgroup.Group
	g.SetLimit(concurrency)

	for i, answer := range answers {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = BatchResult{AnswerID: answer.ID, Err: err}
				return nil
			}
			evaluation, err := c.Evaluate(ctx, answer)
			results[i] = BatchResult{AnswerID: answer.ID, Evaluation: evaluation, Err: err}
			return nil
		})
	}

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
