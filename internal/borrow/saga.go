package borrow

import (
	"context"
	"fmt"
	"log"
)

// sagaStep is one forward action of a multi-service mutation. compensate,
// when set, undoes the step after a later step fails. There is no
// distributed transaction here: steps commit independently and
// compensation is best-effort.
type sagaStep struct {
	name       string
	run        func(ctx context.Context) error
	compensate func(ctx context.Context) error
}

// runSaga executes steps in order. On the first failure it runs the
// compensators of the already-completed steps in reverse order and
// returns the failing step's error, prefixed with the step name.
// A compensator failure is logged and swallowed; at that point the
// cross-service state may be left inconsistent, which is the accepted
// best-effort behavior.
func runSaga(ctx context.Context, steps []sagaStep) error {
	var done []sagaStep
	for _, st := range steps {
		if err := st.run(ctx); err != nil {
			for i := len(done) - 1; i >= 0; i-- {
				if done[i].compensate == nil {
					continue
				}
				if cerr := done[i].compensate(ctx); cerr != nil {
					log.Printf("[WARN] compensation %q failed: %v", done[i].name, cerr)
				}
			}
			return fmt.Errorf("%s: %w", st.name, err)
		}
		done = append(done, st)
	}
	return nil
}
