package adapters

import (
	"fmt"

	"github.com/panjf2000/ants/v2"

	"github.com/pranavsaji/code-explainer/application/ports/outbound"
)

type antsDispatcher struct {
	pool *ants.Pool
}

// NewSerialDispatcher builds a single-worker pool so pipeline runs execute
// one at a time: overlapping runs would compete for the same encoder and
// synthesis binaries. The returned release func drains the pool.
func NewSerialDispatcher(logger outbound.LoggerPort) (outbound.TaskDispatcher, func(), error) {
	panicHandler := func(p interface{}) {
		logger.Error(fmt.Errorf("%v", p), "panic in worker pool")
	}
	pool, err := ants.NewPool(1, ants.WithPanicHandler(panicHandler))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	return &antsDispatcher{pool: pool}, pool.Release, nil
}

func (d *antsDispatcher) Submit(task func()) error {
	return d.pool.Submit(task)
}
