package consumers

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/covergen/covergen-api/internal/shared/logutil"
)

// consumeTimeout bounds the whole processing of one task. It must stay
// above the sum of all per-command sandbox timeouts of a job.
const consumeTimeout = 10 * time.Minute

type baseConsumer struct {
	log      logutil.Log
	taskName string
}

func (c baseConsumer) wrapConsuming(f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic recovered: %v, %s", r, debug.Stack())
			c.log.Errorf("Processing of %q task failed: %s", c.taskName, err)
		}
	}()

	c.log.Infof("Starting consuming of %s...", c.taskName)

	startedAt := time.Now()
	err = f()
	c.log.Infof("Finished consuming of %s for %s", c.taskName, time.Since(startedAt))

	if err != nil {
		c.log.Errorf("Processing of %q task failed: %s", c.taskName, err)
	}

	return err
}
