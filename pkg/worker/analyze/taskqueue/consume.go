package taskqueue

import (
	"fmt"

	"github.com/covergen/covergen-api/pkg/worker/analyze/taskqueue/consumers"
	"github.com/covergen/covergen-api/pkg/worker/lib/queue"
)

const scanConcurrency = 2

// A single improve worker slot keeps at most one clone-and-generate job
// in flight, so jobs on the same repo can't race on the local clone.
const improveConcurrency = 1

func RegisterTasks(scanConsumer *consumers.ScanRepo, improveConsumer *consumers.ImproveCoverage) error {
	err := queue.ScanServer().RegisterTasks(map[string]interface{}{
		scanTaskName: scanConsumer.Consume,
	})
	if err != nil {
		return fmt.Errorf("can't register scan queue tasks: %s", err)
	}

	err = queue.ImproveServer().RegisterTasks(map[string]interface{}{
		improveTaskName: improveConsumer.Consume,
	})
	if err != nil {
		return fmt.Errorf("can't register improve queue tasks: %s", err)
	}

	return nil
}

// RunWorkers launches both queue workers and blocks until one of them exits.
func RunWorkers() error {
	errCh := make(chan error, 2)

	go func() {
		errCh <- queue.ScanServer().NewWorker("scan_worker", scanConcurrency).Launch()
	}()
	go func() {
		errCh <- queue.ImproveServer().NewWorker("improve_worker", improveConcurrency).Launch()
	}()

	if err := <-errCh; err != nil {
		return fmt.Errorf("can't launch queue worker: %s", err)
	}

	return nil
}
