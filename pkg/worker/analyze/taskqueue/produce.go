package taskqueue

import (
	"fmt"
	"time"

	"github.com/RichardKnop/machinery/v1/tasks"
	"github.com/covergen/covergen-api/internal/shared/logutil"
	"github.com/covergen/covergen-api/pkg/worker/lib/queue"
	redigo "github.com/garyburd/redigo/redis"
)

const scanTaskName = "scanRepo"
const improveTaskName = "improveCoverage"

// Failed tasks are retried once, the first retry fires after retryTimeoutSec
// seconds and machinery grows the timeout for subsequent requeues.
const taskRetryCount = 1
const retryTimeoutSec = 5

const jobKeyPrefix = "job-key/"
const jobKeyWindow = time.Hour

// Producer enqueues scan and improvement tasks. Duplicate enqueues with the
// same job key are absorbed while the key lives in redis.
type Producer struct {
	log       logutil.Log
	redisPool *redigo.Pool
}

func NewProducer(log logutil.Log, redisPool *redigo.Pool) *Producer {
	return &Producer{
		log:       log,
		redisPool: redisPool,
	}
}

func buildScanJobKey(repoID uint, now time.Time) string {
	return fmt.Sprintf("scan-%d-%d", repoID, now.UnixNano()/int64(time.Millisecond))
}

func (p Producer) acquireJobKey(key string) (bool, error) {
	conn := p.redisPool.Get()
	defer conn.Close()

	reply, err := conn.Do("SET", jobKeyPrefix+key, 1, "NX", "EX", int(jobKeyWindow.Seconds()))
	if err != nil {
		return false, fmt.Errorf("failed to acquire job key %s: %s", key, err)
	}

	return reply != nil, nil
}

func (p Producer) ScheduleScan(repoID uint) error {
	jobKey := buildScanJobKey(repoID, time.Now())
	acquired, err := p.acquireJobKey(jobKey)
	if err != nil {
		return err
	}
	if !acquired {
		p.log.Infof("Scan task with job key %s is already enqueued, skipping", jobKey)
		return nil
	}

	signature := &tasks.Signature{
		Name: scanTaskName,
		Args: []tasks.Arg{
			{
				Type:  "uint",
				Value: repoID,
			},
		},
		RetryCount:   taskRetryCount,
		RetryTimeout: retryTimeoutSec,
	}

	if _, err = queue.ScanServer().SendTask(signature); err != nil {
		return fmt.Errorf("failed to send the scan task for repo %d to scan queue: %s", repoID, err)
	}

	return nil
}

func (p Producer) ScheduleImprove(jobGUID string) error {
	acquired, err := p.acquireJobKey(jobGUID)
	if err != nil {
		return err
	}
	if !acquired {
		p.log.Infof("Improvement task with job key %s is already enqueued, skipping", jobGUID)
		return nil
	}

	signature := &tasks.Signature{
		Name: improveTaskName,
		Args: []tasks.Arg{
			{
				Type:  "string",
				Value: jobGUID,
			},
		},
		RetryCount:   taskRetryCount,
		RetryTimeout: retryTimeoutSec,
	}

	if _, err = queue.ImproveServer().SendTask(signature); err != nil {
		return fmt.Errorf("failed to send the improvement task %s to improve queue: %s", jobGUID, err)
	}

	return nil
}
