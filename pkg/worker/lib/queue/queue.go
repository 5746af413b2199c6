package queue

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/RichardKnop/machinery/v1"
	"github.com/RichardKnop/machinery/v1/config"
	"github.com/sirupsen/logrus"
)

const ScanQueueName = "scan_queue"
const ImproveQueueName = "improve_queue"

var scanServer *machinery.Server
var improveServer *machinery.Server
var initOnce sync.Once

func newServer(redisURL, queueName string) *machinery.Server {
	cnf := &config.Config{
		Broker:          redisURL,
		DefaultQueue:    queueName,
		ResultBackend:   redisURL,
		ResultsExpireIn: int((7 * 24 * time.Hour).Seconds()), // store results for 1 week
	}

	server, err := machinery.NewServer(cnf)
	if err != nil {
		log.Fatalf("Can't init machinery queue server for %s: %s", queueName, err)
	}

	return server
}

func initServers() {
	redisURL := fmt.Sprintf("%s/1", os.Getenv("REDIS_URL")) // use separate DB #1 for queues
	logrus.Infof("REDIS_URL=%q", redisURL)

	scanServer = newServer(redisURL, ScanQueueName)
	improveServer = newServer(redisURL, ImproveQueueName)
}

func Init() {
	initOnce.Do(initServers)
}

func ScanServer() *machinery.Server {
	return scanServer
}

func ImproveServer() *machinery.Server {
	return improveServer
}
