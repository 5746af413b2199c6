package app

import (
	"context"
	"time"

	redigo "github.com/garyburd/redigo/redis"
	"github.com/jinzhu/gorm"

	"github.com/covergen/covergen-api/internal/shared/apperrors"
	"github.com/covergen/covergen-api/internal/shared/config"
	"github.com/covergen/covergen-api/internal/shared/db/gormdb"
	"github.com/covergen/covergen-api/internal/shared/db/redis"
	"github.com/covergen/covergen-api/internal/shared/logutil"
	"github.com/covergen/covergen-api/internal/shared/providers"
	"github.com/covergen/covergen-api/pkg/worker/analyze/coverage"
	"github.com/covergen/covergen-api/pkg/worker/analyze/generator"
	"github.com/covergen/covergen-api/pkg/worker/analyze/processors"
	"github.com/covergen/covergen-api/pkg/worker/analyze/taskqueue"
	"github.com/covergen/covergen-api/pkg/worker/analyze/taskqueue/consumers"
	"github.com/covergen/covergen-api/pkg/worker/analyze/tsdeps"
	"github.com/covergen/covergen-api/pkg/worker/analyze/validator"
	"github.com/covergen/covergen-api/pkg/worker/lib/executors"
	"github.com/covergen/covergen-api/pkg/worker/lib/fetchers"
	"github.com/covergen/covergen-api/pkg/worker/lib/gitpush"
	"github.com/covergen/covergen-api/pkg/worker/lib/queue"
	"github.com/covergen/covergen-api/pkg/worker/lib/sandbox"
)

const bootstrapTimeout = 20 * time.Minute

type App struct {
	log        logutil.Log
	trackedLog logutil.Log
	errTracker apperrors.Tracker
	cfg        config.Config
	db         *gorm.DB
	redisPool  *redigo.Pool
	pf         providers.Factory
	runner     sandbox.Runner
}

func NewApp(modifiers ...Modifier) *App {
	var a App
	for _, modifier := range modifiers {
		modifier(&a)
	}

	a.buildDeps()

	return &a
}

func (a *App) buildDeps() {
	if a.log == nil {
		slog := logutil.NewStderrLog("covergen-worker")
		slog.SetLevel(logutil.LogLevelInfo)
		a.log = slog
	}

	if a.cfg == nil {
		a.cfg = config.NewEnvConfig(a.log)
	}

	if a.errTracker == nil {
		a.errTracker = apperrors.GetTracker(a.cfg, a.log, "worker")
	}
	if a.trackedLog == nil {
		a.trackedLog = apperrors.WrapLogWithTracker(a.log, nil, a.errTracker)
	}

	if a.db == nil {
		dbConnString, err := gormdb.GetDBConnString(a.cfg)
		if err != nil {
			a.log.Fatalf("Can't get DB conn string: %s", err)
		}

		db, err := gormdb.GetDB(a.cfg, a.trackedLog, dbConnString)
		if err != nil {
			a.log.Fatalf("Can't get DB: %s", err)
		}
		a.db = db
	}

	if a.redisPool == nil {
		redisPool, err := redis.GetPool(a.cfg)
		if err != nil {
			a.log.Fatalf("Can't get redis pool: %s", err)
		}
		a.redisPool = redisPool
	}

	if a.pf == nil {
		a.pf = providers.NewBasicFactory(a.cfg, a.trackedLog)
	}

	if a.runner == nil {
		a.runner = sandbox.NewDockerRunner(a.trackedLog, a.cfg)
	}
}

func (a App) buildConsumers() (*consumers.ScanRepo, *consumers.ImproveCoverage) {
	token := a.cfg.GetString("GITHUB_TOKEN")
	fetcher := fetchers.NewGit(a.trackedLog, token)
	newExec := func() (executors.Executor, error) {
		return executors.NewClonesDirShell(a.trackedLog)
	}

	scanner := coverage.NewScanner(a.trackedLog, a.runner)
	scan := processors.NewScan(a.trackedLog, a.db, fetcher, scanner, newExec)

	v := validator.NewValidator(a.trackedLog, a.runner)
	deps := tsdeps.NewAnalyzer(a.trackedLog)
	gen := generator.NewGenerator(a.trackedLog, a.runner, v, deps, a.cfg)
	pusher := gitpush.NewPusher(a.trackedLog, token)
	improver := processors.NewImprover(a.trackedLog, a.db, a.cfg, a.pf,
		fetcher, gen, pusher, newExec)

	return consumers.NewScanRepo(a.trackedLog, scan),
		consumers.NewImproveCoverage(a.trackedLog, improver)
}

func (a App) Run() {
	queue.Init()

	scanConsumer, improveConsumer := a.buildConsumers()
	if err := taskqueue.RegisterTasks(scanConsumer, improveConsumer); err != nil {
		a.log.Fatalf("Can't register queue tasks: %s", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), bootstrapTimeout)
	defer cancel()
	if err := sandbox.Bootstrap(ctx, a.trackedLog, a.runner); err != nil {
		// Per-job runs fail explicitly when the toolchain is missing.
		a.trackedLog.Warnf("Sandbox toolchain bootstrap failed: %s", err)
	}

	if err := taskqueue.RunWorkers(); err != nil {
		a.log.Fatalf("Can't run queue workers: %s", err)
	}
}
