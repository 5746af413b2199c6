package app

import (
	"fmt"
	"net/http"
	"os"

	"github.com/covergen/covergen-api/internal/api/transportutil"
	"github.com/covergen/covergen-api/internal/api/util"
	"github.com/covergen/covergen-api/internal/shared/apperrors"
	"github.com/covergen/covergen-api/internal/shared/cache"
	"github.com/covergen/covergen-api/internal/shared/config"
	"github.com/covergen/covergen-api/internal/shared/db/gormdb"
	"github.com/covergen/covergen-api/internal/shared/db/migrations"
	"github.com/covergen/covergen-api/internal/shared/db/redis"
	"github.com/covergen/covergen-api/internal/shared/logutil"
	"github.com/covergen/covergen-api/internal/shared/providers"
	"github.com/covergen/covergen-api/pkg/api/returntypes"
	"github.com/covergen/covergen-api/pkg/api/services/jobs"
	"github.com/covergen/covergen-api/pkg/api/services/repos"
	"github.com/covergen/covergen-api/pkg/worker/analyze/taskqueue"
	"github.com/covergen/covergen-api/pkg/worker/lib/queue"
	redigo "github.com/garyburd/redigo/redis"
	"github.com/gorilla/mux"
	"github.com/jinzhu/gorm"
	_ "github.com/mattes/migrate/database/postgres" // must be first
	_ "github.com/mattes/migrate/database/sqlite3"
	"github.com/rs/cors"
	"github.com/urfave/negroni"
	redsync "gopkg.in/redsync.v1"
)

type appServices struct {
	repos repos.Service
	jobs  jobs.Service
}

type App struct {
	cfg              config.Config
	log              logutil.Log
	trackedLog       logutil.Log
	errTracker       apperrors.Tracker
	gormDB           *gorm.DB
	migrationsRunner *migrations.Runner
	services         appServices
	providerFactory  providers.Factory
	distLockFactory  *redsync.Redsync
	redisPool        *redigo.Pool
	queueProducer    *taskqueue.Producer
	scanScheduler    repos.ScanScheduler
	improveScheduler jobs.ImproveScheduler
}

func (a App) GetDB() *gorm.DB {
	return a.gormDB
}

func (a *App) buildDeps() {
	if a.log == nil {
		slog := logutil.NewStderrLog("covergen-api")
		slog.SetLevel(logutil.LogLevelInfo)
		a.log = slog
	}

	if a.cfg == nil {
		a.cfg = config.NewEnvConfig(a.log)
	}

	if a.errTracker == nil {
		a.errTracker = apperrors.GetTracker(a.cfg, a.log, "api")
	}
	if a.trackedLog == nil {
		a.trackedLog = apperrors.WrapLogWithTracker(a.log, nil, a.errTracker)
	}

	if a.gormDB == nil {
		dbConnString, err := gormdb.GetDBConnString(a.cfg)
		if err != nil {
			a.log.Fatalf("Can't get DB conn string: %s", err)
		}

		gormDB, err := gormdb.GetDB(a.cfg, a.trackedLog, dbConnString)
		if err != nil {
			a.log.Fatalf("Can't get DB: %s", err)
		}
		a.gormDB = gormDB
	}

	if a.providerFactory == nil {
		a.providerFactory = providers.NewBasicFactory(a.cfg, a.trackedLog)
	}

	if a.redisPool == nil {
		redisPool, err := redis.GetPool(a.cfg)
		if err != nil {
			a.log.Fatalf("Can't get redis pool: %s", err)
		}
		a.redisPool = redisPool
	}
}

func (a *App) buildQueues() {
	if a.scanScheduler != nil && a.improveScheduler != nil {
		return
	}

	queue.Init()
	if a.queueProducer == nil {
		a.queueProducer = taskqueue.NewProducer(a.trackedLog, a.redisPool)
	}
	if a.scanScheduler == nil {
		a.scanScheduler = a.queueProducer
	}
	if a.improveScheduler == nil {
		a.improveScheduler = a.queueProducer
	}
}

func (a *App) buildServices() {
	a.services.repos = repos.BasicService{
		ProviderFactory: a.providerFactory,
		ScanScheduler:   a.scanScheduler,
		Cache:           cache.NewRedis(a.redisPool),
		Cfg:             a.cfg,
	}
	a.services.jobs = jobs.BasicService{
		ImproveScheduler: a.improveScheduler,
		Cfg:              a.cfg,
	}
}

func (a *App) buildMigrationsRunner() {
	a.distLockFactory = redsync.New([]redsync.Pool{a.redisPool})
	dbConnString, err := gormdb.GetDBConnString(a.cfg)
	if err != nil {
		a.log.Fatalf("Can't get DB conn string: %s", err)
	}
	a.migrationsRunner = migrations.NewRunner(a.distLockFactory.NewMutex("migrations"), a.trackedLog,
		dbConnString, util.GetProjectRoot())
}

func NewApp(modifiers ...Modifier) *App {
	a := App{}
	for _, m := range modifiers {
		m(&a)
	}
	a.buildDeps()
	a.buildQueues()
	a.buildServices()
	a.buildMigrationsRunner()

	return &a
}

func (a App) registerHandlers(r *mux.Router) {
	regCtx := &transportutil.HandlerRegContext{
		Router:     r,
		Log:        a.log,
		ErrTracker: a.errTracker,
		Cfg:        a.cfg,
		DB:         a.gormDB,
	}
	repos.RegisterHandlers(a.services.repos, regCtx)
	jobs.RegisterHandlers(a.services.jobs, regCtx)

	r.Methods("GET").Path("/api/health").HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		transportutil.WriteJSON(w, http.StatusOK, returntypes.HealthResponse{Status: "ok"})
	})
}

func (a App) runMigrations() {
	if err := a.migrationsRunner.Run(); err != nil {
		a.log.Fatalf("Can't run migrations: %s", err)
	}
}

func (a App) RunEnvironment() {
	a.runMigrations()
}

func (a App) RunForever() {
	a.RunEnvironment()

	http.Handle("/", a.GetHTTPHandler())

	addr := fmt.Sprintf(":%d", a.cfg.GetInt("PORT", 3000))
	a.log.Infof("Listening on %s...", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		a.log.Errorf("Can't listen HTTP on %s: %s", addr, err)
		os.Exit(1)
	}
}

func (a App) GetHTTPHandler() http.Handler {
	r := mux.NewRouter()
	a.registerHandlers(r)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders: []string{"*"},
	})

	n := negroni.Classic()
	n.Use(c)
	n.UseHandler(r)
	return n
}
