package app

import (
	redigo "github.com/garyburd/redigo/redis"
	"github.com/jinzhu/gorm"

	"github.com/covergen/covergen-api/internal/shared/config"
	"github.com/covergen/covergen-api/internal/shared/logutil"
	"github.com/covergen/covergen-api/internal/shared/providers"
	"github.com/covergen/covergen-api/pkg/worker/lib/sandbox"
)

type Modifier func(a *App)

func SetLog(log logutil.Log) Modifier {
	return func(a *App) {
		a.log = log
	}
}

func SetConfig(cfg config.Config) Modifier {
	return func(a *App) {
		a.cfg = cfg
	}
}

func SetDB(db *gorm.DB) Modifier {
	return func(a *App) {
		a.db = db
	}
}

func SetRedisPool(pool *redigo.Pool) Modifier {
	return func(a *App) {
		a.redisPool = pool
	}
}

func SetProviderFactory(pf providers.Factory) Modifier {
	return func(a *App) {
		a.pf = pf
	}
}

func SetSandboxRunner(r sandbox.Runner) Modifier {
	return func(a *App) {
		a.runner = r
	}
}
