package app

import (
	"github.com/covergen/covergen-api/internal/shared/providers"
	"github.com/covergen/covergen-api/pkg/api/services/jobs"
	"github.com/covergen/covergen-api/pkg/api/services/repos"
	"github.com/jinzhu/gorm"
)

type Modifier func(a *App)

func SetProviderFactory(pf providers.Factory) Modifier {
	return func(a *App) {
		a.providerFactory = pf
	}
}

func SetDB(db *gorm.DB) Modifier {
	return func(a *App) {
		a.gormDB = db
	}
}

func SetSchedulers(scan repos.ScanScheduler, improve jobs.ImproveScheduler) Modifier {
	return func(a *App) {
		a.scanScheduler = scan
		a.improveScheduler = improve
	}
}
