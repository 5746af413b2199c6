package endpointutil

import (
	"github.com/covergen/covergen-api/internal/shared/apperrors"
	"github.com/covergen/covergen-api/internal/shared/config"
	"github.com/covergen/covergen-api/internal/shared/logutil"
	"github.com/jinzhu/gorm"
)

type HandlerRegContext struct {
	Log        logutil.Log
	ErrTracker apperrors.Tracker
	Cfg        config.Config
	DB         *gorm.DB
}
