package request

import (
	"context"
	"time"

	"github.com/covergen/covergen-api/internal/shared/logutil"
	"github.com/jinzhu/gorm"
)

type Context interface {
	RequestStartedAt() time.Time
	Logger() logutil.Log
}

type BaseContext struct {
	Ctx  context.Context
	Log  logutil.Log
	Lctx logutil.Context
	DB   *gorm.DB

	StartedAt time.Time
}

func (ctx BaseContext) RequestStartedAt() time.Time {
	return ctx.StartedAt
}

func (ctx BaseContext) Logger() logutil.Log {
	return ctx.Log
}

type AnonymousContext struct {
	BaseContext
}
