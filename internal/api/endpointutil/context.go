package endpointutil

import (
	"context"
	"time"

	"github.com/covergen/covergen-api/internal/shared/apperrors"
	"github.com/covergen/covergen-api/internal/shared/logutil"
	"github.com/covergen/covergen-api/pkg/api/request"
	"github.com/pkg/errors"
)

type contextKey string

const (
	contextKeyRequestContext contextKey = "endpoint/requestContext"
	contextKeyError          contextKey = "endpoint/error"
)

func RequestContext(ctx context.Context) request.Context {
	rc := ctx.Value(contextKeyRequestContext)
	if rc == nil {
		return nil
	}
	return rc.(request.Context)
}

func StoreRequestContext(ctx context.Context, rc request.Context) context.Context {
	return context.WithValue(ctx, contextKeyRequestContext, rc)
}

func StoreError(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, contextKeyError, err)
}

func Error(ctx context.Context) error {
	v := ctx.Value(contextKeyError)
	if v == nil {
		return nil
	}

	return v.(error)
}

func makeBaseRequestContext(ctx context.Context, hctx *HandlerRegContext) *request.BaseContext {
	lctx := logutil.Context{}
	log := hctx.Log
	log = logutil.WrapLogWithContext(log, lctx)
	log = apperrors.WrapLogWithTracker(log, lctx, hctx.ErrTracker)

	return &request.BaseContext{
		Ctx:       ctx,
		Log:       log,
		Lctx:      lctx,
		DB:        hctx.DB,
		StartedAt: time.Now(),
	}
}

func MakeAnonymousRequestContext(ctx context.Context, hctx *HandlerRegContext) *request.AnonymousContext {
	return &request.AnonymousContext{
		BaseContext: *makeBaseRequestContext(ctx, hctx),
	}
}

// AnonymousRequestContext extracts the request context stored by the
// transport layer, surfacing any error stored during its construction.
func AnonymousRequestContext(ctx context.Context) (*request.AnonymousContext, error) {
	if err := Error(ctx); err != nil {
		return nil, err
	}

	rc, ok := RequestContext(ctx).(*request.AnonymousContext)
	if !ok {
		return nil, errors.New("no anonymous request context")
	}

	return rc, nil
}
