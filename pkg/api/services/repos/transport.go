package repos

import (
	"context"
	"net/http"

	"github.com/covergen/covergen-api/internal/api/apierrors"
	"github.com/covergen/covergen-api/internal/api/endpointutil"
	"github.com/covergen/covergen-api/internal/api/transportutil"
	"github.com/covergen/covergen-api/pkg/api/request"
	"github.com/go-kit/kit/endpoint"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/pkg/errors"
)

type createRequest struct {
	Body *request.BodyRepo
}

type triggerScanRequest struct {
	Repo *request.RepoID
}

func RegisterHandlers(svc Service, regCtx *transportutil.HandlerRegContext) {
	hctx := endpointutil.HandlerRegContext{
		Log:        regCtx.Log,
		ErrTracker: regCtx.ErrTracker,
		Cfg:        regCtx.Cfg,
		DB:         regCtx.DB,
	}

	makeServer := func(e endpoint.Endpoint, dec httptransport.DecodeRequestFunc, successCode int) http.Handler {
		return httptransport.NewServer(e, dec,
			transportutil.MakeJSONResponseEncoder(successCode),
			httptransport.ServerBefore(transportutil.MakeStoreAnonymousRequestContext(hctx)),
			httptransport.ServerErrorEncoder(transportutil.EncodeError),
			httptransport.ServerFinalizer(transportutil.FinalizeRequest),
		)
	}

	regCtx.Router.Handle("/api/repos",
		makeServer(makeListEndpoint(svc), decodeNothing, http.StatusOK)).Methods(http.MethodGet)
	regCtx.Router.Handle("/api/repos",
		makeServer(makeCreateEndpoint(svc), decodeCreateRequest, http.StatusCreated)).Methods(http.MethodPost)
	regCtx.Router.Handle("/api/repos/{repoid}/scan",
		makeServer(makeTriggerScanEndpoint(svc), decodeTriggerScanRequest, http.StatusCreated)).Methods(http.MethodPost)
}

func decodeNothing(_ context.Context, r *http.Request) (interface{}, error) {
	return nil, nil
}

func decodeCreateRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req createRequest
	if err := transportutil.DecodeRequest(&req, r); err != nil {
		return nil, errors.Wrap(apierrors.ErrBadRequest, err.Error())
	}

	return &req, nil
}

func decodeTriggerScanRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req triggerScanRequest
	if err := transportutil.DecodeRequest(&req, r); err != nil {
		return nil, errors.Wrap(apierrors.ErrBadRequest, err.Error())
	}

	return &req, nil
}

func makeListEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, _ interface{}) (interface{}, error) {
		rc, err := endpointutil.AnonymousRequestContext(ctx)
		if err != nil {
			return nil, err
		}

		ret, err := svc.List(rc)
		if err != nil {
			transportutil.LogEndpointError(rc.Log, "repos.list", err)
			return nil, err
		}

		return ret, nil
	}
}

func makeCreateEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		rc, err := endpointutil.AnonymousRequestContext(ctx)
		if err != nil {
			return nil, err
		}

		reqTyped := req.(*createRequest)
		reqTyped.Body.FillLogContext(rc.Lctx)

		ret, err := svc.Create(rc, reqTyped.Body)
		if err != nil {
			transportutil.LogEndpointError(rc.Log, "repos.create", err)
			return nil, err
		}

		return ret, nil
	}
}

func makeTriggerScanEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		rc, err := endpointutil.AnonymousRequestContext(ctx)
		if err != nil {
			return nil, err
		}

		reqTyped := req.(*triggerScanRequest)
		reqTyped.Repo.FillLogContext(rc.Lctx)

		ret, err := svc.TriggerScan(rc, reqTyped.Repo)
		if err != nil {
			transportutil.LogEndpointError(rc.Log, "repos.triggerScan", err)
			return nil, err
		}

		return ret, nil
	}
}
