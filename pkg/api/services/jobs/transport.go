package jobs

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
	Body *request.BodyJob
}

type getRequest struct {
	Job *request.JobID
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

	regCtx.Router.Methods("POST").Path("/api/jobs").Handler(
		makeServer(makeCreateEndpoint(svc), decodeCreateRequest, http.StatusCreated))
	regCtx.Router.Methods("GET").Path("/api/jobs").Handler(
		makeServer(makeListEndpoint(svc), decodeNothing, http.StatusOK))
	regCtx.Router.Methods("GET").Path("/api/jobs/{jobid}").Handler(
		makeServer(makeGetEndpoint(svc), decodeGetRequest, http.StatusOK))
}

func decodeNothing(_ context.Context, _ *http.Request) (interface{}, error) {
	return nil, nil
}

func decodeCreateRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req createRequest
	if err := transportutil.DecodeRequest(&req, r); err != nil {
		return nil, errors.Wrap(apierrors.ErrBadRequest, err.Error())
	}

	return &req, nil
}

func decodeGetRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req getRequest
	if err := transportutil.DecodeRequest(&req, r); err != nil {
		return nil, errors.Wrap(apierrors.ErrBadRequest, err.Error())
	}

	return &req, nil
}

func makeCreateEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, reqObj interface{}) (interface{}, error) {
		rc, err := endpointutil.AnonymousRequestContext(ctx)
		if err != nil {
			return nil, err
		}

		req := reqObj.(*createRequest)
		req.Body.FillLogContext(rc.Lctx)

		ret, err := svc.Create(rc, req.Body)
		if err != nil {
			transportutil.LogEndpointError(rc.Log, "jobs.Create", err)
			return nil, err
		}

		return ret, nil
	}
}

func makeListEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, _ interface{}) (interface{}, error) {
		rc, err := endpointutil.AnonymousRequestContext(ctx)
		if err != nil {
			return nil, err
		}

		ret, err := svc.List(rc)
		if err != nil {
			transportutil.LogEndpointError(rc.Log, "jobs.List", err)
			return nil, err
		}

		return ret, nil
	}
}

func makeGetEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, reqObj interface{}) (interface{}, error) {
		rc, err := endpointutil.AnonymousRequestContext(ctx)
		if err != nil {
			return nil, err
		}

		req := reqObj.(*getRequest)
		req.Job.FillLogContext(rc.Lctx)

		ret, err := svc.Get(rc, req.Job)
		if err != nil {
			transportutil.LogEndpointError(rc.Log, "jobs.Get", err)
			return nil, err
		}

		return ret, nil
	}
}
