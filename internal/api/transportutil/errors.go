package transportutil

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/covergen/covergen-api/internal/api/apierrors"
	"github.com/covergen/covergen-api/internal/shared/logutil"
	"github.com/covergen/covergen-api/internal/shared/providers/provider"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/pkg/errors"
)

type Error struct {
	HTTPCode int
	Message  string
}

func (e Error) Error() string {
	return e.Message
}

// ErrorResponse is the body of any failed request: {"message": "..."}.
type ErrorResponse struct {
	Message string `json:"message"`
}

func makeError(code int, e error) *Error {
	return &Error{
		HTTPCode: code,
		Message:  e.Error(),
	}
}

func MakeError(e error) *Error {
	srcErr := errors.Cause(e)
	if le, ok := srcErr.(apierrors.LocalizedError); ok {
		return &Error{
			HTTPCode: http.StatusBadRequest,
			Message:  le.GetMessage(),
		}
	}

	switch srcErr {
	case apierrors.ErrNotFound:
		return makeError(http.StatusNotFound, e)
	case apierrors.ErrBadRequest:
		return makeError(http.StatusBadRequest, e)
	case provider.ErrUnauthorized:
		return makeError(http.StatusForbidden, e)
	}

	return makeError(http.StatusInternalServerError, errors.New("internal error"))
}

// LogEndpointError routes an endpoint error to the proper log level: client
// errors are warnings, everything else goes to the error tracker.
func LogEndpointError(log logutil.Log, opName string, err error) {
	if MakeError(err).HTTPCode >= http.StatusInternalServerError {
		log.Errorf("%s: %s", opName, err)
		return
	}

	log.Warnf("%s: %s", opName, err)
}

func EncodeError(ctx context.Context, err error, w http.ResponseWriter) {
	apiErr := MakeError(err)
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(apiErr.HTTPCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Message: apiErr.Message})
}

func EncodeJSONResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	return encodeJSONResponse(w, http.StatusOK, response)
}

// MakeJSONResponseEncoder returns an encoder responding with the given
// status code, e.g. 201 for creations.
func MakeJSONResponseEncoder(code int) httptransport.EncodeResponseFunc {
	return func(ctx context.Context, w http.ResponseWriter, response interface{}) error {
		return encodeJSONResponse(w, code, response)
	}
}

func encodeJSONResponse(w http.ResponseWriter, code int, response interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(code)
	return errors.Wrap(json.NewEncoder(w).Encode(response), "can't encode json response")
}

// WriteJSON is for plain http handlers not going through go-kit.
func WriteJSON(w http.ResponseWriter, code int, response interface{}) {
	_ = encodeJSONResponse(w, code, response)
}
