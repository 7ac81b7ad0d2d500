package utils

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/itchan-dev/authcore/shared/api"
	"github.com/itchan-dev/authcore/shared/errors"
	"github.com/itchan-dev/authcore/shared/logger"
)

// maxBodySize bounds JSON request bodies.
const maxBodySize = 1 << 20

func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logger.Log.Error("failed to encode response", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(append(body, '\n'))
}

// WriteError translates err into the uniform failure body.
// Internal details (wrapped causes, driver errors) are logged, never written.
func WriteError(w http.ResponseWriter, err error) {
	var (
		validationErr *errors.ValidationError
		authErr       *errors.AuthenticationError
		opErr         *errors.OperationError
		statusErr     *errors.ErrorWithStatusCode
	)
	switch {
	case stderrors.As(err, &validationErr):
		WriteJSON(w, http.StatusBadRequest, api.Failure(validationErr.Messages()))
	case stderrors.As(err, &authErr):
		WriteJSON(w, http.StatusBadRequest, api.Failure([]string{authErr.Message}))
	case stderrors.As(err, &opErr):
		logger.Log.Error("operation failed", "error", err)
		WriteJSON(w, http.StatusBadRequest, api.Failure(opErr.Message))
	case stderrors.As(err, &statusErr):
		WriteJSON(w, statusErr.StatusCode, api.Failure([]string{statusErr.Message}))
	default:
		// default error is 500
		logger.Log.Error("unhandled error", "error", err)
		WriteJSON(w, http.StatusInternalServerError, api.Failure("Internal error"))
	}
}

// Decode reads a JSON body into v.
func Decode(r io.ReadCloser, v any) error {
	defer r.Close()
	if err := json.NewDecoder(io.LimitReader(r, maxBodySize)).Decode(v); err != nil {
		logger.Log.Debug("invalid request body", "error", err)
		return &errors.ErrorWithStatusCode{Message: "Body is invalid json", StatusCode: http.StatusBadRequest}
	}
	return nil
}
