package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vocdoni/maci-domainobjs/log"
)

// Error is used by handler functions to wrap errors, assigning a unique error
// code and also specifying which HTTP Status should be used.
type Error struct {
	Err        error
	Code       int
	HTTPstatus int
}

// MarshalJSON returns a JSON containing Err.Error() and Code. Field
// HTTPstatus is ignored.
func (e Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Err  string `json:"error"`
		Code int    `json:"code"`
	}{
		Err:  e.Err.Error(),
		Code: e.Code,
	})
}

// Error returns the Message contained inside the APIerror
func (e Error) Error() string {
	return e.Err.Error()
}

// Write sends the JSON encoding of e with e.HTTPstatus. Server side errors
// are logged at error level, client errors only at debug level.
func (e Error) Write(w http.ResponseWriter) {
	msg, err := json.Marshal(e)
	if err != nil {
		log.Errorw(err, "failed to marshal api error")
		http.Error(w, "marshal failed", http.StatusInternalServerError)
		return
	}
	if e.HTTPstatus >= http.StatusInternalServerError {
		log.Errorw(e.Err, "api server error", "code", e.Code, "httpStatus", e.HTTPstatus)
	} else {
		log.Debugw("api error response", "error", e.Error(), "code", e.Code, "httpStatus", e.HTTPstatus)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(e.HTTPstatus)
	_, _ = fmt.Fprintln(w, string(msg))
}

// Withf returns a copy of Error with the Sprintf formatted string appended
// at the end of e.Err
func (e Error) Withf(format string, args ...any) Error {
	return Error{
		Err:        fmt.Errorf("%w: %v", e.Err, fmt.Sprintf(format, args...)),
		Code:       e.Code,
		HTTPstatus: e.HTTPstatus,
	}
}

// With returns a copy of Error with the string appended at the end of e.Err
func (e Error) With(s string) Error {
	return Error{
		Err:        fmt.Errorf("%w: %v", e.Err, s),
		Code:       e.Code,
		HTTPstatus: e.HTTPstatus,
	}
}

// WithErr returns a copy of Error with err.Error() appended at the end of
// e.Err
func (e Error) WithErr(err error) Error {
	return Error{
		Err:        fmt.Errorf("%w: %v", e.Err, err.Error()),
		Code:       e.Code,
		HTTPstatus: e.HTTPstatus,
	}
}
