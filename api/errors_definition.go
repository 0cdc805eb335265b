//nolint:lll
package api

import (
	"fmt"
	"net/http"
)

// The custom Error type satisfies the error interface.
// Error() returns a human-readable description of the error.
//
// Error codes in the 40001-49999 range are the user's fault,
// and they return HTTP Status 400 or 404, whatever is most appropriate.
//
// Error codes 50001-59999 are the server's fault
// and they return HTTP Status 500 or 503, or something else if appropriate.
//
// NEVER change any of the current error codes, only append new errors after
// the current last 4XXXX or 5XXXX.
var (
	ErrResourceNotFound      = Error{Code: 40001, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("resource not found")}
	ErrMalformedBody         = Error{Code: 40004, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed JSON body")}
	ErrMalformedParam        = Error{Code: 40015, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed parameter")}
	ErrInvalidMessage        = Error{Code: 40023, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid message")}
	ErrMessageNotFound       = Error{Code: 40024, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("message not found")}
	ErrInvalidRange          = Error{Code: 40025, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid range")}
	ErrMissingKeyToValidate  = Error{Code: 40026, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("no key to validate")}
	ErrStateLeafNotAvailable = Error{Code: 40027, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("state leaf not available")}

	ErrMarshalingServerJSONFailed = Error{Code: 50001, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("marshaling (server-side) JSON failed")}
	ErrGenericInternalServerError = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("internal server error")}
	ErrStorageFailure             = Error{Code: 50003, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("storage failure")}
)
