package adapter

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/jdziat/thinware/pkg/core"
	"github.com/jdziat/thinware/pkg/security"
)

// WriteResult writes a target's result with the default success status.
// Strings are sent as text/plain, byte slices as application/octet-stream,
// nil as an empty body and everything else as JSON.
func WriteResult(w http.ResponseWriter, r *http.Request, result any) {
	switch v := result.(type) {
	case nil:
		w.WriteHeader(http.StatusOK)
	case string:
		render.PlainText(w, r, v)
	case []byte:
		render.Data(w, r, v)
	default:
		render.JSON(w, r, v)
	}
}

// WriteError writes err's message as text/plain with the status the error
// carries, or 500 if it carries none.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, security.ClampStatus(core.StatusOf(err)), err)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	render.Status(r, status)
	render.PlainText(w, r, err.Error())
}
