package authgate

import (
	"encoding/json"
	"net/http"
)

// rejectionBody is the JSON shape of every gate rejection.
type rejectionBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeRejection converts a gate error into the HTTP response for its code.
// Underlying failure detail only appears in dev mode; production responses
// carry the generic message for the code.
func writeRejection(w http.ResponseWriter, err error, devMode bool) {
	code := CodeOf(err)

	message := errorMessages[code]
	if message == "" {
		message = string(code)
	}
	if devMode && err != nil {
		message = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatus(code))
	_ = json.NewEncoder(w).Encode(rejectionBody{
		Error:   string(code),
		Message: message,
	})
}
