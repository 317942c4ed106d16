package authgate

import (
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// ExtractBearer pulls the bearer token out of the Authorization header.
// The prefix match is exact: "Bearer " with one space, case-sensitive.
//
// When requirePrefix is false a header value without the prefix is returned
// as the raw token, which is what deployed legacy clients send. Strict mode
// treats such values as absent. Either way the extraction is a pure function
// of the headers: calling it twice yields the same result.
func ExtractBearer(h http.Header, requirePrefix bool) (string, bool) {
	value := h.Get("Authorization")
	if value == "" {
		return "", false
	}

	token := value
	if strings.HasPrefix(value, bearerPrefix) {
		token = value[len(bearerPrefix):]
	} else if requirePrefix {
		return "", false
	}

	if token == "" {
		return "", false
	}
	return token, true
}
