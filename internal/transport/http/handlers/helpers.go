package handlers

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	authsvc "github.com/jagaldol/my-fitness-server/internal/services/auth"
	"github.com/jagaldol/my-fitness-server/internal/transport/http/envelope"
)

// clientIPHeaders is checked in order before falling back to the
// connection remote address.
var clientIPHeaders = []string{
	"X-Forwarded-For",
	"Proxy-Client-IP",
	"WL-Proxy-Client-IP",
	"HTTP_CLIENT_IP",
	"HTTP_X_FORWARDED_FOR",
}

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

// requirePrincipal reads the authenticated principal from the request
// context. The middleware never rejects a request itself, so every
// handler that needs an identity answers 401 here.
func requirePrincipal(w http.ResponseWriter, r *http.Request) (authsvc.Principal, bool) {
	principal, ok := authsvc.PrincipalFromContext(r.Context())
	if !ok {
		envelope.Error(w, http.StatusUnauthorized, "authentication required")
		return authsvc.Principal{}, false
	}
	return principal, true
}

func clientIP(r *http.Request) string {
	for _, header := range clientIPHeaders {
		value := strings.TrimSpace(r.Header.Get(header))
		if value == "" {
			continue
		}
		// forwarding chains list the original client first
		if idx := strings.IndexByte(value, ','); idx >= 0 {
			value = strings.TrimSpace(value[:idx])
		}
		if value != "" {
			return value
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeBadRequest(w http.ResponseWriter, message string) {
	envelope.Error(w, http.StatusBadRequest, message)
}

func writeInternal(w http.ResponseWriter) {
	envelope.Error(w, http.StatusInternalServerError, "internal server error")
}
