package handlers

import (
	"crypto/sha256"
	"fmt"
	"net/http"

	"github.com/gorilla/csrf"

	"github.com/folio-hub/portfolio-service/internal/utils"
)

// CSRFConfig controls the form token protection
type CSRFConfig struct {
	Secret string
	// Secure marks the token cookie Secure and enforces the HTTPS referer check
	Secure bool
}

// ProtectCSRF wraps the router with gorilla/csrf. The token key is derived
// from the application secret so it survives restarts.
func ProtectCSRF(next http.Handler, cfg CSRFConfig, logger utils.Logger) http.Handler {
	key := sha256.Sum256([]byte(cfg.Secret))

	protect := csrf.Protect(key[:],
		csrf.Secure(cfg.Secure),
		csrf.Path("/"),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(csrfFailureHandler(logger)),
	)(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.TLS == nil && !cfg.Secure {
			r = csrf.PlaintextHTTPRequest(r)
		}
		protect.ServeHTTP(w, r)
	})
}

func csrfFailureHandler(logger utils.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Warn("CSRF check failed",
			"method", r.Method, "path", r.URL.Path, "reason", csrf.FailureReason(r))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprintln(w, "Forbidden: the form has expired, go back and try again")
	})
}
