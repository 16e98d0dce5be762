package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/AaronLay10/SentientCutscene/internal/config"
)

// Role represents an authorization role.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
)

type credentials struct {
	user string
	pass string
}

func (c credentials) set() bool { return c.user != "" && c.pass != "" }

func (c credentials) match(user, pass string) bool {
	return c.set() && secureCompare(user, c.user) && secureCompare(pass, c.pass)
}

// authConfig holds the basic auth credentials per role.
type authConfig struct {
	admin    credentials
	operator credentials
}

var auth *authConfig

// InitAuth loads credentials from SENTIENT_ADMIN_USER/PASS and
// SENTIENT_OPERATOR_USER/PASS, honouring the *_FILE convention. Without
// admin credentials every request is treated as admin.
func InitAuth() {
	auth = &authConfig{
		admin: credentials{
			user: config.MustResolveSecret("SENTIENT_ADMIN_USER"),
			pass: config.MustResolveSecret("SENTIENT_ADMIN_PASS"),
		},
		operator: credentials{
			user: config.MustResolveSecret("SENTIENT_OPERATOR_USER"),
			pass: config.MustResolveSecret("SENTIENT_OPERATOR_PASS"),
		},
	}
}

// IsAuthEnabled returns true if admin credentials are configured.
func IsAuthEnabled() bool {
	return auth != nil && auth.admin.set()
}

// authenticate checks basic auth credentials and returns the role, or ""
// when they match nobody.
func authenticate(r *http.Request) Role {
	if !IsAuthEnabled() {
		return RoleAdmin
	}

	user, pass, ok := r.BasicAuth()
	if !ok {
		return ""
	}
	switch {
	case auth.admin.match(user, pass):
		return RoleAdmin
	case auth.operator.match(user, pass):
		return RoleOperator
	}
	return ""
}

// secureCompare performs constant-time string comparison.
func secureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// RequireRole wraps a handler and requires one of the specified roles.
func RequireRole(handler http.HandlerFunc, allowedRoles ...Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := authenticate(r)
		if role == "" {
			w.Header().Set("WWW-Authenticate", `Basic realm="Sentient Cutscene"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				handler(w, r)
				return
			}
		}
		http.Error(w, "Forbidden", http.StatusForbidden)
	}
}

// RequireAnyRole wraps a handler requiring admin OR operator role.
func RequireAnyRole(handler http.HandlerFunc) http.HandlerFunc {
	return RequireRole(handler, RoleAdmin, RoleOperator)
}

// RequireAdmin wraps a handler requiring admin role only.
func RequireAdmin(handler http.HandlerFunc) http.HandlerFunc {
	return RequireRole(handler, RoleAdmin)
}
