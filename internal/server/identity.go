package server

import (
	"context"
	"net/http"
)

// UserInfo is the identity attached to each request.
type UserInfo struct {
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
}

type ctxKey int

const (
	userIDKey ctxKey = iota
	userInfoKey
)

// userIDFromContext returns the user ID set by identity middleware,
// defaulting to 1 when none is set.
func userIDFromContext(r *http.Request) int {
	if id, ok := r.Context().Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// userInfoFromContext returns the UserInfo set by identity middleware,
// defaulting to the local dev identity when none is set.
func userInfoFromContext(r *http.Request) UserInfo {
	if info, ok := r.Context().Value(userInfoKey).(UserInfo); ok {
		return info
	}
	return UserInfo{Login: "local", DisplayName: "Local Dev User"}
}

func withIdentity(r *http.Request, userID int, info UserInfo) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey, userID)
	ctx = context.WithValue(ctx, userInfoKey, info)
	return r.WithContext(ctx)
}

// DevIdentity is identity middleware for local development: every request
// runs as user 1 with a fixed local identity.
func DevIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, withIdentity(r, 1, UserInfo{Login: "local", DisplayName: "Local Dev User"}))
	})
}

// identity resolves the request identity. With Tailscale enabled it asks the
// tailnet who owns the remote address and maps that login to a user row. In
// dev mode the configured dev user (or the fixed local identity) is assumed.
func (s *Server) identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.ts == nil {
			login := s.devUser
			if login == "" {
				DevIdentity(next).ServeHTTP(w, r)
				return
			}
			u, err := s.db.GetOrCreateUser(r.Context(), login, "")
			if err != nil {
				s.log.Error("dev user lookup failed", "login", login, "error", err)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "identity lookup failed"})
				return
			}
			next.ServeHTTP(w, withIdentity(r, u.ID, UserInfo{Login: u.Login, DisplayName: u.DisplayName}))
			return
		}

		who, err := s.ts.WhoIs(r.Context(), r.RemoteAddr)
		if err != nil || who.UserProfile == nil {
			s.log.Warn("tailscale whois failed", "remote", r.RemoteAddr, "error", err)
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "identity unknown"})
			return
		}

		// The stored row wins for display: a blank WhoIs display name falls
		// back to whatever the profile already holds.
		u, err := s.db.GetOrCreateUser(r.Context(), who.UserProfile.LoginName, who.UserProfile.DisplayName)
		if err != nil {
			s.log.Error("user lookup failed", "login", who.UserProfile.LoginName, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "identity lookup failed"})
			return
		}
		next.ServeHTTP(w, withIdentity(r, u.ID, UserInfo{Login: u.Login, DisplayName: u.DisplayName}))
	})
}

// mustUserID extracts the request user ID, writing a 401 when absent.
func mustUserID(w http.ResponseWriter, r *http.Request) (int, bool) {
	uid := userIDFromContext(r)
	if uid == 0 {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return 0, false
	}
	return uid, true
}
