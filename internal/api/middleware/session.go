// Package middleware contains the HTTP middleware shared by the API and
// web routes.
package middleware

import (
	"encoding/gob"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/phrazzld/flashgen/internal/api/shared"
	"github.com/phrazzld/flashgen/internal/platform/logger"
)

const sessionIDValue = "sid"

func init() {
	// flash queues are stored as []interface{} inside the gob-encoded cookie
	gob.Register([]interface{}{})
}

// SessionManager binds each visitor to a session ID kept in a signed
// cookie.
type SessionManager struct {
	store      sessions.Store
	cookieName string
}

// NewSessionManager creates a SessionManager using a cookie store signed
// with hashKey. Cookies expire after maxAge of inactivity.
func NewSessionManager(hashKey []byte, cookieName string, maxAge time.Duration) *SessionManager {
	store := sessions.NewCookieStore(hashKey)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return NewSessionManagerWithStore(store, cookieName)
}

// NewSessionManagerWithStore creates a SessionManager over an existing
// gorilla session store.
func NewSessionManagerWithStore(store sessions.Store, cookieName string) *SessionManager {
	return &SessionManager{store: store, cookieName: cookieName}
}

// Middleware loads or creates the visitor's session and stores its ID and
// cookie session in the request context. A cookie that fails to decode is
// replaced with a fresh session.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		// an undecodable cookie still yields a fresh session alongside the error
		sess, err := m.store.Get(r, m.cookieName)
		if sess == nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
				"Failed to start session", err)
			return
		}
		if err != nil {
			log.Debug("discarding unreadable session cookie", slog.String("error", err.Error()))
		}

		id, ok := sessionID(sess)
		if !ok {
			id = uuid.New()
			sess.Values[sessionIDValue] = id.String()
			if err := sess.Save(r, w); err != nil {
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
					"Failed to save session", err)
				return
			}
		}

		ctx := shared.WithSession(r.Context(), id, sess)
		ctx = logger.WithLogger(ctx, log.With(slog.String("session_id", id.String())))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionID(sess *sessions.Session) (uuid.UUID, bool) {
	raw, ok := sess.Values[sessionIDValue].(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Flash kinds, matching the screen's message styles.
const (
	FlashError   = "error"
	FlashWarning = "warning"
	FlashSuccess = "success"
	FlashInfo    = "info"
)

// AddFlash queues a one-time message of the given kind on the request's
// session and saves it. It must run before the response is written.
func AddFlash(w http.ResponseWriter, r *http.Request, kind, message string) {
	sess := shared.GetCookieSession(r.Context())
	if sess == nil {
		return
	}
	sess.AddFlash(message, kind)
	if err := sess.Save(r, w); err != nil {
		logger.FromContext(r.Context()).Error("failed to save flash", slog.String("error", err.Error()))
	}
}

// Flash is a message popped from the session.
type Flash struct {
	Kind    string
	Message string
}

// PopFlashes removes and returns queued messages in severity order. It
// saves the session, so it must run before the response is written.
func PopFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	sess := shared.GetCookieSession(r.Context())
	if sess == nil {
		return nil
	}

	var out []Flash
	for _, kind := range []string{FlashError, FlashWarning, FlashSuccess, FlashInfo} {
		for _, v := range sess.Flashes(kind) {
			if msg, ok := v.(string); ok {
				out = append(out, Flash{Kind: kind, Message: msg})
			}
		}
	}
	if len(out) > 0 {
		if err := sess.Save(r, w); err != nil {
			logger.FromContext(r.Context()).Error("failed to save session", slog.String("error", err.Error()))
		}
	}
	return out
}
