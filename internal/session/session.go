// Package session wires the editor's cookie session to the SQLite
// sessions table.
package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// editorKey marks a session as an authenticated editor.
const editorKey = "editor"

// New creates a session manager backed by the sessions table.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)

	sm.Lifetime = 24 * time.Hour
	sm.Cookie.Name = "obuilder_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev

	return sm
}

// MarkEditor records a successful editor login. The session token is
// renewed so the pre-login token cannot be replayed.
func MarkEditor(ctx context.Context, sm *scs.SessionManager) error {
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}
	sm.Put(ctx, editorKey, true)
	return nil
}

// IsEditor reports whether the session belongs to a logged-in editor.
func IsEditor(ctx context.Context, sm *scs.SessionManager) bool {
	return sm.GetBool(ctx, editorKey)
}

// ClearEditor logs the editor out and destroys the session.
func ClearEditor(ctx context.Context, sm *scs.SessionManager) error {
	return sm.Destroy(ctx)
}
