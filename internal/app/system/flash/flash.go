// internal/app/system/flash/flash.go

// Package flash provides one-shot notices riding the cookie session.
// A notice queued during one request is rendered exactly once by a later
// page and then cleared; gorilla's session Flashes carry the payload.
package flash

import (
	"encoding/gob"
	"net/http"

	"github.com/planaula/planaula/internal/app/system/auth"
)

// Notice levels, matching the alert styles the templates know about.
const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelDanger  = "danger"
)

// Notice is a single transient message for the next rendered view.
type Notice struct {
	Level   string
	Message string
}

func init() {
	gob.Register(Notice{})
}

// Add queues a notice on the actor's session. Save failures are swallowed:
// losing a confirmation message must never fail the operation it confirms.
func Add(sm *auth.SessionManager, w http.ResponseWriter, r *http.Request, level, message string) {
	sess, _ := sm.GetSession(r)
	sess.AddFlash(Notice{Level: level, Message: message})
	_ = sess.Save(r, w)
}

// Pop returns and clears all queued notices. The session must be saved for
// the clear to stick, which is why Pop needs the ResponseWriter.
func Pop(sm *auth.SessionManager, w http.ResponseWriter, r *http.Request) []Notice {
	sess, _ := sm.GetSession(r)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = sess.Save(r, w)

	notices := make([]Notice, 0, len(raw))
	for _, v := range raw {
		if n, ok := v.(Notice); ok {
			notices = append(notices, n)
		}
	}
	return notices
}
