package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionUserKey = "user_id"
	sessionRoleKey = "role"
)

// Sessions wraps the cookie store that backs browser logins.
type Sessions struct {
	Store sessions.Store
	Name  string
}

func NewSessions(secret string, secure bool, maxAge int) *Sessions {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{Store: store, Name: "jml_session"}
}

func (s *Sessions) Start(w http.ResponseWriter, r *http.Request, userID, role string) error {
	if s == nil {
		return nil
	}
	sess, _ := s.Store.Get(r, s.Name)
	sess.Values[sessionUserKey] = userID
	sess.Values[sessionRoleKey] = role
	return sess.Save(r, w)
}

func (s *Sessions) Clear(w http.ResponseWriter, r *http.Request) error {
	if s == nil {
		return nil
	}
	sess, _ := s.Store.Get(r, s.Name)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// Identity reads the user stored in the session cookie, if any.
func (s *Sessions) Identity(r *http.Request) (userID, role string, ok bool) {
	if s == nil {
		return "", "", false
	}
	sess, err := s.Store.Get(r, s.Name)
	if err != nil {
		return "", "", false
	}
	userID, _ = sess.Values[sessionUserKey].(string)
	role, _ = sess.Values[sessionRoleKey].(string)
	return userID, role, userID != ""
}
