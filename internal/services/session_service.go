package services

import (
	"encoding/json"
	"log"

	"shopfront/internal/domain"
	"shopfront/internal/repos"
)

// SessionService owns the persisted login slots: bearer token, username and
// role list. There is no renewal or refresh; a session lives until logout or
// until the commerce API answers 401.
type SessionService struct {
	Sessions *repos.SessionRepo
}

// Current loads the session for a browser. A corrupted roles slot is cleared
// as a side effect and treated as "no roles"; it is never surfaced.
func (s *SessionService) Current(sid string) (*domain.Session, error) {
	if sid == "" {
		return nil, nil
	}
	row, err := s.Sessions.Get(sid)
	if err != nil || row == nil {
		return nil, err
	}
	sess := &domain.Session{SID: row.SID, Token: row.Token, Username: row.Username}
	var roles []string
	if err := json.Unmarshal([]byte(row.RolesJSON), &roles); err != nil {
		log.Printf("[session] corrupted roles for sid=%s, clearing: %v", sid, err)
		_ = s.Sessions.ClearRoles(sid)
		roles = nil
	}
	sess.Roles = roles
	return sess, nil
}

// SaveLogin stores the three slots returned by a successful login.
func (s *SessionService) SaveLogin(sid, token, username string, roles []string) error {
	if roles == nil {
		roles = []string{}
	}
	b, err := json.Marshal(roles)
	if err != nil {
		return err
	}
	return s.Sessions.Put(sid, token, username, string(b))
}

func (s *SessionService) Rename(sid, username string) error {
	return s.Sessions.SetUsername(sid, username)
}

// Clear destroys the session. Used on logout and, centrally, by the request
// wrapper when the API answers 401.
func (s *SessionService) Clear(sid string) error {
	return s.Sessions.Delete(sid)
}
