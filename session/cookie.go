package session

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/eringen/pubadmin/model"
)

const (
	keyToken    = "token"
	keyUsername = "username"
)

// CookieStore keeps the session in a signed gorilla/sessions cookie bound to
// one request/response pair.
type CookieStore struct {
	get func() (*sessions.Session, error)
	r   *http.Request
	w   http.ResponseWriter
}

// FromSession wraps a session already resolved by a middleware, such as
// echo-contrib's session.Get.
func FromSession(get func() (*sessions.Session, error), r *http.Request, w http.ResponseWriter) *CookieStore {
	return &CookieStore{get: get, r: r, w: w}
}

func (c *CookieStore) session() (*sessions.Session, error) {
	if c.get == nil {
		return nil, ErrNoSession
	}
	sess, err := c.session()
	if sess == nil && err == nil {
		err = ErrNoSession
	}
	return sess, err
}

func (c *CookieStore) Load() (model.Session, bool) {
	sess, err := c.session()
	if err != nil {
		logger.Debugf("load cookie session: %v", err)
		return model.Session{}, false
	}
	token, _ := sess.Values[keyToken].(string)
	if token == "" {
		return model.Session{}, false
	}
	username, _ := sess.Values[keyUsername].(string)
	return model.Session{Token: token, Username: username}, true
}

func (c *CookieStore) Save(s model.Session) error {
	sess, err := c.session()
	if err != nil && sess == nil {
		return err
	}
	sess.Values[keyToken] = s.Token
	sess.Values[keyUsername] = s.Username
	return sess.Save(c.r, c.w)
}

func (c *CookieStore) Clear() error {
	sess, err := c.session()
	if err != nil && sess == nil {
		return err
	}
	delete(sess.Values, keyToken)
	delete(sess.Values, keyUsername)
	if sess.Options == nil {
		sess.Options = &sessions.Options{Path: "/"}
	}
	sess.Options.MaxAge = -1
	return sess.Save(c.r, c.w)
}
