// Package auth identifies the operator (planner or service account) behind a
// request. Operators hold a Redis-backed session; the operator id is carried
// through the request context and stamped onto emitted events.
//
// Session keys should be 32 or 64 bytes for HMAC authentication and 16, 24
// or 32 bytes for AES encryption:
//
//	openssl rand -base64 32
package auth

import (
	"bytes"
	"context"
	"encoding/base32"
	"encoding/gob"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "mrpcapacity:session:"
	// sessionMaxAge covers one planning shift.
	sessionMaxAge = 12 * 60 * 60
)

var sessionIDEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// RedisStore is a sessions.Store keeping session values in Redis under
// "mrpcapacity:session:<id>". The cookie only carries the signed and
// encrypted id. Each successful load slides the key's expiry forward, so an
// operator active through a shift is not logged out mid-plan.
type RedisStore struct {
	client  *redis.Client
	codecs  []securecookie.Codec
	options sessions.Options
}

// NewSessionStore creates a Redis-backed session store. secureCookie should be
// true whenever the API is served over HTTPS.
func NewSessionStore(client *redis.Client, authKey, encryptionKey []byte, secureCookie bool) *RedisStore {
	return &RedisStore{
		client: client,
		codecs: securecookie.CodecsFromPairs(authKey, encryptionKey),
		options: sessions.Options{
			Path:     "/",
			MaxAge:   sessionMaxAge,
			HttpOnly: true,
			Secure:   secureCookie,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

func (s *RedisStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New returns the session named by the request cookie. A missing, forged or
// expired cookie yields a fresh session; only a Redis failure is an error.
func (s *RedisStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := s.options
	session.Options = &opts
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	var id string
	if err := securecookie.DecodeMulti(name, c.Value, &id, s.codecs...); err != nil {
		return session, nil
	}

	values, err := s.load(r.Context(), id, opts.MaxAge)
	switch {
	case errors.Is(err, redis.Nil):
		return session, nil
	case err != nil:
		return session, err
	}
	session.ID = id
	session.Values = values
	session.IsNew = false
	return session, nil
}

// Save writes the session to Redis and sets the cookie. A negative MaxAge
// deletes both.
func (s *RedisStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.client.Del(r.Context(), sessionKey(session.ID)).Err(); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = newSessionID()
	}
	if err := s.store(r.Context(), session); err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.codecs...)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

func (s *RedisStore) store(ctx context.Context, session *sessions.Session) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(session.Values); err != nil {
		return fmt.Errorf("encode session values: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(session.ID), buf.Bytes(), maxAge(session.Options.MaxAge)).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// load reads the session values and refreshes their TTL in one round trip.
// It returns redis.Nil when the key is gone.
func (s *RedisStore) load(ctx context.Context, id string, age int) (map[any]any, error) {
	data, err := s.client.GetEx(ctx, sessionKey(id), maxAge(age)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, err
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	values := make(map[any]any)
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&values); err != nil {
		return nil, fmt.Errorf("decode session values: %w", err)
	}
	return values, nil
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func maxAge(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}

func newSessionID() string {
	return sessionIDEncoding.EncodeToString(securecookie.GenerateRandomKey(32))
}

// StartOperatorSession records operatorID in a fresh session and writes the
// session cookie. Any previous session of the same browser is replaced.
func StartOperatorSession(w http.ResponseWriter, r *http.Request, store sessions.Store, operatorID string) error {
	session, err := store.New(r, SessionName)
	if err != nil {
		return fmt.Errorf("new session: %w", err)
	}
	session.Values[SessionOperatorKey] = operatorID
	return session.Save(r, w)
}

// EndOperatorSession deletes the session and expires its cookie.
func EndOperatorSession(w http.ResponseWriter, r *http.Request, store sessions.Store) error {
	session, err := store.Get(r, SessionName)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
