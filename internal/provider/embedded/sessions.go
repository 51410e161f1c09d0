package embedded

import (
	"bytes"
	"database/sql"
	"encoding/gob"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Key prefixes keep access and refresh lookups in one token-keyed store.
const (
	accessKeyPrefix  = "a:"
	refreshKeyPrefix = "r:"
)

// sessionRecord is what the store holds for one issued session. ExpiresAt is
// the access-token expiry; the row itself lives until the refresh window
// closes so an expired-but-refreshable session stays findable.
type sessionRecord struct {
	AccessToken  string
	RefreshToken string
	IdentityID   string
	Email        string
	IssuedAt     time.Time
	ExpiresAt    time.Time
}

// sessionStore persists session records in the sessions table via the scs
// SQLite store. Each session occupies two rows, one per token, so both the
// gateway (access) and the refresh path (refresh) can look it up directly.
type sessionStore struct {
	store scs.Store
	db    *sql.DB
}

func newSessionStore(db *sql.DB, cleanupInterval time.Duration) (*sessionStore, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	var store scs.Store
	if cleanupInterval > 0 {
		store = sqlite3store.NewWithCleanupInterval(db, cleanupInterval)
	} else {
		store = sqlite3store.New(db)
	}

	return &sessionStore{store: store, db: db}, nil
}

func (s *sessionStore) save(rec sessionRecord, retainUntil time.Time) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
		return err
	}
	data := buf.Bytes()

	if err := s.store.Commit(accessKeyPrefix+rec.AccessToken, data, retainUntil); err != nil {
		return err
	}
	return s.store.Commit(refreshKeyPrefix+rec.RefreshToken, data, retainUntil)
}

func (s *sessionStore) findByAccess(accessToken string) (sessionRecord, bool, error) {
	return s.find(accessKeyPrefix + accessToken)
}

func (s *sessionStore) findByRefresh(refreshToken string) (sessionRecord, bool, error) {
	return s.find(refreshKeyPrefix + refreshToken)
}

func (s *sessionStore) find(key string) (sessionRecord, bool, error) {
	data, found, err := s.store.Find(key)
	if err != nil || !found {
		return sessionRecord{}, false, err
	}

	var rec sessionRecord
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&rec); err != nil {
		return sessionRecord{}, false, err
	}
	return rec, true, nil
}

// delete removes both rows of a session.
func (s *sessionStore) delete(rec sessionRecord) error {
	if err := s.store.Delete(accessKeyPrefix + rec.AccessToken); err != nil {
		return err
	}
	return s.store.Delete(refreshKeyPrefix + rec.RefreshToken)
}

// purgeExpired deletes rows past their retention expiry. The scs store runs
// its own periodic cleanup; this exists for the explicit cleanup task.
func (s *sessionStore) purgeExpired() (int64, error) {
	res, err := s.db.Exec("DELETE FROM sessions WHERE expiry < julianday('now')")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
