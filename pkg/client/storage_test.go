package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileStorage_SessionRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewFileStorage(path)

	token, user, err := s.GetSession()
	assert.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, user)

	assert.NoError(t, s.SetSession("tok-1", &User{ID: "u1", Email: "admin@homestay.com"}))

	// A second instance over the same file sees the session: it survived the
	// process boundary.
	reopened := NewFileStorage(path)
	token, user, err = reopened.GetSession()
	assert.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.Equal(t, "admin@homestay.com", user.Email)

	assert.NoError(t, reopened.ClearSession())
	token, user, err = reopened.GetSession()
	assert.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, user)
}

func TestFileStorage_HistorySurvivesLogout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewFileStorage(path)

	assert.NoError(t, s.SetSession("tok-1", &User{ID: "u1"}))
	assert.NoError(t, s.SetHistory([]string{"phòng đôi", "phòng đơn"}))

	assert.NoError(t, s.ClearSession())

	history, err := s.GetHistory()
	assert.NoError(t, err)
	assert.Equal(t, []string{"phòng đôi", "phòng đơn"}, history)
}

func TestFileStorage_Preferences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewFileStorage(path)

	prefs, err := s.GetPreferences()
	assert.NoError(t, err)
	assert.Empty(t, prefs)

	assert.NoError(t, s.SetPreferences(map[string]string{"currency": "VND"}))
	prefs, err = s.GetPreferences()
	assert.NoError(t, err)
	assert.Equal(t, "VND", prefs["currency"])
}

func TestFileStorage_CorruptFileRecovers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewFileStorage(path)
	assert.NoError(t, s.SetSession("tok-1", &User{ID: "u1"}))

	// Clobber the file; reads degrade to empty state and writes recover it.
	assert.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	token, user, err := s.GetSession()
	assert.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, user)

	assert.NoError(t, s.SetSession("tok-2", &User{ID: "u2"}))
	token, _, err = s.GetSession()
	assert.NoError(t, err)
	assert.Equal(t, "tok-2", token)
}
