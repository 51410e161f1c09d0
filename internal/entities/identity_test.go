package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSession_Valid(t *testing.T) {
	now := time.Now()
	session := Session{ExpiresAt: now.Add(time.Hour)}

	assert.True(t, session.Valid(now))
	assert.False(t, session.Valid(now.Add(2*time.Hour)))
	assert.False(t, session.Valid(session.ExpiresAt))
}

func TestSession_Refreshable(t *testing.T) {
	assert.True(t, (&Session{RefreshToken: "r1"}).Refreshable())
	assert.False(t, (&Session{}).Refreshable())
}
