package models_test

import (
	"strings"
	"testing"
	"time"

	"warbler/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMessageString(t *testing.T) {
	m := models.Message{ID: 3, Text: "hello world", UserID: 9}
	assert.Equal(t, "<Message_id: 3: hello world, user_id: 9>", m.String())
}

func TestCreateMessage(t *testing.T) {
	db := setupDB(t)
	u := signup(t, db, user1)

	before := time.Now().Add(-time.Second)
	m, err := models.CreateMessage(db, u, "first warble")
	require.NoError(t, err)

	assert.NotZero(t, m.ID)
	assert.Equal(t, u.ID, m.UserID)
	assert.True(t, m.Timestamp.After(before))

	n, err := u.MessageCount(db)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := models.GetMessage(db, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "first warble", got.Text)
	require.NotNil(t, got.User)
	assert.Equal(t, u.Username, got.User.Username)
}

func TestCreateMessageValidation(t *testing.T) {
	db := setupDB(t)
	u := signup(t, db, user1)

	_, err := models.CreateMessage(db, u, strings.Repeat("a", 140))
	require.NoError(t, err)

	_, err = models.CreateMessage(db, u, strings.Repeat("a", 141))
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = models.CreateMessage(db, u, "")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = models.CreateMessage(db, &models.User{}, "no author")
	assert.ErrorIs(t, err, models.ErrValidation)

	assert.EqualValues(t, 1, count(t, db, &models.Message{}))
}

func TestCreateMessageUnknownAuthor(t *testing.T) {
	db := setupDB(t)

	_, err := models.CreateMessage(db, &models.User{ID: 9999}, "orphan")
	assert.ErrorIs(t, err, models.ErrIntegrity)
	assert.Zero(t, count(t, db, &models.Message{}))
}

func TestDeleteMessage(t *testing.T) {
	db := setupDB(t)
	u1 := signup(t, db, user1)
	u2 := signup(t, db, user2)

	m, err := models.CreateMessage(db, u1, "mine")
	require.NoError(t, err)

	assert.ErrorIs(t, models.DeleteMessage(db, u2, m.ID), models.ErrNotFound)
	require.NoError(t, models.DeleteMessage(db, u1, m.ID))

	_, err = models.GetMessage(db, m.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, models.DeleteMessage(db, u1, m.ID), models.ErrNotFound)
}

func postAt(t *testing.T, db *gorm.DB, u *models.User, text string, at time.Time) *models.Message {
	t.Helper()
	m := &models.Message{Text: text, UserID: u.ID, Timestamp: at}
	require.NoError(t, db.Create(m).Error)
	return m
}

func texts(msgs []models.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Text
	}
	return out
}

func TestUserMessages(t *testing.T) {
	db := setupDB(t)
	u1 := signup(t, db, user1)
	u2 := signup(t, db, user2)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	postAt(t, db, u1, "old", base)
	postAt(t, db, u1, "new", base.Add(time.Hour))
	postAt(t, db, u2, "other", base.Add(2*time.Hour))

	msgs, err := models.UserMessages(db, u1, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "old"}, texts(msgs))

	msgs, err = models.UserMessages(db, u1, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, texts(msgs))
}

func TestTimeline(t *testing.T) {
	db := setupDB(t)
	u1 := signup(t, db, user1)
	u2 := signup(t, db, user2)
	u3 := signup(t, db, map[string]string{"email": "test3@test.com", "username": "testuser3", "password": "pw"})

	require.NoError(t, models.Follow(db, u1, u2))

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	postAt(t, db, u1, "own", base)
	postAt(t, db, u2, "followed", base.Add(time.Minute))
	postAt(t, db, u3, "stranger", base.Add(2*time.Minute))
	postAt(t, db, u2, "followed again", base.Add(3*time.Minute))

	msgs, err := models.Timeline(db, u1, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"followed again", "followed", "own"}, texts(msgs))
	require.NotNil(t, msgs[0].User)
	assert.Equal(t, "testuser2", msgs[0].User.Username)

	msgs, err = models.Timeline(db, u1, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"followed again", "followed"}, texts(msgs))

	// u2 follows nobody, so only their own messages show.
	msgs, err = models.Timeline(db, u2, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"followed again", "followed"}, texts(msgs))
}
