package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auctionhouse/internal/model"
)

func TestUserRepository_UpsertByExternalID(t *testing.T) {
	gormDB := newTestDB(t)
	repo := NewUserRepository(gormDB)

	created, err := repo.UpsertByExternalID(t.Context(), "user_2abc", "Ada")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "Ada", created.Name)

	// Same identity keeps its id and refreshes the display name.
	updated, err := repo.UpsertByExternalID(t.Context(), "user_2abc", "Ada L.")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Ada L.", updated.Name)

	var count int64
	require.NoError(t, gormDB.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	other, err := repo.UpsertByExternalID(t.Context(), "user_9xyz", "Bob")
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, other.ID)
}

func TestUserRepository_FindByIDs(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	ada, err := repo.UpsertByExternalID(t.Context(), "user_1", "Ada")
	require.NoError(t, err)
	bob, err := repo.UpsertByExternalID(t.Context(), "user_2", "Bob")
	require.NoError(t, err)

	users, err := repo.FindByIDs(t.Context(), []uuid.UUID{ada.ID, bob.ID, uuid.New()})
	require.NoError(t, err)
	names := map[uuid.UUID]string{}
	for _, u := range users {
		names[u.ID] = u.Name
	}
	assert.Equal(t, map[uuid.UUID]string{ada.ID: "Ada", bob.ID: "Bob"}, names)

	users, err = repo.FindByIDs(t.Context(), nil)
	require.NoError(t, err)
	assert.Empty(t, users)
}
