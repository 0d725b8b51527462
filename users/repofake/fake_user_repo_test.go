package fakeuserrepo_test

import (
	"testing"

	"github.com/jrsteele09/go-admin-session/internal/errors"
	"github.com/jrsteele09/go-admin-session/users"
	fakeuserrepo "github.com/jrsteele09/go-admin-session/users/repofake"
	"github.com/stretchr/testify/require"
)

func TestFakeUserRepo(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()

	u := &users.User{Email: "Jane@Example.com", Role: users.RoleCustomer}
	require.NoError(t, repo.Upsert(u))
	require.NotEmpty(t, u.ID)

	got, err := repo.GetByEmail("jane@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	require.NoError(t, repo.SetRole(u.ID, users.RoleDelivery))
	got, err = repo.GetByID(u.ID)
	require.NoError(t, err)
	require.Equal(t, users.RoleDelivery, got.Role)

	got.Role = users.RoleAdmin
	again, err := repo.GetByID(u.ID)
	require.NoError(t, err)
	require.Equal(t, users.RoleDelivery, again.Role, "returned users must be copies")

	list, err := repo.List()
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, repo.Delete(u.ID))
	_, err = repo.GetByID(u.ID)
	require.ErrorIs(t, err, errors.ErrNotFound)
	require.ErrorIs(t, repo.Delete(u.ID), errors.ErrNotFound)
	require.ErrorIs(t, repo.SetRole(u.ID, users.RoleAdmin), errors.ErrNotFound)
}
