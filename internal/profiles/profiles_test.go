package profiles

import (
	"context"
	"errors"
	"testing"

	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/gateway"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/gateway/gatewaytest"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchMissingProfileIsEmpty(t *testing.T) {
	s := NewService(gatewaytest.New())

	p, err := s.Fetch(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, models.Profile{ID: "u1"}, p)
}

func TestSaveThenFetch(t *testing.T) {
	gw := gatewaytest.New()
	s := NewService(gw)
	ctx := context.Background()

	_, err := s.Save(ctx, "u1", models.Profile{FirstName: "Amina", Phone: "0803", BustSize: "36"})
	require.NoError(t, err)
	_, err = s.Save(ctx, "u1", models.Profile{FirstName: "Amina", Phone: "0805", Address: "Kano"})
	require.NoError(t, err)

	assert.Len(t, gw.Rows("profiles"), 1, "upsert on id keeps a single row")

	p, err := s.Fetch(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "0805", p.Phone)
	assert.Equal(t, "Kano", p.Address)
	assert.Empty(t, p.BustSize, "last write wins")
}

func TestSaveIgnoresClientID(t *testing.T) {
	gw := gatewaytest.New()
	s := NewService(gw)

	p, err := s.Save(context.Background(), "u1", models.Profile{ID: "someone-else", FirstName: "A"})
	require.NoError(t, err)
	assert.Equal(t, "u1", p.ID)
	assert.Equal(t, "u1", gw.Rows("profiles")[0]["id"])
}

func TestFailuresSurface(t *testing.T) {
	gw := gatewaytest.New()
	gw.FailSelect = errors.New("boom")
	gw.FailUpsert = errors.New("denied")
	s := NewService(gw)

	_, err := s.Fetch(context.Background(), "u1")
	var gerr *gateway.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "select", gerr.Op)

	_, err = s.Save(context.Background(), "u1", models.Profile{})
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "upsert", gerr.Op)
}

func TestMissingUser(t *testing.T) {
	s := NewService(gatewaytest.New())
	_, err := s.Fetch(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoUser)
	_, err = s.Save(context.Background(), "", models.Profile{})
	assert.ErrorIs(t, err, ErrNoUser)
}
