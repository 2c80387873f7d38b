package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
}

func (s *InMemoryStoreSuite) TestSaveAndLookup() {
	err := s.store.Save(context.Background(), Credentials{
		AccessToken:   "acc_1",
		RefreshToken:  "ref_1",
		IdentityToken: "id_1",
	})
	require.NoError(s.T(), err)

	access, err := s.store.AccessToken(context.Background())
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "acc_1", access)

	refresh, err := s.store.RefreshToken(context.Background())
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "ref_1", refresh)

	identity, err := s.store.IdentityToken(context.Background())
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "id_1", identity)
}

func (s *InMemoryStoreSuite) TestLookupNotFound() {
	_, err := s.store.AccessToken(context.Background())
	assert.ErrorIs(s.T(), err, ErrNotFound)

	_, err = s.store.RefreshToken(context.Background())
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *InMemoryStoreSuite) TestPartialSaveKeepsOtherSlots() {
	require.NoError(s.T(), s.store.Save(context.Background(), Credentials{
		AccessToken:  "acc_1",
		RefreshToken: "ref_1",
	}))

	// A renewal that did not rotate the refresh token saves only the access
	// token; the stored refresh token must survive.
	require.NoError(s.T(), s.store.Save(context.Background(), Credentials{AccessToken: "acc_2"}))

	access, err := s.store.AccessToken(context.Background())
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "acc_2", access)

	refresh, err := s.store.RefreshToken(context.Background())
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "ref_1", refresh)
}

func (s *InMemoryStoreSuite) TestClearIsIdempotent() {
	require.NoError(s.T(), s.store.Save(context.Background(), Credentials{AccessToken: "acc_1"}))

	require.NoError(s.T(), s.store.Clear(context.Background()))
	require.NoError(s.T(), s.store.Clear(context.Background()))

	_, err := s.store.AccessToken(context.Background())
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *InMemoryStoreSuite) TestBootstrap() {
	_, err := s.store.Bootstrap(context.Background())
	assert.ErrorIs(s.T(), err, ErrNotFound)

	require.NoError(s.T(), s.store.Save(context.Background(), Credentials{AccessToken: "acc_1"}))

	token, err := s.store.Bootstrap(context.Background())
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "acc_1", token)
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}
