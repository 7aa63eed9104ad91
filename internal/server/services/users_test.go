package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/odsregistry/internal/common"
	"github.com/dmitrijs2005/odsregistry/internal/server/auth"
	"github.com/dmitrijs2005/odsregistry/internal/server/models"
)

func newUserService(t *testing.T, u *fakeUsersRepo) *UserService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	t.Cleanup(func() { _ = db.Close() })
	return NewUserService(db, &fakeRepoManager{u: u}, testConfig())
}

func TestRegister_Success(t *testing.T) {
	repo := &fakeUsersRepo{}
	s := newUserService(t, repo)

	u, err := s.Register(context.Background(), "a@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "a@x.com", u.Email)

	require.Len(t, repo.created, 1)
	assert.NotEqual(t, "pw", repo.created[0].PasswordHash)
	ok, err := auth.CheckPassword("pw", repo.created[0].PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegister_EmailTaken(t *testing.T) {
	repo := &fakeUsersRepo{byEmail: map[string]*models.User{"a@x.com": {ID: 1, Email: "a@x.com"}}}
	s := newUserService(t, repo)

	_, err := s.Register(context.Background(), "a@x.com", "pw")
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
	assert.Empty(t, repo.created)
}

func TestRegister_LostRaceOnInsert(t *testing.T) {
	repo := &fakeUsersRepo{createErr: common.ErrAlreadyExists}
	s := newUserService(t, repo)

	_, err := s.Register(context.Background(), "a@x.com", "pw")
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestRegister_LookupError(t *testing.T) {
	s := newUserService(t, &fakeUsersRepo{getErr: errBoom{}})

	_, err := s.Register(context.Background(), "a@x.com", "pw")
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`error searching user: .*boom`), err.Error())
	assert.False(t, errors.Is(err, common.ErrAlreadyExists))
}

func TestRegister_CreateError(t *testing.T) {
	s := newUserService(t, &fakeUsersRepo{createErr: errBoom{}})

	_, err := s.Register(context.Background(), "a@x.com", "pw")
	require.Error(t, err)
	assert.Regexp(t, `error creating user: .*boom`, err.Error())
}

func TestRegister_HashFailureIsInternal(t *testing.T) {
	repo := &fakeUsersRepo{}
	s := newUserService(t, repo)

	_, err := s.Register(context.Background(), "a@x.com", strings.Repeat("p", 73))
	assert.ErrorIs(t, err, common.ErrorInternal)
	assert.Contains(t, err.Error(), "hash password")
	assert.Empty(t, repo.created)
}

func storedUser(t *testing.T, email, password string) *models.User {
	t.Helper()
	h, err := auth.HashPassword(password)
	require.NoError(t, err)
	return &models.User{ID: 7, Email: email, PasswordHash: h}
}

func TestLogin(t *testing.T) {
	known := storedUser(t, "a@x.com", "right")

	tests := []struct {
		name     string
		repo     *fakeUsersRepo
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "success",
			repo:     &fakeUsersRepo{byEmail: map[string]*models.User{"a@x.com": known}},
			email:    "a@x.com",
			password: "right",
		},
		{
			name:     "wrong password",
			repo:     &fakeUsersRepo{byEmail: map[string]*models.User{"a@x.com": known}},
			email:    "a@x.com",
			password: "wrong",
			wantErr:  common.ErrorUnauthorized,
		},
		{
			name:     "unknown email",
			repo:     &fakeUsersRepo{},
			email:    "nobody@x.com",
			password: "right",
			wantErr:  common.ErrorNotFound,
		},
		{
			name:     "corrupt hash",
			repo:     &fakeUsersRepo{byEmail: map[string]*models.User{"a@x.com": {ID: 7, Email: "a@x.com", PasswordHash: "plain"}}},
			email:    "a@x.com",
			password: "plain",
			wantErr:  common.ErrorInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newUserService(t, tt.repo)
			u, err := s.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, u)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(7), u.ID)
		})
	}
}

func TestLogin_LookupError(t *testing.T) {
	s := newUserService(t, &fakeUsersRepo{getErr: errBoom{}})

	_, err := s.Login(context.Background(), "a@x.com", "pw")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
	assert.NotErrorIs(t, err, common.ErrorInternal)
	assert.Contains(t, err.Error(), "error searching user")
}
