package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-list-api/internal/models"
	"github.com/yukikurage/task-list-api/internal/repository"
	"github.com/yukikurage/task-list-api/internal/token"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthService_Register(t *testing.T) {
	env := setupTestEnv(t)

	user, err := env.authService.Register(context.Background(), RegisterInput{Email: " a@x.com ", Password: "pw1"})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "a@x.com", user.Email)
	assert.NotEqual(t, "pw1", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw1")))
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	env := setupTestEnv(t)
	env.registerUser(t, "a@x.com")

	_, err := env.authService.Register(context.Background(), RegisterInput{Email: "a@x.com", Password: "other"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Where("email = ?", "a@x.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAuthService_Register_EmailIsCaseSensitive(t *testing.T) {
	env := setupTestEnv(t)
	env.registerUser(t, "a@x.com")

	_, err := env.authService.Register(context.Background(), RegisterInput{Email: "A@x.com", Password: "pw"})
	assert.NoError(t, err)
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.authService.Register(context.Background(), RegisterInput{Email: "  ", Password: "pw"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.authService.Register(context.Background(), RegisterInput{Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAuthService_Register_PasswordByteLimit(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	// 40 characters, 80 bytes
	_, err := env.authService.Register(ctx, RegisterInput{Email: "a@x.com", Password: strings.Repeat("é", 40)})
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = env.authService.Register(ctx, RegisterInput{Email: "a@x.com", Password: strings.Repeat("é", 36)})
	assert.NoError(t, err)
}

func TestAuthService_Register_LostRaceMapsToConflict(t *testing.T) {
	repo := &racingUserRepo{}
	svc := NewAuthService(repo, token.NewIssuer([]byte("s"), 0)).WithHashCost(bcrypt.MinCost)

	_, err := svc.Register(context.Background(), RegisterInput{Email: "a@x.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_Login(t *testing.T) {
	env := setupTestEnv(t)
	user := env.registerUser(t, "a@x.com")

	result, err := env.authService.Login(context.Background(), LoginInput{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, user.ID, result.User.ID)

	userID, err := env.authService.VerifyToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	env := setupTestEnv(t)
	env.registerUser(t, "a@x.com")

	_, wrongPassword := env.authService.Login(context.Background(), LoginInput{Email: "a@x.com", Password: "nope"})
	_, unknownEmail := env.authService.Login(context.Background(), LoginInput{Email: "b@x.com", Password: "pw1"})

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthService_VerifyToken_Rejects(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.authService.VerifyToken("")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.ErrorIs(t, err, token.ErrMissing)

	_, err = env.authService.VerifyToken("garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.ErrorIs(t, err, token.ErrInvalid)
}

func TestAuthService_GetProfile(t *testing.T) {
	env := setupTestEnv(t)
	user := env.registerUser(t, "a@x.com")

	profile, err := env.authService.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", profile.Email)

	_, err = env.authService.GetProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_StoreFailureIsInternal(t *testing.T) {
	boom := errors.New("store down")
	svc := NewAuthService(&failingUserRepo{err: boom}, token.NewIssuer([]byte("s"), 0))

	_, err := svc.Login(context.Background(), LoginInput{Email: "a@x.com", Password: "pw"})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

// racingUserRepo reports no existing user but rejects the insert, as when
// another request registers the same email in between.
type racingUserRepo struct{}

func (racingUserRepo) Create(context.Context, *models.User) error { return repository.ErrDuplicate }
func (racingUserRepo) FindByID(context.Context, string) (*models.User, error) {
	return nil, repository.ErrNotFound
}
func (racingUserRepo) FindByEmail(context.Context, string) (*models.User, error) {
	return nil, repository.ErrNotFound
}

type failingUserRepo struct{ err error }

func (r *failingUserRepo) Create(context.Context, *models.User) error { return r.err }
func (r *failingUserRepo) FindByID(context.Context, string) (*models.User, error) {
	return nil, r.err
}
func (r *failingUserRepo) FindByEmail(context.Context, string) (*models.User, error) {
	return nil, r.err
}
