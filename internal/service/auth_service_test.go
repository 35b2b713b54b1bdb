package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dynotest/internal/apperr"
	"dynotest/internal/auth"
	"dynotest/internal/models"
	"dynotest/internal/state"
)

type fakeUserRepo struct {
	users []models.User
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = int64(len(f.users) + 1)
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id int64) (*models.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (f *fakeUserRepo) FindByNim(_ context.Context, nim string) (*models.User, error) {
	for i := range f.users {
		if f.users[i].Nim == nim {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (f *fakeUserRepo) ExistsByNim(_ context.Context, nim string) (bool, error) {
	for i := range f.users {
		if f.users[i].Nim == nim {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) List(_ context.Context, _ int) ([]models.User, error) {
	return f.users, nil
}

func (f *fakeUserRepo) Update(_ context.Context, id int64, update models.UserUpdate) error {
	for i := range f.users {
		if f.users[i].ID != id {
			continue
		}
		if update.Name != nil {
			f.users[i].Name = *update.Name
		}
		if update.Password != nil {
			f.users[i].Password = *update.Password
		}
		if update.Role != nil {
			f.users[i].Role = *update.Role
		}
		if update.Email != nil {
			f.users[i].Email = update.Email
		}
		return nil
	}
	return apperr.NotFound("user not found")
}

func (f *fakeUserRepo) Delete(_ context.Context, id int64) error {
	for i := range f.users {
		if f.users[i].ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("user not found")
}

func (f *fakeUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

type fakeHistoryRepo struct {
	rows []models.History
}

func (f *fakeHistoryRepo) Create(_ context.Context, history *models.History) error {
	history.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, *history)
	return nil
}

func (f *fakeHistoryRepo) ListByUser(_ context.Context, userID int64, _ int) ([]models.History, error) {
	var out []models.History
	for _, h := range f.rows {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeHistoryRepo) ListAll(_ context.Context, _ int) ([]models.History, error) {
	return f.rows, nil
}

func (f *fakeHistoryRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.rows)), nil
}

func newAuthFixture(t *testing.T) (AuthService, *fakeUserRepo, *fakeHistoryRepo, *state.ActiveSession) {
	t.Helper()
	tokens, err := auth.NewTokens("auth-service-test", time.Hour)
	require.NoError(t, err)
	users := &fakeUserRepo{}
	histories := &fakeHistoryRepo{}
	active := state.NewActiveSession()
	return NewAuthService(users, histories, tokens, active), users, histories, active
}

func register(t *testing.T, svc AuthService, nim string) {
	t.Helper()
	_, err := svc.Register(context.Background(), models.UserRegistration{
		Nim:      nim,
		Email:    nim + "@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
}

func TestRegisterNeverGrantsAdmin(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), models.UserRegistration{
		Nim:      "e32201406",
		Email:    "a@example.com",
		Password: "password123",
		Role:     models.RoleAdmin,
	})
	require.NoError(t, err)

	require.Len(t, users.users, 1)
	assert.Equal(t, models.RoleUser, users.users[0].Role)
	assert.NotEqual(t, "password123", users.users[0].Password, "password must be stored hashed")
}

func TestRegisterDuplicateNim(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	register(t, svc, "e32201406")

	_, err := svc.Register(context.Background(), models.UserRegistration{
		Nim:      "e32201406",
		Email:    "b@example.com",
		Password: "password123",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)
	register(t, svc, "e32201406")

	result, err := svc.Login(context.Background(), models.UserLogin{
		Nim:      "e32201406",
		Password: "password123",
	}, "Mozilla/5.0")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, users.users[0].UUID, result.User.UUID)
}

func TestLoginDoesNotRevealWhichCheckFailed(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	register(t, svc, "e32201406")

	_, errNoUser := svc.Login(context.Background(), models.UserLogin{Nim: "ghost", Password: "password123"}, "")
	_, errBadPass := svc.Login(context.Background(), models.UserLogin{Nim: "e32201406", Password: "wrong!!!"}, "")

	require.Error(t, errNoUser)
	require.Error(t, errBadPass)
	assert.Equal(t, apperr.From(errNoUser).Message(), apperr.From(errBadPass).Message())
	assert.True(t, apperr.IsKind(errNoUser, apperr.KindUnauthorized))
	assert.True(t, apperr.IsKind(errBadPass, apperr.KindUnauthorized))
}

func TestDesktopLoginClaimsActiveSlot(t *testing.T) {
	svc, _, _, active := newAuthFixture(t)
	register(t, svc, "e32201406")

	_, err := svc.Login(context.Background(), models.UserLogin{
		Nim:      "e32201406",
		Password: "password123",
	}, "Dyno/Desktop 1.4.0")
	require.NoError(t, err)

	current := active.Get()
	require.NotNil(t, current)
	assert.Equal(t, int64(1), current.User.ID)
}

func TestBrowserLoginLeavesSlotAlone(t *testing.T) {
	svc, _, _, active := newAuthFixture(t)
	register(t, svc, "e32201406")

	_, err := svc.Login(context.Background(), models.UserLogin{
		Nim:      "e32201406",
		Password: "password123",
	}, "Mozilla/5.0 (X11; Linux x86_64)")
	require.NoError(t, err)
	assert.Nil(t, active.Get())
}

func TestDesktopLogoutReleasesSlotAndRecordsHistory(t *testing.T) {
	svc, _, histories, active := newAuthFixture(t)
	register(t, svc, "e32201406")

	_, err := svc.Login(context.Background(), models.UserLogin{
		Nim:      "e32201406",
		Password: "password123",
	}, "Dyno/Desktop 1.4.0")
	require.NoError(t, err)

	session := models.UserSession{ID: 1, UUID: active.Get().User.UUID, Role: models.RoleUser}
	require.NoError(t, svc.Logout(context.Background(), session, "Dyno/Desktop 1.4.0"))

	assert.Nil(t, active.Get())
	require.Len(t, histories.rows, 1)
	assert.Equal(t, session.ID, histories.rows[0].UserID)
}

func TestBrowserLogoutDoesNotTouchSlot(t *testing.T) {
	svc, _, histories, active := newAuthFixture(t)
	register(t, svc, "e32201406")

	_, err := svc.Login(context.Background(), models.UserLogin{
		Nim:      "e32201406",
		Password: "password123",
	}, "Dyno/Desktop 1.4.0")
	require.NoError(t, err)

	session := models.UserSession{ID: 1, Role: models.RoleUser}
	require.NoError(t, svc.Logout(context.Background(), session, "Mozilla/5.0"))

	assert.NotNil(t, active.Get(), "a browser logout must not release the rig slot")
	assert.Empty(t, histories.rows)
}

func TestLogoutByNonHolderIsNoop(t *testing.T) {
	svc, _, histories, active := newAuthFixture(t)
	register(t, svc, "e32201406")

	_, err := svc.Login(context.Background(), models.UserLogin{
		Nim:      "e32201406",
		Password: "password123",
	}, "Dyno/Desktop 1.4.0")
	require.NoError(t, err)

	other := models.UserSession{ID: 42, Role: models.RoleUser}
	require.NoError(t, svc.Logout(context.Background(), other, "Dyno/Desktop 1.4.0"))

	assert.NotNil(t, active.Get(), "only the holder may release the slot")
	assert.Empty(t, histories.rows)
}
