package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/account-service/internal/models"
	"github.com/pribylovaa/account-service/internal/storage"
)

func registerInput() RegisterInput {
	return RegisterInput{
		Email:    "New@X.com",
		Password: "Abcdef1!",
		Name:     "Lee",
		Nickname: "lee",
		Phone:    "01099998888",
		Birthday: time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
		Address:  AddressInput{LocalAddress: "Busan", ExtraAddress: "3F", LocalCode: 48000},
	}
}

func TestRegister_OK(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testCfg(), nil)

	h.st.EXPECT().UserByEmail(gomock.Any(), "new@x.com").Return(nil, storage.ErrNotFound)
	h.st.EXPECT().UserByNickname(gomock.Any(), "lee").Return(nil, storage.ErrNotFound)
	h.st.EXPECT().CreateAccount(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u *models.User, a *models.Address) error {
			require.Equal(t, "new@x.com", u.Email)
			require.Equal(t, models.StatusActive, u.Status)
			require.NotEqual(t, "Abcdef1!", u.PasswordHash)
			require.True(t, h.svc.hasher.Matches(u.PasswordHash, "Abcdef1!"))
			require.Equal(t, u.ID, a.UserID)
			require.True(t, a.IsDefault)
			require.Equal(t, 48000, a.LocalCode)
			return nil
		})

	u, err := h.svc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, u.ID)
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testCfg(), nil)
	ctx := context.Background()

	in := registerInput()
	in.Email = "nope"
	_, err := h.svc.Register(ctx, in)
	require.ErrorIs(t, err, ErrInvalidEmail)

	in = registerInput()
	in.Password = "weak"
	_, err = h.svc.Register(ctx, in)
	require.ErrorIs(t, err, ErrWeakPassword)

	in = registerInput()
	in.Address.LocalAddress = ""
	_, err = h.svc.Register(ctx, in)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestRegister_Taken(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testCfg(), nil)
	ctx := context.Background()

	h.st.EXPECT().UserByEmail(gomock.Any(), "new@x.com").Return(&models.User{}, nil)
	_, err := h.svc.Register(ctx, registerInput())
	require.ErrorIs(t, err, ErrEmailTaken)

	h.st.EXPECT().UserByEmail(gomock.Any(), "new@x.com").Return(nil, storage.ErrNotFound)
	h.st.EXPECT().UserByNickname(gomock.Any(), "lee").Return(&models.User{}, nil)
	_, err = h.svc.Register(ctx, registerInput())
	require.ErrorIs(t, err, ErrNicknameTaken)
}

func TestRegister_RaceOnUniqueConstraint(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testCfg(), nil)

	h.st.EXPECT().UserByEmail(gomock.Any(), gomock.Any()).Return(nil, storage.ErrNotFound)
	h.st.EXPECT().UserByNickname(gomock.Any(), gomock.Any()).Return(nil, storage.ErrNotFound)
	h.st.EXPECT().CreateAccount(gomock.Any(), gomock.Any(), gomock.Any()).Return(storage.ErrDuplicateEmail)

	_, err := h.svc.Register(context.Background(), registerInput())
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestEmailExists_StoreError(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testCfg(), nil)
	boom := errors.New("db down")
	h.st.EXPECT().UserByEmail(gomock.Any(), "a@x.com").Return(nil, boom)

	_, err := h.svc.EmailExists(context.Background(), " A@x.com ")
	require.ErrorIs(t, err, boom)
}

func TestFindEmail(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testCfg(), nil)
	ctx := context.Background()
	u := h.user(t, "a@x.com", models.StatusActive)

	h.st.EXPECT().UserByPhone(gomock.Any(), u.Phone).Return(u, nil)
	email, err := h.svc.FindEmail(ctx, "Kim", u.Phone)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", email)

	h.st.EXPECT().UserByPhone(gomock.Any(), u.Phone).Return(u, nil)
	_, err = h.svc.FindEmail(ctx, "Park", u.Phone)
	require.ErrorIs(t, err, ErrUserNotFound)

	gone := *u
	gone.Status = models.StatusWithdrawn
	h.st.EXPECT().UserByPhone(gomock.Any(), u.Phone).Return(&gone, nil)
	_, err = h.svc.FindEmail(ctx, "Kim", u.Phone)
	require.ErrorIs(t, err, ErrUserNotFound)

	h.st.EXPECT().UserByPhone(gomock.Any(), "000").Return(nil, storage.ErrNotFound)
	_, err = h.svc.FindEmail(ctx, "Kim", "000")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestCheckNameEmail(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testCfg(), nil)
	ctx := context.Background()
	u := h.user(t, "a@x.com", models.StatusActive)

	h.st.EXPECT().UserByEmail(gomock.Any(), "a@x.com").Return(u, nil)
	ok, err := h.svc.CheckNameEmail(ctx, "Kim", "a@x.com")
	require.NoError(t, err)
	require.True(t, ok)

	h.st.EXPECT().UserByEmail(gomock.Any(), "a@x.com").Return(u, nil)
	ok, err = h.svc.CheckNameEmail(ctx, "Park", "a@x.com")
	require.NoError(t, err)
	require.False(t, ok)

	h.st.EXPECT().UserByEmail(gomock.Any(), "b@x.com").Return(nil, storage.ErrNotFound)
	ok, err = h.svc.CheckNameEmail(ctx, "Kim", "b@x.com")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestChangePassword_DropsSession(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testCfg(), nil)
	ctx := context.Background()
	u := h.user(t, "a@x.com", models.StatusActive)
	res := login(t, h, u)

	h.st.EXPECT().UserByEmail(gomock.Any(), "a@x.com").Return(u, nil)
	h.st.EXPECT().UpdatePassword(gomock.Any(), u.ID, gomock.Any(), h.clock.t).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, hash string, _ time.Time) error {
			require.True(t, h.svc.hasher.Matches(hash, "N3w-secret"))
			return nil
		})

	require.NoError(t, h.svc.ChangePassword(ctx, "a@x.com", "N3w-secret"))

	_, err := h.svc.Refresh(ctx, res.RefreshToken)
	require.ErrorIs(t, err, ErrTokenRevoked)

	require.ErrorIs(t, h.svc.ChangePassword(ctx, "a@x.com", "weak"), ErrWeakPassword)
}

func TestCheckPassword(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testCfg(), nil)
	ctx := context.Background()
	u := h.user(t, "a@x.com", models.StatusActive)

	h.st.EXPECT().UserByEmail(gomock.Any(), "a@x.com").Return(u, nil).Times(2)

	ok, err := h.svc.CheckPassword(ctx, "a@x.com", testPassword)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = h.svc.CheckPassword(ctx, "a@x.com", "nope")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testCfg(), nil)
	ctx := context.Background()
	u := h.user(t, "a@x.com", models.StatusActive)

	upd := models.ProfileUpdate{Name: "Kim J", Nickname: "kimj", Phone: "01000000000"}

	h.st.EXPECT().UserByEmail(gomock.Any(), "a@x.com").Return(u, nil)
	h.st.EXPECT().UserByNickname(gomock.Any(), "kimj").Return(nil, storage.ErrNotFound)
	h.st.EXPECT().UpdateProfile(gomock.Any(), u.ID, upd, h.clock.t).Return(nil)

	got, err := h.svc.UpdateProfile(ctx, "a@x.com", upd)
	require.NoError(t, err)
	require.Equal(t, "kimj", got.Nickname)
	require.Equal(t, "01000000000", got.Phone)
}

func TestUpdateProfile_NicknameTaken(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testCfg(), nil)
	u := h.user(t, "a@x.com", models.StatusActive)

	h.st.EXPECT().UserByEmail(gomock.Any(), "a@x.com").Return(u, nil)
	h.st.EXPECT().UserByNickname(gomock.Any(), "taken").Return(&models.User{ID: uuid.New()}, nil)

	_, err := h.svc.UpdateProfile(context.Background(), "a@x.com",
		models.ProfileUpdate{Name: "Kim", Nickname: "taken", Phone: "010"})
	require.ErrorIs(t, err, ErrNicknameTaken)
}

func TestCheckWithdraw(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testCfg(), nil)
	ctx := context.Background()
	u := h.user(t, "a@x.com", models.StatusActive)

	_, err := h.svc.CheckWithdraw(ctx, "a@x.com", WithdrawCheck{Email: "b@x.com"})
	require.ErrorIs(t, err, ErrUserNotFound)

	h.st.EXPECT().UserByEmail(gomock.Any(), "a@x.com").Return(u, nil).Times(3)

	ok, err := h.svc.CheckWithdraw(ctx, "a@x.com", WithdrawCheck{Email: "A@x.com", Password: testPassword, Name: "Kim"})
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = h.svc.CheckWithdraw(ctx, "a@x.com", WithdrawCheck{Email: "a@x.com", Password: "bad", Name: "Kim"})
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = h.svc.CheckWithdraw(ctx, "a@x.com", WithdrawCheck{Email: "a@x.com", Password: testPassword, Name: "Park"})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestWithdraw(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testCfg(), nil)
	ctx := context.Background()
	u := h.user(t, "a@x.com", models.StatusActive)
	login(t, h, u)

	h.st.EXPECT().UserByEmail(gomock.Any(), "a@x.com").Return(u, nil)
	h.st.EXPECT().UpdateStatus(gomock.Any(), u.ID, models.StatusWithdrawn, h.clock.t).Return(nil)
	h.pub.EXPECT().AccountWithdrawn(gomock.Any(), "a@x.com").Return(nil)

	require.NoError(t, h.svc.Withdraw(ctx, "a@x.com"))

	_, err := h.rt.Get(ctx, "a@x.com")
	require.Error(t, err)
}

func TestProfile_NotFound(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testCfg(), nil)
	h.st.EXPECT().UserByEmail(gomock.Any(), "a@x.com").Return(nil, storage.ErrNotFound)

	_, err := h.svc.Profile(context.Background(), "a@x.com")
	require.ErrorIs(t, err, ErrUserNotFound)
}
