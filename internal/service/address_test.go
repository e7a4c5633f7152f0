package service

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/account-service/internal/models"
	"github.com/pribylovaa/account-service/internal/storage"
)

func TestAddAddress_FirstBecomesDefault(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testCfg(), nil)
	u := h.user(t, "a@x.com", models.StatusActive)

	h.st.EXPECT().UserByEmail(gomock.Any(), "a@x.com").Return(u, nil)
	h.st.EXPECT().DefaultAddress(gomock.Any(), u.ID).Return(nil, storage.ErrNotFound)
	h.st.EXPECT().SaveAddress(gomock.Any(), gomock.Any()).Return(nil)

	addr, err := h.svc.AddAddress(context.Background(), "a@x.com", AddressInput{LocalAddress: "Seoul"})
	require.NoError(t, err)
	require.True(t, addr.IsDefault)
	require.Equal(t, u.ID, addr.UserID)
}

func TestAddAddress_KeepsExistingDefault(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testCfg(), nil)
	u := h.user(t, "a@x.com", models.StatusActive)

	h.st.EXPECT().UserByEmail(gomock.Any(), "a@x.com").Return(u, nil)
	h.st.EXPECT().DefaultAddress(gomock.Any(), u.ID).Return(&models.Address{IsDefault: true}, nil)
	h.st.EXPECT().SaveAddress(gomock.Any(), gomock.Any()).Return(nil)

	addr, err := h.svc.AddAddress(context.Background(), "a@x.com", AddressInput{LocalAddress: "Daegu"})
	require.NoError(t, err)
	require.False(t, addr.IsDefault)

	_, err = h.svc.AddAddress(context.Background(), "a@x.com", AddressInput{})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestUpdateAddress(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testCfg(), nil)
	ctx := context.Background()
	u := h.user(t, "a@x.com", models.StatusActive)
	id := uuid.New()

	h.st.EXPECT().UserByEmail(gomock.Any(), "a@x.com").Return(u, nil).Times(2)
	h.st.EXPECT().AddressByID(gomock.Any(), u.ID, id).
		Return(&models.Address{ID: id, UserID: u.ID, LocalAddress: "old", IsDefault: true}, nil)
	h.st.EXPECT().UpdateAddress(gomock.Any(), gomock.Any()).Return(nil)

	addr, err := h.svc.UpdateAddress(ctx, "a@x.com", id, AddressInput{LocalAddress: "new", ExtraAddress: "2F"})
	require.NoError(t, err)
	require.Equal(t, "new 2F", addr.Line())
	require.True(t, addr.IsDefault)

	missing := uuid.New()
	h.st.EXPECT().AddressByID(gomock.Any(), u.ID, missing).Return(nil, storage.ErrNotFound)
	_, err = h.svc.UpdateAddress(ctx, "a@x.com", missing, AddressInput{LocalAddress: "x"})
	require.ErrorIs(t, err, ErrAddressNotFound)
}

func TestDeleteAddress(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testCfg(), nil)
	ctx := context.Background()
	u := h.user(t, "a@x.com", models.StatusActive)
	def, other := uuid.New(), uuid.New()

	h.st.EXPECT().UserByEmail(gomock.Any(), "a@x.com").Return(u, nil).Times(2)
	h.st.EXPECT().AddressByID(gomock.Any(), u.ID, def).Return(&models.Address{ID: def, IsDefault: true}, nil)
	h.st.EXPECT().AddressByID(gomock.Any(), u.ID, other).Return(&models.Address{ID: other}, nil)
	h.st.EXPECT().DeleteAddress(gomock.Any(), u.ID, other).Return(nil)

	require.ErrorIs(t, h.svc.DeleteAddress(ctx, "a@x.com", def), ErrDefaultAddress)
	require.NoError(t, h.svc.DeleteAddress(ctx, "a@x.com", other))
}

func TestDefaultAddressAndList(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testCfg(), nil)
	ctx := context.Background()
	u := h.user(t, "a@x.com", models.StatusActive)

	h.st.EXPECT().UserByEmail(gomock.Any(), "a@x.com").Return(u, nil).Times(3)
	h.st.EXPECT().DefaultAddress(gomock.Any(), u.ID).Return(nil, storage.ErrNotFound)
	h.st.EXPECT().AddressesByUser(gomock.Any(), u.ID).
		Return([]models.Address{{LocalAddress: "a", IsDefault: true}, {LocalAddress: "b"}}, nil)
	h.st.EXPECT().DefaultAddress(gomock.Any(), u.ID).Return(&models.Address{LocalAddress: "a", IsDefault: true}, nil)

	_, err := h.svc.DefaultAddress(ctx, "a@x.com")
	require.ErrorIs(t, err, ErrAddressNotFound)

	list, err := h.svc.Addresses(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, list, 2)

	addr, err := h.svc.DefaultAddress(ctx, "a@x.com")
	require.NoError(t, err)
	require.True(t, addr.IsDefault)
}
