package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"squadup/internal/adapter/repository"
	"squadup/internal/infrastructure/storage"
)

func TestStadiumLifecycle(t *testing.T) {
	ctx := context.Background()
	blobs := storage.NewMemoryStore()
	uc := NewStadiumUseCase(repository.NewMemoryStadiumRepository(), blobs)
	owner := Principal{UserID: "owner"}
	stranger := Principal{UserID: "stranger"}

	stadium, err := uc.CreateStadium(ctx, owner, CreateStadiumInput{Name: " Riverside ", Address: "1 River Rd", City: "Leeds", PricePerHour: 6000})
	require.NoError(t, err)
	assert.Equal(t, "Riverside", stadium.Name)
	assert.Equal(t, "owner", stadium.CreatedBy)

	_, err = uc.CreateStadium(ctx, owner, CreateStadiumInput{Name: "Hilltop", Address: "2 Hill St", City: "York", PricePerHour: 4000})
	require.NoError(t, err)

	list, total, err := uc.ListStadiums(ctx, "leeds", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, stadium.ID, list[0].ID)

	price := int64(6500)
	_, err = uc.UpdateStadium(ctx, stranger, stadium.ID, UpdateStadiumInput{PricePerHour: &price})
	assertCode(t, err, "FORBIDDEN")

	updated, err := uc.UpdateStadium(ctx, owner, stadium.ID, UpdateStadiumInput{PricePerHour: &price})
	require.NoError(t, err)
	assert.Equal(t, int64(6500), updated.PricePerHour)

	negative := int64(-1)
	_, err = uc.UpdateStadium(ctx, owner, stadium.ID, UpdateStadiumInput{PricePerHour: &negative})
	assertCode(t, err, "BAD_REQUEST")

	withImage, err := uc.UpdateImage(ctx, owner, stadium.ID, []byte("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(withImage.ImageURL, "memory://stadiums/"))
	first := withImage.ImageURL

	withImage, err = uc.UpdateImage(ctx, owner, stadium.ID, []byte("newer"), "image/png")
	require.NoError(t, err)
	_, ok := blobs.Get(first)
	assert.False(t, ok, "previous image is removed")

	require.NoError(t, uc.DeleteStadium(ctx, owner, stadium.ID))
	_, ok = blobs.Get(withImage.ImageURL)
	assert.False(t, ok)

	_, err = uc.GetStadium(ctx, stadium.ID)
	assertCode(t, err, "NOT_FOUND")
}

func TestUserAvatar(t *testing.T) {
	ctx := context.Background()
	users := repository.NewMemoryUserRepository()
	blobs := storage.NewMemoryStore()
	uc := NewUserUseCase(users, blobs)

	f := &fixture{ctx: ctx, users: users}
	p := f.addUser(t, "keeper", "Kim", "Keeper")

	phone := "+441234567890"
	user, err := uc.UpdateProfile(ctx, p, UpdateProfileInput{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, user.Phone)
	assert.Equal(t, "Kim", user.FirstName)

	user, err = uc.UpdateAvatar(ctx, p, []byte("jpeg"), "image/jpeg")
	require.NoError(t, err)
	data, ok := blobs.Get(user.ProfileURL)
	require.True(t, ok)
	assert.Equal(t, []byte("jpeg"), data)

	profile, err := uc.GetProfile(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, user.ProfileURL, profile.ProfileURL)
}
