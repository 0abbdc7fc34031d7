package feedimpl

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/orgball2608/social-feed/internal/domain"
	"github.com/orgball2608/social-feed/internal/feed"
	"github.com/orgball2608/social-feed/internal/repositories/platform"
	mock_platform "github.com/orgball2608/social-feed/internal/repositories/platform/mocks"
	mock_post "github.com/orgball2608/social-feed/internal/repositories/post/mocks"
	mock_user "github.com/orgball2608/social-feed/internal/repositories/user/mocks"
	"github.com/orgball2608/social-feed/internal/scraper"
	mock_scraper "github.com/orgball2608/social-feed/internal/scraper/mocks"
	apperrors "github.com/orgball2608/social-feed/pkg/errors"
	"github.com/orgball2608/social-feed/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const wallet = "0x00000000000000000000000000000000000000aa"

type fixture struct {
	users     *mock_user.MockRepository
	platforms *mock_platform.MockRepository
	posts     *mock_post.MockRepository
	scraper   *mock_scraper.MockClient
	svc       *FeedImpl
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		users:     mock_user.NewMockRepository(ctrl),
		platforms: mock_platform.NewMockRepository(ctrl),
		posts:     mock_post.NewMockRepository(ctrl),
		scraper:   mock_scraper.NewMockClient(ctrl),
	}
	f.svc = New(Opts{
		UserRepo:     f.users,
		PlatformRepo: f.platforms,
		PostRepo:     f.posts,
		Scraper:      f.scraper,
		Logger:       logger.NewNop(),
	})
	return f
}

func TestFeedNormalizesFilter(t *testing.T) {
	f := newFixture(t)
	want := []*domain.FeedPost{{Post: domain.Post{PlatformPostID: "1"}}}

	f.posts.EXPECT().Feed(gomock.Any(), domain.FeedFilter{
		WalletAddress: wallet,
		PlatformName:  domain.PlatformTwitter,
		Limit:         domain.DefaultFeedLimit,
	}).Return(want, nil)

	got, err := f.svc.Feed(context.Background(), domain.FeedFilter{
		WalletAddress: "0x00000000000000000000000000000000000000AA",
		PlatformName:  "X",
	})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFeedInvalidWallet(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Feed(context.Background(), domain.FeedFilter{WalletAddress: "nope"})
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))
}

func TestPlatforms(t *testing.T) {
	f := newFixture(t)
	f.platforms.EXPECT().List(gomock.Any(), domain.PlatformFilter{WalletAddress: wallet}).Return(nil, nil)

	got, err := f.svc.Platforms(context.Background(), domain.PlatformFilter{WalletAddress: wallet})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err = f.svc.Platforms(context.Background(), domain.PlatformFilter{})
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))
}

func TestConnect(t *testing.T) {
	f := newFixture(t)
	owner := &domain.User{ID: uuid.New(), WalletAddress: wallet}
	created := &domain.Platform{ID: uuid.New(), UserID: owner.ID, PlatformName: domain.PlatformGhost}
	sync := &domain.PlatformScrapeResult{PlatformID: created.ID, PlatformName: domain.PlatformGhost, Fetched: 3}

	f.users.EXPECT().FindOrCreateByWallet(gomock.Any(), domain.User{WalletAddress: wallet}).Return(owner, nil)
	f.platforms.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p domain.Platform) (*domain.Platform, error) {
			assert.Equal(t, owner.ID, p.UserID)
			assert.Equal(t, domain.PlatformGhost, p.PlatformName)
			assert.Equal(t, "jane", p.Username())
			require.NotNil(t, p.WalletAddress)
			assert.Equal(t, wallet, *p.WalletAddress)
			return created, nil
		})
	f.scraper.EXPECT().ScrapePlatform(gomock.Any(), created.ID).Return(sync, nil)

	res, err := f.svc.Connect(context.Background(), feed.ConnectRequest{
		WalletAddress:    wallet,
		PlatformName:     "Ghost",
		PlatformUsername: " jane ",
	})
	require.NoError(t, err)
	assert.Equal(t, created, res.Platform)
	assert.Equal(t, sync, res.Sync)
	assert.Empty(t, res.SyncError)
}

func TestConnectSyncFailureIsReported(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	created := &domain.Platform{ID: uuid.New(), UserID: userID, PlatformName: domain.PlatformDiscord}

	f.users.EXPECT().GetByID(gomock.Any(), userID).Return(&domain.User{ID: userID}, nil)
	f.platforms.EXPECT().Create(gomock.Any(), gomock.Any()).Return(created, nil)
	f.scraper.EXPECT().ScrapePlatform(gomock.Any(), created.ID).Return(nil, errors.New("db down"))

	res, err := f.svc.Connect(context.Background(), feed.ConnectRequest{UserID: &userID, PlatformName: "discord"})
	require.NoError(t, err)
	assert.Equal(t, created, res.Platform)
	assert.Nil(t, res.Sync)
	assert.Equal(t, "db down", res.SyncError)
}

func TestConnectConflict(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()

	f.users.EXPECT().GetByID(gomock.Any(), userID).Return(&domain.User{ID: userID}, nil)
	f.platforms.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, platform.ErrAlreadyExists)
	f.platforms.EXPECT().FindOrCreate(gomock.Any(), gomock.Any()).
		Return(&domain.Platform{ID: uuid.New(), UserID: userID, PlatformName: domain.PlatformDiscord, IsConnected: true}, nil)

	_, err := f.svc.Connect(context.Background(), feed.ConnectRequest{UserID: &userID, PlatformName: "discord"})
	assert.Equal(t, http.StatusConflict, apperrors.HTTPStatus(err))
}

func TestConnectAfterDisconnect(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	existing := &domain.Platform{ID: uuid.New(), UserID: userID, PlatformName: domain.PlatformDiscord, IsConnected: false}
	sync := &domain.PlatformScrapeResult{PlatformID: existing.ID, PlatformName: domain.PlatformDiscord, Fetched: 1}

	f.users.EXPECT().GetByID(gomock.Any(), userID).Return(&domain.User{ID: userID}, nil)
	f.platforms.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, platform.ErrAlreadyExists)
	f.platforms.EXPECT().FindOrCreate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p domain.Platform) (*domain.Platform, error) {
			assert.Equal(t, userID, p.UserID)
			assert.Equal(t, "123", p.Username())
			return existing, nil
		})
	f.platforms.EXPECT().SetConnected(gomock.Any(), existing.ID, true).Return(nil)
	f.scraper.EXPECT().ScrapePlatform(gomock.Any(), existing.ID).Return(sync, nil)

	res, err := f.svc.Connect(context.Background(), feed.ConnectRequest{UserID: &userID, PlatformName: "discord", PlatformUsername: "123"})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, res.Platform.ID)
	assert.True(t, res.Platform.IsConnected)
	assert.Equal(t, sync, res.Sync)
}

func TestConnectValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Connect(context.Background(), feed.ConnectRequest{WalletAddress: wallet})
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))

	_, err = f.svc.Connect(context.Background(), feed.ConnectRequest{PlatformName: "ghost"})
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))

	_, err = f.svc.Connect(context.Background(), feed.ConnectRequest{PlatformName: "ghost", WalletAddress: "0x1"})
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))
}

func TestDisconnect(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()

	f.platforms.EXPECT().SetConnected(gomock.Any(), id, false).Return(nil)
	require.NoError(t, f.svc.Disconnect(context.Background(), id))

	f.platforms.EXPECT().SetConnected(gomock.Any(), id, false).Return(platform.ErrNotFound)
	err := f.svc.Disconnect(context.Background(), id)
	assert.ErrorIs(t, err, scraper.ErrPlatformNotFound)
	assert.Equal(t, http.StatusNotFound, apperrors.HTTPStatus(err))
}
