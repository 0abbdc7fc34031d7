package ingestimpl

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/orgball2608/social-feed/internal/domain"
	mock_platform "github.com/orgball2608/social-feed/internal/repositories/platform/mocks"
	mock_post "github.com/orgball2608/social-feed/internal/repositories/post/mocks"
	"github.com/orgball2608/social-feed/internal/repositories/user"
	mock_user "github.com/orgball2608/social-feed/internal/repositories/user/mocks"
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
	svc       *IngestImpl
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		users:     mock_user.NewMockRepository(ctrl),
		platforms: mock_platform.NewMockRepository(ctrl),
		posts:     mock_post.NewMockRepository(ctrl),
		now:       time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = New(Opts{
		UserRepo:     f.users,
		PlatformRepo: f.platforms,
		PostRepo:     f.posts,
		Logger:       logger.NewNop(),
	})
	f.svc.now = func() time.Time { return f.now }
	return f
}

func TestIngest(t *testing.T) {
	f := newFixture(t)
	owner := &domain.User{ID: uuid.New(), WalletAddress: wallet}
	pl := &domain.Platform{ID: uuid.New(), UserID: owner.ID, PlatformName: domain.PlatformTwitter, IsConnected: true}

	f.users.EXPECT().FindOrCreateByWallet(gomock.Any(), domain.User{WalletAddress: wallet}).Return(owner, nil)
	f.platforms.EXPECT().FindOrCreate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, want domain.Platform) (*domain.Platform, error) {
			assert.Equal(t, owner.ID, want.UserID)
			assert.Equal(t, domain.PlatformTwitter, want.PlatformName)
			assert.Equal(t, "alice", want.Username())
			assert.True(t, want.IsConnected)
			return pl, nil
		})
	f.posts.EXPECT().Upsert(gomock.Any(), gomock.Any(), domain.ConflictUpdate).
		DoAndReturn(func(_ context.Context, posts []domain.Post, _ domain.ConflictMode) (int64, error) {
			require.Len(t, posts, 1)
			assert.Equal(t, pl.ID, posts[0].PlatformID)
			assert.Equal(t, "1", posts[0].PlatformPostID)
			return 1, nil
		})
	f.platforms.EXPECT().UpdateLastSync(gomock.Any(), pl.ID, f.now).Return(nil)

	res, err := f.svc.Ingest(context.Background(), domain.IngestBatch{
		WalletAddress:    "0x00000000000000000000000000000000000000AA",
		PlatformName:     "x",
		PlatformUsername: "alice",
		Posts: []domain.IngestRecord{
			{PlatformPostID: "1", Content: "gm"},
			{PlatformPostID: ""},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, pl.ID, res.PlatformID)
	assert.Equal(t, 2, res.Received)
	assert.EqualValues(t, 1, res.Stored)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, 1, res.Rejected[0].Index)
}

func TestIngestReconnectsDisconnectedPlatform(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	pl := &domain.Platform{ID: uuid.New(), UserID: userID, PlatformName: domain.PlatformGhost, IsConnected: false}

	f.users.EXPECT().GetByID(gomock.Any(), userID).Return(&domain.User{ID: userID}, nil)
	f.platforms.EXPECT().FindOrCreate(gomock.Any(), gomock.Any()).Return(pl, nil)
	f.platforms.EXPECT().SetConnected(gomock.Any(), pl.ID, true).Return(nil)
	f.posts.EXPECT().Upsert(gomock.Any(), gomock.Any(), domain.ConflictUpdate).Return(int64(1), nil)
	f.platforms.EXPECT().UpdateLastSync(gomock.Any(), pl.ID, f.now).Return(nil)

	res, err := f.svc.Ingest(context.Background(), domain.IngestBatch{
		UserID:       &userID,
		PlatformName: "ghost",
		Posts:        []domain.IngestRecord{{PlatformPostID: "1"}},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Stored)
	assert.True(t, pl.IsConnected)
}

func TestIngestReconnectError(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	pl := &domain.Platform{ID: uuid.New(), UserID: userID, PlatformName: domain.PlatformGhost}

	f.users.EXPECT().GetByID(gomock.Any(), userID).Return(&domain.User{ID: userID}, nil)
	f.platforms.EXPECT().FindOrCreate(gomock.Any(), gomock.Any()).Return(pl, nil)
	f.platforms.EXPECT().SetConnected(gomock.Any(), pl.ID, true).Return(errors.New("db down"))

	_, err := f.svc.Ingest(context.Background(), domain.IngestBatch{
		UserID:       &userID,
		PlatformName: "ghost",
		Posts:        []domain.IngestRecord{{PlatformPostID: "1"}},
	})
	assert.ErrorContains(t, err, "db down")
}

func TestIngestNothingValid(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	pl := &domain.Platform{ID: uuid.New(), UserID: userID, PlatformName: domain.PlatformGhost, IsConnected: true}

	f.users.EXPECT().GetByID(gomock.Any(), userID).Return(&domain.User{ID: userID}, nil)
	f.platforms.EXPECT().FindOrCreate(gomock.Any(), gomock.Any()).Return(pl, nil)

	res, err := f.svc.Ingest(context.Background(), domain.IngestBatch{
		UserID:       &userID,
		PlatformName: "ghost",
		Posts:        []domain.IngestRecord{{PlatformPostID: " "}},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.Stored)
	assert.Len(t, res.Rejected, 1)
}

func TestIngestUnchangedRowsSkipLastSync(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	pl := &domain.Platform{ID: uuid.New(), UserID: userID, PlatformName: domain.PlatformGhost, IsConnected: true}

	f.users.EXPECT().GetByID(gomock.Any(), userID).Return(&domain.User{ID: userID}, nil)
	f.platforms.EXPECT().FindOrCreate(gomock.Any(), gomock.Any()).Return(pl, nil)
	f.posts.EXPECT().Upsert(gomock.Any(), gomock.Any(), domain.ConflictUpdate).Return(int64(0), nil)

	_, err := f.svc.Ingest(context.Background(), domain.IngestBatch{
		UserID:       &userID,
		PlatformName: "ghost",
		Posts:        []domain.IngestRecord{{PlatformPostID: "1"}},
	})
	require.NoError(t, err)
}

func TestIngestInvalidBatch(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Ingest(context.Background(), domain.IngestBatch{PlatformName: "ghost"})
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidInput(err))
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))
	assert.Equal(t, "wallet_address or user_id is required", apperrors.GetMessage(err))
}

func TestIngestUnknownUser(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	f.users.EXPECT().GetByID(gomock.Any(), userID).Return(nil, user.ErrNotFound)

	_, err := f.svc.Ingest(context.Background(), domain.IngestBatch{UserID: &userID, PlatformName: "ghost"})
	assert.Equal(t, http.StatusNotFound, apperrors.HTTPStatus(err))
}

func TestIngestStoreError(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	pl := &domain.Platform{ID: uuid.New(), UserID: userID, PlatformName: domain.PlatformGhost, IsConnected: true}

	f.users.EXPECT().GetByID(gomock.Any(), userID).Return(&domain.User{ID: userID}, nil)
	f.platforms.EXPECT().FindOrCreate(gomock.Any(), gomock.Any()).Return(pl, nil)
	f.posts.EXPECT().Upsert(gomock.Any(), gomock.Any(), domain.ConflictUpdate).Return(int64(0), errors.New("db down"))

	_, err := f.svc.Ingest(context.Background(), domain.IngestBatch{
		UserID:       &userID,
		PlatformName: "ghost",
		Posts:        []domain.IngestRecord{{PlatformPostID: "1"}},
	})
	assert.ErrorContains(t, err, "db down")
	assert.Equal(t, http.StatusInternalServerError, apperrors.HTTPStatus(err))
}
