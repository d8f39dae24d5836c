package services

import (
	"context"
	"errors"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/op47/clipchat/internal/common"
	sc "github.com/op47/clipchat/internal/server/config"
	"github.com/op47/clipchat/internal/server/models"
	"github.com/op47/clipchat/internal/server/notify"
	"github.com/op47/clipchat/internal/server/twitch"
)

type fakeClipsRepo struct {
	byURL  map[string]*models.Clip
	byID   map[int64]*models.Clip
	aggs   map[int64]*models.ClipAggregate
	nextID int64

	createErr error
	aggErr    error
	listErr   error
	keyErr    error
}

func newFakeClipsRepo() *fakeClipsRepo {
	return &fakeClipsRepo{
		byURL:  map[string]*models.Clip{},
		byID:   map[int64]*models.Clip{},
		aggs:   map[int64]*models.ClipAggregate{},
		nextID: 1,
	}
}

func (f *fakeClipsRepo) Create(ctx context.Context, clip *models.Clip) (*models.Clip, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, taken := f.byURL[clip.URL]; taken {
		return nil, common.ErrorAlreadyExists
	}
	clip.ID = f.nextID
	f.nextID++
	f.byURL[clip.URL] = clip
	f.byID[clip.ID] = clip
	return clip, nil
}

func (f *fakeClipsRepo) CreateAggregate(ctx context.Context, agg *models.ClipAggregate) error {
	if f.aggErr != nil {
		return f.aggErr
	}
	f.aggs[agg.ID] = agg
	return nil
}

func (f *fakeClipsRepo) GetByID(ctx context.Context, id int64) (*models.Clip, error) {
	clip, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clip, nil
}

func (f *fakeClipsRepo) DeleteByURL(ctx context.Context, url string) error {
	clip, ok := f.byURL[url]
	if !ok {
		return common.ErrorNotFound
	}
	delete(f.byURL, url)
	delete(f.byID, clip.ID)
	delete(f.aggs, clip.ID)
	return nil
}

func (f *fakeClipsRepo) ListByDate(ctx context.Context, date time.Time) ([]*models.Clip, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	result := []*models.Clip{}
	for _, clip := range f.byID {
		if clip.CreatedAt.Equal(date) {
			result = append(result, clip)
		}
	}
	return result, nil
}

func (f *fakeClipsRepo) SetStorageKey(ctx context.Context, id int64, key string) error {
	if f.keyErr != nil {
		return f.keyErr
	}
	clip, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	clip.StorageKey = key
	return nil
}

type fakeFetcher struct {
	clip *twitch.Clip
	err  error
}

func (f *fakeFetcher) GetClip(ctx context.Context, id string) (*twitch.Clip, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.clip, nil
}

func newClipService(t *testing.T, repo *fakeClipsRepo, fetcher ClipFetcher) *ClipService {
	t.Helper()
	cfg := &sc.Config{}
	cfg.LoadDefaults()
	s, err := NewClipService(nil, &fakeRepoManager{clips: repo}, cfg, fetcher,
		notify.NewWebhook("", testLogger()), testLogger())
	require.NoError(t, err)
	return s
}

func TestInsertFromURL_StoresClipAndAggregate(t *testing.T) {
	repo := newFakeClipsRepo()
	fetcher := &fakeFetcher{clip: &twitch.Clip{
		CreatedAt:       time.Date(2026, 8, 30, 19, 0, 0, 0, time.UTC),
		URL:             "https://clips.twitch.tv/AbcDef",
		Title:           "Nice play",
		BroadcasterName: "op47",
		CreatorName:     "viewer1",
	}}
	s := newClipService(t, repo, fetcher)

	clip, err := s.InsertFromURL(context.Background(), "https://clips.twitch.tv/AbcDef", "viewer1")
	require.NoError(t, err)

	assert.Equal(t, "Nice play", clip.Title)
	assert.Equal(t, "op47", clip.Channel)
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), clip.CreatedAt)

	agg, ok := repo.aggs[clip.ID]
	require.True(t, ok, "aggregate row must be created")
	assert.Equal(t, "viewer1", agg.Author)
	assert.Equal(t, int64(0), agg.Views)
}

func TestInsertFromURL_LateEveningRollsToNextDayInRecapZone(t *testing.T) {
	// 23:30 UTC is already past midnight in Europe/Berlin during DST.
	repo := newFakeClipsRepo()
	fetcher := &fakeFetcher{clip: &twitch.Clip{
		CreatedAt:       time.Date(2026, 8, 30, 23, 30, 0, 0, time.UTC),
		URL:             "https://clips.twitch.tv/AbcDef",
		Title:           "Late one",
		BroadcasterName: "op47",
		CreatorName:     "viewer1",
	}}
	s := newClipService(t, repo, fetcher)

	clip, err := s.InsertFromURL(context.Background(), "https://clips.twitch.tv/AbcDef", "")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), clip.CreatedAt)
}

func TestInsertFromURL_EmptyTitleFallsBackToChannel(t *testing.T) {
	repo := newFakeClipsRepo()
	fetcher := &fakeFetcher{clip: &twitch.Clip{
		CreatedAt:       time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		URL:             "https://clips.twitch.tv/AbcDef",
		BroadcasterName: "op47",
		CreatorName:     "viewer1",
	}}
	s := newClipService(t, repo, fetcher)

	clip, err := s.InsertFromURL(context.Background(), "https://clips.twitch.tv/AbcDef", "viewer1")
	require.NoError(t, err)
	assert.Equal(t, "op47", clip.Title)
}

func TestInsertFromURL_MissingAuthorDefaultsToUnknown(t *testing.T) {
	repo := newFakeClipsRepo()
	fetcher := &fakeFetcher{clip: &twitch.Clip{
		CreatedAt:       time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		URL:             "https://clips.twitch.tv/AbcDef",
		Title:           "t",
		BroadcasterName: "op47",
		CreatorName:     "viewer1",
	}}
	s := newClipService(t, repo, fetcher)

	clip, err := s.InsertFromURL(context.Background(), "https://clips.twitch.tv/AbcDef", "")
	require.NoError(t, err)
	assert.Equal(t, "unknown", repo.aggs[clip.ID].Author)
}

func TestInsertFromURL_BadURL(t *testing.T) {
	s := newClipService(t, newFakeClipsRepo(), &fakeFetcher{})

	_, err := s.InsertFromURL(context.Background(), "", "a")
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = s.InsertFromURL(context.Background(), "https://youtube.com/watch?v=x", "a")
	assert.ErrorIs(t, err, common.ErrorUnprocessable)
}

func TestInsertFromURL_FetcherFailure(t *testing.T) {
	s := newClipService(t, newFakeClipsRepo(), &fakeFetcher{err: errors.New("helix down")})

	_, err := s.InsertFromURL(context.Background(), "https://clips.twitch.tv/AbcDef", "a")
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestRemoveByURL_NormalizesToCanonicalLink(t *testing.T) {
	repo := newFakeClipsRepo()
	fetcher := &fakeFetcher{clip: &twitch.Clip{
		CreatedAt:       time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		URL:             "https://clips.twitch.tv/AbcDef",
		Title:           "t",
		BroadcasterName: "op47",
		CreatorName:     "viewer1",
	}}
	s := newClipService(t, repo, fetcher)
	ctx := context.Background()

	_, err := s.InsertFromURL(ctx, "https://clips.twitch.tv/AbcDef", "a")
	require.NoError(t, err)

	// Remove using the long channel form of the same clip.
	require.NoError(t, s.RemoveByURL(ctx, "https://www.twitch.tv/op47/clip/AbcDef"))

	err = s.RemoveByURL(ctx, "https://clips.twitch.tv/AbcDef")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestListByDate_RejectsBadDate(t *testing.T) {
	s := newClipService(t, newFakeClipsRepo(), &fakeFetcher{})

	_, err := s.ListByDate(context.Background(), "30-08-2026")
	assert.ErrorIs(t, err, common.ErrorUnprocessable)

	_, err = s.ListByDate(context.Background(), "yesterday")
	assert.ErrorIs(t, err, common.ErrorUnprocessable)
}

func TestListByDate_Today(t *testing.T) {
	repo := newFakeClipsRepo()
	s := newClipService(t, repo, &fakeFetcher{})

	_, err := s.ListByDate(context.Background(), "today")
	require.NoError(t, err)
}

func TestCreateUploadURL_PresignsAndStoresKey(t *testing.T) {
	origPut := presignPutObject
	defer func() { presignPutObject = origPut }()

	var presignedKey string
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		presignedKey = *in.Key
		return &v4.PresignedHTTPRequest{URL: "https://s3.example/put"}, nil
	}

	repo := newFakeClipsRepo()
	fetcher := &fakeFetcher{clip: &twitch.Clip{
		CreatedAt:       time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		URL:             "https://clips.twitch.tv/AbcDef",
		Title:           "t",
		BroadcasterName: "op47",
		CreatorName:     "viewer1",
	}}
	s := newClipService(t, repo, fetcher)
	ctx := context.Background()

	clip, err := s.InsertFromURL(ctx, "https://clips.twitch.tv/AbcDef", "a")
	require.NoError(t, err)

	url, err := s.CreateUploadURL(ctx, clip.ID)
	require.NoError(t, err)

	assert.Equal(t, "https://s3.example/put", url)
	assert.NotEmpty(t, presignedKey)
	assert.Equal(t, presignedKey, repo.byID[clip.ID].StorageKey)
}

func TestCreateUploadURL_UnknownClip(t *testing.T) {
	s := newClipService(t, newFakeClipsRepo(), &fakeFetcher{})

	_, err := s.CreateUploadURL(context.Background(), 404)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetDownloadURL_RequiresUploadedMedia(t *testing.T) {
	origGet := presignGetObject
	defer func() { presignGetObject = origGet }()

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return &v4.PresignedHTTPRequest{URL: "https://s3.example/get/" + *in.Key}, nil
	}

	repo := newFakeClipsRepo()
	fetcher := &fakeFetcher{clip: &twitch.Clip{
		CreatedAt:       time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		URL:             "https://clips.twitch.tv/AbcDef",
		Title:           "t",
		BroadcasterName: "op47",
		CreatorName:     "viewer1",
	}}
	s := newClipService(t, repo, fetcher)
	ctx := context.Background()

	clip, err := s.InsertFromURL(ctx, "https://clips.twitch.tv/AbcDef", "a")
	require.NoError(t, err)

	_, err = s.GetDownloadURL(ctx, clip.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound, "no media uploaded yet")

	require.NoError(t, repo.SetStorageKey(ctx, clip.ID, "clips/2026/abc"))

	url, err := s.GetDownloadURL(ctx, clip.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://s3.example/get/clips/2026/abc", url)
}
