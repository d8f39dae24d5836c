package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/op47/clipchat/internal/common"
	"github.com/op47/clipchat/internal/logging"
	sc "github.com/op47/clipchat/internal/server/config"
	"github.com/op47/clipchat/internal/server/models"
	"github.com/op47/clipchat/internal/server/notify"
	"github.com/op47/clipchat/internal/server/repositories/repomanager"
	"github.com/op47/clipchat/internal/server/twitch"
)

var dateParamPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ClipFetcher resolves a clip slug to its Helix metadata.
type ClipFetcher interface {
	GetClip(ctx context.Context, id string) (*twitch.Clip, error)
}

type ClipService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	fetcher     ClipFetcher
	notifier    *notify.Webhook
	location    *time.Location
	logger      logging.Logger
}

func NewClipService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config,
	fetcher ClipFetcher, notifier *notify.Webhook, logger logging.Logger) (*ClipService, error) {

	loc, err := time.LoadLocation(cfg.ClipTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid clip timezone %q: %w", cfg.ClipTimezone, err)
	}

	return &ClipService{
		db:          db,
		repomanager: m,
		config:      cfg,
		fetcher:     fetcher,
		notifier:    notifier,
		location:    loc,
		logger:      logger.With("module", "clip_service"),
	}, nil
}

// clipDate truncates a timestamp to the day it falls on in the recap
// timezone, normalized to UTC midnight for the DATE column.
func (s *ClipService) clipDate(t time.Time) time.Time {
	local := t.In(s.location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// InsertFromURL validates the clip link, fetches its metadata from Helix
// and stores the clip together with its aggregate row. The community site
// is pinged asynchronously afterwards.
func (s *ClipService) InsertFromURL(ctx context.Context, rawURL, author string) (*models.Clip, error) {

	if rawURL == "" {
		return nil, common.ErrorValidation
	}

	id, err := twitch.ClipIDFromURL(rawURL)
	if err != nil {
		return nil, common.ErrorUnprocessable
	}

	meta, err := s.fetcher.GetClip(ctx, id)
	if err != nil {
		s.logger.Error(ctx, "helix clip fetch failed", "clip_id", id, "error", err.Error())
		return nil, common.ErrorInternal
	}

	// Twitch allows empty clip titles; fall back to the channel name.
	title := meta.Title
	if title == "" {
		title = meta.BroadcasterName
	}

	clip := &models.Clip{
		CreatedAt:   s.clipDate(meta.CreatedAt),
		URL:         meta.URL,
		Title:       title,
		Channel:     meta.BroadcasterName,
		CreatorName: meta.CreatorName,
	}

	clip, err = s.repomanager.Clips(s.db).Create(ctx, clip)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		s.logger.Error(ctx, "clip insert failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	if author == "" {
		author = "unknown"
	}

	// A failed aggregate insert leaves the clip in place; the aggregate can
	// be reconstructed offline.
	agg := &models.ClipAggregate{ID: clip.ID, Views: 0, Author: author}
	if err := s.repomanager.Clips(s.db).CreateAggregate(ctx, agg); err != nil {
		s.logger.Error(ctx, "clip aggregate insert failed", "clip_id", clip.ID, "error", err.Error())
	}

	go s.notifier.NewClip(context.WithoutCancel(ctx))

	return clip, nil
}

// RemoveByURL deletes the clip matching the canonical form of the given
// link. The aggregate row is removed by the foreign-key cascade.
func (s *ClipService) RemoveByURL(ctx context.Context, rawURL string) error {

	if rawURL == "" {
		return common.ErrorValidation
	}

	id, err := twitch.ClipIDFromURL(rawURL)
	if err != nil {
		return common.ErrorUnprocessable
	}

	err = s.repomanager.Clips(s.db).DeleteByURL(ctx, twitch.ClipURL(id))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "clip delete failed", "error", err.Error())
		return common.ErrorInternal
	}

	return nil
}

// ListByDate lists clips for a day. The parameter is either the literal
// "today" (resolved in the recap timezone) or a YYYY-MM-DD date.
func (s *ClipService) ListByDate(ctx context.Context, dateParam string) ([]*models.Clip, error) {

	var date time.Time
	if dateParam == "today" {
		date = s.clipDate(time.Now())
	} else {
		if !dateParamPattern.MatchString(dateParam) {
			return nil, common.ErrorUnprocessable
		}
		parsed, err := time.Parse("2006-01-02", dateParam)
		if err != nil {
			return nil, common.ErrorUnprocessable
		}
		date = parsed
	}

	result, err := s.repomanager.Clips(s.db).ListByDate(ctx, date)
	if err != nil {
		s.logger.Error(ctx, "clip list failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	return result, nil
}

func (s *ClipService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

func storageKeyForClip(clipID int64) string {
	d := time.Now()
	return fmt.Sprintf("clips/%d/%d/%d/%d-%v", d.Year(), d.Month(), d.Day(), clipID, uuid.New())
}

// CreateUploadURL presigns a PUT for archiving the clip's media and records
// the storage key on the clip row.
func (s *ClipService) CreateUploadURL(ctx context.Context, clipID int64) (string, error) {

	clipsRepo := s.repomanager.Clips(s.db)

	if _, err := clipsRepo.GetByID(ctx, clipID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		s.logger.Error(ctx, "clip lookup failed", "error", err.Error())
		return "", common.ErrorInternal
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		s.logger.Error(ctx, "presign client init failed", "error", err.Error())
		return "", common.ErrorInternal
	}

	bucket := s.config.S3Bucket
	key := storageKeyForClip(clipID)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.PresignTTL))
	if err != nil {
		s.logger.Error(ctx, "presign put failed", "error", err.Error())
		return "", common.ErrorInternal
	}

	if err := clipsRepo.SetStorageKey(ctx, clipID, key); err != nil {
		s.logger.Error(ctx, "storage key update failed", "error", err.Error())
		return "", common.ErrorInternal
	}

	return req.URL, nil
}

// GetDownloadURL presigns a GET for a clip's archived media. Clips without
// uploaded media report not found.
func (s *ClipService) GetDownloadURL(ctx context.Context, clipID int64) (string, error) {

	clip, err := s.repomanager.Clips(s.db).GetByID(ctx, clipID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		s.logger.Error(ctx, "clip lookup failed", "error", err.Error())
		return "", common.ErrorInternal
	}

	if clip.StorageKey == "" {
		return "", common.ErrorNotFound
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		s.logger.Error(ctx, "presign client init failed", "error", err.Error())
		return "", common.ErrorInternal
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &clip.StorageKey,
	}, s3.WithPresignExpires(s.config.PresignTTL))
	if err != nil {
		s.logger.Error(ctx, "presign get failed", "error", err.Error())
		return "", common.ErrorInternal
	}

	return req.URL, nil
}
