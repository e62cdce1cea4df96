// Package backup assembles a full export of a user's data and ships it to
// an S3-compatible object store.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	sc "github.com/dmitrijs2005/timekeeper/internal/server/config"
	"github.com/dmitrijs2005/timekeeper/internal/server/models"
	"github.com/dmitrijs2005/timekeeper/internal/server/storage"
)

// Document is the exported snapshot of everything a user owns.
type Document struct {
	UserID      string              `json:"user_id"`
	Username    string              `json:"username"`
	Preferences map[string]any      `json:"preferences"`
	Projects    []*models.Project   `json:"projects"`
	TimeEntries []*models.TimeEntry `json:"time_entries"`
	Timesheets  []*models.Timesheet `json:"timesheets"`
	BackupDate  time.Time           `json:"backup_date"`
}

// ObjectPutter is the subset of the S3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Service struct {
	repos  *storage.Repositories
	config *sc.Config
	client ObjectPutter
}

func NewService(repos *storage.Repositories, config *sc.Config) *Service {
	return &Service{repos: repos, config: config}
}

// NewServiceWithClient injects a preconfigured S3 client, used in tests.
func NewServiceWithClient(repos *storage.Repositories, config *sc.Config, client ObjectPutter) *Service {
	return &Service{repos: repos, config: config, client: client}
}

// storageKey builds a date-partitioned object key for a backup upload.
func storageKey(userID string) string {
	d := time.Now()
	return fmt.Sprintf("users/%s/%d/%d/%d/%v.json", userID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *Service) getS3Client() (ObjectPutter, error) {
	if s.client != nil {
		return s.client, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	s.client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return s.client, nil
}

// Export collects the user's account, projects, entries and timesheets into
// a single document.
func (s *Service) Export(ctx context.Context, userID string) (*Document, error) {
	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	projects, err := s.repos.Projects.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries, err := s.repos.TimeEntries.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	sheets, err := s.repos.Timesheets.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Document{
		UserID:      user.ID,
		Username:    user.Username,
		Preferences: user.Preferences,
		Projects:    projects,
		TimeEntries: entries,
		Timesheets:  sheets,
		BackupDate:  time.Now(),
	}, nil
}

// Upload serializes the document and writes it to the configured bucket.
// It returns the object key of the created backup.
func (s *Service) Upload(ctx context.Context, doc *Document) (string, error) {
	client, err := s.getS3Client()
	if err != nil {
		return "", err
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	key := storageKey(doc.UserID)

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("error uploading backup: %w", err)
	}

	return key, nil
}

// Run exports the user's data and uploads it, returning the object key.
func (s *Service) Run(ctx context.Context, userID string) (string, error) {
	doc, err := s.Export(ctx, userID)
	if err != nil {
		return "", err
	}
	return s.Upload(ctx, doc)
}
