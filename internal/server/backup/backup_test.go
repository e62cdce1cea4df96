package backup

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sc "github.com/dmitrijs2005/timekeeper/internal/server/config"
	"github.com/dmitrijs2005/timekeeper/internal/server/models"
	"github.com/dmitrijs2005/timekeeper/internal/server/storage"
)

type fakePutter struct {
	input *s3.PutObjectInput
	err   error
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func newTestService(t *testing.T) (*Service, *fakePutter, *storage.Repositories) {
	t.Helper()

	repos := storage.NewJSONRepositories(t.TempDir())

	cfg := &sc.Config{}
	cfg.LoadDefaults()

	putter := &fakePutter{}
	return NewServiceWithClient(repos, cfg, putter), putter, repos
}

func seedUserData(t *testing.T, repos *storage.Repositories) *models.User {
	t.Helper()
	ctx := context.Background()

	u := models.NewUser("alice", nil)
	u.Preferences = models.DefaultPreferences()
	require.NoError(t, repos.Users.Add(ctx, u))

	p := models.NewProject(u.ID, "Website")
	require.NoError(t, repos.Projects.Add(ctx, p))

	e := models.NewTimeEntry(u.ID, p.ID, nil)
	e.StartTime = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	e.EndTime = &end
	e.DurationMinutes = 60
	require.NoError(t, repos.TimeEntries.Add(ctx, e))

	return u
}

func TestExport_CollectsAllCollections(t *testing.T) {
	svc, _, repos := newTestService(t)
	u := seedUserData(t, repos)

	doc, err := svc.Export(context.Background(), u.ID)
	require.NoError(t, err)

	assert.Equal(t, u.ID, doc.UserID)
	assert.Equal(t, "alice", doc.Username)
	assert.Equal(t, "light", doc.Preferences["theme"])
	assert.Len(t, doc.Projects, 1)
	assert.Len(t, doc.TimeEntries, 1)
	assert.Empty(t, doc.Timesheets)
	assert.False(t, doc.BackupDate.IsZero())
}

func TestExport_UnknownUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Export(context.Background(), "nobody")
	require.Error(t, err)
}

func TestRun_UploadsDocument(t *testing.T) {
	svc, putter, repos := newTestService(t)
	u := seedUserData(t, repos)

	key, err := svc.Run(context.Background(), u.ID)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "users/"+u.ID+"/"), "unexpected key %q", key)
	assert.True(t, strings.HasSuffix(key, ".json"))

	require.NotNil(t, putter.input)
	assert.Equal(t, "backups", *putter.input.Bucket)
	assert.Equal(t, key, *putter.input.Key)

	body, err := io.ReadAll(putter.input.Body)
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.Equal(t, u.ID, doc.UserID)
	assert.Len(t, doc.Projects, 1)
	assert.Len(t, doc.TimeEntries, 1)
}

func TestRun_UploadError(t *testing.T) {
	svc, putter, repos := newTestService(t)
	u := seedUserData(t, repos)

	putter.err = assert.AnError

	_, err := svc.Run(context.Background(), u.ID)
	require.ErrorIs(t, err, assert.AnError)
}
