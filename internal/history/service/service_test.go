package service

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflow-runchart/internal/entity"
	"workflow-runchart/internal/history/config"
	"workflow-runchart/internal/history/dto"
	"workflow-runchart/internal/history/repository"
	"workflow-runchart/pkg/logger"
)

const versionPattern = `airtable_sync_wheel_file_name: airtable_sync-(\d+\.\d+\.\d+)`

type fakeGitHub struct {
	runs    []dto.WorkflowRun
	logs    map[int64][]byte
	listErr error
}

func (f *fakeGitHub) ListWorkflowRuns(context.Context) ([]dto.WorkflowRun, error) {
	return f.runs, f.listErr
}

func (f *fakeGitHub) DownloadRunLogs(_ context.Context, runID int64) ([]byte, error) {
	archive, ok := f.logs[runID]
	if !ok {
		return nil, errors.New("logs expired")
	}
	return archive, nil
}

type fakeGist struct {
	content string
	readErr error
	written []string
}

func (f *fakeGist) Read(context.Context) (string, error) {
	return f.content, f.readErr
}

func (f *fakeGist) Write(_ context.Context, content string) error {
	f.written = append(f.written, content)
	f.content = content
	return nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeNotifier) SendMessage(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, text)
	return nil
}

func logArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func run(id int64, number int, event, status, conclusion string, seconds int) dto.WorkflowRun {
	started := time.Date(2024, 10, 19, 3, 0, 0, 0, time.UTC)
	return dto.WorkflowRun{
		ID:           id,
		RunNumber:    number,
		Event:        event,
		Status:       status,
		Conclusion:   conclusion,
		RunStartedAt: started,
		UpdatedAt:    started.Add(time.Duration(seconds)*time.Second + 700*time.Millisecond),
	}
}

func testConfig() *config.Config {
	return &config.Config{
		GitHub: config.GitHub{Owner: "zhongkairen", Repo: "airtable-sync"},
		Gist:   config.Gist{FileName: "run_history.csv"},
		Sync: config.Sync{
			LogFileName:            "0_run-prd-sync.txt",
			VersionPattern:         versionPattern,
			MaxConcurrentDownloads: 2,
		},
	}
}

func TestHistory(t *testing.T) {
	h, err := ParseHistory("2024-10-18T21:43:46Z,46,schedule,success,31s,v0.2.0\n\n2024-10-17T21:43:46Z,44,schedule,failure,3s,v0.1.9\n")
	require.NoError(t, err)
	assert.Equal(t, 2, h.Len())
	assert.True(t, h.Contains(46))
	assert.False(t, h.Contains(45))

	added := h.Add(
		entity.HistoryItem{StartedAt: "2024-10-18T01:00:00Z", RunNumber: 45, Event: "workflow_dispatch", Conclusion: "success", Duration: "20s", Version: "v0.2.0"},
		entity.HistoryItem{StartedAt: "dup", RunNumber: 46},
	)
	assert.Equal(t, 1, added)
	assert.Equal(t, "2024-10-18T21:43:46Z,46,schedule,success,31s,v0.2.0\n"+
		"2024-10-18T01:00:00Z,45,workflow_dispatch,success,20s,v0.2.0\n"+
		"2024-10-17T21:43:46Z,44,schedule,failure,3s,v0.1.9", h.String())

	_, err = ParseHistory("2024-10-18T21:43:46Z,x,schedule,success,31s,v0.2.0")
	assert.ErrorContains(t, err, "line 1")
}

func TestVersionExtractor(t *testing.T) {
	e, err := NewVersionExtractor("0_run-prd-sync.txt", versionPattern)
	require.NoError(t, err)

	archive := logArchive(t, map[string]string{
		"0_run-prd-sync.txt": "setup\nairtable_sync_wheel_file_name: airtable_sync-0.2.1-py3-none-any.whl\n",
		"1_other.txt":        "airtable_sync_wheel_file_name: airtable_sync-9.9.9",
	})
	version, err := e.Extract(archive)
	require.NoError(t, err)
	assert.Equal(t, "0.2.1", version)

	version, err = e.Extract(logArchive(t, map[string]string{"1_other.txt": "nothing"}))
	require.NoError(t, err)
	assert.Empty(t, version)

	_, err = e.Extract([]byte("not a zip"))
	assert.Error(t, err)

	assert.Equal(t, "v0.2.1", FormatVersion("0.2.1"))
	assert.Equal(t, "vNone", FormatVersion(""))

	_, err = NewVersionExtractor("f", `no-group`)
	assert.ErrorContains(t, err, "no capture group")
	_, err = NewVersionExtractor("f", `(`)
	assert.ErrorContains(t, err, "invalid version pattern")
}

func TestSyncAddsCompletedRuns(t *testing.T) {
	github := &fakeGitHub{
		runs: []dto.WorkflowRun{
			run(101, 48, "schedule", "in_progress", "", 0),
			run(100, 47, "schedule", "completed", "failure", 12),
			run(99, 46, "schedule", "completed", "success", 31),
			run(98, 45, "workflow_dispatch", "completed", "success", 20),
		},
		logs: map[int64][]byte{
			98: logArchive(t, map[string]string{
				"0_run-prd-sync.txt": "airtable_sync_wheel_file_name: airtable_sync-0.2.0-py3-none-any.whl",
			}),
		},
	}
	gist := &fakeGist{content: "2024-10-18T21:43:46Z,46,schedule,success,31s,v0.2.0"}
	notifier := &fakeNotifier{}

	svc, err := NewSyncService(github, gist, notifier, logger.NewNop(), testConfig())
	require.NoError(t, err)

	result, err := svc.Sync(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Written)
	assert.Equal(t, 1, result.Incomplete)
	assert.Equal(t, 3, result.Total)
	require.Len(t, result.Added, 2)
	assert.Equal(t, 47, result.Added[0].RunNumber)
	assert.Equal(t, 45, result.Added[1].RunNumber)

	require.Len(t, gist.written, 1)
	assert.Equal(t,
		"2024-10-19T03:00:00Z,47,schedule,failure,12s,vNone\n"+
			"2024-10-18T21:43:46Z,46,schedule,success,31s,v0.2.0\n"+
			"2024-10-19T03:00:00Z,45,workflow_dispatch,success,20s,v0.2.0",
		gist.written[0])

	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "*Run #47* `failure`")
	assert.NotContains(t, notifier.messages[0], "#45")
}

func TestSyncNothingNew(t *testing.T) {
	github := &fakeGitHub{runs: []dto.WorkflowRun{run(99, 46, "schedule", "completed", "success", 31)}}
	gist := &fakeGist{content: "2024-10-18T21:43:46Z,46,schedule,success,31s,v0.2.0"}

	svc, err := NewSyncService(github, gist, &fakeNotifier{}, logger.NewNop(), testConfig())
	require.NoError(t, err)

	result, err := svc.Sync(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Written)
	assert.Empty(t, result.Added)
	assert.Empty(t, gist.written)
}

func TestSyncMissingGistFileStartsFresh(t *testing.T) {
	github := &fakeGitHub{runs: []dto.WorkflowRun{run(99, 1, "schedule", "completed", "success", 5)}}
	gist := &fakeGist{readErr: repository.ErrGistFileMissing}

	svc, err := NewSyncService(github, gist, nil, logger.NewNop(), testConfig())
	require.NoError(t, err)

	result, err := svc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, []string{"2024-10-19T03:00:00Z,1,schedule,success,5s,vNone"}, gist.written)
}

func TestSyncErrors(t *testing.T) {
	svc, err := NewSyncService(&fakeGitHub{}, &fakeGist{content: "broken"}, nil, logger.NewNop(), testConfig())
	require.NoError(t, err)
	_, err = svc.Sync(context.Background())
	assert.ErrorContains(t, err, "failed to parse history")

	svc, err = NewSyncService(&fakeGitHub{listErr: errors.New("boom")}, &fakeGist{}, nil, logger.NewNop(), testConfig())
	require.NoError(t, err)
	_, err = svc.Sync(context.Background())
	assert.ErrorContains(t, err, "failed to list workflow runs")

	cfg := testConfig()
	cfg.Sync.VersionPattern = "("
	_, err = NewSyncService(&fakeGitHub{}, &fakeGist{}, nil, logger.NewNop(), cfg)
	assert.Error(t, err)
}

type countingSync struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingSync) Sync(context.Context) (*SyncResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &SyncResult{}, nil
}

func TestSchedulerService(t *testing.T) {
	_, err := NewSchedulerService(&countingSync{}, logger.NewNop(), "not a schedule")
	assert.ErrorContains(t, err, "invalid sync schedule")

	syncer := &countingSync{}
	s, err := NewSchedulerService(syncer, logger.NewNop(), "0 * * * *")
	require.NoError(t, err)

	impl := s.(*schedulerService)
	impl.now = func() time.Time { return time.Date(2024, 10, 19, 3, 15, 0, 0, time.UTC) }
	assert.Equal(t, time.Date(2024, 10, 19, 4, 0, 0, 0, time.UTC), s.Next())

	impl.runOnce(context.Background())
	syncer.err = errors.New("boom")
	impl.runOnce(context.Background())
	assert.Equal(t, 2, syncer.calls)

	impl.now = time.Now
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
