package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/branding"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/config"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/domain"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/store"
)

// --- テスト用フェイク ---

type fakeSlack struct {
	mu        sync.Mutex
	completed []domain.NotificationRequest
	failed    []domain.NotificationRequest
}

func (f *fakeSlack) NotifyCompleted(ctx context.Context, req domain.NotificationRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed = append(f.completed, req)
	return nil
}

func (f *fakeSlack) NotifyFailed(ctx context.Context, req domain.NotificationRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed = append(f.failed, req)
	return nil
}

type webhookCall struct {
	url string
	job domain.ProcessingJob
}

type fakeWebhook struct {
	mu    sync.Mutex
	calls []webhookCall
}

func (f *fakeWebhook) NotifyResult(ctx context.Context, webhookURL string, job domain.ProcessingJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, webhookCall{url: webhookURL, job: job})
	return nil
}

func (f *fakeWebhook) all() []webhookCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]webhookCall(nil), f.calls...)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.JobEvent
}

func (f *fakePublisher) Publish(ctx context.Context, event domain.JobEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func (f *fakePublisher) all() []domain.JobEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.JobEvent(nil), f.events...)
}

type fakeUploader struct {
	mu    sync.Mutex
	delay time.Duration
	paths []string
}

func (f *fakeUploader) Upload(ctx context.Context, objectPath string, descriptor domain.PackageDescriptor) error {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, objectPath)
	return nil
}

func (f *fakeUploader) all() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.paths...)
}

// --- フィクスチャ ---

type fixture struct {
	pipeline  *ContentPipeline
	store     *store.Memory
	slack     *fakeSlack
	webhook   *fakeWebhook
	publisher *fakePublisher
	uploader  *fakeUploader
}

func testConfig() *config.Config {
	return &config.Config{
		MaxContentBytes:  512000,
		SessionBudget:    450 * time.Second,
		ValidationBudget: 5 * time.Second,
		JobDeadline:      30 * time.Minute,
		CDNBaseURL:       "https://content.diginative.eu",
		DefaultRegion:    "eu-central",
		BaseOutputDir:    "artifacts",
	}
}

func newFixture(t *testing.T, cfg *config.Config) *fixture {
	t.Helper()

	f := &fixture{
		store:     store.NewMemory(),
		slack:     &fakeSlack{},
		webhook:   &fakeWebhook{},
		publisher: &fakePublisher{},
		uploader:  &fakeUploader{},
	}
	resolver := branding.NewResolver(branding.NewStaticSource(branding.DefaultTable()))

	p, err := New(cfg, f.store, resolver, f.uploader, f.slack, f.webhook, f.publisher)
	require.NoError(t, err)
	f.pipeline = p
	return f
}

func validManifest() domain.GameManifest {
	return domain.GameManifest{
		GameID: "malmo-gdpr-101",
		Metadata: domain.GameMetadata{
			Title:    "GDPR för handläggare",
			Duration: 420,
			Language: "sv",
		},
		Scenes: []domain.Scene{
			{
				ID:    "s1",
				Type:  domain.SceneTypeDialogue,
				Title: "Introduktion",
				Content: json.RawMessage(
					`{"speaker":"Anna","lines":[{"text":"Välkommen!"},{"text":"Idag pratar vi om GDPR."}]}`),
			},
			{
				ID:   "s2",
				Type: domain.SceneTypeQuiz,
				Content: json.RawMessage(
					`{"questions":[{"text":"Vad är en personuppgift?","options":[{"text":"Namn","correct":true},{"text":"Väder"}]}]}`),
			},
			{
				ID:   "s3",
				Type: domain.SceneTypeAssessment,
				Content: json.RawMessage(
					`{"passingScore":80,"sections":[{"title":"Grund","weight":100}]}`),
			},
		},
	}
}

func submission(jobID string) domain.ProcessTaskPayload {
	return domain.ProcessTaskPayload{
		JobID:    jobID,
		Manifest: validManifest(),
		Options: domain.DeploymentOptions{
			Formats:        []domain.DeploymentFormat{domain.FormatWeb, domain.FormatSCORM, domain.FormatPWA},
			Markets:        []string{"SE"},
			MunicipalityID: "malmo",
			BrandingLevel:  domain.BrandingFull,
		},
		WebhookURL: "https://devteam.example/hooks/content",
	}
}

func seedJob(t *testing.T, f *fixture, payload domain.ProcessTaskPayload) {
	t.Helper()
	job := domain.NewProcessingJob(payload.JobID, payload.Manifest.GameID, payload.Options.MunicipalityID, time.Now())
	require.NoError(t, f.store.Create(context.Background(), job))
}

// --- テスト ---

func TestPipelineCompletesSubmission(t *testing.T) {
	f := newFixture(t, testConfig())
	payload := submission("job-1")
	seedJob(t, f, payload)

	require.NoError(t, f.pipeline.Execute(context.Background(), payload))

	job, err := f.store.Get(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, job.Status)
	assert.Equal(t, 100, job.Progress)
	assert.Equal(t, "deployment complete", job.Message)
	require.NotNil(t, job.EndTime)
	assert.Empty(t, job.Errors)

	wantURLs := map[domain.DeploymentFormat]string{
		domain.FormatWeb:   "https://content.diginative.eu/eu-north/malmo/malmo-gdpr-101/web/index.html",
		domain.FormatSCORM: "https://content.diginative.eu/eu-north/malmo/malmo-gdpr-101/scorm/scorm-package.zip",
		domain.FormatPWA:   "https://content.diginative.eu/eu-north/malmo/malmo-gdpr-101/pwa/manifest.webmanifest",
	}
	assert.Equal(t, wantURLs, job.DeploymentURLs)

	assert.ElementsMatch(t, []string{
		"artifacts/job-1/web-descriptor.json",
		"artifacts/job-1/scorm-descriptor.json",
		"artifacts/job-1/pwa-descriptor.json",
	}, f.uploader.all())

	statuses := make([]domain.JobStatus, 0)
	lastProgress := -1
	for _, ev := range f.publisher.all() {
		statuses = append(statuses, ev.Status)
		assert.GreaterOrEqual(t, ev.Progress, lastProgress, "progress must not move backwards")
		lastProgress = ev.Progress
	}
	assert.Equal(t, []domain.JobStatus{
		domain.StatusValidating,
		domain.StatusProcessing,
		domain.StatusBranding,
		domain.StatusPackaging,
		domain.StatusDeploying,
		domain.StatusCompleted,
	}, statuses)

	require.Len(t, f.slack.completed, 1)
	assert.Empty(t, f.slack.failed)
	assert.Equal(t, "malmo", f.slack.completed[0].Municipality)

	calls := f.webhook.all()
	require.Len(t, calls, 1)
	assert.Equal(t, "https://devteam.example/hooks/content", calls[0].url)
	assert.Equal(t, domain.StatusCompleted, calls[0].job.Status)
	assert.Equal(t, wantURLs, calls[0].job.DeploymentURLs)
}

func TestPipelineFailsInvalidManifest(t *testing.T) {
	f := newFixture(t, testConfig())
	payload := submission("job-2")
	payload.Manifest.GameID = ""
	payload.Manifest.Scenes = nil
	seedJob(t, f, payload)

	require.NoError(t, f.pipeline.Execute(context.Background(), payload))

	job, err := f.store.Get(context.Background(), "job-2")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, job.Status)
	assert.Equal(t, 10, job.Progress)
	assert.Contains(t, job.Message, "ValidationError")
	require.NotNil(t, job.EndTime)

	joined := strings.Join(job.Errors, "\n")
	assert.Contains(t, joined, "gameId")
	assert.Contains(t, joined, "scenes")

	assert.Empty(t, f.uploader.all())
	assert.Empty(t, f.slack.completed)
	require.Len(t, f.slack.failed, 1)

	calls := f.webhook.all()
	require.Len(t, calls, 1)
	assert.Equal(t, domain.StatusFailed, calls[0].job.Status)
	assert.NotEmpty(t, calls[0].job.Errors)
}

func TestPipelineFailsWholeJobOnPackagingFailure(t *testing.T) {
	f := newFixture(t, testConfig())
	payload := submission("job-3")
	payload.Options.Formats = []domain.DeploymentFormat{domain.FormatWeb, domain.DeploymentFormat("flash")}
	seedJob(t, f, payload)

	require.NoError(t, f.pipeline.Execute(context.Background(), payload))

	job, err := f.store.Get(context.Background(), "job-3")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, job.Status)
	assert.Equal(t, 70, job.Progress)
	assert.Contains(t, job.Message, "PackagingError")
	require.Len(t, job.Errors, 1)
	assert.Contains(t, job.Errors[0], "flash")

	// 部分成功は配らないので、成功した形式の記述も保存しません。
	assert.Empty(t, f.uploader.all())
}

func TestPipelineWatchdogForceFailsStalledJob(t *testing.T) {
	cfg := testConfig()
	cfg.JobDeadline = 50 * time.Millisecond

	f := newFixture(t, cfg)
	f.uploader.delay = 400 * time.Millisecond

	payload := submission("job-4")
	seedJob(t, f, payload)

	require.NoError(t, f.pipeline.Execute(context.Background(), payload))

	job, err := f.store.Get(context.Background(), "job-4")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, job.Status)
	assert.Equal(t, 90, job.Progress)
	assert.Contains(t, job.Message, "TimeoutError")
	require.Len(t, job.Errors, 1)
	assert.Contains(t, job.Errors[0], "deadline")

	require.Len(t, f.webhook.all(), 1)
	require.Len(t, f.slack.failed, 1)
}

func TestPipelineSkipsRedeliveredTerminalJob(t *testing.T) {
	f := newFixture(t, testConfig())
	payload := submission("job-5")
	seedJob(t, f, payload)

	_, err := f.store.Update(context.Background(), "job-5", store.Mutation{
		Next:    domain.StatusFailed,
		Message: "ValidationError during validating",
		Errors:  []string{"manifest/gameId: missing property"},
	})
	require.NoError(t, err)

	require.NoError(t, f.pipeline.Execute(context.Background(), payload))

	assert.Empty(t, f.publisher.all())
	assert.Empty(t, f.webhook.all())
	assert.Empty(t, f.slack.failed)
}

func TestPipelineBootstrapsMissingRecord(t *testing.T) {
	f := newFixture(t, testConfig())
	payload := submission("job-6")

	require.NoError(t, f.pipeline.Execute(context.Background(), payload))

	job, err := f.store.Get(context.Background(), "job-6")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, job.Status)
	assert.Equal(t, "malmo-gdpr-101", job.GameID)
	assert.Equal(t, "malmo", job.MunicipalityID)

	events := f.publisher.all()
	require.NotEmpty(t, events)
	assert.Equal(t, domain.StatusReceived, events[0].Status)
	assert.Equal(t, domain.StatusCompleted, events[len(events)-1].Status)
}

func TestPipelineMapsUnknownMarketToDefaultRegion(t *testing.T) {
	f := newFixture(t, testConfig())
	payload := submission("job-7")
	payload.Options.Formats = []domain.DeploymentFormat{domain.FormatWeb}
	payload.Options.Markets = []string{"JP"}
	seedJob(t, f, payload)

	require.NoError(t, f.pipeline.Execute(context.Background(), payload))

	job, err := f.store.Get(context.Background(), "job-7")
	require.NoError(t, err)
	require.Equal(t, domain.StatusCompleted, job.Status)
	assert.Equal(t,
		"https://content.diginative.eu/eu-central/malmo/malmo-gdpr-101/web/index.html",
		job.DeploymentURLs[domain.FormatWeb])
}
