package handlers

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/linkguard/internal/actionlog"
	"github.com/edgard/linkguard/internal/config"
	"github.com/edgard/linkguard/internal/database"
	"github.com/edgard/linkguard/internal/filter"
	"github.com/edgard/linkguard/internal/metrics"
	"github.com/edgard/linkguard/internal/moderation"
)

const (
	testGroupID = int64(-100123)
	testAdminID = int64(10)
	testUserID  = int64(20)
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeAPI records Bot API calls made by the handlers.
type fakeAPI struct {
	mu sync.Mutex

	members     map[int64]models.ChatMemberType
	memberErr   error
	memberCalls int

	deleteErr error
	deleteNot bool
	deleted   []tgbot.DeleteMessageParams

	sendErr error
	sent    []tgbot.SendMessageParams
	nextID  int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		members: map[int64]models.ChatMemberType{testAdminID: models.ChatMemberTypeAdministrator},
		nextID:  1000,
	}
}

func (f *fakeAPI) GetChatMember(_ context.Context, params *tgbot.GetChatMemberParams) (*models.ChatMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.memberCalls++
	if f.memberErr != nil {
		return nil, f.memberErr
	}
	t, ok := f.members[params.UserID]
	if !ok {
		t = models.ChatMemberTypeMember
	}
	return &models.ChatMember{Type: t}, nil
}

func (f *fakeAPI) DeleteMessage(_ context.Context, params *tgbot.DeleteMessageParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	if f.deleteNot {
		return false, nil
	}
	f.deleted = append(f.deleted, *params)
	return true, nil
}

func (f *fakeAPI) SendMessage(_ context.Context, params *tgbot.SendMessageParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent = append(f.sent, *params)
	f.nextID++
	return &models.Message{ID: f.nextID, Chat: models.Chat{ID: params.ChatID.(int64)}}, nil
}

func (f *fakeAPI) sentTexts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	texts := make([]string, 0, len(f.sent))
	for _, p := range f.sent {
		texts = append(texts, p.Text)
	}
	return texts
}

func (f *fakeAPI) deletedIDs() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]int, 0, len(f.deleted))
	for _, p := range f.deleted {
		ids = append(ids, p.MessageID)
	}
	return ids
}

// fakeScheduler captures one-time jobs instead of running them.
type fakeScheduler struct {
	mu   sync.Mutex
	err  error
	jobs []scheduledJob
}

type scheduledJob struct {
	name string
	at   time.Time
	task func(ctx context.Context)
}

func (s *fakeScheduler) ScheduleOnce(name string, at time.Time, task func(ctx context.Context)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.jobs = append(s.jobs, scheduledJob{name: name, at: at, task: task})
	return nil
}

// fakeRecorder collects action log entries.
type fakeRecorder struct {
	mu      sync.Mutex
	entries []actionlog.Entry
}

func (r *fakeRecorder) Record(_ context.Context, e actionlog.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

// fakeStore implements database.Store with a canned deletion count.
type fakeStore struct {
	count    int
	countErr error
	since    time.Time

	recent      []database.Deletion
	recentLimit int
}

var _ database.Store = (*fakeStore)(nil)

func (s *fakeStore) Ping(context.Context) error                             { return nil }
func (s *fakeStore) SaveDeletion(context.Context, *database.Deletion) error { return nil }
func (s *fakeStore) RecentDeletions(_ context.Context, _ int64, limit int) ([]database.Deletion, error) {
	s.recentLimit = limit
	return s.recent, nil
}
func (s *fakeStore) CountDeletionsSince(_ context.Context, _ int64, since time.Time) (int, error) {
	s.since = since
	return s.count, s.countErr
}
func (s *fakeStore) PruneDeletionsBefore(context.Context, time.Time) (int64, error) { return 0, nil }
func (s *fakeStore) RunSQLMaintenance(context.Context) error                        { return nil }

type testEnv struct {
	deps      HandlerDeps
	api       *fakeAPI
	scheduler *fakeScheduler
	recorder  *fakeRecorder
}

func newTestEnv(enabled bool) *testEnv {
	cfg := &config.Config{}
	cfg.Messages = config.DefaultMessages
	cfg.Moderation.Notify = true
	cfg.Telegram.BotUsername = "LinkGuardBot"

	log := discardLogger()
	sched := &fakeScheduler{}
	rec := &fakeRecorder{}
	wl := filter.NewWhitelist([]string{"telegram.org", "t.me"}, filter.WithSubdomains(true))

	return &testEnv{
		deps: HandlerDeps{
			Logger:    log,
			Config:    cfg,
			State:     moderation.NewState(enabled, wl),
			Admins:    NewAdminResolver(nil, time.Minute, log),
			Deleter:   NewDeleter(600, 100, log),
			Notifier:  NewNotifier(sched, 10*time.Second, log),
			ActionLog: rec,
			Metrics:   metrics.New(),
		},
		api:       newFakeAPI(),
		scheduler: sched,
		recorder:  rec,
	}
}

func groupMessage(id int, from int64, text string) *models.Message {
	return &models.Message{
		ID:   id,
		From: &models.User{ID: from, Username: "spammer", FirstName: "Test"},
		Chat: models.Chat{ID: testGroupID, Type: models.ChatTypeSupergroup, Title: "Test group"},
		Text: text,
	}
}
