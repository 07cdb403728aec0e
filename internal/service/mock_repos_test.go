package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kabaddi-od/backend/config"
	"kabaddi-od/backend/internal/model"
	"kabaddi-od/backend/internal/notify"
	"kabaddi-od/backend/internal/repository"
	"kabaddi-od/backend/pkg/civilday"
	pkgerrors "kabaddi-od/backend/pkg/errors"
	"kabaddi-od/backend/pkg/jwt"
)

// 测试基准时间：2026-10-19 10:00 (+05:30)
var testNow = time.Date(2026, 10, 19, 10, 0, 0, 0, time.FixedZone("UTC+05:30", 330*60))

func testClock() *civilday.Clock {
	return civilday.New(330).WithNow(func() time.Time { return testNow })
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8000, BaseURL: "http://localhost:8000/"},
		Auth: config.AuthConfig{
			JWTSecret:  "test-secret-key-for-unit-testing",
			SessionTTL: 30 * time.Minute,
		},
		Admin: config.AdminConfig{Username: "admin", Password: "admin123"},
		App: config.AppConfig{
			Name:             "Kabaddi",
			EmailDomain:      "vitbhopal.ac.in",
			UTCOffsetMinutes: 330,
			NotifyTimeout:    time.Second,
		},
	}
}

func conflictErr() error {
	return fmt.Errorf("%w: %w", pkgerrors.ErrPersistenceConflict, gorm.ErrDuplicatedKey)
}

// ── 测试环境 ──

type testEnv struct {
	cfg      *config.Config
	clock    *civilday.Clock
	repo     *repository.Repository
	slots    *mockSlotRepo
	subs     *mockSubmissionRepo
	admins   *mockAdminRepo
	logs     *mockAdminLogRepo
	notifier *mockNotifier
	svc      *Service
}

func newTestEnv(activeSlots ...string) *testEnv {
	env := &testEnv{
		cfg:      testConfig(),
		clock:    testClock(),
		slots:    newMockSlotRepo(),
		subs:     newMockSubmissionRepo(),
		admins:   newMockAdminRepo(),
		logs:     &mockAdminLogRepo{},
		notifier: newMockNotifier(),
	}
	for _, label := range activeSlots {
		env.slots.add(label, true)
	}
	env.repo = &repository.Repository{
		Slot:       env.slots,
		Submission: env.subs,
		Admin:      env.admins,
		AdminLog:   env.logs,
	}
	env.svc = NewService(env.cfg, env.repo, jwt.NewManager(&env.cfg.Auth), nil, env.notifier, env.clock, zap.NewNop())
	return env
}

// ── Mock SlotRepository ──

type mockSlotRepo struct {
	slots []*model.Slot
	seq   int
}

func newMockSlotRepo() *mockSlotRepo {
	return &mockSlotRepo{}
}

func (m *mockSlotRepo) add(label string, active bool) *model.Slot {
	m.seq++
	s := &model.Slot{
		SlotID:    uuid.NewString(),
		Time:      label,
		IsActive:  active,
		BaseModel: model.BaseModel{CreatedAt: testNow.Add(time.Duration(m.seq) * time.Second)},
	}
	m.slots = append(m.slots, s)
	return s
}

func (m *mockSlotRepo) Create(_ context.Context, slot *model.Slot) error {
	for _, s := range m.slots {
		if s.Time == slot.Time {
			return conflictErr()
		}
	}
	created := m.add(slot.Time, slot.IsActive)
	*slot = *created
	return nil
}

func (m *mockSlotRepo) GetByID(_ context.Context, id string) (*model.Slot, error) {
	for _, s := range m.slots {
		if s.SlotID == id {
			c := *s
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSlotRepo) GetByTime(_ context.Context, label string) (*model.Slot, error) {
	for _, s := range m.slots {
		if s.Time == label {
			c := *s
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSlotRepo) List(_ context.Context, activeOnly bool) ([]model.Slot, error) {
	var out []model.Slot
	for _, s := range m.slots {
		if activeOnly && !s.IsActive {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockSlotRepo) Toggle(_ context.Context, id string) (*model.Slot, error) {
	for _, s := range m.slots {
		if s.SlotID == id {
			s.IsActive = !s.IsActive
			c := *s
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSlotRepo) Delete(_ context.Context, id string) error {
	for i, s := range m.slots {
		if s.SlotID == id {
			m.slots = append(m.slots[:i], m.slots[i+1:]...)
			return nil
		}
	}
	return nil
}

// ── Mock SubmissionRepository ──
// 模拟 (reg_no, date_str) 部分唯一索引、软删除与 edit_count 乐观锁

type mockSubmissionRepo struct {
	mu    sync.Mutex
	subs []*model.Submission

	// skipPrecheck 模拟并发：预检查看不到另一请求刚写入的记录
	skipPrecheck bool
	createErr    error
}

func newMockSubmissionRepo() *mockSubmissionRepo {
	return &mockSubmissionRepo{}
}

func cloneSubmission(s *model.Submission) *model.Submission {
	c := *s
	c.Slots = append(pq.StringArray{}, s.Slots...)
	return &c
}

// seed 直接写入一条记录
func (m *mockSubmissionRepo) seed(sub *model.Submission) *model.Submission {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sub.SubmissionID == "" {
		sub.SubmissionID = uuid.NewString()
	}
	m.subs = append(m.subs, cloneSubmission(sub))
	return sub
}

func (m *mockSubmissionRepo) find(id string) *model.Submission {
	for _, s := range m.subs {
		if s.SubmissionID == id {
			return s
		}
	}
	return nil
}

func (m *mockSubmissionRepo) occupied(regNo, dateStr, exceptID string) bool {
	for _, s := range m.subs {
		if s.SubmissionID != exceptID && !s.DeletedAt.Valid && s.RegNo == regNo && s.DateStr == dateStr {
			return true
		}
	}
	return false
}

func (m *mockSubmissionRepo) Create(_ context.Context, sub *model.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if m.occupied(sub.RegNo, sub.DateStr, "") {
		return conflictErr()
	}
	sub.SubmissionID = uuid.NewString()
	m.subs = append(m.subs, cloneSubmission(sub))
	return nil
}

func (m *mockSubmissionRepo) GetByID(_ context.Context, id string) (*model.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s := m.find(id); s != nil && !s.DeletedAt.Valid {
		return cloneSubmission(s), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubmissionRepo) GetByIDUnscoped(_ context.Context, id string) (*model.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s := m.find(id); s != nil {
		return cloneSubmission(s), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubmissionRepo) FindActiveByRegNoAndDate(_ context.Context, regNo, dateStr string) (*model.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.skipPrecheck {
		return nil, gorm.ErrRecordNotFound
	}
	for _, s := range m.subs {
		if !s.DeletedAt.Valid && s.RegNo == regNo && s.DateStr == dateStr {
			return cloneSubmission(s), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubmissionRepo) Update(_ context.Context, sub *model.Submission, expectedEditCount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.find(sub.SubmissionID)
	if s == nil || s.DeletedAt.Valid || s.EditCount != expectedEditCount {
		return pkgerrors.ErrOptimisticLock
	}
	if m.occupied(sub.RegNo, s.DateStr, s.SubmissionID) {
		return conflictErr()
	}
	s.RegNo = sub.RegNo
	s.Email = sub.Email
	s.Slots = append(pq.StringArray{}, sub.Slots...)
	s.EditCount = sub.EditCount
	return nil
}

func (m *mockSubmissionRepo) SoftDelete(_ context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.find(id)
	if s == nil || s.DeletedAt.Valid {
		return 0, nil
	}
	s.DeletedAt = gorm.DeletedAt{Time: testNow, Valid: true}
	return 1, nil
}

func (m *mockSubmissionRepo) Restore(_ context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.find(id)
	if s == nil || !s.DeletedAt.Valid {
		return 0, nil
	}
	if m.occupied(s.RegNo, s.DateStr, s.SubmissionID) {
		return 0, conflictErr()
	}
	s.DeletedAt = gorm.DeletedAt{}
	return 1, nil
}

func (m *mockSubmissionRepo) HardDelete(_ context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.subs {
		if s.SubmissionID == id {
			m.subs = append(m.subs[:i], m.subs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *mockSubmissionRepo) DeleteTrashed(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*model.Submission
	var n int64
	for _, s := range m.subs {
		if s.DeletedAt.Valid {
			n++
			continue
		}
		kept = append(kept, s)
	}
	m.subs = kept
	return n, nil
}

func (m *mockSubmissionRepo) List(_ context.Context, f repository.SubmissionFilter) ([]model.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Submission
	for _, s := range m.subs {
		if s.DeletedAt.Valid != f.Trash {
			continue
		}
		if f.EmailPrefix != "" {
			if !strings.HasPrefix(strings.ToLower(s.Email), strings.ToLower(f.EmailPrefix)) {
				continue
			}
		} else {
			if !f.From.IsZero() && s.CreatedAt.Before(f.From) {
				continue
			}
			if !f.To.IsZero() && !s.CreatedAt.Before(f.To) {
				continue
			}
		}
		out = append(out, *cloneSubmission(s))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if f.OldestFirst {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *mockSubmissionRepo) count(trashed bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.subs {
		if s.DeletedAt.Valid == trashed {
			n++
		}
	}
	return n
}

// ── Mock AdminRepository ──

type mockAdminRepo struct {
	admins []*model.Admin
}

func newMockAdminRepo() *mockAdminRepo {
	return &mockAdminRepo{}
}

func (m *mockAdminRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.admins)), nil
}

func (m *mockAdminRepo) Create(_ context.Context, admin *model.Admin) error {
	for _, a := range m.admins {
		if a.Username == admin.Username {
			return conflictErr()
		}
	}
	admin.AdminID = uuid.NewString()
	c := *admin
	m.admins = append(m.admins, &c)
	return nil
}

func (m *mockAdminRepo) GetByUsername(_ context.Context, username string) (*model.Admin, error) {
	for _, a := range m.admins {
		if a.Username == username {
			c := *a
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAdminRepo) Update(_ context.Context, admin *model.Admin) error {
	for _, a := range m.admins {
		if a.AdminID != admin.AdminID && a.Username == admin.Username {
			return conflictErr()
		}
	}
	for _, a := range m.admins {
		if a.AdminID == admin.AdminID {
			a.Username = admin.Username
			a.PasswordHash = admin.PasswordHash
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Mock AdminLogRepository ──

type mockAdminLogRepo struct {
	mu      sync.Mutex
	entries []model.AdminLog
	err     error
}

func (m *mockAdminLogRepo) Create(_ context.Context, entry *model.AdminLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	entry.LogID = uuid.NewString()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockAdminLogRepo) List(_ context.Context, f repository.AdminLogFilter, offset, limit int) ([]model.AdminLog, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	actions := make(map[string]bool, len(f.Actions))
	for _, a := range f.Actions {
		actions[a] = true
	}

	// 新的在前
	var matched []model.AdminLog
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if len(actions) > 0 && !actions[e.Action] {
			continue
		}
		if f.LogType != "" && e.LogType != f.LogType {
			continue
		}
		if f.Level != "" && e.Level != f.Level {
			continue
		}
		matched = append(matched, e)
	}

	total := int64(len(matched))
	if offset >= len(matched) {
		return []model.AdminLog{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (m *mockAdminLogRepo) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.Action)
	}
	return out
}

// ── Mock Notifier ──

type mockNotifier struct {
	acks    chan notify.Acknowledgement
	updates chan notify.Update
	err     error
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{
		acks:    make(chan notify.Acknowledgement, 16),
		updates: make(chan notify.Update, 16),
	}
}

func (m *mockNotifier) Acknowledge(_ context.Context, a notify.Acknowledgement) error {
	m.acks <- a
	return m.err
}

func (m *mockNotifier) Update(_ context.Context, u notify.Update) error {
	m.updates <- u
	return m.err
}

// ── Mock TokenBlacklist ──

type mockBlacklist struct {
	jtis map[string]time.Duration
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	if m.jtis == nil {
		m.jtis = make(map[string]time.Duration)
	}
	m.jtis[jti] = ttl
	return nil
}
