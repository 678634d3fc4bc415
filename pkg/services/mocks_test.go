package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ekaya-inc/bizget-engine/pkg/apperrors"
	"github.com/ekaya-inc/bizget-engine/pkg/models"
	"github.com/ekaya-inc/bizget-engine/pkg/repositories"
)

// mockProfileRepository is an in-memory ProfileRepository.
type mockProfileRepository struct {
	mu          sync.Mutex
	nextID      int64
	profiles    map[int64]*models.BusinessProfile
	newsletters map[int64][]*models.Newsletter
	listErr     error
	saveErr     error
}

var _ repositories.ProfileRepository = (*mockProfileRepository)(nil)

func newMockProfileRepository() *mockProfileRepository {
	return &mockProfileRepository{
		profiles:    make(map[int64]*models.BusinessProfile),
		newsletters: make(map[int64][]*models.Newsletter),
	}
}

func (m *mockProfileRepository) Upsert(ctx context.Context, p *models.BusinessProfile) (*models.BusinessProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := strings.ToLower(p.Email)
	for _, existing := range m.profiles {
		if existing.Email == email {
			stored := *p
			stored.ID = existing.ID
			stored.Email = email
			stored.CreatedAt = existing.CreatedAt
			stored.UpdatedAt = time.Now()
			m.profiles[existing.ID] = &stored
			copied := stored
			return &copied, nil
		}
	}

	m.nextID++
	stored := *p
	stored.ID = m.nextID
	stored.Email = email
	stored.CreatedAt = time.Now().Add(time.Duration(m.nextID) * time.Millisecond)
	stored.UpdatedAt = stored.CreatedAt
	m.profiles[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (m *mockProfileRepository) List(ctx context.Context) ([]*models.BusinessProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*models.BusinessProfile, 0, len(m.profiles))
	for _, p := range m.profiles {
		copied := *p
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *mockProfileRepository) GetByID(ctx context.Context, id int64) (*models.BusinessProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockProfileRepository) SaveNewsletter(ctx context.Context, profileID int64, c *models.NewsletterContent) (*models.Newsletter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	p, ok := m.profiles[profileID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	now := time.Now()
	p.LastNewsletterSentAt = &now
	n := &models.Newsletter{
		ID:        int64(len(m.newsletters[profileID]) + 1),
		ProfileID: profileID,
		Subject:   c.Subject,
		BodyHTML:  c.BodyHTML,
		BodyText:  c.BodyText,
		CreatedAt: now,
	}
	m.newsletters[profileID] = append(m.newsletters[profileID], n)
	return n, nil
}

func (m *mockProfileRepository) LatestNewsletter(ctx context.Context, profileID int64) (*models.Newsletter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.newsletters[profileID]
	if len(list) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return list[len(list)-1], nil
}

// mockNewsletterService returns a fixed newsletter, or err.
type mockNewsletterService struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (m *mockNewsletterService) Generate(ctx context.Context, p *models.BusinessProfile) (*models.NewsletterContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &models.NewsletterContent{
		Subject:  "Weekly AI Ideas for " + p.BusinessName,
		BodyHTML: "<p>ideas</p>",
		BodyText: "ideas",
	}, nil
}

// mockSender records sent emails; failFor lists recipients that fail.
type mockSender struct {
	mu      sync.Mutex
	sent    []models.Email
	failFor map[string]error
}

func (m *mockSender) Send(ctx context.Context, email models.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failFor[email.To]; ok {
		return err
	}
	m.sent = append(m.sent, email)
	return nil
}

// fakeLocker grants each key once.
type fakeLocker struct {
	mu   sync.Mutex
	held map[string]time.Duration
	err  error
}

func (f *fakeLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if f.held == nil {
		f.held = make(map[string]time.Duration)
	}
	if _, ok := f.held[key]; ok {
		return false, nil
	}
	f.held[key] = ttl
	return true, nil
}
