package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"social_network/internal/domain"
	apperrors "social_network/pkg/errors"
)

var errStoreDown = errors.New("store down")

type fakeChatRepo struct {
	mu       sync.Mutex
	users    map[string]*domain.User
	messages map[uuid.UUID]*domain.ChatMessage
	order    []uuid.UUID
	failNext bool
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		users:    map[string]*domain.User{"u1": {ID: "u1", Name: "Alice"}},
		messages: map[uuid.UUID]*domain.ChatMessage{},
	}
}

func (f *fakeChatRepo) resolve(m *domain.ChatMessage) *domain.ChatMessage {
	cp := *m
	if u, ok := f.users[m.SenderID]; ok {
		uc := *u
		cp.User = &uc
	}
	return &cp
}

func (f *fakeChatRepo) CreateMessage(_ context.Context, m *domain.ChatMessage) (*domain.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		f.failNext = false
		return nil, errStoreDown
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	cp := *m
	f.messages[m.ID] = &cp
	f.order = append(f.order, m.ID)
	return f.resolve(&cp), nil
}

func (f *fakeChatRepo) GetMessageByID(_ context.Context, id uuid.UUID) (*domain.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.messages[id]
	if !ok {
		return nil, apperrors.ErrMessageNotFound
	}
	return f.resolve(m), nil
}

func (f *fakeChatRepo) UpdateReply(_ context.Context, id uuid.UUID, text, image *string) (*domain.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.messages[id]
	if !ok {
		return nil, apperrors.ErrMessageNotFound
	}
	m.Reply = domain.ReplyInfo{Text: text, Image: image, IsReplay: true}
	return f.resolve(m), nil
}

func (f *fakeChatRepo) ListConversation(_ context.Context, userID, peerID string, limit, offset int) ([]*domain.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.ChatMessage
	for _, id := range f.order {
		m := f.messages[id]
		if (m.SenderID == userID && m.RecipientID == peerID) || (m.SenderID == peerID && m.RecipientID == userID) {
			out = append(out, f.resolve(m))
		}
	}
	if offset >= len(out) {
		return []*domain.ChatMessage{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeGroupRepo struct {
	mu       sync.Mutex
	messages map[uuid.UUID]*domain.GroupMessage
	order    []uuid.UUID
	failNext bool
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{messages: map[uuid.UUID]*domain.GroupMessage{}}
}

func (f *fakeGroupRepo) Create(_ context.Context, m *domain.GroupMessage) (*domain.GroupMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		f.failNext = false
		return nil, errStoreDown
	}
	m.ID = uuid.New()
	m.InsertedAt = time.Now()
	cp := *m
	f.messages[m.ID] = &cp
	f.order = append(f.order, m.ID)
	out := cp
	return &out, nil
}

func (f *fakeGroupRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.GroupMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.messages[id]
	if !ok {
		return nil, apperrors.ErrGroupMessageNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeGroupRepo) ListByGroup(_ context.Context, groupID string) ([]*domain.GroupMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.GroupMessage{}
	for _, id := range f.order {
		if m, ok := f.messages[id]; ok && m.GroupID == groupID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeGroupRepo) AddSeenBy(_ context.Context, id uuid.UUID, userID string) (*domain.GroupMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.messages[id]
	if !ok {
		return nil, apperrors.ErrGroupMessageNotFound
	}
	for _, seen := range m.SeenBy {
		if seen == userID {
			cp := *m
			return &cp, nil
		}
	}
	m.SeenBy = append(m.SeenBy, userID)
	cp := *m
	return &cp, nil
}

func (f *fakeGroupRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.messages[id]; !ok {
		return apperrors.ErrGroupMessageNotFound
	}
	delete(f.messages, id)
	return nil
}

type fakeMedia struct {
	mu      sync.Mutex
	saved   []string
	removed []string
}

func (f *fakeMedia) Save(folder, fieldName, _ string, r io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, _ = io.Copy(io.Discard, r)
	p := "/" + folder + "/" + fieldName + "-1.bin"
	f.saved = append(f.saved, p)
	return p, nil
}

func (f *fakeMedia) Remove(publicPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, strings.TrimSpace(publicPath))
	return nil
}

type fakeRateRepo struct {
	counts map[string]int64
	err    error
}

func (f *fakeRateRepo) Hit(_ context.Context, key string, _ time.Duration) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	if f.counts == nil {
		f.counts = map[string]int64{}
	}
	f.counts[key]++
	return f.counts[key], nil
}

type fakeUserRepo struct {
	users map[string]*domain.User
	err   error
}

func (f *fakeUserRepo) Upsert(_ context.Context, user *domain.User) error {
	if f.err != nil {
		return f.err
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}
