package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahle-app/rahle/internal/api"
	"github.com/rahle-app/rahle/internal/llm"
	"github.com/rahle-app/rahle/internal/quota"
	"github.com/rahle-app/rahle/internal/quran"
)

type fakeChatRepo struct {
	conversations map[string]*Conversation
	messages      map[string][]Message
	nextID        int
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		conversations: make(map[string]*Conversation),
		messages:      make(map[string][]Message),
	}
}

func (f *fakeChatRepo) GetConversation(_ context.Context, id string) (*Conversation, error) {
	return f.conversations[id], nil
}

func (f *fakeChatRepo) CreateConversation(_ context.Context, deviceID, title string) (*Conversation, error) {
	f.nextID++
	c := &Conversation{
		ID:       strconv.Itoa(f.nextID),
		DeviceID: deviceID,
		Title:    title,
	}
	f.conversations[c.ID] = c
	return c, nil
}

func (f *fakeChatRepo) ListConversations(_ context.Context, deviceID string) ([]ConversationSummary, error) {
	var out []ConversationSummary
	for _, c := range f.conversations {
		if c.DeviceID == deviceID {
			out = append(out, ConversationSummary{Conversation: *c})
		}
	}
	return out, nil
}

func (f *fakeChatRepo) ListMessages(_ context.Context, conversationID string) ([]Message, error) {
	return f.messages[conversationID], nil
}

func (f *fakeChatRepo) AddMessage(_ context.Context, conversationID, sender string, content any) error {
	payload, err := json.Marshal(content)
	if err != nil {
		return err
	}
	f.messages[conversationID] = append(f.messages[conversationID], Message{
		ConversationID: conversationID,
		Sender:         sender,
		Content:        payload,
	})
	return nil
}

type fakeVerses struct {
	verses map[[2]int]*quran.Verse
	sample []quran.Verse
}

func (f *fakeVerses) GetVerse(_ context.Context, surah, ayah int) (*quran.Verse, error) {
	return f.verses[[2]int{surah, ayah}], nil
}
func (f *fakeVerses) ListBySurah(_ context.Context, _ int) ([]quran.Verse, error) { return nil, nil }
func (f *fakeVerses) Search(_ context.Context, _ string, _ int) ([]quran.Verse, error) {
	return nil, nil
}
func (f *fakeVerses) CountAll(_ context.Context) (int, error)             { return 0, nil }
func (f *fakeVerses) CountBySurah(_ context.Context) (map[int]int, error) { return nil, nil }
func (f *fakeVerses) VerseAtOffset(_ context.Context, _ int) (*quran.Verse, error) {
	return nil, nil
}
func (f *fakeVerses) Sample(_ context.Context, _, _ int) ([]quran.Verse, error) {
	return f.sample, nil
}

type fakeAsker struct {
	answer *llm.Answer
	err    error
	calls  int
}

func (f *fakeAsker) AskAboutQuran(_ context.Context, _ string) (*llm.Answer, error) {
	f.calls++
	return f.answer, f.err
}

type memQuotaStore struct {
	records map[string]*quota.Record
}

func newMemQuotaStore() *memQuotaStore {
	return &memQuotaStore{records: make(map[string]*quota.Record)}
}

func (m *memQuotaStore) GetOrCreate(_ context.Context, deviceID string, resetAt time.Time) (*quota.Record, error) {
	if rec, ok := m.records[deviceID]; ok {
		return &quota.Record{DeviceID: rec.DeviceID, IsPremium: rec.IsPremium, DailyCount: rec.DailyCount, ResetAt: rec.ResetAt}, nil
	}
	rec := &quota.Record{DeviceID: deviceID, ResetAt: resetAt}
	m.records[deviceID] = rec
	return &quota.Record{DeviceID: deviceID, ResetAt: resetAt}, nil
}

func (m *memQuotaStore) ResetIfDue(_ context.Context, deviceID string, now, nextReset time.Time) (bool, error) {
	rec, ok := m.records[deviceID]
	if !ok || rec.ResetAt.After(now) {
		return false, nil
	}
	rec.DailyCount = 0
	rec.ResetAt = nextReset
	return true, nil
}

func (m *memQuotaStore) Increment(_ context.Context, deviceID string) (*quota.Record, error) {
	rec, ok := m.records[deviceID]
	if !ok {
		return nil, fmt.Errorf("no record for %s", deviceID)
	}
	rec.DailyCount++
	return &quota.Record{DeviceID: rec.DeviceID, IsPremium: rec.IsPremium, DailyCount: rec.DailyCount, ResetAt: rec.ResetAt}, nil
}

func newTestService(store *memQuotaStore, verses *fakeVerses, ai *fakeAsker) (*Service, *fakeChatRepo) {
	repo := newFakeChatRepo()
	svc := NewService(repo, verses, quota.NewTracker(store, 3), ai)
	svc.sampleOffset = func() int { return 0 }
	return svc, repo
}

var answerWithVerse = &llm.Answer{
	Summary: "Sabır hakkında özet.",
	Verses:  []llm.VerseRef{{Surah: 2, Ayah: 153, Explanation: "Sabırla yardım isteyin."}},
}

func TestProcessMessageAnswersAndCharges(t *testing.T) {
	store := newMemQuotaStore()
	verses := &fakeVerses{verses: map[[2]int]*quran.Verse{
		{2, 153}: {Surah: 2, Ayah: 153, SurahName: "Bakara", TextTr: "Sabır ve namazla yardım isteyin."},
	}}
	svc, repo := newTestService(store, verses, &fakeAsker{answer: answerWithVerse})

	resp, err := svc.ProcessMessage(context.Background(), "device-1", SendMessageRequest{Message: "Sabır nedir?"})
	require.NoError(t, err)

	assert.Equal(t, "Sabır hakkında özet.", resp.Answer.Summary)
	require.Len(t, resp.Answer.Verses, 1)
	assert.Equal(t, "Bakara", resp.Answer.Verses[0].SurahName)
	assert.Equal(t, 2, resp.RemainingMessages)
	assert.False(t, resp.IsPremium)

	assert.Equal(t, 1, store.records["device-1"].DailyCount)

	messages := repo.messages[resp.ConversationID]
	require.Len(t, messages, 2)
	assert.Equal(t, "user", messages[0].Sender)
	assert.Equal(t, "assistant", messages[1].Sender)
}

func TestProcessMessageNoChargeOnModelFailure(t *testing.T) {
	store := newMemQuotaStore()
	svc, _ := newTestService(store, &fakeVerses{}, &fakeAsker{err: errors.New("upstream down")})

	_, err := svc.ProcessMessage(context.Background(), "device-1", SendMessageRequest{Message: "Soru"})
	require.Error(t, err)

	assert.Equal(t, 0, store.records["device-1"].DailyCount)
}

func TestProcessMessageFallbackStillCharges(t *testing.T) {
	store := newMemQuotaStore()
	verses := &fakeVerses{sample: []quran.Verse{
		{Surah: 1, Ayah: 1, SurahName: "Fatiha"},
		{Surah: 1, Ayah: 2, SurahName: "Fatiha"},
	}}
	svc, _ := newTestService(store, verses, &fakeAsker{answer: answerWithVerse})

	resp, err := svc.ProcessMessage(context.Background(), "device-1", SendMessageRequest{Message: "Soru"})
	require.NoError(t, err)

	// Cited verse is not seeded, so sample verses stand in and the
	// summary carries a note. The user still received an answer and pays.
	require.Len(t, resp.Answer.Verses, 2)
	assert.Contains(t, resp.Answer.Summary, "örnek ayetler")
	assert.Equal(t, 1, store.records["device-1"].DailyCount)
}

func TestProcessMessageRejectsWhenExhausted(t *testing.T) {
	store := newMemQuotaStore()
	store.records["device-1"] = &quota.Record{
		DeviceID:   "device-1",
		DailyCount: 3,
		ResetAt:    time.Now().UTC().Add(6 * time.Hour),
	}
	ai := &fakeAsker{answer: answerWithVerse}
	svc, _ := newTestService(store, &fakeVerses{}, ai)

	_, err := svc.ProcessMessage(context.Background(), "device-1", SendMessageRequest{Message: "Soru"})

	var quotaErr *api.QuotaExceededError
	require.ErrorAs(t, err, &quotaErr)
	assert.False(t, quotaErr.IsPremium)
	assert.Equal(t, 0, ai.calls, "rejected message must not reach the model")
}

func TestProcessMessagePremiumUnlimited(t *testing.T) {
	store := newMemQuotaStore()
	store.records["device-1"] = &quota.Record{
		DeviceID:  "device-1",
		IsPremium: true,
		ResetAt:   time.Now().UTC().Add(6 * time.Hour),
	}
	verses := &fakeVerses{verses: map[[2]int]*quran.Verse{
		{2, 153}: {Surah: 2, Ayah: 153, SurahName: "Bakara"},
	}}
	svc, _ := newTestService(store, verses, &fakeAsker{answer: answerWithVerse})

	resp, err := svc.ProcessMessage(context.Background(), "device-1", SendMessageRequest{Message: "Soru"})
	require.NoError(t, err)

	assert.True(t, resp.IsPremium)
	assert.Equal(t, quota.Unlimited, resp.RemainingMessages)
	assert.Equal(t, 0, store.records["device-1"].DailyCount)
}

func TestResolveConversationOwnership(t *testing.T) {
	store := newMemQuotaStore()
	verses := &fakeVerses{verses: map[[2]int]*quran.Verse{
		{2, 153}: {Surah: 2, Ayah: 153},
	}}
	svc, repo := newTestService(store, verses, &fakeAsker{answer: answerWithVerse})

	other, err := repo.CreateConversation(context.Background(), "device-2", "başka cihaz")
	require.NoError(t, err)

	resp, err := svc.ProcessMessage(context.Background(), "device-1", SendMessageRequest{
		Message:        "Soru",
		ConversationID: other.ID,
	})
	require.NoError(t, err)

	assert.NotEqual(t, other.ID, resp.ConversationID, "must not write into another device's conversation")
}

func TestTitleFrom(t *testing.T) {
	assert.Equal(t, "kısa mesaj", titleFrom("kısa mesaj"))

	long := "Bu çok uzun bir sorudur ve başlık elli karakterde kesilmelidir çünkü liste görünümü kısadır"
	title := titleFrom(long)
	assert.Len(t, []rune(title), titleMaxLen+3)
	assert.Contains(t, title, "...")
}

func TestConversationByIDHidesForeign(t *testing.T) {
	store := newMemQuotaStore()
	svc, repo := newTestService(store, &fakeVerses{}, &fakeAsker{})

	c, err := repo.CreateConversation(context.Background(), "device-2", "gizli")
	require.NoError(t, err)

	got, err := svc.ConversationByID(context.Background(), "device-1", c.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
