package chat

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exiluzrg-design/tempochat-landing/internal/config"
	"github.com/exiluzrg-design/tempochat-landing/internal/utils/apierrors"
)

type fakeProvider struct {
	reply string
	err   error

	mu         sync.Mutex
	calls      int
	gotSystem  string
	gotHistory []Turn
	gotUser    string
}

func (f *fakeProvider) Complete(ctx context.Context, system string, history []Turn, userText string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.gotSystem = system
	f.gotHistory = history
	f.gotUser = userText
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeContextStore struct {
	mu       sync.Mutex
	history  map[string][]Turn
	facts    map[string]string
	failAll  bool
	appended map[string][]Turn
}

func newFakeContextStore() *fakeContextStore {
	return &fakeContextStore{
		history:  make(map[string][]Turn),
		facts:    make(map[string]string),
		appended: make(map[string][]Turn),
	}
}

func (f *fakeContextStore) History(ctx context.Context, sessionID string) ([]Turn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, fmt.Errorf("store unavailable")
	}
	return f.history[sessionID], nil
}

func (f *fakeContextStore) AppendTurns(ctx context.Context, sessionID string, turns ...Turn) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return fmt.Errorf("store unavailable")
	}
	f.appended[sessionID] = append(f.appended[sessionID], turns...)
	f.history[sessionID] = append(f.history[sessionID], turns...)
	return nil
}

func (f *fakeContextStore) Facts(ctx context.Context, sessionID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return "", fmt.Errorf("store unavailable")
	}
	return f.facts[sessionID], nil
}

func (f *fakeContextStore) SaveFacts(ctx context.Context, sessionID, blob string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return fmt.Errorf("store unavailable")
	}
	f.facts[sessionID] = blob
	return nil
}

func (f *fakeContextStore) TTLs(ctx context.Context, sessionID string) (time.Duration, time.Duration, error) {
	return -2 * time.Second, -2 * time.Second, nil
}

type fakeTurnStore struct {
	mu      sync.Mutex
	records []TurnRecord
	err     error
}

func (f *fakeTurnStore) InsertTurn(ctx context.Context, record TurnRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, record)
	return nil
}

func (f *fakeTurnStore) recorded() []TurnRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]TurnRecord, len(f.records))
	copy(out, f.records)
	return out
}

func testConfig() *config.Config {
	return &config.Config{
		ContextMaxTurns: 5,
		OpenAIModel:     "gpt-4.1-mini",
		RecordTimeout:   time.Second,
	}
}

func newTestService(cfg *config.Config, provider *fakeProvider, contexts *fakeContextStore, turns *fakeTurnStore) *Service {
	log := zerolog.Nop()
	recorder := NewRecorder(turns, contexts, cfg.PersistTagsOnly, cfg.RecordTimeout, log)
	return NewService(cfg, provider, contexts, recorder, log)
}

func TestHandleTurnSuccess(t *testing.T) {
	provider := &fakeProvider{reply: "hi there"}
	svc := newTestService(testConfig(), provider, newFakeContextStore(), &fakeTurnStore{})

	result, err := svc.HandleTurn(context.Background(), TurnRequest{Text: "hola"})
	require.NoError(t, err)

	assert.NotEmpty(t, result.SessionID)
	assert.Equal(t, "hi there", result.Message)
	assert.False(t, result.Fallback)
	assert.Equal(t, "hola", provider.gotUser)
}

func TestHandleTurnEmptyText(t *testing.T) {
	provider := &fakeProvider{reply: "unused"}
	svc := newTestService(testConfig(), provider, newFakeContextStore(), &fakeTurnStore{})

	_, err := svc.HandleTurn(context.Background(), TurnRequest{Text: "   "})
	require.Error(t, err)

	apiErr := apierrors.Get(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, "no_text", apiErr.Code)
	assert.Equal(t, apierrors.ErrorTypeBadRequest, apiErr.Type)
	assert.Zero(t, provider.calls)
}

func TestHandleTurnGeneratesDistinctSessions(t *testing.T) {
	provider := &fakeProvider{reply: "ok"}
	svc := newTestService(testConfig(), provider, newFakeContextStore(), &fakeTurnStore{})

	first, err := svc.HandleTurn(context.Background(), TurnRequest{Text: "uno"})
	require.NoError(t, err)
	second, err := svc.HandleTurn(context.Background(), TurnRequest{Text: "dos"})
	require.NoError(t, err)

	assert.NotEqual(t, first.SessionID, second.SessionID)
}

func TestHandleTurnKeepsSuppliedSession(t *testing.T) {
	provider := &fakeProvider{reply: "ok"}
	svc := newTestService(testConfig(), provider, newFakeContextStore(), &fakeTurnStore{})

	result, err := svc.HandleTurn(context.Background(), TurnRequest{Text: "hola", SessionID: "sess_existing1"})
	require.NoError(t, err)
	assert.Equal(t, "sess_existing1", result.SessionID)
}

func TestHandleTurnContextAccumulates(t *testing.T) {
	provider := &fakeProvider{reply: "ok"}
	contexts := newFakeContextStore()
	svc := newTestService(testConfig(), provider, contexts, &fakeTurnStore{})

	ctx := context.Background()
	first, err := svc.HandleTurn(ctx, TurnRequest{Text: "uno", SessionID: "sess_existing1"})
	require.NoError(t, err)
	svc.RecordExchange(first)
	require.NoError(t, svc.recorder.Drain(ctx))

	firstLen := len(contexts.history["sess_existing1"])

	second, err := svc.HandleTurn(ctx, TurnRequest{Text: "dos", SessionID: "sess_existing1"})
	require.NoError(t, err)
	svc.RecordExchange(second)
	require.NoError(t, svc.recorder.Drain(ctx))

	assert.GreaterOrEqual(t, len(contexts.history["sess_existing1"]), firstLen)
}

func TestHandleTurnClampsStoredHistory(t *testing.T) {
	provider := &fakeProvider{reply: "ok"}
	contexts := newFakeContextStore()
	for i := 0; i < 12; i++ {
		contexts.history["sess_existing1"] = append(contexts.history["sess_existing1"], Turn{
			Role:    RoleUser,
			Content: fmt.Sprintf("msg %d", i),
		})
	}
	svc := newTestService(testConfig(), provider, contexts, &fakeTurnStore{})

	_, err := svc.HandleTurn(context.Background(), TurnRequest{Text: "hola", SessionID: "sess_existing1"})
	require.NoError(t, err)

	require.Len(t, provider.gotHistory, 5)
	// Most recent entries survive, chronological order preserved.
	assert.Equal(t, "msg 7", provider.gotHistory[0].Content)
	assert.Equal(t, "msg 11", provider.gotHistory[4].Content)
}

func TestHandleTurnSuppliedContextWins(t *testing.T) {
	provider := &fakeProvider{reply: "ok"}
	contexts := newFakeContextStore()
	contexts.history["sess_existing1"] = []Turn{{Role: RoleUser, Content: "stored"}}
	svc := newTestService(testConfig(), provider, contexts, &fakeTurnStore{})

	supplied := []Turn{
		{Role: RoleUser, Content: "client a"},
		{Role: "system", Content: "not allowed"},
		{Role: RoleAssistant, Content: "client b"},
		{Role: RoleUser, Content: "   "},
	}
	_, err := svc.HandleTurn(context.Background(), TurnRequest{
		Text:      "hola",
		SessionID: "sess_existing1",
		Context:   supplied,
	})
	require.NoError(t, err)

	// Malformed entries and foreign roles are dropped, store untouched.
	require.Len(t, provider.gotHistory, 2)
	assert.Equal(t, "client a", provider.gotHistory[0].Content)
	assert.Equal(t, "client b", provider.gotHistory[1].Content)
}

func TestHandleTurnStoreFailureDegradesToEmptyContext(t *testing.T) {
	provider := &fakeProvider{reply: "ok"}
	contexts := newFakeContextStore()
	contexts.failAll = true
	svc := newTestService(testConfig(), provider, contexts, &fakeTurnStore{})

	result, err := svc.HandleTurn(context.Background(), TurnRequest{Text: "hola", SessionID: "sess_existing1"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Message)
	assert.Empty(t, provider.gotHistory)
}

func TestHandleTurnUpstreamTimeoutPropagates(t *testing.T) {
	provider := &fakeProvider{err: apierrors.UpstreamTimeout(context.DeadlineExceeded)}
	svc := newTestService(testConfig(), provider, newFakeContextStore(), &fakeTurnStore{})

	_, err := svc.HandleTurn(context.Background(), TurnRequest{Text: "hola"})
	require.Error(t, err)
	assert.True(t, apierrors.IsType(err, apierrors.ErrorTypeUpstreamTimeout))
}

func TestHandleTurnUpstreamFailureMaskedByFallback(t *testing.T) {
	cfg := testConfig()
	cfg.FallbackReply = "estamos con demoras, proba de nuevo en un rato"
	provider := &fakeProvider{err: apierrors.UpstreamError(500, "boom", nil)}
	svc := newTestService(cfg, provider, newFakeContextStore(), &fakeTurnStore{})

	result, err := svc.HandleTurn(context.Background(), TurnRequest{Text: "hola"})
	require.NoError(t, err)
	assert.True(t, result.Fallback)
	assert.Equal(t, cfg.FallbackReply, result.Message)
	assert.NotEmpty(t, result.SessionID)
}

func TestHandleTurnFactsReachSystemPrompt(t *testing.T) {
	provider := &fakeProvider{reply: "ok"}
	contexts := newFakeContextStore()
	contexts.facts["sess_existing1"] = "Nombre: Ana"
	svc := newTestService(testConfig(), provider, contexts, &fakeTurnStore{})

	_, err := svc.HandleTurn(context.Background(), TurnRequest{Text: "hola", SessionID: "sess_existing1"})
	require.NoError(t, err)
	assert.Contains(t, provider.gotSystem, "Nombre: Ana")
}

func TestRecordExchangeStorageFailureIsSwallowed(t *testing.T) {
	provider := &fakeProvider{reply: "ok"}
	turns := &fakeTurnStore{err: fmt.Errorf("insert failed")}
	svc := newTestService(testConfig(), provider, newFakeContextStore(), turns)

	result, err := svc.HandleTurn(context.Background(), TurnRequest{Text: "hola"})
	require.NoError(t, err)

	// Must not panic or alter the already-produced result.
	svc.RecordExchange(result)
	require.NoError(t, svc.recorder.Drain(context.Background()))
	assert.Equal(t, "ok", result.Message)
}
