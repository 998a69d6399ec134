package service

import (
	"sync"
	"testing"
	"time"

	"market-analysis/internal/model"
	"market-analysis/pkg/cache"
	"market-analysis/pkg/common"
	"market-analysis/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestSession_SettersAndSubscribers(t *testing.T) {
	sess := NewSession("s1", "")

	var snapshots []model.State
	sess.Subscribe(func(s model.State) { snapshots = append(snapshots, s) })

	sess.SetCredential("sk-abc")
	sess.SetSymbols("tsla")
	sess.SetAnalysisType(model.AnalysisFundamental)
	sess.SetTimePeriod(model.Period1Year)
	sess.SetCustomPrompt("short")
	sess.SetScreeningCriteria("value")

	input := sess.State().Input
	assert.Equal(t, "sk-abc", input.Credential.Reveal())
	assert.Equal(t, "tsla", input.Symbols)
	assert.Equal(t, model.AnalysisFundamental, input.AnalysisType)
	assert.Equal(t, model.Period1Year, input.TimePeriod)
	assert.Equal(t, "short", input.CustomPrompt)
	assert.Equal(t, "value", input.ScreeningCriteria)
	assert.Len(t, snapshots, 6)
	assert.Equal(t, model.StatusIdle, sess.State().Op.Status())
}

func TestSession_ConcurrentDispatch(t *testing.T) {
	sess := NewSession("s1", "")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess.Dispatch(model.DispatchStarted{Operation: model.OperationAnalysis})
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(50), sess.State().Seq)
}

func TestSessionService_GetOrCreate(t *testing.T) {
	cfg := newTestConfig()
	cfg.AnalysisService.Credential = "sk-default"
	svc := NewSessionService(cfg, logger.NewNop(), cache.NewCache(time.Minute, time.Minute))

	first := svc.Get("chat-1")
	assert.True(t, first.State().Input.Credential.IsBlank())
	assert.Equal(t, "AAPL,GOOGL,MSFT", first.State().Input.Symbols)

	first.SetSymbols("NVDA")
	again := svc.Get("chat-1")
	assert.Same(t, first, again)
	assert.Equal(t, "NVDA", again.State().Input.Symbols)

	svc.Get("chat-2")
	assert.Equal(t, 2, svc.Count())

	svc.Reset("chat-1")
	fresh := svc.Get("chat-1")
	assert.NotSame(t, first, fresh)
	assert.Equal(t, "AAPL,GOOGL,MSFT", fresh.State().Input.Symbols)
}

func TestSessionService_ConfiguredCredentialOnlyForOperatorSessions(t *testing.T) {
	cfg := newTestConfig()
	cfg.AnalysisService.Credential = "sk-operator"
	svc := NewSessionService(cfg, logger.NewNop(), cache.NewCache(time.Minute, time.Minute))

	chat := svc.Get("chat-424242")
	assert.True(t, chat.State().Input.Credential.IsBlank())
	assert.NotContains(t, chat.State().Input.Credential.String(), "ator")

	local := svc.GetOperator(common.SESSION_LOCAL)
	assert.Equal(t, "sk-operator", local.State().Input.Credential.Reveal())

	digest := svc.GetOperator(common.SESSION_DIGEST)
	assert.Equal(t, "sk-operator", digest.State().Input.Credential.Reveal())

	// An existing session keeps whatever the user set.
	chat.SetCredential("sk-user")
	assert.Equal(t, "sk-user", svc.GetOperator("chat-424242").State().Input.Credential.Reveal())
}

func TestSessionService_Expiry(t *testing.T) {
	cfg := newTestConfig()
	cfg.Session.DefaultExpiration = 20 * time.Millisecond
	svc := NewSessionService(cfg, logger.NewNop(), cache.NewCache(time.Minute, time.Minute))

	first := svc.Get("local")
	time.Sleep(50 * time.Millisecond)

	assert.NotSame(t, first, svc.Get("local"))
}
