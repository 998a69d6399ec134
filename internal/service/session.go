package service

import (
	"fmt"
	"sync"

	"market-analysis/config"
	"market-analysis/internal/model"
	"market-analysis/pkg/cache"
	"market-analysis/pkg/common"
	"market-analysis/pkg/logger"
)

// Session owns one State. Every change goes through Dispatch, which applies the action
// atomically and then hands the new snapshot to subscribers.
type Session struct {
	ID string

	mu          sync.Mutex
	state       model.State
	subscribers []func(model.State)
}

func NewSession(id string, credential string) *Session {
	state := model.NewState()
	state.Input.Credential = model.Credential(credential)
	return &Session{ID: id, state: state}
}

func (s *Session) Dispatch(action model.Action) model.State {
	s.mu.Lock()
	s.state = model.Reduce(s.state, action)
	next := s.state
	subscribers := append([]func(model.State){}, s.subscribers...)
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(next)
	}
	return next
}

func (s *Session) State() model.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to receive every snapshot produced by Dispatch.
func (s *Session) Subscribe(fn func(model.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Session) SetCredential(value string) model.State {
	return s.Dispatch(model.SetCredential{Value: value})
}

func (s *Session) SetSymbols(value string) model.State {
	return s.Dispatch(model.SetSymbols{Value: value})
}

func (s *Session) SetAnalysisType(value model.AnalysisType) model.State {
	return s.Dispatch(model.SetAnalysisType{Value: value})
}

func (s *Session) SetTimePeriod(value model.TimePeriod) model.State {
	return s.Dispatch(model.SetTimePeriod{Value: value})
}

func (s *Session) SetCustomPrompt(value string) model.State {
	return s.Dispatch(model.SetCustomPrompt{Value: value})
}

func (s *Session) SetScreeningCriteria(value string) model.State {
	return s.Dispatch(model.SetScreeningCriteria{Value: value})
}

func (s *Session) Reset() model.State {
	return s.Dispatch(model.ResetOperation{})
}

type SessionService interface {
	// Get returns the session for id, creating it blank on first use. Each call extends its lifetime.
	Get(id string) *Session
	// GetOperator is Get for sessions owned by the operator (local CLI, scheduled digest):
	// a new session starts with the configured credential.
	GetOperator(id string) *Session
	Reset(id string)
	Count() int
}

type sessionService struct {
	cfg           *config.Config
	log           *logger.Logger
	inmemoryCache cache.Cache
	mu            sync.Mutex
}

func NewSessionService(cfg *config.Config, log *logger.Logger, inmemoryCache cache.Cache) SessionService {
	inmemoryCache.OnEvicted(func(key string, value interface{}) {
		if _, ok := value.(*Session); ok {
			log.Debug("Session expired", logger.StringField("session_key", key))
		}
	})
	return &sessionService{
		cfg:           cfg,
		log:           log,
		inmemoryCache: inmemoryCache,
	}
}

func (s *sessionService) Get(id string) *Session {
	return s.getOrCreate(id, "")
}

func (s *sessionService) GetOperator(id string) *Session {
	return s.getOrCreate(id, s.cfg.AnalysisService.Credential)
}

func (s *sessionService) getOrCreate(id string, credential string) *Session {
	key := fmt.Sprintf(common.KEY_SESSION, id)

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, found := cache.GetFromCache[*Session](s.inmemoryCache, key)
	if !found {
		sess = NewSession(id, credential)
		s.log.Debug("Session created", logger.StringField("session_id", id))
	}
	s.inmemoryCache.Set(key, sess, s.cfg.Session.DefaultExpiration)
	return sess
}

func (s *sessionService) Reset(id string) {
	key := fmt.Sprintf(common.KEY_SESSION, id)
	s.inmemoryCache.Delete(key)
}

func (s *sessionService) Count() int {
	return s.inmemoryCache.ItemCount()
}
