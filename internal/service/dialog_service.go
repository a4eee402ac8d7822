package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"mallfinder-be/internal/constant"
	"mallfinder-be/internal/dto"
	"mallfinder-be/internal/entity"
	"mallfinder-be/internal/pkg/logger"
	"mallfinder-be/internal/repository/contract"
	"mallfinder-be/pkg/catalog"
	"mallfinder-be/pkg/identity"
	"mallfinder-be/pkg/mallsearch"
	"mallfinder-be/pkg/match"
	"mallfinder-be/pkg/menu"
)

// IDialogService is the conversation engine. One call handles one incoming
// bot event and returns the render instruction for the gateway. Infrastructure
// failures are downgraded to a recoverable reply; a non-nil error means the
// event could not be interpreted at all.
type IDialogService interface {
	HandleMessage(ctx context.Context, rawUserID, text string) (*dto.Reply, error)
	HandleCallback(ctx context.Context, rawUserID, callbackData string) (*dto.Reply, error)
}

type dialogService struct {
	cat        *catalog.Catalog
	resolver   *match.Resolver
	engine     *mallsearch.Engine
	sessions   contract.SessionRepository
	queries    contract.SavedQueryRepository
	anonymizer *identity.Anonymizer
	activity   IActivityService
	logger     logger.ILogger
	timeout    time.Duration
	candidates int

	// userLocks serializes the read-modify-write cycle per user so that
	// concurrent events from the same user cannot interleave session writes.
	userLocks sync.Map
}

func NewDialogService(
	cat *catalog.Catalog,
	resolver *match.Resolver,
	engine *mallsearch.Engine,
	sessions contract.SessionRepository,
	queries contract.SavedQueryRepository,
	anonymizer *identity.Anonymizer,
	activity IActivityService,
	log logger.ILogger,
	storeTimeout time.Duration,
	candidateCount int,
) IDialogService {
	return &dialogService{
		cat:        cat,
		resolver:   resolver,
		engine:     engine,
		sessions:   sessions,
		queries:    queries,
		anonymizer: anonymizer,
		activity:   activity,
		logger:     log,
		timeout:    storeTimeout,
		candidates: candidateCount,
	}
}

func (s *dialogService) lockUser(userID string) func() {
	v, _ := s.userLocks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *dialogService) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func reply(text string, m *menu.Descriptor) *dto.Reply {
	return &dto.Reply{Text: text, Menu: m}
}

// errorReply is the uniform downgrade for infrastructure failures: the user
// gets a retryable message, the operator gets the log line.
func (s *dialogService) errorReply(op string, err error) *dto.Reply {
	s.logger.Error("dialog", "store operation failed", map[string]interface{}{
		"op":    op,
		"error": err.Error(),
	})
	return reply(constant.MsgGenericError, menu.None())
}

func (s *dialogService) loadSession(ctx context.Context, userID string) (*entity.Session, error) {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.sessions.Get(sctx, userID)
}

func (s *dialogService) saveSession(ctx context.Context, session *entity.Session) error {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.sessions.Save(sctx, session)
}

// HandleMessage routes a free-text message. /start always wins, then the
// session state picks the handler; inside the store-entry state the reply
// keyboard commands take precedence over free text.
func (s *dialogService) HandleMessage(ctx context.Context, rawUserID, text string) (*dto.Reply, error) {
	userID := s.anonymizer.OpaqueID(rawUserID)
	unlock := s.lockUser(userID)
	defer unlock()

	text = strings.TrimSpace(text)

	if text == constant.CmdStart {
		return s.handleStart(ctx, rawUserID, userID), nil
	}

	session, err := s.loadSession(ctx, userID)
	if err != nil {
		return s.errorReply("session.get", err), nil
	}

	switch session.State {
	case constant.StateChoosingCity:
		return s.handleCitySelection(ctx, session, text), nil
	case constant.StateEnteringStore:
		return s.handleStoreEntry(ctx, session, text), nil
	case constant.StateEditingSavedQuery:
		return s.handleSavedQueryActions(ctx, session, text), nil
	case constant.StateRenamingQueryName:
		return s.handleQueryRenaming(ctx, session, text), nil
	case constant.StateEditingSavedQueryStoresMenu:
		return s.handleSavedQueryStoresEditing(ctx, session, text), nil
	case constant.StateEnteringQueryName:
		return s.handleQueryNameInput(ctx, session, text), nil
	default:
		return reply(constant.MsgUnknownAction, menu.None()), nil
	}
}

func (s *dialogService) handleStart(ctx context.Context, rawUserID, userID string) *dto.Reply {
	if err := s.anonymizer.Register(rawUserID); err != nil {
		s.logger.Warn("dialog", "identity registration failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	session := entity.NewSession(userID)
	if err := s.saveSession(ctx, session); err != nil {
		return s.errorReply("session.save", err)
	}

	s.activity.Publish(userID, "session_started", nil)

	r := reply(constant.WelcomeText+"\n\n"+constant.MsgChooseCity, s.cityMenu())
	r.DisableLinkPreview = true
	return r
}

// handleStoreEntry dispatches inside the main working state. Order matters:
// keyboard commands first, then the saved-query cursor delegation, then the
// digit fallback, and only then store-name resolution.
func (s *dialogService) handleStoreEntry(ctx context.Context, session *entity.Session, text string) *dto.Reply {
	switch text {
	case constant.CmdAddStore:
		return reply(constant.MsgEnterStoreName, menu.None())
	case constant.CmdSearch:
		return s.handleMallSearch(ctx, session)
	case constant.CmdEditList:
		return s.handleStoreEditing(ctx, session)
	case constant.CmdChangeCity:
		return s.handleCityChange(ctx, session)
	case constant.CmdNewSearch:
		return s.handleNewSearch(ctx, session)
	case constant.CmdClearList:
		return s.handleClearStores(ctx, session)
	case constant.CmdSavedList:
		return s.handleShowSavedQueries(ctx, session)
	}

	if session.CurrentQueryID != nil {
		return s.handleSavedQueryStoresEditing(ctx, session, text)
	}

	if n, err := strconv.Atoi(text); err == nil {
		return s.handleNumberInput(ctx, session, n)
	}

	return s.handleStoreNameInput(ctx, session, text)
}

// handleNumberInput first tries the digit as a working-list position to
// remove; an out-of-range digit is retried as a saved-query id to load.
func (s *dialogService) handleNumberInput(ctx context.Context, session *entity.Session, n int) *dto.Reply {
	if n >= 1 && n <= len(session.Stores) {
		removed := session.Stores[n-1]
		session.Stores = append(session.Stores[:n-1], session.Stores[n:]...)
		if err := s.saveSession(ctx, session); err != nil {
			return s.errorReply("session.save", err)
		}
		s.activity.Publish(session.UserID, "store_removed", map[string]interface{}{"store": removed})
		return reply(fmt.Sprintf("Removed: %s\n\n%s", removed, formatStoreList(session.Stores)), afterStoreMenu())
	}
	return s.loadSavedQuery(ctx, session, n, constant.MsgInvalidNumber)
}

func (s *dialogService) handleStoreNameInput(ctx context.Context, session *entity.Session, text string) *dto.Reply {
	name, ok := s.resolver.Resolve(text)
	if !ok {
		s.activity.Publish(session.UserID, "store_not_found", map[string]interface{}{"input": text})
		return reply(fmt.Sprintf("Could not find a store named \"%s\". Check the spelling and try again.", text), afterStoreMenu())
	}
	if session.HasStore(name) {
		return reply(fmt.Sprintf("%s is already on your list.\n\n%s", name, formatStoreList(session.Stores)), afterStoreMenu())
	}

	session.Stores = append(session.Stores, name)
	session.StoreChoices = []string{text}
	if err := s.saveSession(ctx, session); err != nil {
		return s.errorReply("session.save", err)
	}

	s.activity.Publish(session.UserID, "store_added", map[string]interface{}{
		"input":    text,
		"resolved": name,
	})
	return reply(fmt.Sprintf("Added: <b>%s</b>\n\n%s", name, formatStoreList(session.Stores)), addedStoreKeyboard(0))
}

func (s *dialogService) handleMallSearch(ctx context.Context, session *entity.Session) *dto.Reply {
	if session.City == "" {
		return reply(constant.MsgNoCitySelected, menu.None())
	}
	if len(session.Stores) == 0 {
		return reply(constant.MsgNoStoresYet, afterStoreMenu())
	}

	results := s.engine.Search(session.City, session.Stores)
	s.activity.Publish(session.UserID, "mall_search", map[string]interface{}{
		"city":    session.City,
		"stores":  len(session.Stores),
		"results": len(results),
	})
	if len(results) == 0 {
		return reply(constant.MsgNoMatches, afterStoreMenu())
	}

	r := reply(formatSearchResults(results, len(session.Stores)), afterStoreMenu())
	r.DisableLinkPreview = true
	return r
}

func (s *dialogService) handleCitySelection(ctx context.Context, session *entity.Session, text string) *dto.Reply {
	if !s.cat.HasCity(text) {
		return reply(constant.MsgCityUnavailable, s.cityMenu())
	}

	session.City = text
	session.State = constant.StateEnteringStore
	session.Stores = []string{}
	session.CurrentQueryID = nil
	session.StoreChoices = nil
	if err := s.saveSession(ctx, session); err != nil {
		return s.errorReply("session.save", err)
	}

	s.activity.Publish(session.UserID, "city_selected", map[string]interface{}{"city": text})
	return reply(fmt.Sprintf("You picked <b>%s</b>\n\n%s", text, constant.StoreMenuHint), afterStoreMenu())
}

func (s *dialogService) handleCityChange(ctx context.Context, session *entity.Session) *dto.Reply {
	session.State = constant.StateChoosingCity
	session.City = ""
	session.Stores = []string{}
	session.CurrentQueryID = nil
	session.StoreChoices = nil
	if err := s.saveSession(ctx, session); err != nil {
		return s.errorReply("session.save", err)
	}
	return reply(constant.MsgChooseCity, s.cityMenu())
}

func (s *dialogService) handleNewSearch(ctx context.Context, session *entity.Session) *dto.Reply {
	session.Stores = []string{}
	session.CurrentQueryID = nil
	session.StoreChoices = nil
	session.State = constant.StateEnteringStore
	if err := s.saveSession(ctx, session); err != nil {
		return s.errorReply("session.save", err)
	}
	return reply(constant.MsgNewSearchStarted+"\n\n"+constant.MsgEnterStoreName, afterStoreMenu())
}

func (s *dialogService) handleClearStores(ctx context.Context, session *entity.Session) *dto.Reply {
	session.Stores = []string{}
	session.StoreChoices = nil
	if err := s.saveSession(ctx, session); err != nil {
		return s.errorReply("session.save", err)
	}
	return reply(constant.MsgListCleared, afterStoreMenu())
}

// handleStoreEditing shows the numbered working list; while a saved query is
// selected the edits flow into the query, otherwise they are ephemeral.
func (s *dialogService) handleStoreEditing(ctx context.Context, session *entity.Session) *dto.Reply {
	if len(session.Stores) == 0 {
		if session.CurrentQueryID == nil {
			return reply(constant.MsgListEmptyEphemeral, afterStoreMenu())
		}
		return reply(constant.MsgListEmpty, savedQueryEditMenu())
	}
	text := formatStoreList(session.Stores) + "\n\nTo remove a store, send its number"
	if session.CurrentQueryID != nil {
		return reply(text, savedQueryEditMenu())
	}
	return reply(text, afterStoreMenu())
}

func (s *dialogService) handleShowSavedQueries(ctx context.Context, session *entity.Session) *dto.Reply {
	sctx, cancel := s.storeCtx(ctx)
	queries, err := s.queries.List(sctx, session.UserID)
	cancel()
	if err != nil {
		return s.errorReply("queries.list", err)
	}
	if len(queries) == 0 {
		return reply(constant.MsgNoSavedQueries, afterStoreMenu())
	}
	return reply(formatSavedQueries(queries)+"\n\n"+constant.MsgPickQueryToLoad, savedQueryKeyboard(queries))
}

func (s *dialogService) handleQueryNameInput(ctx context.Context, session *entity.Session, text string) *dto.Reply {
	if text == "" {
		return reply(constant.MsgEmptyQueryName, menu.None())
	}

	sctx, cancel := s.storeCtx(ctx)
	id, err := s.queries.Create(sctx, session.UserID, text, session.Stores, session.City)
	cancel()
	if err != nil {
		return s.errorReply("queries.create", err)
	}

	session.State = constant.StateEnteringStore
	session.CurrentQueryID = nil
	if err := s.saveSession(ctx, session); err != nil {
		return s.errorReply("session.save", err)
	}

	s.activity.Publish(session.UserID, "query_saved", map[string]interface{}{
		"query_id": id,
		"stores":   len(session.Stores),
	})
	return reply(fmt.Sprintf("✅ Query <b>%s</b> saved!", text), afterStoreMenu())
}
