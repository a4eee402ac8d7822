package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"mallfinder-be/internal/constant"
	"mallfinder-be/internal/dto"
	"mallfinder-be/internal/entity"
	"mallfinder-be/internal/repository/contract"
	"mallfinder-be/pkg/menu"
)

// loadSavedQuery selects the query with the given stable id: the session
// picks up its stores and city and moves to the saved-query action state.
func (s *dialogService) loadSavedQuery(ctx context.Context, session *entity.Session, id int, missingMsg string) *dto.Reply {
	sctx, cancel := s.storeCtx(ctx)
	query, err := s.queries.Get(sctx, session.UserID, id)
	cancel()
	if errors.Is(err, contract.ErrQueryNotFound) {
		return reply(missingMsg, menu.None())
	}
	if err != nil {
		return s.errorReply("queries.get", err)
	}

	session.Stores = append([]string{}, query.Stores...)
	session.CurrentQueryID = &query.Id
	session.StoreChoices = nil
	if query.City != "" {
		session.City = query.City
	}
	session.State = constant.StateEditingSavedQuery
	if err := s.saveSession(ctx, session); err != nil {
		return s.errorReply("session.save", err)
	}

	s.activity.Publish(session.UserID, "query_loaded", map[string]interface{}{"query_id": query.Id})
	return reply(formatLoadedQuery(query), queryMenu())
}

// resetDanglingQuery drops a cursor whose query no longer exists and returns
// the user to the plain working state.
func (s *dialogService) resetDanglingQuery(ctx context.Context, session *entity.Session) *dto.Reply {
	session.CurrentQueryID = nil
	session.State = constant.StateEnteringStore
	if err := s.saveSession(ctx, session); err != nil {
		return s.errorReply("session.save", err)
	}
	return reply(constant.MsgQueryGone, afterStoreMenu())
}

// handleSavedQueryActions covers the saved-query action state. Only keyboard
// commands are meaningful here; anything else re-shows the action menu.
func (s *dialogService) handleSavedQueryActions(ctx context.Context, session *entity.Session, text string) *dto.Reply {
	switch text {
	case constant.CmdSavedList:
		session.CurrentQueryID = nil
		session.State = constant.StateEnteringStore
		if err := s.saveSession(ctx, session); err != nil {
			return s.errorReply("session.save", err)
		}
		return s.handleShowSavedQueries(ctx, session)

	case constant.CmdRename:
		if session.CurrentQueryID == nil {
			return s.resetDanglingQuery(ctx, session)
		}
		session.State = constant.StateRenamingQueryName
		if err := s.saveSession(ctx, session); err != nil {
			return s.errorReply("session.save", err)
		}
		return reply(constant.MsgEnterNewName, menu.None())

	case constant.CmdEditStores:
		if session.CurrentQueryID == nil {
			return s.resetDanglingQuery(ctx, session)
		}
		sctx, cancel := s.storeCtx(ctx)
		query, err := s.queries.Get(sctx, session.UserID, *session.CurrentQueryID)
		cancel()
		if errors.Is(err, contract.ErrQueryNotFound) {
			return s.resetDanglingQuery(ctx, session)
		}
		if err != nil {
			return s.errorReply("queries.get", err)
		}
		session.Stores = append([]string{}, query.Stores...)
		session.State = constant.StateEditingSavedQueryStoresMenu
		if err := s.saveSession(ctx, session); err != nil {
			return s.errorReply("session.save", err)
		}
		return reply(formatStoreList(session.Stores)+"\n\n"+constant.MsgChooseAction, savedQueryEditMenu())

	case constant.CmdDeleteQuery:
		if session.CurrentQueryID == nil {
			return s.resetDanglingQuery(ctx, session)
		}
		id := *session.CurrentQueryID
		sctx, cancel := s.storeCtx(ctx)
		err := s.queries.Delete(sctx, session.UserID, id)
		cancel()
		session.CurrentQueryID = nil
		session.Stores = []string{}
		session.State = constant.StateEnteringStore
		if saveErr := s.saveSession(ctx, session); saveErr != nil {
			return s.errorReply("session.save", saveErr)
		}
		if errors.Is(err, contract.ErrQueryNotFound) {
			return reply(constant.MsgQueryDeleteFailed, afterStoreMenu())
		}
		if err != nil {
			return s.errorReply("queries.delete", err)
		}
		s.activity.Publish(session.UserID, "query_deleted", map[string]interface{}{"query_id": id})
		return reply(constant.MsgQueryDeleted, afterStoreMenu())

	case constant.CmdSearch:
		session.State = constant.StateEnteringStore
		if err := s.saveSession(ctx, session); err != nil {
			return s.errorReply("session.save", err)
		}
		return s.handleMallSearch(ctx, session)

	case constant.CmdNewSearch:
		return s.handleNewSearch(ctx, session)

	case constant.CmdBack:
		session.CurrentQueryID = nil
		session.State = constant.StateEnteringStore
		if err := s.saveSession(ctx, session); err != nil {
			return s.errorReply("session.save", err)
		}
		return reply(constant.MsgChooseAction, afterStoreMenu())
	}

	return reply(constant.MsgChooseAction, queryMenu())
}

func (s *dialogService) handleQueryRenaming(ctx context.Context, session *entity.Session, text string) *dto.Reply {
	if text == "" {
		return reply(constant.MsgEmptyQueryName, menu.None())
	}
	if session.CurrentQueryID == nil {
		return s.resetDanglingQuery(ctx, session)
	}

	sctx, cancel := s.storeCtx(ctx)
	err := s.queries.Rename(sctx, session.UserID, *session.CurrentQueryID, text)
	cancel()
	if errors.Is(err, contract.ErrQueryNotFound) {
		return s.resetDanglingQuery(ctx, session)
	}
	if err != nil {
		return s.errorReply("queries.rename", err)
	}

	session.State = constant.StateEditingSavedQueryStoresMenu
	if err := s.saveSession(ctx, session); err != nil {
		return s.errorReply("session.save", err)
	}

	s.activity.Publish(session.UserID, "query_renamed", map[string]interface{}{"query_id": *session.CurrentQueryID})
	return reply(constant.MsgNameUpdated+"\n\n"+formatStoreList(session.Stores), savedQueryEditMenu())
}

// persistQueryStores writes the session's working list into the selected
// saved query.
func (s *dialogService) persistQueryStores(ctx context.Context, session *entity.Session) error {
	if session.CurrentQueryID == nil {
		return contract.ErrQueryNotFound
	}
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.queries.ReplaceStores(sctx, session.UserID, *session.CurrentQueryID, session.Stores)
}

// handleSavedQueryStoresEditing covers the saved-query store-list editor.
// Every accepted edit persists immediately into the query record.
func (s *dialogService) handleSavedQueryStoresEditing(ctx context.Context, session *entity.Session, text string) *dto.Reply {
	if session.CurrentQueryID == nil {
		return s.resetDanglingQuery(ctx, session)
	}

	switch text {
	case constant.CmdBack:
		session.State = constant.StateEditingSavedQuery
		if err := s.saveSession(ctx, session); err != nil {
			return s.errorReply("session.save", err)
		}
		return reply(constant.MsgChooseAction, queryMenu())

	case constant.CmdRename:
		session.State = constant.StateRenamingQueryName
		if err := s.saveSession(ctx, session); err != nil {
			return s.errorReply("session.save", err)
		}
		return reply(constant.MsgEnterNewName, menu.None())

	case constant.CmdAddToQuery:
		session.State = constant.StateEditingSavedQueryStoresMenu
		if err := s.saveSession(ctx, session); err != nil {
			return s.errorReply("session.save", err)
		}
		return reply(constant.MsgEnterStoreToAdd, menu.None())

	case constant.CmdRemoveStore:
		if len(session.Stores) == 0 {
			return reply(constant.MsgListEmpty, savedQueryEditMenu())
		}
		return reply(formatStoreList(session.Stores)+"\n\nSend the number of the store to remove", savedQueryEditMenu())

	case constant.CmdSaveQuery:
		err := s.persistQueryStores(ctx, session)
		if errors.Is(err, contract.ErrQueryNotFound) {
			return s.resetDanglingQuery(ctx, session)
		}
		if err != nil {
			return s.errorReply("queries.replace_stores", err)
		}
		return reply(constant.MsgChangesSaved+"\n\n"+formatStoreList(session.Stores), savedQueryEditMenu())
	}

	if n, err := strconv.Atoi(text); err == nil {
		if n < 1 || n > len(session.Stores) {
			return reply(constant.MsgInvalidNumberSaved, savedQueryEditMenu())
		}
		removed := session.Stores[n-1]
		session.Stores = append(session.Stores[:n-1], session.Stores[n:]...)
		if err := s.persistQueryStores(ctx, session); err != nil {
			if errors.Is(err, contract.ErrQueryNotFound) {
				return s.resetDanglingQuery(ctx, session)
			}
			return s.errorReply("queries.replace_stores", err)
		}
		if err := s.saveSession(ctx, session); err != nil {
			return s.errorReply("session.save", err)
		}
		s.activity.Publish(session.UserID, "query_store_removed", map[string]interface{}{
			"query_id": *session.CurrentQueryID,
			"store":    removed,
		})
		return reply(fmt.Sprintf("Removed: %s\n\n%s", removed, formatStoreList(session.Stores)), savedQueryEditMenu())
	}

	name, ok := s.resolver.Resolve(text)
	if !ok {
		return reply(fmt.Sprintf("Could not find a store named \"%s\". Check the spelling and try again.", text), savedQueryEditMenu())
	}
	if session.HasStore(name) {
		return reply(fmt.Sprintf("%s is already on the list.\n\n%s", name, formatStoreList(session.Stores)), savedQueryEditMenu())
	}

	session.Stores = append(session.Stores, name)
	if err := s.persistQueryStores(ctx, session); err != nil {
		if errors.Is(err, contract.ErrQueryNotFound) {
			return s.resetDanglingQuery(ctx, session)
		}
		return s.errorReply("queries.replace_stores", err)
	}
	session.State = constant.StateEditingSavedQueryStoresMenu
	if err := s.saveSession(ctx, session); err != nil {
		return s.errorReply("session.save", err)
	}
	s.activity.Publish(session.UserID, "query_store_added", map[string]interface{}{
		"query_id": *session.CurrentQueryID,
		"store":    name,
	})
	return reply(fmt.Sprintf("Added: <b>%s</b>\n\n%s", name, formatStoreList(session.Stores)), savedQueryEditMenu())
}
