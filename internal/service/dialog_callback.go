package service

import (
	"context"
	"fmt"

	"mallfinder-be/internal/constant"
	"mallfinder-be/internal/dto"
	"mallfinder-be/internal/entity"
	"mallfinder-be/pkg/menu"
)

// HandleCallback routes an inline-button press. Tokens are parsed strictly;
// anything malformed or out of date gets the stale-button message rather
// than an error, because old keyboards keep living in the chat history.
func (s *dialogService) HandleCallback(ctx context.Context, rawUserID, callbackData string) (*dto.Reply, error) {
	userID := s.anonymizer.OpaqueID(rawUserID)
	unlock := s.lockUser(userID)
	defer unlock()

	token, err := menu.ParseToken(callbackData)
	if err != nil {
		s.logger.Warn("dialog", "malformed callback token", map[string]interface{}{
			"data": callbackData,
		})
		return reply(constant.MsgStaleButton, menu.None()), nil
	}

	session, err := s.loadSession(ctx, userID)
	if err != nil {
		return s.errorReply("session.get", err), nil
	}

	switch token.Action {
	case menu.ActionWrongStore:
		return s.handleWrongStore(ctx, session), nil
	case menu.ActionPickStore:
		return s.handlePickStore(ctx, session, token.Ref), nil
	case menu.ActionSaveQuery:
		return s.handleSaveQueryPrompt(ctx, session), nil
	case menu.ActionLoadQuery:
		return s.loadSavedQuery(ctx, session, token.Ref, constant.MsgQueryLoadFailed), nil
	case menu.ActionClearList:
		return s.handleClearStores(ctx, session), nil
	default:
		return reply(constant.MsgStaleButton, menu.None()), nil
	}
}

// handleWrongStore undoes the last resolution: the most recently added store
// is dropped and the buffer is rebuilt with candidates for the original raw
// input so the user can pick the intended one.
func (s *dialogService) handleWrongStore(ctx context.Context, session *entity.Session) *dto.Reply {
	if len(session.Stores) == 0 {
		return reply(constant.MsgPickStoreFailed, menu.None())
	}

	removed := session.Stores[len(session.Stores)-1]
	session.Stores = session.Stores[:len(session.Stores)-1]

	input := removed
	if len(session.StoreChoices) > 0 {
		input = session.StoreChoices[0]
	}

	candidates := s.resolver.Candidates(input, s.candidates)
	if len(candidates) == 0 {
		session.StoreChoices = nil
		if err := s.saveSession(ctx, session); err != nil {
			return s.errorReply("session.save", err)
		}
		return reply(constant.MsgNoSimilarStores, afterStoreMenu())
	}

	session.StoreChoices = candidates
	if err := s.saveSession(ctx, session); err != nil {
		return s.errorReply("session.save", err)
	}

	s.activity.Publish(session.UserID, "store_correction_started", map[string]interface{}{
		"input":      input,
		"candidates": len(candidates),
	})
	return reply(fmt.Sprintf("Pick the right store for <b>%s</b>:", input), candidateKeyboard(candidates))
}

// handlePickStore resolves a candidate button. The buffer may be gone by the
// time an old button is pressed; out-of-range indexes are tolerated.
func (s *dialogService) handlePickStore(ctx context.Context, session *entity.Session, index int) *dto.Reply {
	if index < 0 || index >= len(session.StoreChoices) {
		return reply(constant.MsgPickStoreFailed, menu.None())
	}

	chosen := session.StoreChoices[index]
	if session.HasStore(chosen) {
		return reply(fmt.Sprintf("%s is already on your list.\n\n%s", chosen, formatStoreList(session.Stores)), afterStoreMenu())
	}

	session.Stores = append(session.Stores, chosen)
	if err := s.saveSession(ctx, session); err != nil {
		return s.errorReply("session.save", err)
	}

	s.activity.Publish(session.UserID, "store_added", map[string]interface{}{
		"resolved": chosen,
		"picked":   true,
	})
	return reply(fmt.Sprintf("Added: <b>%s</b>\n\n%s", chosen, formatStoreList(session.Stores)), addedStoreKeyboard(index))
}

func (s *dialogService) handleSaveQueryPrompt(ctx context.Context, session *entity.Session) *dto.Reply {
	if len(session.Stores) == 0 {
		return reply(constant.MsgNothingToSave, menu.None())
	}

	session.State = constant.StateEnteringQueryName
	if err := s.saveSession(ctx, session); err != nil {
		return s.errorReply("session.save", err)
	}
	return reply(constant.MsgEnterQueryName, menu.None())
}
