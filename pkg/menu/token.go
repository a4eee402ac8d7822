package menu

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Callback-token grammar. Tokens travel through the gateway as opaque
// strings attached to inline buttons and come back verbatim on button press.
//
//	wrong_store::<reserved>::<choiceIndex>
//	pick_store::<choiceIndex>
//	save_query
//	load_query::<queryID>
//	clear_list
//
// load_query carries the saved query's stable id, never a positional index:
// deleting an earlier query must not re-point buttons on older messages.

type Action string

const (
	ActionWrongStore Action = "wrong_store"
	ActionPickStore  Action = "pick_store"
	ActionSaveQuery  Action = "save_query"
	ActionLoadQuery  Action = "load_query"
	ActionClearList  Action = "clear_list"
)

var ErrMalformedToken = errors.New("menu: malformed callback token")

type Token struct {
	Action Action
	// Ref is the choice index for wrong_store/pick_store and the stable
	// query id for load_query. Unused otherwise.
	Ref int
}

func WrongStoreToken(choiceIndex int) Token {
	return Token{Action: ActionWrongStore, Ref: choiceIndex}
}

func PickStoreToken(choiceIndex int) Token {
	return Token{Action: ActionPickStore, Ref: choiceIndex}
}

func SaveQueryToken() Token {
	return Token{Action: ActionSaveQuery}
}

func LoadQueryToken(queryID int) Token {
	return Token{Action: ActionLoadQuery, Ref: queryID}
}

func ClearListToken() Token {
	return Token{Action: ActionClearList}
}

func (t Token) String() string {
	switch t.Action {
	case ActionWrongStore:
		// Middle segment is reserved; older gateway builds sent an input
		// index there and still round-trip it.
		return fmt.Sprintf("%s::0::%d", ActionWrongStore, t.Ref)
	case ActionPickStore, ActionLoadQuery:
		return fmt.Sprintf("%s::%d", t.Action, t.Ref)
	default:
		return string(t.Action)
	}
}

// ParseToken validates an inbound callback string against the grammar.
// Anything that does not parse is a recoverable validation failure upstream.
func ParseToken(raw string) (Token, error) {
	parts := strings.Split(raw, "::")
	switch Action(parts[0]) {
	case ActionSaveQuery:
		if len(parts) != 1 {
			return Token{}, ErrMalformedToken
		}
		return SaveQueryToken(), nil
	case ActionClearList:
		if len(parts) != 1 {
			return Token{}, ErrMalformedToken
		}
		return ClearListToken(), nil
	case ActionPickStore:
		if len(parts) != 2 {
			return Token{}, ErrMalformedToken
		}
		idx, err := parseRef(parts[1])
		if err != nil {
			return Token{}, err
		}
		return PickStoreToken(idx), nil
	case ActionLoadQuery:
		if len(parts) != 2 {
			return Token{}, ErrMalformedToken
		}
		id, err := parseRef(parts[1])
		if err != nil {
			return Token{}, err
		}
		return LoadQueryToken(id), nil
	case ActionWrongStore:
		if len(parts) != 3 {
			return Token{}, ErrMalformedToken
		}
		if _, err := parseRef(parts[1]); err != nil {
			return Token{}, err
		}
		idx, err := parseRef(parts[2])
		if err != nil {
			return Token{}, err
		}
		return WrongStoreToken(idx), nil
	default:
		return Token{}, ErrMalformedToken
	}
}

func parseRef(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, ErrMalformedToken
	}
	return n, nil
}
