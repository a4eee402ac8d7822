// Package menu models the keyboard payloads the bot gateway renders.
// Descriptors are tagged variants, not free-form maps, so a handler can only
// produce one of the three shapes the gateway understands.
package menu

import "encoding/json"

type Kind string

const (
	KindNone   Kind = "none"
	KindReply  Kind = "reply"
	KindInline Kind = "inline"
)

type InlineButton struct {
	Label string
	Token Token
}

type Descriptor struct {
	kind   Kind
	reply  [][]string
	inline [][]InlineButton
}

func None() *Descriptor {
	return &Descriptor{kind: KindNone}
}

// Reply builds a fixed keyboard of label rows.
func Reply(rows ...[]string) *Descriptor {
	return &Descriptor{kind: KindReply, reply: rows}
}

// Inline builds an action keyboard of {label, token} rows.
func Inline(rows ...[]InlineButton) *Descriptor {
	return &Descriptor{kind: KindInline, inline: rows}
}

func (d *Descriptor) Kind() Kind {
	if d == nil {
		return KindNone
	}
	return d.kind
}

func (d *Descriptor) ReplyRows() [][]string    { return d.reply }
func (d *Descriptor) InlineRows() [][]InlineButton { return d.inline }

type replyButton struct {
	Text string `json:"text"`
}

type inlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

type replyMarkup struct {
	Keyboard       [][]replyButton `json:"keyboard,omitempty"`
	ResizeKeyboard bool            `json:"resize_keyboard,omitempty"`
	IsPersistent   bool            `json:"is_persistent,omitempty"`
	InlineKeyboard [][]inlineButton `json:"inline_keyboard,omitempty"`
}

// MarshalJSON emits the wire shape the messaging gateway forwards verbatim:
// a reply keyboard or an inline keyboard, never both.
func (d *Descriptor) MarshalJSON() ([]byte, error) {
	switch d.Kind() {
	case KindReply:
		rows := make([][]replyButton, len(d.reply))
		for i, labels := range d.reply {
			row := make([]replyButton, len(labels))
			for j, l := range labels {
				row[j] = replyButton{Text: l}
			}
			rows[i] = row
		}
		return json.Marshal(replyMarkup{Keyboard: rows, ResizeKeyboard: true, IsPersistent: true})
	case KindInline:
		rows := make([][]inlineButton, len(d.inline))
		for i, buttons := range d.inline {
			row := make([]inlineButton, len(buttons))
			for j, b := range buttons {
				row[j] = inlineButton{Text: b.Label, CallbackData: b.Token.String()}
			}
			rows[i] = row
		}
		return json.Marshal(replyMarkup{InlineKeyboard: rows})
	default:
		return []byte("null"), nil
	}
}
