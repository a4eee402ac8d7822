package menu

import (
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		token Token
		want  string
	}{
		{name: "wrong store", token: WrongStoreToken(3), want: "wrong_store::0::3"},
		{name: "pick store", token: PickStoreToken(0), want: "pick_store::0"},
		{name: "save query", token: SaveQueryToken(), want: "save_query"},
		{name: "load query", token: LoadQueryToken(12), want: "load_query::12"},
		{name: "clear list", token: ClearListToken(), want: "clear_list"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.token.String()
			if got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}

			parsed, err := ParseToken(got)
			if err != nil {
				t.Fatalf("ParseToken(%q) error: %v", got, err)
			}
			if parsed != tt.token {
				t.Errorf("ParseToken(%q) = %+v, want %+v", got, parsed, tt.token)
			}
		})
	}
}

func TestParseTokenRejectsMalformed(t *testing.T) {
	bad := []string{
		"",
		"unknown_action",
		"pick_store",
		"pick_store::x",
		"pick_store::-1",
		"pick_store::1::2",
		"load_query::",
		"wrong_store::0",
		"wrong_store::a::1",
		"save_query::1",
		"clear_list::now",
	}

	for _, raw := range bad {
		if _, err := ParseToken(raw); err == nil {
			t.Errorf("ParseToken(%q) accepted a malformed token", raw)
		}
	}
}
