package model

import (
	"encoding/json"
	"testing"
)

func TestNewUserResKeepsStoredStrings(t *testing.T) {
	body, err := json.Marshal(NewUserRes(7, "", "", ""))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	want := `{"userId":7,"nickname":"","avatarUrl":"","phone":null}`
	if string(body) != want {
		t.Fatalf("got %s, want %s", body, want)
	}

	res := NewUserRes(7, "Bob", "http://a/b.png", "13800000000")
	if res.Phone == nil || *res.Phone != "13800000000" || res.Nickname != "Bob" {
		t.Fatalf("unexpected response: %+v", res)
	}
}
