package models

import (
	"encoding/json"
	"testing"
)

func TestDecodeActionSuccess(t *testing.T) {
	action, err := DecodeAction([]byte(`{"type":"FETCH_MEMBERS_SUCCESS","payload":[{"id":2,"login":"login 2","avatar_url":"avatar 2"}]}`))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	success, ok := action.(FetchMembersSuccess)
	if !ok {
		t.Fatalf("expected FetchMembersSuccess, got %T", action)
	}
	want := Member{ID: 2, Login: "login 2", AvatarURL: "avatar 2"}
	if len(success.Members) != 1 || success.Members[0] != want {
		t.Fatalf("expected %#v, got %#v", want, success.Members)
	}
}

func TestDecodeActionError(t *testing.T) {
	action, err := DecodeAction([]byte(`{"type":"FETCH_MEMBERS_ERROR","payload":"Server error"}`))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	failure, ok := action.(FetchMembersError)
	if !ok {
		t.Fatalf("expected FetchMembersError, got %T", action)
	}
	if failure.Message != "Server error" {
		t.Fatalf("expected message 'Server error', got %q", failure.Message)
	}
}

func TestDecodeActionUnknown(t *testing.T) {
	action, err := DecodeAction([]byte(`{"type":"something","payload":null}`))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	unknown, ok := action.(UnknownAction)
	if !ok {
		t.Fatalf("expected UnknownAction, got %T", action)
	}
	if unknown.Type() != "something" {
		t.Fatalf("expected type something, got %s", unknown.Type())
	}
}

func TestDecodeActionRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "not json", body: `{`},
		{name: "missing type", body: `{"payload":"x"}`},
		{name: "success with string payload", body: `{"type":"FETCH_MEMBERS_SUCCESS","payload":"oops"}`},
		{name: "error with list payload", body: `{"type":"FETCH_MEMBERS_ERROR","payload":[1,2]}`},
		{name: "error without payload", body: `{"type":"FETCH_MEMBERS_ERROR"}`},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeAction([]byte(tc.body)); err == nil {
				t.Fatalf("expected error for %s", tc.body)
			}
		})
	}
}

func TestDecodeActionSuccessNullPayload(t *testing.T) {
	action, err := DecodeAction([]byte(`{"type":"FETCH_MEMBERS_SUCCESS","payload":null}`))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if success := action.(FetchMembersSuccess); len(success.Members) != 0 {
		t.Fatalf("expected no members, got %#v", success.Members)
	}
}

func TestMembersStateJSONShape(t *testing.T) {
	state := MembersState{Members: CloneMembers(nil)}
	data, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if string(data) != `{"members":[],"serverError":null}` {
		t.Fatalf("unexpected JSON: %s", data)
	}
}

func TestMembersStateCloneIsIndependent(t *testing.T) {
	msg := "boom"
	state := MembersState{Members: []Member{{ID: 1, Login: "a"}}, ServerError: &msg}
	clone := state.Clone()
	clone.Members[0].Login = "changed"
	*clone.ServerError = "changed"

	if state.Members[0].Login != "a" || *state.ServerError != "boom" {
		t.Fatalf("expected original state untouched, got %#v", state)
	}
	if state.Equal(clone) {
		t.Fatalf("expected clone to differ after modification")
	}
}
