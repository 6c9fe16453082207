package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ActionType is the discriminator of a dispatched action.
type ActionType string

const (
	ActionFetchMembersSuccess ActionType = "FETCH_MEMBERS_SUCCESS"
	ActionFetchMembersError   ActionType = "FETCH_MEMBERS_ERROR"
)

// Action is a closed set of events the members state reacts to.
// Only types declared in this package implement it.
type Action interface {
	Type() ActionType
	isAction()
}

// FetchMembersSuccess carries the freshly fetched member list.
type FetchMembersSuccess struct {
	Members []Member
}

// FetchMembersError carries a human-readable fetch failure message.
type FetchMembersError struct {
	Message string
}

// UnknownAction holds any action whose type is not recognized here.
type UnknownAction struct {
	Kind    string
	Payload json.RawMessage
}

func (FetchMembersSuccess) Type() ActionType { return ActionFetchMembersSuccess }
func (FetchMembersError) Type() ActionType   { return ActionFetchMembersError }
func (a UnknownAction) Type() ActionType     { return ActionType(a.Kind) }

func (FetchMembersSuccess) isAction() {}
func (FetchMembersError) isAction()   {}
func (UnknownAction) isAction()       {}

// RawAction is the loose {type, payload} envelope accepted on the wire.
type RawAction struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// DecodeAction parses a wire envelope into an Action. Unrecognized types
// decode to UnknownAction; a recognized type with a malformed payload is an error.
func DecodeAction(data []byte) (Action, error) {
	var raw RawAction
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding action envelope: %w", err)
	}
	return raw.Decode()
}

// Decode converts the envelope into its typed Action.
func (r RawAction) Decode() (Action, error) {
	if r.Type == "" {
		return nil, fmt.Errorf("action type is required")
	}

	switch ActionType(r.Type) {
	case ActionFetchMembersSuccess:
		var members []Member
		if !isNull(r.Payload) {
			if err := json.Unmarshal(r.Payload, &members); err != nil {
				return nil, fmt.Errorf("%s payload must be a list of members: %w", r.Type, err)
			}
		}
		return FetchMembersSuccess{Members: members}, nil
	case ActionFetchMembersError:
		var msg string
		if isNull(r.Payload) {
			return nil, fmt.Errorf("%s payload must be a string", r.Type)
		}
		if err := json.Unmarshal(r.Payload, &msg); err != nil {
			return nil, fmt.Errorf("%s payload must be a string: %w", r.Type, err)
		}
		return FetchMembersError{Message: msg}, nil
	default:
		return UnknownAction{Kind: r.Type, Payload: r.Payload}, nil
	}
}

func isNull(payload json.RawMessage) bool {
	trimmed := bytes.TrimSpace(payload)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
