package models

import "slices"

// Member is a single organization member as returned by the members API.
type Member struct {
	ID        int64  `json:"id" dynamodbav:"id"`
	Login     string `json:"login" dynamodbav:"login"`
	AvatarURL string `json:"avatar_url" dynamodbav:"avatar_url"`
}

// MembersState is the state owned by the members reducer.
type MembersState struct {
	Members     []Member `json:"members"`
	ServerError *string  `json:"serverError"`
}

// HasError reports whether the last fetch failed.
func (s MembersState) HasError() bool {
	return s.ServerError != nil
}

// Clone returns a deep copy that shares no memory with s.
func (s MembersState) Clone() MembersState {
	out := MembersState{Members: CloneMembers(s.Members)}
	if s.ServerError != nil {
		msg := *s.ServerError
		out.ServerError = &msg
	}
	return out
}

// Equal reports whether two states hold the same members and error.
func (s MembersState) Equal(other MembersState) bool {
	if !slices.Equal(s.Members, other.Members) {
		return false
	}
	if s.ServerError == nil || other.ServerError == nil {
		return s.ServerError == nil && other.ServerError == nil
	}
	return *s.ServerError == *other.ServerError
}

// CloneMembers copies members into a fresh slice. A nil input yields an
// empty, non-nil slice so the state always serializes as [].
func CloneMembers(members []Member) []Member {
	out := make([]Member, len(members))
	copy(out, members)
	return out
}
