// Package members holds the reducer for the organization members list.
package members

import "github.com/daniloc96/github-members-state/internal/models"

// InitialState returns the state before any fetch has happened.
func InitialState() models.MembersState {
	return models.MembersState{Members: []models.Member{}}
}

// Reduce computes the next members state from prev and action.
// A nil prev is treated as the initial state. Neither prev nor the action
// payload is modified, and the result shares no memory with them.
func Reduce(prev *models.MembersState, action models.Action) models.MembersState {
	switch a := action.(type) {
	case models.FetchMembersSuccess:
		return models.MembersState{Members: models.CloneMembers(a.Members)}
	case models.FetchMembersError:
		state := current(prev)
		msg := a.Message
		state.ServerError = &msg
		return state
	default:
		return current(prev)
	}
}

func current(prev *models.MembersState) models.MembersState {
	if prev == nil {
		return InitialState()
	}
	return prev.Clone()
}
