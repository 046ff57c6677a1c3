// Package collections reads the fixed set of browsable tables with the
// relation projections the admin views show.
package collections

import "context"

// Name identifies a browsable collection.
type Name string

const (
	Users           Name = "users"
	RunnerProfiles  Name = "runner_profiles"
	MarshalProfiles Name = "marshal_profiles"
	Events          Name = "events"
	EventCategories Name = "event_categories"
	EventStaff      Name = "event_staff"
	Participants    Name = "participants"
	Results         Name = "results"
)

// Names lists every collection in display order.
var Names = []Name{Users, RunnerProfiles, MarshalProfiles, Events, EventCategories, EventStaff, Participants, Results}

// Known reports whether n is one of the collections in Names.
func Known(n Name) bool {
	_, ok := sources[n]
	return ok
}

type Repository interface {
	Count(ctx context.Context, name Name) (int64, error)
	List(ctx context.Context, name Name, limit, offset int) ([]any, error)
}
