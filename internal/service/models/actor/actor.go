package actor

// Actor identifies the principal behind a request. The zero value is an
// anonymous guest. Actors are derived per request from the session
// credential and never persisted.
type Actor struct {
	CustomerID string `json:"customerId"`
	Role       string `json:"role"`
}

// Guest returns the anonymous actor.
func Guest() Actor {
	return Actor{}
}

// IsGuest reports whether the actor carries no authenticated identity.
func (a Actor) IsGuest() bool {
	return a.CustomerID == ""
}

// IsAdmin reports whether the actor may use the admin order surface.
func (a Actor) IsAdmin() bool {
	return a.Role == "ADMIN"
}
