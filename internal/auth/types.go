package auth

// Actor is the authenticated support agent performing a request.
// A nil Actor (absent from context) means the request is unauthenticated.
type Actor struct {
	ID    string
	Roles []string
}

// HasRole reports whether the actor holds the given role.
func (a *Actor) HasRole(role string) bool {
	if a == nil {
		return false
	}

	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}

	return false
}
