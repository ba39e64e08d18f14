package models

// Owned is implemented by every record that belongs to a user.
type Owned interface {
	OwnerKey() string
}

// IsOwner reports whether actor owns resource.
func IsOwner(actor *User, resource Owned) bool {
	if actor == nil || resource == nil {
		return false
	}
	return actor.ID != "" && actor.ID == resource.OwnerKey()
}
