package entity

// SavedQuery is a named, persisted store list a user can reload. Id is stable
// for the lifetime of the record and is the only reference other components
// use; positions in the user's list shift on delete, ids never do.
type SavedQuery struct {
	Id     int      `json:"id"`
	Name   string   `json:"name"`
	Stores []string `json:"stores"`
	City   string   `json:"city,omitempty"`
}
