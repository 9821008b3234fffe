package domain

// User is the public identity joined onto messages. Accounts themselves are
// managed by the people endpoints, not by the messaging core.
type User struct {
	ID    string  `json:"_id"`
	Name  string  `json:"name"`
	Image *string `json:"image,omitempty"`
}
