package model

// Store represents a shop where a purchase was made. The (name, location)
// pair is the natural key: two stores sharing a name in different locations
// are distinct rows.
type Store struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Location string `json:"location" db:"location"`
}

// StoreRequest is the write payload for a store. Fields are pointers so
// partial updates can tell an omitted field from an empty one; create and
// full update require both.
type StoreRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=100"`
	Location *string `json:"location" validate:"omitempty,max=100"`
}

// StorePayload is the nested store object inside a shopping-record payload.
type StorePayload struct {
	Name     string `json:"name" validate:"required,max=100"`
	Location string `json:"location" validate:"required,max=100"`
}
