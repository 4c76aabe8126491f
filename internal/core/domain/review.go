package domain

import "time"

// Review is a coffee review written by an account.
type Review struct {
	ID        string    `json:"id"`
	CoffeeID  string    `json:"coffee_id"`
	AuthorID  string    `json:"author_id"`
	Rating    int       `json:"rating"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
