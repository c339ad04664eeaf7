// Package models defines the server-side data models persisted in the
// database and the read shapes returned to API clients.
package models

import "time"

// Admin is one admin account. PasswordHash never leaves the repository and
// service layers: it is excluded from JSON and from AdminView.
type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AdminView is the public projection of an Admin.
type AdminView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// View drops the password hash.
func (a *Admin) View() AdminView {
	return AdminView{
		ID:        a.ID,
		Email:     a.Email,
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// Principal is the identity carried by a verified session.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
