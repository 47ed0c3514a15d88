package models

// Admin is a CMS user allowed to manage bookings and the catalog.
type Admin struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
	Status       string `json:"status"`
}

// LoginResult is returned by the admin login endpoint.
type LoginResult struct {
	Token string `json:"token"`
	Admin Admin  `json:"admin"`
}
