package model

// UserRole is carried in tokens issued by the identity service. Users
// themselves are not stored here.
type UserRole string

const (
	Student UserRole = "student"
	Admin   UserRole = "admin"
)
