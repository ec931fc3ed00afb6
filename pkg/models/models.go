package models

// Domain models matching the database schema in db/migrations/0001_init.sql

type User struct {
	ID           int64  `json:"id" db:"id"`
	Username     string `json:"username" db:"username" validate:"required,notblank"`
	PasswordHash string `json:"-" db:"password_hash"`
	Created      int64  `json:"created_at" db:"created_at"`
}

type Category struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name" validate:"required,notblank"`
	Description string `json:"description,omitempty" db:"description"`
	Created     int64  `json:"created_at" db:"created_at"`
}

type Product struct {
	ID          int64      `json:"id" db:"id"`
	Name        string     `json:"name" db:"name" validate:"required,notblank"`
	Description string     `json:"description" db:"description"`
	Image       string     `json:"image" db:"image"`
	Specs       StringList `json:"specs" db:"specs"`
	UseCases    StringList `json:"useCases" db:"use_cases"`
	Category    string     `json:"category" db:"category"`
	Images      StringList `json:"images" db:"images"`
	Document    string     `json:"document,omitempty" db:"document"`
	Created     int64      `json:"created_at" db:"created_at"`
}

type JobOpening struct {
	ID          int64  `json:"id" db:"id"`
	Title       string `json:"title" db:"title" validate:"required,notblank"`
	Department  string `json:"department" db:"department"`
	Location    string `json:"location" db:"location" validate:"required,notblank"`
	Type        string `json:"type" db:"type" validate:"required,notblank"`
	Description string `json:"description" db:"description" validate:"required,notblank"`
	Created     int64  `json:"created_at" db:"created_at"`
	Active      bool   `json:"active" db:"active"`
}

type Translation struct {
	Locale  string `json:"locale" db:"locale"`
	Key     string `json:"key" db:"key"`
	Value   string `json:"value" db:"value"`
	Updated int64  `json:"updated_at" db:"updated_at"`
}

// JobOpeningFilter narrows ListJobOpenings.
type JobOpeningFilter struct {
	ActiveOnly bool
}

// ProductFilter narrows ListProducts. Empty Category means all.
type ProductFilter struct {
	Category string
}
