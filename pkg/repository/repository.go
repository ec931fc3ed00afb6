package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/garnizeh/sitecms/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

var (
	// ErrNotFound is returned by mutations that target a row which does not exist.
	// Lookups return (nil, nil) instead.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique constraint would be violated.
	ErrConflict = errors.New("conflict")
	// ErrInvalidReassignment is returned when the reassignment target is missing or
	// equal to the category being deleted.
	ErrInvalidReassignment = errors.New("invalid reassignment target")
)

// CategoryInUseError reports that a category cannot be deleted because products reference it.
type CategoryInUseError struct {
	Name         string
	ProductCount int64
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf("category %q is used by %d product(s)", e.Name, e.ProductCount)
}

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	CountUsers(ctx context.Context) (int64, error)
}

type CategoryRepo interface {
	CreateCategory(ctx context.Context, c *models.Category) (int64, error)
	// CreateCategories stores every category or none.
	CreateCategories(ctx context.Context, categories []models.Category) error
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	// UpdateCategory renames/describes a category and cascades a rename to referencing products.
	UpdateCategory(ctx context.Context, c *models.Category) error
	// DeleteCategory removes a category. When products reference it and reassignTo is empty
	// a *CategoryInUseError is returned; otherwise referencing products are moved to
	// reassignTo first. It returns the number of reassigned products.
	DeleteCategory(ctx context.Context, id int64, reassignTo string) (int64, error)
	CountProductsInCategory(ctx context.Context, name string) (int64, error)
	CountCategories(ctx context.Context) (int64, error)
}

type ProductRepo interface {
	CreateProduct(ctx context.Context, p *models.Product) (int64, error)
	// CreateProducts stores every product or none.
	CreateProducts(ctx context.Context, products []models.Product) error
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context, f models.ProductFilter) ([]models.Product, error)
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	CountProducts(ctx context.Context) (int64, error)
}

type JobOpeningRepo interface {
	CreateJobOpening(ctx context.Context, j *models.JobOpening) (int64, error)
	CreateJobOpenings(ctx context.Context, jobs []models.JobOpening) error
	GetJobOpening(ctx context.Context, id int64) (*models.JobOpening, error)
	ListJobOpenings(ctx context.Context, f models.JobOpeningFilter) ([]models.JobOpening, error)
	UpdateJobOpening(ctx context.Context, j *models.JobOpening) error
	DeleteJobOpening(ctx context.Context, id int64) error
	CountJobOpenings(ctx context.Context) (int64, error)
}

type TranslationRepo interface {
	UpsertTranslations(ctx context.Context, locale string, entries map[string]string) error
	ListTranslations(ctx context.Context, locale string) ([]models.Translation, error)
	ListLocales(ctx context.Context) ([]string, error)
	DeleteTranslation(ctx context.Context, locale, key string) error
}
