// Package schema prepares a database for serving: it applies migrations,
// upgrades columns added after the first release and seeds the default
// admin, categories, products and job openings on an empty database.
package schema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/garnizeh/sitecms/internal/auth"
	"github.com/garnizeh/sitecms/internal/db"
	"github.com/garnizeh/sitecms/pkg/models"
	"github.com/garnizeh/sitecms/pkg/repository"
	"github.com/qri-io/jsonschema"
)

const (
	SeedProductsFile = "seed/products.json"
	SeedSchemaFile   = "seed/products.schema.json"
)

// DefaultCategories are created on an empty database.
var DefaultCategories = []models.Category{
	{Name: "Industrial Equipment", Description: "Presses, lathes and production machinery"},
	{Name: "Spare Parts", Description: "Replacement parts and maintenance kits"},
	{Name: "Services", Description: "Installation, commissioning and training"},
}

// DefaultJobOpenings are created on an empty database. The last one is inactive.
var DefaultJobOpenings = []models.JobOpening{
	{
		Title:       "Field Service Technician",
		Department:  "Services",
		Location:    "On-site",
		Type:        "Full-time",
		Description: "Install, commission and maintain equipment at customer sites.",
		Active:      true,
	},
	{
		Title:       "Sales Engineer",
		Department:  "Sales",
		Location:    "Headquarters",
		Type:        "Full-time",
		Description: "Support customers in selecting equipment and preparing quotes.",
		Active:      true,
	},
	{
		Title:       "Warehouse Assistant",
		Department:  "Logistics",
		Location:    "Headquarters",
		Type:        "Part-time",
		Description: "Receive, store and ship spare parts.",
		Active:      false,
	},
}

// Store is the subset of repositories the initializer writes to.
type Store interface {
	repository.UserRepo
	repository.CategoryRepo
	repository.ProductRepo
	repository.JobOpeningRepo
}

type Initializer struct {
	db            *db.DB
	repo          Store
	migrations    fs.FS
	seed          fs.FS
	adminUsername string
	adminPassword string
	logger        *slog.Logger

	mu          sync.Mutex
	initialized bool
}

// New builds an Initializer. migrations must contain migrations/*.sql and seed
// must contain the seed/ files; both are usually the embedded db package FS.
func New(d *db.DB, repo Store, migrations, seed fs.FS, adminUsername, adminPassword string, logger *slog.Logger) *Initializer {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Initializer{
		db:            d,
		repo:          repo,
		migrations:    migrations,
		seed:          seed,
		adminUsername: adminUsername,
		adminPassword: adminPassword,
		logger:        logger,
	}
}

// Initialized reports whether Initialize completed successfully in this process.
func (i *Initializer) Initialized() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.initialized
}

// Initialize is idempotent: running it against a populated database leaves
// row counts unchanged.
func (i *Initializer) Initialize(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"migrate", func(ctx context.Context) error { return db.Migrate(ctx, i.db, i.migrations) }},
		{"upgrade columns", i.upgradeColumns},
		{"seed admin", i.seedAdmin},
		{"seed categories", i.seedCategories},
		{"seed products", i.seedProducts},
		{"seed job openings", i.seedJobOpenings},
	}
	for _, s := range steps {
		if err := s.fn(ctx); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}

	i.initialized = true
	i.logger.Info("database initialized")
	return nil
}

func (i *Initializer) upgradeColumns(ctx context.Context) error {
	added, err := db.EnsureColumn(ctx, i.db, "products", "document", "TEXT")
	if err != nil {
		return err
	}
	if added {
		i.logger.Info("added column", "table", "products", "column", "document")
	}
	return nil
}

func (i *Initializer) seedAdmin(ctx context.Context) error {
	n, err := i.repo.CountUsers(ctx)
	if err != nil || n > 0 {
		return err
	}
	if i.adminUsername == "" || i.adminPassword == "" {
		return errors.New("admin credentials not configured")
	}

	hash, err := auth.HashPassword(i.adminPassword)
	if err != nil {
		return err
	}
	if _, err := i.repo.CreateUser(ctx, &models.User{Username: i.adminUsername, PasswordHash: hash}); err != nil {
		return err
	}

	i.logger.Info("seeded admin user", "username", i.adminUsername)
	return nil
}

func (i *Initializer) seedCategories(ctx context.Context) error {
	n, err := i.repo.CountCategories(ctx)
	if err != nil || n > 0 {
		return err
	}

	if err := i.repo.CreateCategories(ctx, slices.Clone(DefaultCategories)); err != nil {
		return err
	}

	i.logger.Info("seeded categories", "count", len(DefaultCategories))
	return nil
}

func (i *Initializer) seedProducts(ctx context.Context) error {
	n, err := i.repo.CountProducts(ctx)
	if err != nil || n > 0 {
		return err
	}

	products, err := i.loadSeedProducts(ctx)
	if err != nil {
		i.logger.Warn("seed products unavailable, using sample product", "error", err)
		products = []models.Product{sampleProduct()}
	}

	// all or nothing: a partial seed would be skipped forever by the count guard
	if err := i.repo.CreateProducts(ctx, products); err != nil {
		return err
	}

	i.logger.Info("seeded products", "count", len(products))
	return nil
}

func (i *Initializer) seedJobOpenings(ctx context.Context) error {
	n, err := i.repo.CountJobOpenings(ctx)
	if err != nil || n > 0 {
		return err
	}

	if err := i.repo.CreateJobOpenings(ctx, slices.Clone(DefaultJobOpenings)); err != nil {
		return err
	}

	i.logger.Info("seeded job openings", "count", len(DefaultJobOpenings))
	return nil
}

func (i *Initializer) loadSeedProducts(ctx context.Context) ([]models.Product, error) {
	if i.seed == nil {
		return nil, errors.New("no seed filesystem")
	}

	data, err := fs.ReadFile(i.seed, SeedProductsFile)
	if err != nil {
		return nil, err
	}
	schemaJSON, err := fs.ReadFile(i.seed, SeedSchemaFile)
	if err != nil {
		return nil, err
	}

	rs := &jsonschema.Schema{}
	if err := json.Unmarshal(schemaJSON, rs); err != nil {
		return nil, fmt.Errorf("compile seed schema: %w", err)
	}
	verrs, err := rs.ValidateBytes(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("validate seed products: %w", err)
	}
	if len(verrs) > 0 {
		msgs := make([]string, 0, len(verrs))
		for _, v := range verrs {
			msgs = append(msgs, v.PropertyPath+": "+v.Message)
		}
		return nil, fmt.Errorf("seed products do not match schema: %s", strings.Join(msgs, "; "))
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decode seed products: %w", err)
	}
	return products, nil
}

func sampleProduct() models.Product {
	return models.Product{
		Name:        "Sample Product",
		Description: "Placeholder product created because the seed catalog could not be loaded.",
		Specs:       models.StringList{},
		UseCases:    models.StringList{},
		Category:    DefaultCategories[0].Name,
		Images:      models.StringList{},
	}
}
