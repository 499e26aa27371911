// Package backend mirrors store state to the remote Postgres backend. Every
// writer replaces the full slice it owns; the store container is the source
// of truth and the backend is a durable mirror of it.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/detalhesstore/detalhes-backend/pkg/db/models"
	"github.com/detalhesstore/detalhes-backend/pkg/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository exposes the remote persistence surface consumed by the store.
type Repository interface {
	LoadSettings(ctx context.Context) (json.RawMessage, error)
	SaveSettings(ctx context.Context, settings types.StoreSettings) error
	SyncContentTables(ctx context.Context, settings types.StoreSettings) error

	LoadProducts(ctx context.Context) ([]models.Product, error)
	SaveProducts(ctx context.Context, products []models.Product) error

	LoadAdmins(ctx context.Context) ([]models.AdminUser, error)
	SaveAdmins(ctx context.Context, admins []models.AdminUser) error

	LoadAnalytics(ctx context.Context) (*models.Analytics, error)
	SaveAnalytics(ctx context.Context, analytics models.Analytics) error

	LoadContentTables(ctx context.Context) (ContentTables, error)
}

// ContentTables is the row-oriented mirror of the settings content: the faq
// and testimonial tables plus the category and tag vocabularies.
type ContentTables struct {
	FAQs         []models.FAQ
	Testimonials []models.TestimonialRow
	Categories   []string
	Collections  []string
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a backend repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

// LoadSettings reads the settings singleton as its raw JSON blob. Returning
// raw bytes keeps absent keys distinguishable from zero values, which the
// merge-with-defaults step depends on. Returns nil when the row was never
// seeded.
func (r *repositoryImpl) LoadSettings(ctx context.Context) (json.RawMessage, error) {
	var blob struct {
		Data []byte
	}
	err := r.db.WithContext(ctx).
		Model(&models.SiteSetting{}).
		Select("data").
		Where("id = ?", models.SettingsRowID).
		Take(&blob).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	return json.RawMessage(blob.Data), nil
}

func (r *repositoryImpl) SaveSettings(ctx context.Context, settings types.StoreSettings) error {
	row := models.SiteSetting{
		ID:        models.SettingsRowID,
		Data:      settings,
		UpdatedAt: time.Now().UTC(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

// SyncContentTables rebuilds the standalone content tables (faq,
// testimonials, categories, collections) from the settings blob so
// row-oriented consumers stay consistent with it.
func (r *repositoryImpl) SyncContentTables(ctx context.Context, settings types.StoreSettings) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := replaceAll(tx, &models.FAQ{}, faqRows(settings)); err != nil {
			return fmt.Errorf("syncing faq: %w", err)
		}
		if err := replaceAll(tx, &models.TestimonialRow{}, testimonialRows(settings)); err != nil {
			return fmt.Errorf("syncing testimonials: %w", err)
		}
		if err := replaceAll(tx, &models.Category{}, categoryRows(settings)); err != nil {
			return fmt.Errorf("syncing categories: %w", err)
		}
		if err := replaceAll(tx, &models.Collection{}, collectionRows(settings)); err != nil {
			return fmt.Errorf("syncing collections: %w", err)
		}
		return nil
	})
}

func (r *repositoryImpl) LoadProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("loading products: %w", err)
	}
	return products, nil
}

func (r *repositoryImpl) SaveProducts(ctx context.Context, products []models.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := replaceAll(tx, &models.Product{}, products); err != nil {
			return fmt.Errorf("saving products: %w", err)
		}
		return nil
	})
}

func (r *repositoryImpl) LoadAdmins(ctx context.Context) ([]models.AdminUser, error) {
	var admins []models.AdminUser
	err := r.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Find(&admins).Error
	if err != nil {
		return nil, fmt.Errorf("loading admins: %w", err)
	}
	return admins, nil
}

func (r *repositoryImpl) SaveAdmins(ctx context.Context, admins []models.AdminUser) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := replaceAll(tx, &models.AdminUser{}, admins); err != nil {
			return fmt.Errorf("saving admins: %w", err)
		}
		return nil
	})
}

// LoadAnalytics reads the counters singleton. Returns nil when the row was
// never seeded.
func (r *repositoryImpl) LoadAnalytics(ctx context.Context) (*models.Analytics, error) {
	var row models.Analytics
	err := r.db.WithContext(ctx).First(&row, "id = ?", models.AnalyticsRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading analytics: %w", err)
	}
	return &row, nil
}

func (r *repositoryImpl) SaveAnalytics(ctx context.Context, analytics models.Analytics) error {
	analytics.ID = models.AnalyticsRowID
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"visitors", "product_views", "added_to_cart",
				"whatsapp_checkouts", "abandoned_carts", "revenue",
			}),
		}).
		Create(&analytics).Error
	if err != nil {
		return fmt.Errorf("saving analytics: %w", err)
	}
	return nil
}

func (r *repositoryImpl) LoadContentTables(ctx context.Context) (ContentTables, error) {
	var tables ContentTables
	db := r.db.WithContext(ctx)

	if err := db.Order("id ASC").Find(&tables.FAQs).Error; err != nil {
		return ContentTables{}, fmt.Errorf("loading faq: %w", err)
	}
	if err := db.Order("id ASC").Find(&tables.Testimonials).Error; err != nil {
		return ContentTables{}, fmt.Errorf("loading testimonials: %w", err)
	}
	if err := db.Model(&models.Category{}).Order("name ASC").Pluck("name", &tables.Categories).Error; err != nil {
		return ContentTables{}, fmt.Errorf("loading categories: %w", err)
	}
	if err := db.Model(&models.Collection{}).Order("name ASC").Pluck("name", &tables.Collections).Error; err != nil {
		return ContentTables{}, fmt.Errorf("loading collections: %w", err)
	}
	return tables, nil
}

// replaceAll swaps the full contents of a table inside the caller's
// transaction. A full replace keeps deletions in the in-memory state from
// lingering as orphan rows.
func replaceAll[T any](tx *gorm.DB, model *T, rows []T) error {
	if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

func faqRows(settings types.StoreSettings) []models.FAQ {
	rows := make([]models.FAQ, 0, len(settings.FAQs))
	for _, f := range settings.FAQs {
		rows = append(rows, models.FAQ{
			ID:       f.ID,
			Question: f.Question,
			Answer:   f.Answer,
			Enabled:  f.Enabled,
		})
	}
	return rows
}

func testimonialRows(settings types.StoreSettings) []models.TestimonialRow {
	rows := make([]models.TestimonialRow, 0, len(settings.Testimonials))
	for _, tm := range settings.Testimonials {
		row := models.TestimonialRow{
			ID:      tm.ID,
			Name:    tm.Name,
			Content: tm.Content,
			Image:   tm.Image,
			Rating:  tm.Rating,
			Enabled: tm.Enabled,
		}
		rows = append(rows, row)
	}
	return rows
}

func categoryRows(settings types.StoreSettings) []models.Category {
	rows := make([]models.Category, 0, len(settings.Categories))
	for _, name := range settings.Categories {
		rows = append(rows, models.Category{Name: name})
	}
	return rows
}

func collectionRows(settings types.StoreSettings) []models.Collection {
	rows := make([]models.Collection, 0, len(settings.Tags))
	for _, name := range settings.Tags {
		rows = append(rows, models.Collection{Name: name})
	}
	return rows
}
