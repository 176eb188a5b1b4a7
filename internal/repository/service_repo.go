package repository

import (
	"context"
	"strings"
	"time"

	"dogsalon/internal/domain"

	"gorm.io/gorm"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

type serviceModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	Slug            string    `gorm:"column:slug;size:255;uniqueIndex;not null"`
	NameEN          string    `gorm:"column:name_en;size:255;not null"`
	NameHU          string    `gorm:"column:name_hu;size:255"`
	DescriptionEN   string    `gorm:"column:description_en;type:text"`
	DescriptionHU   string    `gorm:"column:description_hu;type:text"`
	PriceDefault    int64     `gorm:"column:price_default;not null"`
	PriceSmall      *int64    `gorm:"column:price_small"`
	PriceBig        *int64    `gorm:"column:price_big"`
	DurationMinutes int       `gorm:"column:duration_minutes;not null"`
	Photo           string    `gorm:"column:photo;size:255"`
	Active          bool      `gorm:"column:active;not null;index"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (serviceModel) TableName() string { return "services" }

func toDomainService(m serviceModel) *domain.Service {
	return &domain.Service{
		ID:              m.ID,
		Slug:            m.Slug,
		NameEN:          m.NameEN,
		NameHU:          m.NameHU,
		DescriptionEN:   m.DescriptionEN,
		DescriptionHU:   m.DescriptionHU,
		PriceDefault:    m.PriceDefault,
		PriceSmall:      m.PriceSmall,
		PriceBig:        m.PriceBig,
		DurationMinutes: m.DurationMinutes,
		Photo:           m.Photo,
		Active:          m.Active,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toServiceModel(s *domain.Service) serviceModel {
	return serviceModel{
		ID:              s.ID,
		Slug:            s.Slug,
		NameEN:          s.NameEN,
		NameHU:          s.NameHU,
		DescriptionEN:   s.DescriptionEN,
		DescriptionHU:   s.DescriptionHU,
		PriceDefault:    s.PriceDefault,
		PriceSmall:      s.PriceSmall,
		PriceBig:        s.PriceBig,
		DurationMinutes: s.DurationMinutes,
		Photo:           s.Photo,
		Active:          s.Active,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func (r *ServiceRepository) Create(ctx context.Context, s *domain.Service) error {
	m := toServiceModel(s)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	*s = *toDomainService(m)
	return nil
}

func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	var m serviceModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err)
	}
	return toDomainService(m), nil
}

func (r *ServiceRepository) GetBySlug(ctx context.Context, slug string) (*domain.Service, error) {
	var m serviceModel
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return toDomainService(m), nil
}

func (r *ServiceRepository) Update(ctx context.Context, s *domain.Service) error {
	m := toServiceModel(s)
	m.UpdatedAt = time.Now().UTC()

	tx := r.db.WithContext(ctx).
		Model(&serviceModel{ID: s.ID}).
		Select("slug", "name_en", "name_hu", "description_en", "description_hu",
			"price_default", "price_small", "price_big", "duration_minutes", "photo", "active", "updated_at").
		Updates(&m)
	if tx.Error != nil {
		if isUniqueViolation(tx.Error) {
			return ErrDuplicate
		}
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	s.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *ServiceRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&serviceModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type ServiceFilter struct {
	Active *bool
	Search string
	Limit  int
	Offset int
	// ByName orders by English name instead of id.
	ByName bool
}

func (r *ServiceRepository) List(ctx context.Context, f ServiceFilter) ([]domain.Service, int64, error) {
	scope := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&serviceModel{})
		if f.Active != nil {
			q = q.Where("active = ?", *f.Active)
		}
		if s := strings.TrimSpace(f.Search); s != "" {
			like := "%" + strings.ToLower(s) + "%"
			q = q.Where("LOWER(name_en) LIKE ? OR LOWER(name_hu) LIKE ?", like, like)
		}
		return q
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "id ASC"
	if f.ByName {
		order = "name_en ASC"
	}
	q := scope().Order(order)
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}

	var rows []serviceModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Service, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainService(m))
	}
	return out, total, nil
}

func (r *ServiceRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&serviceModel{}).Where("active = ?", true).Count(&n).Error
	return n, err
}
