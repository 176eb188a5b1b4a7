package repository

import (
	"context"
	"time"

	"dogsalon/internal/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// The salon has exactly one contact row.
const contactRowID = 1

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

type contactModel struct {
	ID            int64                                  `gorm:"column:id;primaryKey;autoIncrement:false"`
	Phone         string                                 `gorm:"column:phone;size:20"`
	Email         string                                 `gorm:"column:email;size:254"`
	Address       string                                 `gorm:"column:address;size:255"`
	GoogleMapsURL string                                 `gorm:"column:google_maps_url;type:text"`
	OpeningHours  datatypes.JSONType[domain.OpeningHours] `gorm:"column:opening_hours"`
	UpdatedAt     time.Time                              `gorm:"column:updated_at"`
}

func (contactModel) TableName() string { return "contacts" }

func toDomainContact(m contactModel) *domain.Contact {
	hours := m.OpeningHours.Data()
	if hours == nil {
		hours = domain.OpeningHours{}
	}
	return &domain.Contact{
		Phone:         m.Phone,
		Email:         m.Email,
		Address:       m.Address,
		GoogleMapsURL: m.GoogleMapsURL,
		OpeningHours:  hours,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toContactModel(c *domain.Contact) contactModel {
	return contactModel{
		ID:            contactRowID,
		Phone:         c.Phone,
		Email:         c.Email,
		Address:       c.Address,
		GoogleMapsURL: c.GoogleMapsURL,
		OpeningHours:  datatypes.NewJSONType(c.OpeningHours),
		UpdatedAt:     c.UpdatedAt,
	}
}

func (r *ContactRepository) Get(ctx context.Context) (*domain.Contact, error) {
	var m contactModel
	if err := r.db.WithContext(ctx).First(&m, contactRowID).Error; err != nil {
		return nil, notFound(err)
	}
	return toDomainContact(m), nil
}

// Create fails with ErrDuplicate when the contact row already exists.
func (r *ContactRepository) Create(ctx context.Context, c *domain.Contact) error {
	m := toContactModel(c)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	c.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *ContactRepository) Update(ctx context.Context, c *domain.Contact) error {
	m := toContactModel(c)
	m.UpdatedAt = time.Now().UTC()

	tx := r.db.WithContext(ctx).
		Model(&contactModel{ID: contactRowID}).
		Select("phone", "email", "address", "google_maps_url", "opening_hours", "updated_at").
		Updates(&m)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	c.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *ContactRepository) Delete(ctx context.Context) error {
	tx := r.db.WithContext(ctx).Delete(&contactModel{}, contactRowID)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
