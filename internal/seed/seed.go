// Package seed fills an empty database with demo services, contact details
// and accounts, and creates admin accounts.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dogsalon/internal/domain"
	"dogsalon/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Result counts what a run actually inserted.
type Result struct {
	Services int
	Users    int
	Contact  bool
}

func price(v int64) *int64 { return &v }

var demoServices = []domain.Service{
	{
		Slug: "bath-and-brush", NameEN: "Bath and brush", NameHU: "Fürdetés és kefélés",
		DescriptionEN: "Shampoo, conditioner, blow dry and a full brush out.",
		DescriptionHU: "Sampon, balzsam, szárítás és alapos kefélés.",
		PriceDefault:  9000, PriceSmall: price(7000), PriceBig: price(12000),
		DurationMinutes: 60, Active: true,
	},
	{
		Slug: "full-grooming", NameEN: "Full grooming", NameHU: "Teljes kozmetika",
		DescriptionEN: "Bath, haircut, nail trim and ear cleaning.",
		DescriptionHU: "Fürdetés, nyírás, karomvágás és fültisztítás.",
		PriceDefault:  16000, PriceSmall: price(13000), PriceBig: price(21000),
		DurationMinutes: 120, Active: true,
	},
	{
		Slug: "nail-trim", NameEN: "Nail trim", NameHU: "Karomvágás",
		PriceDefault: 2500, DurationMinutes: 15, Active: true,
	},
	{
		Slug: "hand-stripping", NameEN: "Hand stripping", NameHU: "Trimmelés",
		PriceDefault: 18000, DurationMinutes: 180, Active: true,
	},
}

var demoContact = domain.Contact{
	Phone:         "+36301234567",
	Email:         "info@dogsalon.local",
	Address:       "1052 Budapest, Váci utca 1.",
	GoogleMapsURL: "https://maps.google.com/?q=Budapest+Vaci+utca+1",
	OpeningHours: domain.OpeningHours{
		"monday":    {Open: "08:00", Close: "16:00"},
		"tuesday":   {Open: "08:00", Close: "16:00"},
		"wednesday": {Open: "08:00", Close: "16:00"},
		"thursday":  {Open: "10:00", Close: "18:00"},
		"friday":    {Open: "08:00", Close: "16:00"},
		"saturday":  {Open: "09:00", Close: "13:00"},
		"sunday":    {},
	},
}

// Demo inserts the demo data. Rows that already exist are skipped, so it
// is safe to run repeatedly.
func Demo(ctx context.Context, db *gorm.DB, clientPassword string) (Result, error) {
	var res Result

	services := repository.NewServiceRepository(db)
	for _, s := range demoServices {
		s := s
		err := services.Create(ctx, &s)
		switch {
		case err == nil:
			res.Services++
		case errors.Is(err, repository.ErrDuplicate):
		default:
			return res, fmt.Errorf("seed service %s: %w", s.Slug, err)
		}
	}

	contact := demoContact
	err := repository.NewContactRepository(db).Create(ctx, &contact)
	switch {
	case err == nil:
		res.Contact = true
	case errors.Is(err, repository.ErrDuplicate):
	default:
		return res, fmt.Errorf("seed contact: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(clientPassword), bcrypt.DefaultCost)
	if err != nil {
		return res, err
	}
	users := repository.NewUserRepository(db)
	clients := []domain.User{
		{Username: "anna", Email: "anna@example.com", FirstName: "Anna", LastName: "Kovács", Phone: "+36201112233"},
		{Username: "bence", Email: "bence@example.com", FirstName: "Bence", LastName: "Nagy", Phone: "06305556677"},
	}
	for _, u := range clients {
		u := u
		u.PasswordHash = string(hash)
		u.Role = domain.RoleClient
		u.IsActive = true
		err := users.Create(ctx, &u)
		switch {
		case err == nil:
			res.Users++
		case errors.Is(err, repository.ErrDuplicate):
		default:
			return res, fmt.Errorf("seed user %s: %w", u.Username, err)
		}
	}

	return res, nil
}

type AdminInput struct {
	Username string
	Email    string
	Password string
	Phone    string
}

// CreateAdmin adds an active admin account.
func CreateAdmin(ctx context.Context, db *gorm.DB, in AdminInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Username == "" || in.Email == "" {
		return nil, errors.New("username and email are required")
	}
	if len(in.Password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Phone:        in.Phone,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	if err := repository.NewUserRepository(db).Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("user %q or %q already exists", in.Username, in.Email)
		}
		return nil, err
	}
	return u, nil
}
