// Package notification delivers salon e-mails and pushes events to the admin
// websocket feed. Delivery is best effort: failures are logged, never returned.
package notification

import (
	"context"
	"time"

	"dogsalon/internal/domain"
	"dogsalon/internal/pkg/i18n"

	"go.uber.org/zap"
)

const startLayout = "2006-01-02 15:04"

type Service struct {
	mailer     Mailer
	hub        *Hub
	tr         *i18n.Translator
	adminEmail string
	lang       string
	loc        *time.Location
	log        *zap.Logger
}

type Options struct {
	AdminEmail string
	Lang       string
	Location   *time.Location
}

func NewService(mailer Mailer, hub *Hub, tr *i18n.Translator, opts Options, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Lang == "" {
		opts.Lang = tr.Fallback()
	}
	return &Service{
		mailer:     mailer,
		hub:        hub,
		tr:         tr,
		adminEmail: opts.AdminEmail,
		lang:       opts.Lang,
		loc:        opts.Location,
		log:        log.Named("notification"),
	}
}

type bookingEvent struct {
	BookingID  int64     `json:"booking_id"`
	ServiceID  int64     `json:"service_id"`
	Service    string    `json:"service"`
	UserID     int64     `json:"user_id"`
	Customer   string    `json:"customer"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	ByCustomer *bool     `json:"by_customer,omitempty"`
}

func (s *Service) BookingCreated(ctx context.Context, b *domain.Booking, svc *domain.Service, customer *domain.User) {
	ev := s.bookingEvent(b, svc, customer)
	s.broadcast(EventBookingCreated, ev)

	s.sendToAdmin(ctx, "mail.booking_created", map[string]any{
		"Customer": ev.Customer,
		"Service":  ev.Service,
		"Start":    s.formatStart(b.StartTime),
		"Comment":  b.Comment,
	})
}

// BookingCancelled tells the admin when the customer cancelled, and the
// customer when the salon did.
func (s *Service) BookingCancelled(ctx context.Context, b *domain.Booking, svc *domain.Service, customer *domain.User, byCustomer bool) {
	ev := s.bookingEvent(b, svc, customer)
	ev.ByCustomer = &byCustomer
	s.broadcast(EventBookingCancelled, ev)

	if byCustomer {
		s.sendToAdmin(ctx, "mail.booking_cancelled_admin", map[string]any{
			"Customer": ev.Customer,
			"Service":  ev.Service,
			"Start":    s.formatStart(b.StartTime),
		})
		return
	}

	if customer == nil {
		return
	}
	s.send(ctx, customer.Email, "mail.booking_cancelled_user", map[string]any{
		"Name":    customer.FullName(),
		"Service": ev.Service,
		"Start":   s.formatStart(b.StartTime),
	})
}

func (s *Service) AccountDeactivated(ctx context.Context, u *domain.User) {
	if u == nil {
		return
	}
	s.send(ctx, u.Email, "mail.account_deactivated", map[string]any{"Name": u.FullName()})
}

func (s *Service) ActivationRequested(ctx context.Context, u *domain.User, link string) {
	if u == nil {
		return
	}
	s.send(ctx, u.Email, "mail.activation", map[string]any{"Name": u.FullName(), "Link": link})
}

func (s *Service) CallbackRequested(ctx context.Context, u *domain.User) {
	if u == nil {
		return
	}
	s.broadcast(EventCallbackRequested, map[string]any{
		"user_id": u.ID,
		"name":    u.FullName(),
		"phone":   u.Phone,
	})
	s.sendToAdmin(ctx, "mail.callback", map[string]any{"Name": u.FullName(), "Phone": u.Phone})
}

func (s *Service) bookingEvent(b *domain.Booking, svc *domain.Service, customer *domain.User) bookingEvent {
	ev := bookingEvent{
		BookingID: b.ID,
		ServiceID: b.ServiceID,
		UserID:    b.UserID,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
	}
	if svc != nil {
		ev.Service = svc.Name(s.lang)
	}
	if customer != nil {
		ev.Customer = customer.FullName()
	}
	return ev
}

func (s *Service) formatStart(t time.Time) string {
	return t.In(s.loc).Format(startLayout)
}

func (s *Service) broadcast(kind string, data any) {
	if s.hub == nil {
		return
	}
	n := s.hub.Broadcast(Event{Type: kind, Data: data})
	s.log.Debug("event broadcast", zap.String("type", kind), zap.Int("receivers", n))
}

func (s *Service) sendToAdmin(ctx context.Context, id string, data map[string]any) {
	if s.adminEmail == "" {
		s.log.Debug("no admin e-mail configured", zap.String("message", id))
		return
	}
	s.send(ctx, s.adminEmail, id, data)
}

func (s *Service) send(ctx context.Context, to, id string, data map[string]any) {
	if to == "" {
		return
	}
	msg := Message{
		To:      to,
		Subject: s.tr.T(s.lang, id+".subject"),
		Body:    s.tr.Tf(s.lang, id+".body", data),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.Warn("send mail", zap.String("to", to), zap.String("message", id), zap.Error(err))
	}
}
