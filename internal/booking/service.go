package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/liquidaesthetik/praxis-assistant/internal/notify"
	"github.com/liquidaesthetik/praxis-assistant/pkg/logging"
)

// collisionWindow is the minimum spacing between two appointments at the same
// location. A new slot closer than this to an existing one is rejected.
const collisionWindow = 30 * time.Minute

// ErrSlotTaken is returned when the requested slot collides with an existing
// appointment.
var ErrSlotTaken = errors.New("booking: slot already taken")

// Service books and cancels appointments.
type Service struct {
	repo   *Repository
	mailer notify.EmailSender
	logger *logging.Logger
	now    func() time.Time
}

// NewService creates a booking service.
func NewService(repo *Repository, mailer notify.EmailSender, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if mailer == nil {
		mailer = notify.NewStubSender(logger)
	}
	return &Service{
		repo:   repo,
		mailer: mailer,
		logger: logger,
		now:    time.Now,
	}
}

// Book validates the slot, persists the appointment and sends a confirmation
// email. The email is best effort; the booking stands even when delivery
// fails.
func (s *Service) Book(ctx context.Context, req Request) (*Confirmation, error) {
	taken, err := s.repo.HasConflict(ctx, req.Location, req.StartsAt, collisionWindow)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlotTaken
	}

	customerID, err := s.repo.UpsertCustomer(ctx, req.Name, req.Email, req.Phone)
	if err != nil {
		return nil, err
	}

	appt := Appointment{
		ID:         uuid.New(),
		CustomerID: customerID,
		Treatment:  req.Treatment,
		Location:   req.Location,
		StartsAt:   req.StartsAt,
		Status:     StatusBooked,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.Insert(ctx, appt); err != nil {
		return nil, err
	}

	if err := s.mailer.Send(ctx, confirmationEmail(req)); err != nil {
		s.logger.Error("confirmation email failed", "error", err, "appointment_id", appt.ID)
	}

	return &Confirmation{
		AppointmentID: appt.ID,
		Treatment:     appt.Treatment,
		Location:      appt.Location,
		StartsAt:      appt.StartsAt,
		Status:        appt.Status,
	}, nil
}

// Cancel marks an appointment as cancelled.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	return s.repo.Cancel(ctx, id)
}

func confirmationEmail(req Request) notify.EmailMessage {
	return notify.EmailMessage{
		To:      req.Email,
		ToName:  req.Name,
		Subject: "Terminbestätigung – Liquid Aesthetik",
		Body: fmt.Sprintf(
			"Liebe/r %s,\n\ndein Termin für %s ist bestätigt: %s in %s.\n\nBis bald!\nLiquid Aesthetik",
			req.Name, req.Treatment, req.StartsAt.Format("02.01.2006 15:04"), req.Location),
	}
}
