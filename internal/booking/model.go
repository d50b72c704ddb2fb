// Package booking persists appointments and guards against double bookings.
package booking

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a person booking a treatment.
type Customer struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Phone string    `json:"phone,omitempty"`
}

// Appointment is a booked treatment slot.
type Appointment struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Treatment  string    `json:"treatment"`
	Location   string    `json:"location"`
	StartsAt   time.Time `json:"starts_at"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// Appointment status values.
const (
	StatusBooked    = "gebucht"
	StatusCancelled = "storniert"
)

// Request carries everything needed to book an appointment.
type Request struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Treatment string    `json:"treatment"`
	Location  string    `json:"location"`
	StartsAt  time.Time `json:"starts_at"`
}

// Confirmation is returned to the caller after a successful booking.
type Confirmation struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	Treatment     string    `json:"treatment"`
	Location      string    `json:"location"`
	StartsAt      time.Time `json:"starts_at"`
	Status        string    `json:"status"`
}
