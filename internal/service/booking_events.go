package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/shutterdesk/shutterdesk-api/internal/models"
)

// BookingEventPublisher announces booking lifecycle transitions to interested
// consumers (mailers, calendar sync). Publishing is best-effort: a broker
// outage never fails the transition itself.
type BookingEventPublisher interface {
	Publish(ctx context.Context, verb string, booking models.Booking)
}

type bookingEvent struct {
	Verb           string    `json:"verb"`
	BookingID      uint      `json:"booking_id"`
	ClientID       uint      `json:"client_id"`
	PhotographerID uint      `json:"photographer_id"`
	Status         string    `json:"status"`
	StartAt        time.Time `json:"start_at"`
	EndAt          time.Time `json:"end_at"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type natsBookingPublisher struct {
	conn        *nats.Conn
	subjectBase string
	logger      zerolog.Logger
}

// NewBookingEventPublisher publishes booking events on NATS subjects of the
// form "<base>.<verb>". A nil connection disables publishing.
func NewBookingEventPublisher(conn *nats.Conn, subjectBase string, logger zerolog.Logger) BookingEventPublisher {
	if subjectBase == "" {
		subjectBase = "shutterdesk.bookings"
	}
	return &natsBookingPublisher{
		conn:        conn,
		subjectBase: subjectBase,
		logger:      logger.With().Str("component", "booking_events").Logger(),
	}
}

func (p *natsBookingPublisher) Publish(ctx context.Context, verb string, booking models.Booking) {
	if p.conn == nil {
		return
	}

	event := bookingEvent{
		Verb:           strings.ToLower(verb),
		BookingID:      booking.ID,
		ClientID:       booking.ClientID,
		PhotographerID: booking.PhotographerID,
		Status:         string(booking.Status),
		StartAt:        booking.StartAt,
		EndAt:          booking.EndAt,
		OccurredAt:     time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to encode booking event")
		return
	}

	subject := p.subjectBase + "." + event.Verb
	if err := p.conn.Publish(subject, payload); err != nil {
		p.logger.Error().Err(err).
			Str("subject", subject).
			Uint("booking_id", booking.ID).
			Msg("failed to publish booking event")
	}
}
