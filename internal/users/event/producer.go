package event

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/kamilaalv/movie465/internal/users/domain"
	"github.com/kamilaalv/movie465/pkg/kafka"
	"github.com/kamilaalv/movie465/pkg/logger"
)

const (
	topicUserEvents = "users.events"
	sourceService   = "users-service"

	TypeUserCreated     = "user.created"
	TypeUserUpdated     = "user.updated"
	TypeUserDeleted     = "user.deleted"
	TypeUserLoggedIn    = "user.logged_in"
	TypeTokensRefreshed = "user.tokens_refreshed"
)

type publisher interface {
	Publish(ctx context.Context, topic string, event *kafka.Event) error
}

// Producer publishes user lifecycle events. Publishing is best effort: a
// broker outage never fails the business operation, it only logs.
type Producer struct {
	pub    publisher
	logger *slog.Logger
}

// NewProducer creates an event producer. A nil publisher disables events.
func NewProducer(pub publisher, l *slog.Logger) *Producer {
	return &Producer{pub: pub, logger: l}
}

type userPayload struct {
	ID       int64  `json:"id"`
	UserName string `json:"userName"`
	RoleID   int64  `json:"roleId"`
	IsActive bool   `json:"isActive"`
}

type authPayload struct {
	UserID   int64  `json:"userId"`
	UserName string `json:"userName"`
}

// UserChanged publishes a user.created, user.updated, or user.deleted event.
func (p *Producer) UserChanged(ctx context.Context, eventType string, user *domain.User) {
	p.publish(ctx, eventType, user.ID, userPayload{
		ID:       user.ID,
		UserName: user.UserName,
		RoleID:   user.RoleID,
		IsActive: user.IsActive,
	})
}

// AuthEvent publishes a login or token refresh event.
func (p *Producer) AuthEvent(ctx context.Context, eventType string, userID int64, userName string) {
	p.publish(ctx, eventType, userID, authPayload{UserID: userID, UserName: userName})
}

func (p *Producer) publish(ctx context.Context, eventType string, aggregateID int64, payload any) {
	if p.pub == nil {
		return
	}

	evt, err := kafka.NewEvent(eventType, strconv.FormatInt(aggregateID, 10), "user", sourceService, payload)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to build event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
		return
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt.WithCorrelationID(id)
	}

	if err := p.pub.Publish(ctx, topicUserEvents, evt); err != nil {
		p.logger.WarnContext(ctx, "failed to publish event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
	}
}
