package collaborators

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"payledger.backend/internal/domain/entities"
	"payledger.backend/pkg/logger"
	"payledger.backend/pkg/redis"
)

// redisLPush is swapped in tests
var redisLPush = redis.LPush

// OutboxMailer queues receipts on a redis list consumed by the mail worker.
// When redis is unavailable the message is logged instead of lost silently.
type OutboxMailer struct {
	from string
	key  string
}

func NewOutboxMailer(from, key string) *OutboxMailer {
	if key == "" {
		key = "mail:outbox"
	}
	return &OutboxMailer{from: from, key: key}
}

type outboxEnvelope struct {
	From     string               `json:"from"`
	Message  entities.MailMessage `json:"message"`
	QueuedAt time.Time            `json:"queuedAt"`
}

// Send enqueues msg. Delivery failures are logged and never returned: receipts
// are best effort and must not affect the settlement that triggered them.
func (m *OutboxMailer) Send(ctx context.Context, msg entities.MailMessage) error {
	payload, err := json.Marshal(outboxEnvelope{From: m.from, Message: msg, QueuedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	if err := redisLPush(ctx, m.key, string(payload)); err != nil {
		logger.Warn(ctx, "Mail outbox unavailable, receipt logged only",
			zap.String("owner", msg.Owner.String()),
			zap.String("subject", msg.Subject),
			zap.Strings("lines", msg.Lines),
			zap.Error(err),
		)
	}
	return nil
}
