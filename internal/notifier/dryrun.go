package notifier

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mr1hm/go-air-alerts/internal/logging"
)

// DryRunProvider logs messages instead of sending them. It is used when no
// SMS credentials are configured.
type DryRunProvider struct {
	now func() time.Time
}

func NewDryRunProvider() *DryRunProvider {
	return &DryRunProvider{now: time.Now}
}

func (p *DryRunProvider) Name() string { return "dry-run" }

func (p *DryRunProvider) Send(ctx context.Context, msg Message) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := p.now().UTC()
	sid := "DRY" + strings.ReplaceAll(uuid.NewString(), "-", "")

	slog.Info("SMS not configured, skipping delivery",
		"sid", sid, "to", logging.Redact(msg.To), "body", msg.Body)

	return &Receipt{
		SID:         sid,
		Status:      "dry-run",
		Direction:   "outbound-api",
		DateCreated: now,
		DateUpdated: now,
	}, nil
}
