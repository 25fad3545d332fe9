package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/mr1hm/go-air-alerts/internal/models"
	"github.com/mr1hm/go-air-alerts/internal/phone"
	"github.com/mr1hm/go-air-alerts/internal/worker"
)

// DispatcherOptions configures the Dispatcher behavior.
type DispatcherOptions struct {
	FromNumber    string
	CountryCode   string            // used to convert national numbers to E.164
	Messages      map[string]string // tier name -> advisory
	Scale         models.Scale
	Workers       int     // concurrent provider calls, default 1
	RatePerSecond float64 // provider call rate, default 1
}

// Failure describes a recipient whose message was not delivered.
type Failure struct {
	PhoneHash string
	Topic     string
	Err       error
}

// Result is the outcome of one dispatch. Records are in recipient order.
type Result struct {
	Records  []models.DispatchRecord
	Failures []Failure
	Matched  int
	Skipped  int
}

// Dispatcher renders the cycle's message and sends it to matched recipients.
type Dispatcher struct {
	provider Provider
	opts     DispatcherOptions
	limiter  *rate.Limiter
}

func NewDispatcher(provider Provider, opts DispatcherOptions) *Dispatcher {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = 1
	}
	if len(opts.Scale) == 0 {
		opts.Scale = models.DefaultScale
	}

	return &Dispatcher{
		provider: provider,
		opts:     opts,
		limiter:  rate.NewLimiter(rate.Limit(opts.RatePerSecond), max(1, opts.Workers)),
	}
}

type sendJob struct {
	index     int
	recipient models.Recipient
}

type sendOutcome struct {
	done   bool
	record models.DispatchRecord
	err    error
}

// Dispatch sends the current tier's message to every recipient whose topic
// rank is at or below tier. With no recipients it returns immediately
// without rendering a message or calling the provider.
func (d *Dispatcher) Dispatch(ctx context.Context, tier models.Tier, level float64, recipients []models.Recipient) Result {
	result := Result{Records: []models.DispatchRecord{}}
	if len(recipients) == 0 {
		return result
	}

	topic := d.opts.Scale.Name(tier)
	body := RenderMessage(topic, level, d.opts.Messages[topic])

	matched := make([]models.Recipient, 0, len(recipients))
	for _, r := range recipients {
		rank, ok := d.opts.Scale.Rank(r.Topic)
		if !ok {
			result.Skipped++
			recipientsSkippedTotal.Inc()
			slog.Warn("recipient subscribed to unknown topic, skipping",
				"phone_hash", phone.Hash(r.Phone), "topic", r.Topic)
			continue
		}
		if rank <= tier {
			matched = append(matched, r)
		}
	}
	result.Matched = len(matched)

	if len(matched) == 0 {
		return result
	}

	outcomes := make([]sendOutcome, len(matched))
	pool := worker.NewPool(d.opts.Workers, len(matched), func(ctx context.Context, j sendJob) error {
		rec, err := d.send(ctx, j.recipient, topic, tier, level, body)
		outcomes[j.index] = sendOutcome{done: true, record: rec, err: err}
		return err
	})

	pool.Start(ctx)
	for i, r := range matched {
		// The buffer holds every job, so Submit cannot block here.
		if err := pool.Submit(ctx, sendJob{index: i, recipient: r}); err != nil {
			break
		}
	}
	pool.Stop()

	for i, o := range outcomes {
		if !o.done {
			err := ctx.Err()
			if err == nil {
				err = errors.New("not attempted")
			}
			o.err = err
		}
		if o.err != nil {
			result.Failures = append(result.Failures, Failure{
				PhoneHash: phone.Hash(matched[i].Phone),
				Topic:     matched[i].Topic,
				Err:       o.err,
			})
			continue
		}
		result.Records = append(result.Records, o.record)
	}

	return result
}

func (d *Dispatcher) send(ctx context.Context, r models.Recipient, topic string, tier models.Tier, level float64, body string) (models.DispatchRecord, error) {
	hash := phone.Hash(r.Phone)
	name := d.provider.Name()

	if err := d.limiter.Wait(ctx); err != nil {
		return models.DispatchRecord{}, fmt.Errorf("rate limiter: %w", err)
	}

	start := time.Now()
	receipt, err := d.provider.Send(ctx, Message{
		From: d.opts.FromNumber,
		To:   phone.ToE164(r.Phone, d.opts.CountryCode),
		Body: body,
	})
	smsSendDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	if err != nil {
		smsSendTotal.WithLabelValues(name, "failed").Inc()
		slog.Error("failed to send notification", "phone_hash", hash, "provider", name, "error", err)
		return models.DispatchRecord{}, err
	}
	smsSendTotal.WithLabelValues(name, "sent").Inc()

	slog.Debug("notification sent", "sid", receipt.SID, "phone_hash", hash, "status", receipt.Status)

	return models.DispatchRecord{
		SID:                 receipt.SID,
		To:                  hash,
		From:                d.opts.FromNumber,
		Topic:               topic,
		Level:               level,
		TopicLevel:          tier,
		Body:                body,
		Status:              receipt.Status,
		AccountSID:          receipt.AccountSID,
		APIVersion:          receipt.APIVersion,
		Direction:           receipt.Direction,
		NumSegments:         receipt.NumSegments,
		NumMedia:            receipt.NumMedia,
		Price:               receipt.Price,
		PriceUnit:           receipt.PriceUnit,
		ErrorCode:           receipt.ErrorCode,
		ErrorMessage:        receipt.ErrorMessage,
		URI:                 receipt.URI,
		MessagingServiceSID: receipt.MessagingServiceSID,
		DateCreated:         receipt.DateCreated,
		DateUpdated:         receipt.DateUpdated,
		DateSent:            receipt.DateSent,
	}, nil
}
