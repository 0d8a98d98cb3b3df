package eventbus

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
	"github.com/riskibarqy/fantasy-draft/internal/platform/logging"
	"go.opentelemetry.io/otel/trace"
)

const (
	Topic = "draft.events"

	metadataEventType = "event_type"
	metadataTraceID   = "trace_id"
)

// Handler consumes one decoded event. Errors are logged and the message is still acked.
type Handler func(ctx context.Context, event draft.Event) error

type Config struct {
	OutputChannelBuffer int64
}

// Bus fans committed draft events out to in-process subscribers.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger *logging.Logger
	wg     sync.WaitGroup
}

func New(cfg Config, logger *logging.Logger) *Bus {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.OutputChannelBuffer <= 0 {
		cfg.OutputChannelBuffer = 64
	}

	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: cfg.OutputChannelBuffer,
		}, logging.NewWatermillAdapter(logger)),
		logger: logger,
	}
}

func (b *Bus) Publish(ctx context.Context, event draft.Event) error {
	payload, err := sonic.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal draft event")
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(metadataEventType, string(event.Type))
	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.HasTraceID() {
		msg.Metadata.Set(metadataTraceID, spanCtx.TraceID().String())
	}

	if err := b.pubsub.Publish(Topic, msg); err != nil {
		return errors.Wrapf(err, "publish %s", event.Type)
	}
	return nil
}

// Subscribe starts delivering events to handler until ctx is done or the bus closes.
func (b *Bus) Subscribe(ctx context.Context, name string, handler Handler) error {
	messages, err := b.pubsub.Subscribe(ctx, Topic)
	if err != nil {
		return errors.Wrapf(err, "subscribe %s", name)
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for msg := range messages {
			b.handle(ctx, name, msg, handler)
		}
	}()
	return nil
}

func (b *Bus) handle(ctx context.Context, name string, msg *message.Message, handler Handler) {
	defer msg.Ack()

	var event draft.Event
	if err := sonic.Unmarshal(msg.Payload, &event); err != nil {
		b.logger.WarnContext(ctx, "drop undecodable draft event",
			"subscriber", name,
			"message_uuid", msg.UUID,
			"error", err,
		)
		return
	}

	if err := handler(ctx, event); err != nil {
		b.logger.WarnContext(ctx, "draft event handler failed",
			"subscriber", name,
			"event_type", event.Type,
			"tournament_id", event.TournamentID,
			"trace_id", msg.Metadata.Get(metadataTraceID),
			"error", err,
		)
	}
}

// Close stops the pubsub and waits for subscriber loops to drain.
func (b *Bus) Close() error {
	err := b.pubsub.Close()
	b.wg.Wait()
	return err
}
