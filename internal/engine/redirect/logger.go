package redirect

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"kompi/internal/pkg/parser"
	"kompi/internal/workers"
)

type ClickRecorder interface {
	Record(ctx context.Context, ev *ClickEvent) error
}

// ClickLogger records clicks off the request path. Events are queued on a
// bounded buffer; when it is full the event is dropped rather than delaying
// the redirect.
type ClickLogger struct {
	recorder ClickRecorder
	pool     *workers.Pool[*ClickEvent]
}

func NewClickLogger(recorder ClickRecorder, bufferSize, workerCount int) *ClickLogger {
	l := &ClickLogger{recorder: recorder}
	l.pool = workers.NewPool("click-logger", bufferSize, workerCount, l.record)
	return l
}

func (l *ClickLogger) Start() {
	l.pool.Start()
}

// Stop waits for queued events to be written.
func (l *ClickLogger) Stop(ctx context.Context) error {
	return l.pool.Stop(ctx)
}

// LogClick copies what it needs out of r, so it is safe to call right before
// the response is written.
func (l *ClickLogger) LogClick(linkID string, r *http.Request) {
	ua := r.UserAgent()
	client := parser.Parse(ua)

	ev := &ClickEvent{
		ID:         uuid.New().String(),
		LinkID:     linkID,
		CreatedAt:  time.Now().UnixMilli(),
		Referer:    r.Referer(),
		UserAgent:  ua,
		DeviceType: client.DeviceType,
		OS:         client.OS,
		Browser:    client.Browser,
	}

	if err := l.pool.Submit(ev); err != nil {
		ClickEvents.WithLabelValues("dropped").Inc()
		log.Warn().Err(err).Str("link_id", linkID).Msg("Click event dropped")
	}
}

func (l *ClickLogger) record(ctx context.Context, ev *ClickEvent) {
	if err := l.recorder.Record(ctx, ev); err != nil {
		ClickEvents.WithLabelValues("failed").Inc()
		log.Error().Err(err).Str("link_id", ev.LinkID).Msg("Failed to record click")
		return
	}
	ClickEvents.WithLabelValues("recorded").Inc()
}
