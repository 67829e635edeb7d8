package contact

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Receipt identifies an accepted message.
type Receipt struct {
	ID         string
	ReceivedAt time.Time
}

// Sink accepts validated messages from the site forms.
type Sink interface {
	Submit(ctx context.Context, s Submission) (Receipt, error)
	Ask(ctx context.Context, q Question) (Receipt, error)
}

// LogSink records messages as structured log entries. The site has no
// backend for forms; the log is where they are picked up.
type LogSink struct {
	logger *zap.Logger
	now    func() time.Time
	idGen  func() string
}

// NewLogSink returns a sink writing to logger.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger.Named("contact"), now: time.Now, idGen: newID}
}

func newID() string { return ulid.Make().String() }

func (s *LogSink) Submit(ctx context.Context, sub Submission) (Receipt, error) {
	r := Receipt{ID: s.idGen(), ReceivedAt: s.now().UTC()}
	fields := []zap.Field{
		zap.String("submission_id", r.ID),
		zap.String("locale", string(sub.Locale)),
		zap.Bool("as_company", sub.AsCompany),
		zap.String("name", sub.Name),
		zap.String("email", sub.Email),
		zap.String("phone", sub.Phone),
		zap.String("subject", sub.ResolvedSubject()),
		zap.Int("message_length", len(sub.Message)),
	}
	if sub.AsCompany {
		fields = append(fields,
			zap.String("company_name", sub.Company.Name),
			zap.String("company_website", sub.Company.Website),
			zap.String("company_size", sub.Company.Size),
		)
	}
	s.logger.Info("contact form submitted", fields...)
	return r, nil
}

func (s *LogSink) Ask(ctx context.Context, q Question) (Receipt, error) {
	r := Receipt{ID: s.idGen(), ReceivedAt: s.now().UTC()}
	s.logger.Info("faq question submitted",
		zap.String("submission_id", r.ID),
		zap.String("locale", string(q.Locale)),
		zap.String("email", q.Email),
		zap.String("category", q.Category),
		zap.Bool("consent", q.Consent),
		zap.Int("question_length", len(q.Question)),
	)
	return r, nil
}

// MemorySink keeps messages in memory. Used by tests.
type MemorySink struct {
	mu          sync.Mutex
	Submissions []Submission
	Questions   []Question
}

func (m *MemorySink) Submit(_ context.Context, s Submission) (Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Submissions = append(m.Submissions, s)
	return Receipt{ID: newID(), ReceivedAt: time.Now().UTC()}, nil
}

func (m *MemorySink) Ask(_ context.Context, q Question) (Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Questions = append(m.Questions, q)
	return Receipt{ID: newID(), ReceivedAt: time.Now().UTC()}, nil
}
