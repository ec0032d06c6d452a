package registry

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/iliyamo/learning-hub/internal/idalloc"
	"github.com/iliyamo/learning-hub/internal/logger"
	"github.com/iliyamo/learning-hub/internal/metrics"
	"github.com/iliyamo/learning-hub/internal/model"
	"github.com/iliyamo/learning-hub/internal/queue"
	"github.com/iliyamo/learning-hub/internal/store"
)

// EventSink receives an event after every successful mutation.
type EventSink interface {
	Publish(ctx context.Context, ev queue.Event) error
}

// Service owns the entity stores and the ID allocator.  Build one at start-up
// with New and share the pointer; operations are serialized internally, so
// the service is safe to call from concurrent request handlers.
type Service struct {
	mu sync.Mutex

	users      *store.MemoryStore[model.Identity, model.User]
	courses    *store.MemoryStore[uint64, model.Course]
	videos     *store.MemoryStore[uint64, model.Video]
	hackathons *store.MemoryStore[uint64, model.Hackathon]
	ids        *idalloc.Allocator

	events             EventSink
	log                logger.Logger
	openCourseCreation bool
	now                func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithEventSink sets where mutation events are sent.
func WithEventSink(sink EventSink) Option { return func(s *Service) { s.events = sink } }

// WithLogger sets the service logger.
func WithLogger(l logger.Logger) Option { return func(s *Service) { s.log = l } }

// WithOpenCourseCreation lets any caller create courses, not only
// instructors and admins.
func WithOpenCourseCreation() Option { return func(s *Service) { s.openCourseCreation = true } }

// WithClock overrides the time source used to stamp submissions.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// New returns an empty registry.
func New(opts ...Option) *Service {
	s := &Service{
		users:      store.NewMemoryStore[model.Identity, model.User](),
		courses:    store.NewMemoryStore[uint64, model.Course](),
		videos:     store.NewMemoryStore[uint64, model.Video](),
		hackathons: store.NewMemoryStore[uint64, model.Hackathon](),
		ids:        idalloc.New(),
		log:        logger.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// finish records the outcome of a mutating operation and, on success,
// publishes ev.  It must be called without s.mu held.  A failed publish is
// logged; the mutation has already been applied and stays applied.
func (s *Service) finish(ctx context.Context, op string, err error, ev queue.Event) {
	metrics.Observe(op, outcome(err))
	if err != nil {
		s.log.Debug("registry operation rejected", "op", op, "actor", ev.Actor, "error", err)
		return
	}
	s.log.Info("registry operation applied", "op", op, "actor", ev.Actor, "entity", ev.Entity, "entity_id", ev.EntityID)
	metrics.Entities.WithLabelValues("user").Set(float64(s.users.Len()))
	metrics.Entities.WithLabelValues(string(model.KindCourse)).Set(float64(s.courses.Len()))
	metrics.Entities.WithLabelValues(string(model.KindVideo)).Set(float64(s.videos.Len()))
	metrics.Entities.WithLabelValues(string(model.KindHackathon)).Set(float64(s.hackathons.Len()))
	if s.events == nil {
		return
	}
	if perr := s.events.Publish(ctx, ev); perr != nil {
		metrics.PublishFailures.Inc()
		s.log.Warn("event publish failed", "event_id", ev.ID, "op", op, "error", perr)
	}
}

// isAdmin reports whether id belongs to a registered admin.
func (s *Service) isAdmin(id model.Identity) bool {
	u, ok := s.users.Get(id)
	if !ok {
		return false
	}
	switch u.Role {
	case model.RoleAdmin:
		return true
	case model.RoleInstructor, model.RoleStudent:
		return false
	default:
		return false
	}
}

// canModify reports whether caller may change an entity owned by owner.
func (s *Service) canModify(caller, owner model.Identity) bool {
	return caller == owner || s.isAdmin(caller)
}

func idString(id uint64) string { return strconv.FormatUint(id, 10) }
