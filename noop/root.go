// Package noop is an in-memory host for the reconciler. It renders into a
// plain tree of instances, records every host mutation and can print the
// tree back as elements, JSON or markup. Tests and the demo CLI drive the
// reconciler through it.
package noop

import (
	"encoding/json"
	"os"
	"slices"

	"github.com/delaneyj/fiberparty/element"
	"github.com/delaneyj/fiberparty/reconciler"
	"github.com/delaneyj/fiberparty/scheduler"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type options struct {
	sched   *scheduler.Scheduler
	logger  *zerolog.Logger
	onError reconciler.OnErrorFunc
}

type Option func(*options)

// WithScheduler shares a scheduler between roots. By default every root
// gets its own.
func WithScheduler(s *scheduler.Scheduler) Option {
	return func(o *options) { o.sched = s }
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = &l }
}

func WithOnRenderError(fn reconciler.OnErrorFunc) Option {
	return func(o *options) { o.onError = fn }
}

// Root is a mounted noop tree.
type Root struct {
	ID string

	log       zerolog.Logger
	sched     *scheduler.Scheduler
	host      *Host
	rec       *reconciler.Reconciler
	container *Container
	fiberRoot *reconciler.FiberRoot
}

func CreateRoot(opts ...Option) *Root {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	id := uuid.Must(uuid.NewV7()).String()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel)
	if o.logger != nil {
		logger = *o.logger
	}
	logger = logger.With().Str("root", id).Logger()

	sched := o.sched
	if sched == nil {
		sched = scheduler.New(scheduler.WithLogger(logger))
	}
	host := NewHost(sched)
	recOpts := []reconciler.Option{reconciler.WithLogger(logger)}
	if o.onError != nil {
		recOpts = append(recOpts, reconciler.WithOnRenderError(o.onError))
	}
	rec := reconciler.New(host, sched, recOpts...)

	container := &Container{RootID: id}
	return &Root{
		ID:        id,
		log:       logger,
		sched:     sched,
		host:      host,
		rec:       rec,
		container: container,
		fiberRoot: rec.CreateContainer(container),
	}
}

// Render schedules el as the root's content. The pass runs when the
// scheduler's microtasks are flushed, e.g. inside Act.
func (r *Root) Render(el any) reconciler.Lane {
	r.log.Debug().Str("element", describe(el)).Msg("render")
	return r.rec.UpdateContainer(el, r.fiberRoot)
}

// Act runs fn and then everything it scheduled.
func (r *Root) Act(fn func()) { r.sched.Act(fn) }

// Flush runs all pending work.
func (r *Root) Flush() { r.sched.FlushAll() }

func (r *Root) Scheduler() *scheduler.Scheduler { return r.sched }
func (r *Root) Reconciler() *reconciler.Reconciler { return r.rec }
func (r *Root) FiberRoot() *reconciler.FiberRoot { return r.fiberRoot }
func (r *Root) Container() *Container { return r.container }
func (r *Root) Host() *Host { return r.host }
func (r *Root) Ops() []Op { return r.host.Ops() }
func (r *Root) ClearOps() { r.host.ClearOps() }
func (r *Root) Children() []Node { return slices.Clone(r.container.Children) }

// JSON encodes ChildrenAsJSX.
func (r *Root) JSON() ([]byte, error) {
	return json.Marshal(r.ChildrenAsJSX())
}

func describe(el any) string {
	if e, ok := el.(*element.Element); ok {
		return e.String()
	}
	return element.TypeName(el)
}
