package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ironsheep/image-resize-mcp/internal/logger"
	"github.com/ironsheep/image-resize-mcp/internal/surface"
)

// ErrNotInitialized is returned by Runtime.ResizeInside before Init has
// completed successfully.
var ErrNotInitialized = errors.New("resize engine not initialized")

// State is the lifecycle state of a Runtime.
type State int

const (
	Uninitialized State = iota
	Initializing
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// LoadFunc produces the engine a Runtime delegates to.
type LoadFunc func(ctx context.Context) (ResizeEngine, error)

// Status describes a Runtime for diagnostics.
type Status struct {
	State  string `json:"state"`
	Engine string `json:"engine,omitempty"`
	Filter string `json:"filter,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Runtime gates access to an engine behind one-time initialisation.
//
// Init runs the loader once. Concurrent Init calls wait for the first one;
// later calls return its result. A failed load is final for the Runtime.
type Runtime struct {
	load LoadFunc

	mu     sync.Mutex
	state  State
	engine ResizeEngine
	err    error
	done   chan struct{}
}

var _ ResizeEngine = (*Runtime)(nil)

// NewRuntime returns an uninitialised runtime around load.
func NewRuntime(load LoadFunc) *Runtime {
	return &Runtime{load: load, done: make(chan struct{})}
}

// Init loads the engine. It is safe to call more than once and from
// several goroutines; only the first call runs the loader.
func (r *Runtime) Init(ctx context.Context) error {
	r.mu.Lock()
	switch r.state {
	case Ready:
		r.mu.Unlock()
		return nil
	case Failed:
		err := r.err
		r.mu.Unlock()
		return err
	case Initializing:
		done := r.done
		r.mu.Unlock()
		select {
		case <-done:
			r.mu.Lock()
			defer r.mu.Unlock()
			return r.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	r.state = Initializing
	r.mu.Unlock()

	eng, err := r.load(ctx)
	if err == nil && eng == nil {
		err = errors.New("engine loader returned no engine")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.state = Failed
		r.err = err
	} else {
		r.state = Ready
		r.engine = eng
	}
	close(r.done)
	return err
}

// Status reports state, engine identity and any load error.
func (r *Runtime) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := Status{State: r.state.String()}
	if d, ok := r.engine.(interface {
		Name() string
		Filter() string
	}); ok {
		st.Engine = d.Name()
		st.Filter = d.Filter()
	}
	if r.err != nil {
		st.Error = r.err.Error()
	}
	return st
}

// ResizeInside delegates to the loaded engine. Calling it before Init has
// succeeded returns ErrNotInitialized.
func (r *Runtime) ResizeInside(src *surface.Surface, t Target) (*surface.Surface, error) {
	r.mu.Lock()
	eng := r.engine
	ready := r.state == Ready
	r.mu.Unlock()

	if !ready {
		return nil, ErrNotInitialized
	}
	return eng.ResizeInside(src, t)
}

// Loader returns a LoadFunc building the named engine ("imaging" or
// "bild") with the named filter.
func Loader(name, filter string, log logger.Logger) LoadFunc {
	if log == nil {
		log = logger.NewTestLogger()
	}
	return func(ctx context.Context) (ResizeEngine, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var (
			eng ResizeEngine
			err error
		)
		switch name {
		case "imaging", "":
			eng, err = NewImagingEngine(filter, log)
		case "bild":
			eng, err = NewBildEngine(filter, log)
		default:
			return nil, fmt.Errorf("unknown resize engine %q", name)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load %s engine: %w", name, err)
		}
		log.Infof("Resize engine %q ready (filter %s)", name, normalizeFilter(filter))
		return eng, nil
	}
}
