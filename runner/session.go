package runner

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/notargets/ktune/logger"
	"github.com/notargets/ktune/runner/builder"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// SessionConfig holds configuration for creating a Session
type SessionConfig struct {
	Seed   uint64 // Seed of the input data generator
	Logger logger.Logger
}

// Session owns everything that lives for one tuning session: the backend
// handle, the random source and the input buffers. It is not safe for
// concurrent use.
type Session struct {
	ID      uuid.UUID
	Backend Backend

	log     logger.Logger
	rng     *rand.Rand
	shapes  []Shape
	hosts   []*mat.Dense
	buffers map[builder.DataType][]Buffer
}

// NewSession creates a session around an opened backend
func NewSession(backend Backend, cfg SessionConfig) *Session {
	log := cfg.Logger
	if log == nil {
		log = logger.Discard()
	}
	id := uuid.New()
	return &Session{
		ID:      id,
		Backend: backend,
		log:     log.With("session", id.String()),
		rng:     rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		buffers: make(map[builder.DataType][]Buffer),
	}
}

// Logger returns the session logger
func (s *Session) Logger() logger.Logger {
	return s.log
}

// Populate generates pseudo-random host data for every shape and allocates
// one device buffer set per element type. Previously populated buffers are
// released first.
func (s *Session) Populate(shapes []Shape, types []builder.DataType) error {
	s.releaseBuffers()

	uniform := distuv.Uniform{Min: 0, Max: 1, Src: s.rng}
	s.shapes = append([]Shape(nil), shapes...)
	s.hosts = make([]*mat.Dense, len(shapes))
	for i, sh := range shapes {
		data := make([]float64, sh.Len())
		for j := range data {
			data[j] = uniform.Rand()
		}
		s.hosts[i] = mat.NewDense(sh.Rows, sh.Cols, data)
	}

	for _, dt := range types {
		set := make([]Buffer, 0, len(shapes))
		for i, sh := range shapes {
			buf, err := s.Backend.Alloc(sh, dt, s.hosts[i].RawMatrix().Data)
			if err != nil {
				for _, b := range set {
					b.Free()
				}
				s.releaseBuffers()
				return fmt.Errorf("%w: allocate buffer %d (%s %dx%d %s): %w",
					ErrBackend, i, sh.Name, sh.Rows, sh.Cols, dt, err)
			}
			set = append(set, buf)
		}
		s.buffers[dt] = set
		s.log.Debug("allocated input buffers", "type", dt.String(), "count", len(set))
	}
	return nil
}

// Buffers returns the buffer set of an element type
func (s *Session) Buffers(dt builder.DataType) ([]Buffer, error) {
	set, ok := s.buffers[dt]
	if !ok {
		return nil, fmt.Errorf("no %s buffers allocated - call Populate first", dt)
	}
	return set, nil
}

// host returns the host copy of the i-th input
func (s *Session) host(i int) *mat.Dense {
	if i < 0 || i >= len(s.hosts) {
		return nil
	}
	return s.hosts[i]
}

// Free releases the buffers and closes the backend
func (s *Session) Free() error {
	s.releaseBuffers()
	if s.Backend == nil {
		return nil
	}
	return s.Backend.Close()
}

func (s *Session) releaseBuffers() {
	for dt, set := range s.buffers {
		for _, b := range set {
			b.Free()
		}
		delete(s.buffers, dt)
	}
}
