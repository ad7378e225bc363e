package creator

import (
	"maps"
	"slices"
	"sync"

	"github.com/ygrebnov/errorc"
	"go.uber.org/zap"

	"github.com/gaoruize321/creator/errors"
)

// Namespace holds synthesized types by name.
type Namespace struct {
	mu           sync.RWMutex
	types        map[string]*Type
	replacements *ReplacementRegistry
	logger       *zap.Logger
}

// Option configures a Namespace at construction time.
type Option func(*Namespace)

// WithLogger sets the logger used for registration events.
func WithLogger(l *zap.Logger) Option {
	return func(ns *Namespace) {
		if l != nil {
			ns.logger = l
		}
	}
}

// WithReplacements makes the namespace consult r instead of Replacements.
func WithReplacements(r *ReplacementRegistry) Option {
	return func(ns *Namespace) {
		if r != nil {
			ns.replacements = r
		}
	}
}

func NewNamespace(opts ...Option) *Namespace {
	ns := &Namespace{
		types:        make(map[string]*Type),
		replacements: Replacements,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(ns)
	}
	return ns
}

// Create synthesizes a type named name extending base with attrs and
// registers it in ns. If base has a registered replacement, the replacement
// is extended instead. A previous type of the same name is replaced.
//
// Create panics on an empty name, a nil base or a nil factory.
func (ns *Namespace) Create(name string, base Base, attrs Attrs) {
	if name == "" {
		panic("creator: Create: empty type name")
	}
	if base == nil {
		panic("creator: Create: nil base for type " + name)
	}

	log := ns.log()
	if repl := ns.replacements.Lookup(base); !sameBase(repl, base) {
		log.Debug("base replaced",
			zap.String("type", name),
			zap.String("base", base.BaseName()),
			zap.String("replacement", repl.BaseName()),
		)
		base = repl
	}
	t := newType(name, base, attrs)

	ns.mu.Lock()
	_, existed := ns.types[name]
	ns.types[name] = t
	ns.mu.Unlock()

	log.Debug("type registered",
		zap.String("type", name),
		zap.String("base", base.BaseName()),
		zap.Strings("static", t.StaticNames()),
		zap.Strings("factories", t.FactoryNames()),
		zap.Stringer("views", t.views),
		zap.Bool("replaced", existed),
	)
}

// CreateFrom partitions kv with Partition and calls Create.
func (ns *Namespace) CreateFrom(name string, base Base, kv map[string]any) error {
	attrs, err := Partition(kv)
	if err != nil {
		return errorc.With(err, errorc.String(errors.ErrorFieldTypeName, name))
	}
	ns.Create(name, base, attrs)
	return nil
}

func (ns *Namespace) log() *zap.Logger {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	return ns.logger
}

func (ns *Namespace) Lookup(name string) (*Type, bool) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	t, ok := ns.types[name]
	return t, ok
}

// Get is Lookup returning ErrTypeNotFound for unknown names.
func (ns *Namespace) Get(name string) (*Type, error) {
	t, ok := ns.Lookup(name)
	if !ok {
		return nil, errorc.With(errors.ErrTypeNotFound, errorc.String(errors.ErrorFieldTypeName, name))
	}
	return t, nil
}

// New instantiates the type registered under name.
func (ns *Namespace) New(name string, args ...any) (*Instance, error) {
	t, err := ns.Get(name)
	if err != nil {
		return nil, err
	}
	return t.New(args...)
}

// Names returns the sorted names of all registered types.
func (ns *Namespace) Names() []string {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	return slices.Sorted(maps.Keys(ns.types))
}

// IsA reports whether t derives from base, honoring ns's replacements.
func (ns *Namespace) IsA(t *Type, base Base) bool {
	return t.isA(base, ns.replacements)
}

// Default is the namespace behind the package-level functions.
var Default = NewNamespace()

// SetLogger replaces the logger of the Default namespace.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	Default.mu.Lock()
	Default.logger = l
	Default.mu.Unlock()
}

// Create registers a new type in the Default namespace. See Namespace.Create.
func Create(name string, base Base, attrs Attrs) { Default.Create(name, base, attrs) }

// CreateFrom registers a new type in the Default namespace from an
// unpartitioned attribute map.
func CreateFrom(name string, base Base, kv map[string]any) error {
	return Default.CreateFrom(name, base, kv)
}

func Lookup(name string) (*Type, bool) { return Default.Lookup(name) }

func Get(name string) (*Type, error) { return Default.Get(name) }

func New(name string, args ...any) (*Instance, error) { return Default.New(name, args...) }

func Names() []string { return Default.Names() }
