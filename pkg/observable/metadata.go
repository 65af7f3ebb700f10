package observable

import (
	"reflect"
	"sync"
)

// Builder collects property and command declarations for one type.
type Builder struct {
	decls []*declaration
	index map[string]*declaration
}

type declaration struct {
	name         string
	command      bool
	cascadesFrom []string
	notifies     []string
	requeryOn    []string
}

// PropertyDecl declares relationships for a regular property
type PropertyDecl struct {
	d *declaration
}

// CommandDecl declares requery triggers for a command-bearing property
type CommandDecl struct {
	d *declaration
}

func newBuilder() *Builder {
	return &Builder{index: make(map[string]*declaration)}
}

func (b *Builder) declare(name string) *declaration {
	if d, ok := b.index[name]; ok {
		return d
	}
	d := &declaration{name: name}
	b.index[name] = d
	b.decls = append(b.decls, d)
	return d
}

// Property starts (or continues) the declaration of a property.
func (b *Builder) Property(name string) *PropertyDecl {
	return &PropertyDecl{d: b.declare(name)}
}

// Command starts (or continues) the declaration of a command-bearing property.
// Once a name is declared as a command, only its requery triggers are used.
func (b *Builder) Command(name string) *CommandDecl {
	d := b.declare(name)
	d.command = true
	return &CommandDecl{d: d}
}

// CascadesFrom marks the property to be raised whenever one of names is raised.
func (p *PropertyDecl) CascadesFrom(names ...string) *PropertyDecl {
	p.d.cascadesFrom = appendDistinct(p.d.cascadesFrom, names...)
	return p
}

// Notifies marks names to be raised whenever the property is raised.
func (p *PropertyDecl) Notifies(names ...string) *PropertyDecl {
	p.d.notifies = appendDistinct(p.d.notifies, names...)
	return p
}

// RequeryOn marks the command to be requeried whenever one of names is raised.
func (c *CommandDecl) RequeryOn(names ...string) *CommandDecl {
	c.d.requeryOn = appendDistinct(c.d.requeryOn, names...)
	return c
}

// Metadata is the immutable dependency table of one type. All slices returned
// by its accessors are shared and must not be modified.
type Metadata struct {
	properties []string
	commands   []string

	cascadesFrom map[string][]string // dependent -> triggers, as declared
	forced       map[string][]string // source -> targets, as declared
	requeryOn    map[string][]string // command -> triggers, as declared

	// Reverse indexes built once, in declaration order
	dependents  map[string][]string // trigger -> dependents
	requeriedBy map[string][]string // trigger -> commands
}

// Declare builds the dependency table described by fn.
func Declare(fn func(*Builder)) *Metadata {
	b := newBuilder()
	if fn != nil {
		fn(b)
	}
	return b.build()
}

func (b *Builder) build() *Metadata {
	m := &Metadata{
		cascadesFrom: make(map[string][]string),
		forced:       make(map[string][]string),
		requeryOn:    make(map[string][]string),
		dependents:   make(map[string][]string),
		requeriedBy:  make(map[string][]string),
	}

	for _, d := range b.decls {
		if d.command {
			m.commands = append(m.commands, d.name)
			if len(d.requeryOn) == 0 {
				continue
			}
			m.requeryOn[d.name] = d.requeryOn
			for _, trigger := range d.requeryOn {
				m.requeriedBy[trigger] = append(m.requeriedBy[trigger], d.name)
			}
			continue
		}

		m.properties = append(m.properties, d.name)
		if len(d.cascadesFrom) > 0 {
			m.cascadesFrom[d.name] = d.cascadesFrom
			for _, trigger := range d.cascadesFrom {
				m.dependents[trigger] = append(m.dependents[trigger], d.name)
			}
		}
		if len(d.notifies) > 0 {
			m.forced[d.name] = d.notifies
		}
	}

	return m
}

// Properties returns the declared non-command property names in declaration order.
func (m *Metadata) Properties() []string { return m.properties }

// Commands returns the declared command property names in declaration order.
func (m *Metadata) Commands() []string { return m.commands }

// Dependents returns the properties declared to cascade from name.
func (m *Metadata) Dependents(name string) []string { return m.dependents[name] }

// Forced returns the properties name forces to be raised.
func (m *Metadata) Forced(name string) []string { return m.forced[name] }

// CascadeSources returns the triggers declared on the dependent property name.
func (m *Metadata) CascadeSources(name string) []string { return m.cascadesFrom[name] }

// RequeriedBy returns the commands declared to requery when name is raised.
func (m *Metadata) RequeriedBy(name string) []string { return m.requeriedBy[name] }

// RequeryTriggers returns the triggers declared on the command name.
func (m *Metadata) RequeryTriggers(command string) []string { return m.requeryOn[command] }

// Declarer is implemented by types that describe their own dependency table.
type Declarer interface {
	DeclareProperties(b *Builder)
}

var tables sync.Map // reflect.Type -> *Metadata

// For returns the dependency table of v's concrete type, building it on first use.
func For(v Declarer) *Metadata {
	t := reflect.TypeOf(v)
	if m, ok := tables.Load(t); ok {
		return m.(*Metadata)
	}
	m, _ := tables.LoadOrStore(t, Declare(v.DeclareProperties))
	return m.(*Metadata)
}

func appendDistinct(dst []string, names ...string) []string {
	for _, n := range names {
		if !contains(dst, n) {
			dst = append(dst, n)
		}
	}
	return dst
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
