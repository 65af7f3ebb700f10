package observable

import (
	"go.uber.org/zap"
)

// Notify raises name and everything that cascades from it, then requeries the
// commands declared against it. It does not compare values; computed properties
// use it directly.
func (o *Object) Notify(name string) {
	if name == "" {
		return
	}

	o.emit(name)
	if o.meta == nil {
		return
	}

	visited := o.meta.walk(name, o.emit)
	o.requery(name, visited)
}

func (o *Object) emit(name string) {
	if o.logger != nil {
		o.logger.Debug("property changed", zap.String("property", name))
	}
	o.changed.Emit(PropertyChange{Sender: o.sender, Name: name})
}

// requery signals every command owed a requery by this pass, each at most once.
func (o *Object) requery(origin string, visited []string) {
	for _, command := range o.meta.requeryTargets(origin, visited, o.closureRequery) {
		cmd, ok := o.commands[command]
		if !ok || cmd == nil {
			o.log().Debug("requery target not attached", zap.String("command", command))
			continue
		}
		cmd.NotifyCanExecuteDidChange()
	}
}

// walk visits the propagation closure of origin depth-first, calling visit for
// each property the first time it is reached. origin itself is not visited.
// It returns the visited names in order.
func (m *Metadata) walk(origin string, visit func(string)) []string {
	seen := map[string]bool{origin: true}
	var order []string

	var descend func(string)
	descend = func(name string) {
		for _, next := range m.candidates(name) {
			if seen[next] {
				continue
			}
			seen[next] = true
			order = append(order, next)
			if visit != nil {
				visit(next)
			}
			descend(next)
		}
	}
	descend(origin)

	return order
}

// candidates are the properties raised directly by name: its dependents first,
// then the properties it forces.
func (m *Metadata) candidates(name string) []string {
	dependents := m.dependents[name]
	forced := m.forced[name]
	if len(forced) == 0 {
		return dependents
	}
	if len(dependents) == 0 {
		return forced
	}
	out := make([]string, 0, len(dependents)+len(forced))
	out = append(out, dependents...)
	return append(out, forced...)
}

// Closure reports what Notify(name) would emit, in order, and which commands
// it would requery, without emitting anything.
func (m *Metadata) Closure(name string, closureRequery bool) (properties, commands []string) {
	if name == "" {
		return nil, nil
	}
	visited := m.walk(name, nil)
	properties = append([]string{name}, visited...)

	return properties, m.requeryTargets(name, visited, closureRequery)
}

func (m *Metadata) requeryTargets(origin string, visited []string, closure bool) []string {
	if !closure {
		return m.requeriedBy[origin]
	}
	targets := appendDistinct(nil, m.requeriedBy[origin]...)
	for _, name := range visited {
		targets = appendDistinct(targets, m.requeriedBy[name]...)
	}
	return targets
}
