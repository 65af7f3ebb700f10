// Package observable provides a base for objects whose property changes are
// observed by a binding layer.
//
// # Overview
//
// An observable object embeds Object (caller-owned fields) or Store (values kept
// in a name-keyed backing store). Setting a property stores the value and, when it
// actually changed, raises a property-changed signal for it. The signal then cascades
// to every property declared as depending on it, and the enablement of any command
// declared against it is requeried.
//
// Relationships are declared once per type with a Builder:
//
//	var personMetadata = observable.Declare(func(b *observable.Builder) {
//		b.Property("DisplayName").CascadesFrom("FirstName", "LastName")
//		b.Command("SaveCommand").RequeryOn("IsBusy")
//	})
//
// and bound to an instance at construction:
//
//	func NewPerson() *Person {
//		p := &Person{}
//		p.Init(p, personMetadata)
//		p.save = observable.NewCommand(p.persist, func() bool { return !p.busy })
//		p.AttachCommand("SaveCommand", p.save)
//		return p
//	}
//
//	func (p *Person) SetFirstName(v string) {
//		observable.SetField(&p.Object, &p.firstName, v, "FirstName")
//	}
//
// # Propagation
//
// Notify(p) emits p, then walks depth-first through the properties that cascade
// from p and the properties p forces, emitting each one the first time it is
// reached. The visited set lives for a single top-level pass, so cyclic
// declarations emit every member once and terminate. Command requery runs after
// the whole closure has been emitted.
//
// Declared names are not validated. A name that matches no property produces a
// branch nobody listens to; Metadata.Lint reports such names on demand.
//
// # Concurrency
//
// Objects are owned by a single logical goroutine. Nothing in this package locks;
// concurrent Set calls on one object graph are a data race. The per-type metadata
// returned by For is immutable and may be shared freely.
package observable
