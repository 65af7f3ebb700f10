package playground

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/capoala/mvvm/pkg/observable"
)

// Person is an entry in the directory.
type Person struct {
	ID         uuid.UUID `json:"id"`
	FirstName  string    `json:"firstName"`
	MiddleName string    `json:"middleName,omitempty"`
	LastName   string    `json:"lastName"`
}

// NewPerson creates a person with a fresh ID.
func NewPerson(first, middle, last string) Person {
	return Person{
		ID:         uuid.New(),
		FirstName:  first,
		MiddleName: middle,
		LastName:   last,
	}
}

// DisplayName formats the person as "Last, First M".
func (p Person) DisplayName() string {
	return DisplayName(p.FirstName, p.MiddleName, p.LastName)
}

// DisplayName formats a name as "Last, First M", using only the first letter
// of the middle name and trimming surrounding space.
func DisplayName(first, middle, last string) string {
	initial := ""
	if r, size := utf8.DecodeRuneInString(middle); size > 0 {
		initial = string(r)
	}
	return strings.TrimSpace(last + ", " + first + " " + initial)
}

// Directory is the shared list of people.
type Directory struct {
	People *observable.List[Person]
}

// NewDirectory creates a directory holding people.
func NewDirectory(people ...Person) *Directory {
	return &Directory{People: observable.NewList(people...)}
}

// Find returns the person with id.
func (d *Directory) Find(id uuid.UUID) (Person, bool) {
	for _, p := range d.People.Items() {
		if p.ID == id {
			return p, true
		}
	}
	return Person{}, false
}
