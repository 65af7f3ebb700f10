package playground

import (
	"github.com/capoala/mvvm/internal/bridge"
	"github.com/capoala/mvvm/pkg/observable"
)

var messageMetadata = observable.Declare(func(b *observable.Builder) {
	b.Property("Message")
})

// MessageModel holds a single message.
type MessageModel struct {
	observable.Store
}

func NewMessageModel(message string, opts ...observable.Option) *MessageModel {
	m := &MessageModel{}
	m.Init(m, messageMetadata, opts...)
	m.SetMessage(message)
	return m
}

func (m *MessageModel) Title() string { return "Message" }

func (m *MessageModel) Message() string { return observable.Get[string](&m.Store, "Message") }

func (m *MessageModel) SetMessage(v string) { observable.Set(&m.Store, "Message", v) }

func (m *MessageModel) Properties() []string { return m.Metadata().Properties() }
func (m *MessageModel) Commands() []string   { return nil }

func (m *MessageModel) PropertyValue(name string) (any, bool) {
	if name == "Message" {
		return m.Message(), true
	}
	return nil, false
}

func (m *MessageModel) SetProperty(name string, value any) error {
	if name != "Message" {
		return unknownProperty(name)
	}
	s, err := bridge.StringValue(name, value)
	if err != nil {
		return err
	}
	m.SetMessage(s)
	return nil
}

func (m *MessageModel) Command(string) (observable.Executor, bool) { return nil, false }
