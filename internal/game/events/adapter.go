package events

// PublisherFunc adapts a plain function to the Publisher interface
type PublisherFunc func(Event)

// Publish implements Publisher
func (f PublisherFunc) Publish(event Event) {
	if f != nil {
		f(event)
	}
}

// Discard is a Publisher that drops every event
var Discard Publisher = PublisherFunc(nil)
