package ports

type EventBus interface {
	Publish(topic string, payload []byte)
	// Subscribe sans topic = tous les événements.
	Subscribe(topics ...string) (ch <-chan Event, cancel func())
}

type Event struct {
	Topic   string
	Payload []byte
}
