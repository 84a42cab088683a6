package app

import (
	"encoding/json"

	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/ports"
)

const (
	TopicStoreUpdated  = "store.updated"
	TopicViewOpened    = "view.opened"
	TopicViewClosed    = "view.closed"
	TopicFeedUpdated   = "feed.updated"
	TopicVideoSelected = "video.selected"
	TopicVideoWatched  = "video.watched"
)

func publish(bus ports.EventBus, topic string, v any) {
	if bus == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	bus.Publish(topic, b)
}
