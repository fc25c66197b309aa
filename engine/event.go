package engine

import (
	"strconv"

	"github.com/wippyai/mpvbridge/variant"
)

// EventID identifies an engine event. Values follow the engine's numbering.
type EventID int

const (
	EventNone             EventID = 0
	EventShutdown         EventID = 1
	EventLogMessage       EventID = 2
	EventGetPropertyReply EventID = 3
	EventSetPropertyReply EventID = 4
	EventCommandReply     EventID = 5
	EventStartFile        EventID = 6
	EventEndFile          EventID = 7
	EventFileLoaded       EventID = 8
	EventIdle             EventID = 11
	EventTick             EventID = 14
	EventClientMessage    EventID = 16
	EventVideoReconfig    EventID = 17
	EventAudioReconfig    EventID = 18
	EventSeek             EventID = 20
	EventPlaybackRestart  EventID = 21
	EventPropertyChange   EventID = 22
	EventQueueOverflow    EventID = 24
)

var eventNames = map[EventID]string{
	EventNone:             "none",
	EventShutdown:         "shutdown",
	EventLogMessage:       "log-message",
	EventGetPropertyReply: "get-property-reply",
	EventSetPropertyReply: "set-property-reply",
	EventCommandReply:     "command-reply",
	EventStartFile:        "start-file",
	EventEndFile:          "end-file",
	EventFileLoaded:       "file-loaded",
	EventIdle:             "idle",
	EventTick:             "tick",
	EventClientMessage:    "client-message",
	EventVideoReconfig:    "video-reconfig",
	EventAudioReconfig:    "audio-reconfig",
	EventSeek:             "seek",
	EventPlaybackRestart:  "playback-restart",
	EventPropertyChange:   "property-change",
	EventQueueOverflow:    "queue-overflow",
}

func (id EventID) String() string {
	if name, ok := eventNames[id]; ok {
		return name
	}
	return "event(" + strconv.Itoa(int(id)) + ")"
}

// EventByName resolves an event name such as "file-loaded".
func EventByName(name string) (EventID, bool) {
	for id, n := range eventNames {
		if n == name {
			return id, true
		}
	}
	return 0, false
}

// Lifecycle reports whether id is a payload-free notification that can be
// forwarded to a named handler.
func (id EventID) Lifecycle() bool {
	switch id {
	case EventStartFile, EventFileLoaded, EventIdle, EventTick,
		EventVideoReconfig, EventAudioReconfig, EventSeek,
		EventPlaybackRestart, EventQueueOverflow, EventShutdown:
		return true
	}
	return false
}

// Event is one entry from the engine's queue. Data is *LogMessage,
// *EndFile or *Property depending on ID.
type Event struct {
	Data          any
	Error         error
	ReplyUserdata uint64
	ID            EventID
}

// LogMessage is the payload of EventLogMessage.
type LogMessage struct {
	Prefix string
	Level  string
	Text   string
}

// EndFileReason says why playback of a file ended.
type EndFileReason int

const (
	EndFileEOF      EndFileReason = 0
	EndFileStop     EndFileReason = 2
	EndFileQuit     EndFileReason = 3
	EndFileError    EndFileReason = 4
	EndFileRedirect EndFileReason = 5
)

func (r EndFileReason) String() string {
	switch r {
	case EndFileEOF:
		return "eof"
	case EndFileStop:
		return "stop"
	case EndFileQuit:
		return "quit"
	case EndFileError:
		return "error"
	case EndFileRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// EndFile is the payload of EventEndFile.
type EndFile struct {
	Reason EndFileReason
	Error  Error
}

// Property is the payload of EventPropertyChange. Data is engine-owned and
// nil or None when the property has no value.
type Property struct {
	Data *variant.Node
	Name string
}
