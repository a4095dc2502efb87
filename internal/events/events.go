// Package events provides an event system for simulator notifications.
package events

import "time"

// EventType represents the type of event
type EventType string

const (
	// EventRequestPushed is emitted after the generator inserts a request
	EventRequestPushed EventType = "request_pushed"
	// EventRequestPopped is emitted after a device removes a request
	EventRequestPopped EventType = "request_popped"
	// EventGeneratorStopped is emitted when the generator loop terminates
	EventGeneratorStopped EventType = "generator_stopped"
	// EventDeviceStopped is emitted when a device loop terminates
	EventDeviceStopped EventType = "device_stopped"
	// EventShutdownRequested is emitted when shutdown is requested
	EventShutdownRequested EventType = "shutdown_requested"
)

// Event represents a single observable simulator occurrence
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor,omitempty"`
	Data      EventData `json:"data,omitempty"`
}

// EventData contains event-specific data
type EventData struct {
	GroupID     int    `json:"group_id,omitempty"`
	DeviceID    int    `json:"device_id,omitempty"`
	RequestType int    `json:"request_type,omitempty"`
	QueueSize   int    `json:"queue_size,omitempty"`
	SleepMS     int64  `json:"sleep_ms,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// NewRequestPushedEvent creates an event for a completed push
func NewRequestPushedEvent(groupID, requestType, queueSize int) Event {
	return Event{
		Type:      EventRequestPushed,
		Timestamp: time.Now(),
		Actor:     "generator",
		Data: EventData{
			GroupID:     groupID,
			RequestType: requestType,
			QueueSize:   queueSize,
		},
	}
}

// NewRequestPoppedEvent creates an event for a completed pop
func NewRequestPoppedEvent(actor string, deviceID, groupID, requestType int, sleep time.Duration) Event {
	return Event{
		Type:      EventRequestPopped,
		Timestamp: time.Now(),
		Actor:     actor,
		Data: EventData{
			GroupID:     groupID,
			DeviceID:    deviceID,
			RequestType: requestType,
			SleepMS:     sleep.Milliseconds(),
		},
	}
}

// NewGeneratorStoppedEvent creates an event for generator termination
func NewGeneratorStoppedEvent() Event {
	return Event{
		Type:      EventGeneratorStopped,
		Timestamp: time.Now(),
		Actor:     "generator",
	}
}

// NewDeviceStoppedEvent creates an event for device termination
func NewDeviceStoppedEvent(actor string, deviceID, groupID int) Event {
	return Event{
		Type:      EventDeviceStopped,
		Timestamp: time.Now(),
		Actor:     actor,
		Data: EventData{
			DeviceID: deviceID,
			GroupID:  groupID,
		},
	}
}

// NewShutdownRequestedEvent creates an event for a shutdown request
func NewShutdownRequestedEvent(reason string) Event {
	return Event{
		Type:      EventShutdownRequested,
		Timestamp: time.Now(),
		Data: EventData{
			Reason: reason,
		},
	}
}
