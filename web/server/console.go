package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ConsoleMessage is one log line produced while serving a render
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info" or "warning"
}

// WebLogger implements core.Logger by sending messages to a console channel
type WebLogger struct {
	requestID   string
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a logger for one request
func NewWebLogger(requestID string, consoleChan chan<- ConsoleMessage) core.Logger {
	return &WebLogger{
		requestID:   requestID,
		consoleChan: consoleChan,
	}
}

// Printf implements core.Logger
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	// Also write to stdout for server logs
	fmt.Printf("[web %s] %s", wl.requestID, message)

	if wl.consoleChan == nil {
		return
	}

	level := "info"
	if strings.HasPrefix(message, "Warning") {
		level = "warning"
	}

	// Never block rendering on a slow consumer
	select {
	case wl.consoleChan <- ConsoleMessage{Message: message, Timestamp: time.Now(), Level: level}:
	default:
	}
}

// drainConsole collects everything buffered so far
func drainConsole(consoleChan chan ConsoleMessage) []ConsoleMessage {
	var messages []ConsoleMessage
	for {
		select {
		case msg := <-consoleChan:
			messages = append(messages, msg)
		default:
			return messages
		}
	}
}
