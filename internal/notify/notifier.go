package notify

import "log"

// LogNotifier is a LocalNotifier that writes to the process log. It backs the
// single-user polling mode used in development and kiosk-style deployments
// where the server and the display are the same machine.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (LogNotifier) Enabled() bool { return true }

func (LogNotifier) Notify(title, body string, data map[string]string) {
	log.Printf("[LocalNotify] %s: %s %v", title, body, data)
}
