package Notifications

import (
	"fmt"
	"log"
	"strings"

	"Fixit/Models"
)

// Channel is one outbound delivery mechanism for operator alerts.
type Channel interface {
	Name() string
	Send(message string) error
}

// Dispatcher fans an alert out to every configured channel. Channels are
// independent and best-effort: one failing never stops the others, and no
// failure ever reaches the workflow that triggered the alert. A dispatcher
// with zero channels is valid and does nothing.
type Dispatcher struct {
	channels []Channel
}

func NewDispatcher(channels ...Channel) *Dispatcher {
	return &Dispatcher{channels: channels}
}

// Notify alerts the operator about a freshly submitted repair request.
func (d *Dispatcher) Notify(repair Models.RepairRequest) {
	d.Broadcast(ComposeNewRequestMessage(repair))
}

// Broadcast sends one already-composed message through every channel,
// logging each outcome.
func (d *Dispatcher) Broadcast(message string) {
	for _, channel := range d.channels {
		if err := channel.Send(message); err != nil {
			log.Printf("%s alert failed: %v", channel.Name(), err)
			continue
		}
		log.Printf("%s alert sent", channel.Name())
	}
}

// ComposeNewRequestMessage builds the human-readable summary of a new
// repair request shared by all channels.
func ComposeNewRequestMessage(repair Models.RepairRequest) string {
	var b strings.Builder
	b.WriteString("📬 New Repair Request\n")
	b.WriteString(fmt.Sprintf("Name: %s\n", repair.Name))
	b.WriteString(fmt.Sprintf("Device: %s\n", repair.Device))
	b.WriteString(fmt.Sprintf("Issue: %s\n", repair.Issue))
	b.WriteString(fmt.Sprintf("Contact: %s\n", repair.Contact))
	if repair.Method != "" {
		b.WriteString(fmt.Sprintf("Method: %s\n", repair.Method))
	}
	if repair.Photo != nil {
		b.WriteString("Photo attached\n")
	}
	return b.String()
}
