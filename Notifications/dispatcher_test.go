package Notifications

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"Fixit/Constants"
	"Fixit/Models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	name string
	fail bool
	sent []string
}

func (c *fakeChannel) Name() string { return c.name }

func (c *fakeChannel) Send(message string) error {
	if c.fail {
		return errors.New("provider down")
	}
	c.sent = append(c.sent, message)
	return nil
}

func sampleRepair() Models.RepairRequest {
	photo := "/uploads/1-cracked.jpg"
	return Models.RepairRequest{
		ID:          1700000000001,
		Name:        "Alice",
		Contact:     "555-1",
		Device:      "Phone",
		Issue:       "Cracked screen",
		Method:      "drop-off",
		Photo:       &photo,
		SubmittedAt: "2026-08-01T10:00:00Z",
	}
}

func TestNotifyWithZeroChannelsIsNoOp(t *testing.T) {
	dispatcher := NewDispatcher()
	assert.NotPanics(t, func() {
		dispatcher.Notify(sampleRepair())
	})
}

func TestNotifyReachesEveryChannel(t *testing.T) {
	first := &fakeChannel{name: "first"}
	second := &fakeChannel{name: "second"}
	dispatcher := NewDispatcher(first, second)

	dispatcher.Notify(sampleRepair())

	require.Len(t, first.sent, 1)
	require.Len(t, second.sent, 1)
	assert.Equal(t, first.sent[0], second.sent[0])
}

func TestFailingChannelDoesNotStopOthers(t *testing.T) {
	broken := &fakeChannel{name: "broken", fail: true}
	working := &fakeChannel{name: "working"}
	dispatcher := NewDispatcher(broken, working)

	assert.NotPanics(t, func() {
		dispatcher.Notify(sampleRepair())
	})
	assert.Len(t, working.sent, 1)
}

func TestComposeNewRequestMessage(t *testing.T) {
	message := ComposeNewRequestMessage(sampleRepair())

	assert.Contains(t, message, "New Repair Request")
	assert.Contains(t, message, "Name: Alice")
	assert.Contains(t, message, "Device: Phone")
	assert.Contains(t, message, "Issue: Cracked screen")
	assert.Contains(t, message, "Contact: 555-1")
	assert.Contains(t, message, "Method: drop-off")
	assert.Contains(t, message, "Photo attached")
}

func TestComposeNewRequestMessageOmitsAbsentParts(t *testing.T) {
	repair := sampleRepair()
	repair.Photo = nil
	repair.Method = ""

	message := ComposeNewRequestMessage(repair)
	assert.NotContains(t, message, "Photo attached")
	assert.NotContains(t, message, "Method:")
}

func TestWhatsAppChannelPostsToGateway(t *testing.T) {
	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/send/message", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	previous := Constants.WhatsappGoService
	Constants.WhatsappGoService = server.URL
	defer func() { Constants.WhatsappGoService = previous }()

	channel := WhatsAppChannel{Recipient: "+447700900000"}
	require.NoError(t, channel.Send("hello"))

	assert.Equal(t, "+447700900000", got["phone"])
	assert.Equal(t, "hello", got["message"])
}

func TestWhatsAppChannelReportsGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not logged in", http.StatusBadRequest)
	}))
	defer server.Close()

	previous := Constants.WhatsappGoService
	Constants.WhatsappGoService = server.URL
	defer func() { Constants.WhatsappGoService = previous }()

	channel := WhatsAppChannel{Recipient: "+447700900000"}
	assert.Error(t, channel.Send("hello"))
}
