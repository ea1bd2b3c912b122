package Whatsapp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"Fixit/Constants"
)

// The bridge is a go-whatsapp gateway exposing a REST sending endpoint.
// A hung gateway must not hang a customer submission, hence the hard
// client timeout.
var client = &http.Client{Timeout: 10 * time.Second}

// SendMessage delivers one text message to a phone number through the
// configured WhatsApp gateway.
func SendMessage(phone, message string) error {
	payload, err := json.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
	})
	if err != nil {
		return err
	}

	url := Constants.WhatsappGoService + "/send/message"
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	req.Header.Add("Content-Type", "application/json")

	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	if res.StatusCode >= 400 {
		return fmt.Errorf("whatsapp gateway returned %d: %s", res.StatusCode, string(body))
	}
	return nil
}
