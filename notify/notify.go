// backend/notify/notify.go
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/ktnaka/anpi/backend/config"
	"github.com/ktnaka/anpi/backend/database"
	"github.com/ktnaka/anpi/backend/utils"
)

type smsPayload struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

// Enabled reports whether an SMS gateway webhook is configured.
func Enabled() bool {
	return config.AppConfig.SMS.WebhookURL != ""
}

// SendSafeNotification posts a check-in notification to the configured
// SMS gateway webhook and, on success, flips the record's sms_sent flag.
// Failures are logged and swallowed: notification is best effort and must
// never block or roll back the ledger write it accompanies.
func SendSafeNotification(recordID int64, tel, nick string) {
	if !Enabled() || tel == "" {
		return
	}

	message := fmt.Sprintf("Safety check-in recorded for %s.", nick)
	if err := postSMS(utils.NormalizePhoneNumber(tel), message); err != nil {
		log.Printf("WARN Notify: SMS for checkin %d failed: %v", recordID, err)
		return
	}

	if err := database.MarkSmsSent(recordID); err != nil {
		log.Printf("WARN Notify: Could not mark sms_sent for checkin %d: %v", recordID, err)
		return
	}
	log.Printf("Notify: SMS sent for checkin %d.\n", recordID)
}

func postSMS(to, message string) error {
	body, err := json.Marshal(smsPayload{To: to, Message: message})
	if err != nil {
		return fmt.Errorf("failed to marshal sms payload: %w", err)
	}

	client := http.Client{Timeout: config.AppConfig.SMS.Timeout}
	resp, err := client.Post(config.AppConfig.SMS.WebhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to post to sms webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sms webhook returned status %d", resp.StatusCode)
	}
	return nil
}
