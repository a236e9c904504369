// services/receipt_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"strings"

	"salonpos-backend/billing"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// ReceiptService sends a short receipt message after a successful checkout.
// Sending is best effort; a delivery failure never fails the checkout.
type ReceiptService struct {
	client  *twilio.RestClient
	enabled bool
}

func NewReceiptService() *ReceiptService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ReceiptService{
		enabled: accountSid != "" && authToken != "",
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

// SendReceipt messages the client the invoice number and amount paid.
func (s *ReceiptService) SendReceipt(salonName string, invoice *billing.Invoice) {
	if !s.enabled || invoice.Client.Phone == "" {
		return
	}

	message := fmt.Sprintf("Thank you for visiting %s! Invoice %s, total %s. Loyalty points earned: %d.",
		salonName, invoice.Number, invoice.Totals.GrandTotal.StringFixed(2), invoice.LoyaltyEarned)

	// WhatsApp if the phone is in E.164 format, else SMS
	to := invoice.Client.Phone
	params := &twilioApi.CreateMessageParams{}
	if strings.HasPrefix(to, "+") {
		params.SetTo("whatsapp:" + to)
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetTo(to)
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}
	params.SetBody(message)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("Failed to send receipt for %s: %v", invoice.Number, err)
		return
	}
	if resp.Sid != nil {
		log.Printf("Receipt for %s sent, SID: %s", invoice.Number, *resp.Sid)
	}
}
