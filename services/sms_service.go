package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"carewatch/models"
	"carewatch/utils"

	"github.com/sirupsen/logrus"
)

const twilioAPIBase = "https://api.twilio.com"

// SMSService delivers alert messages through the Twilio Messages REST API.
// One attempt per call; retry policy, if any, belongs to the caller. Expected
// transport and provider failures come back inside the DeliveryResult, the
// error return is reserved for bad input.
type SMSService struct {
	accountSID  string
	authToken   string
	phoneNumber string
	apiBase     string
	httpClient  *http.Client
}

func NewSMSService(accountSID, authToken, phoneNumber string) *SMSService {
	return &SMSService{
		accountSID:  accountSID,
		authToken:   authToken,
		phoneNumber: phoneNumber,
		apiBase:     twilioAPIBase,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// NewSMSServiceWithBase points the service at an alternate API host. Used by
// tests to run against a local stub.
func NewSMSServiceWithBase(accountSID, authToken, phoneNumber, apiBase string) *SMSService {
	svc := NewSMSService(accountSID, authToken, phoneNumber)
	svc.apiBase = strings.TrimSuffix(apiBase, "/")
	return svc
}

// Send normalizes the destination and dispatches one SMS.
func (ss *SMSService) Send(ctx context.Context, destinationPhone, message string) (models.DeliveryResult, error) {
	if message == "" {
		return models.DeliveryResult{}, utils.NewBadRequestError("message cannot be empty")
	}

	normalized := utils.NormalizePhoneNumber(destinationPhone)
	if normalized == "" {
		return models.DeliveryResult{}, utils.NewBadRequestError("destination phone is empty after normalization")
	}

	if ss.accountSID == "" {
		logrus.Warn("Twilio not configured, SMS not sent")
		return models.DeliveryResult{
			Success:     false,
			ErrorReason: "SMS gateway not configured",
		}, nil
	}

	return ss.dispatch(ctx, normalized, message), nil
}

func (ss *SMSService) dispatch(ctx context.Context, phoneNumber, message string) models.DeliveryResult {
	apiURL := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", ss.apiBase, ss.accountSID)

	data := url.Values{}
	data.Set("From", ss.phoneNumber)
	data.Set("To", phoneNumber)
	data.Set("Body", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(data.Encode()))
	if err != nil {
		return models.DeliveryResult{Success: false, ErrorReason: fmt.Sprintf("failed to create request: %v", err)}
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(ss.accountSID, ss.authToken)

	resp, err := ss.httpClient.Do(req)
	if err != nil {
		logrus.Errorf("SMS request failed: %v", err)
		return models.DeliveryResult{Success: false, ErrorReason: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.DeliveryResult{Success: false, ErrorReason: fmt.Sprintf("failed to read response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logrus.Errorf("Twilio API error: %s", string(body))
		return models.DeliveryResult{Success: false, ErrorReason: fmt.Sprintf("SMS API error: %s", resp.Status)}
	}

	var twilioResponse struct {
		SID          string      `json:"sid"`
		Status       string      `json:"status"`
		ErrorCode    interface{} `json:"error_code"`
		ErrorMessage string      `json:"error_message"`
	}

	if err := json.Unmarshal(body, &twilioResponse); err != nil {
		// A 2xx with a body we cannot read gives no provider evidence of
		// delivery, and "sent" must never be asserted without it.
		logrus.Warnf("Failed to parse Twilio response: %v", err)
		return models.DeliveryResult{Success: false, ErrorReason: "unparseable provider response"}
	}

	if twilioResponse.ErrorCode != nil {
		return models.DeliveryResult{Success: false, ErrorReason: twilioResponse.ErrorMessage}
	}

	logrus.Infof("SMS sent successfully - SID: %s, Status: %s", twilioResponse.SID, twilioResponse.Status)
	return models.DeliveryResult{Success: true, MessageID: twilioResponse.SID}
}
