package services

import (
	"context"

	"carewatch/utils"

	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// CallService places the "dial emergency services" voice call through the
// Twilio Calls API. The orchestrator fires it and never waits on the result;
// reaching a human dispatcher must not depend on the SMS path.
type CallService struct {
	client      *twilio.RestClient
	phoneNumber string
	sayMessage  string
}

func NewCallService(accountSID, authToken, phoneNumber string) *CallService {
	cs := &CallService{
		phoneNumber: phoneNumber,
		sayMessage:  "This is an automated emergency call placed on behalf of a senior care subscriber. Please respond to the registered address.",
	}
	if accountSID != "" {
		cs.client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		})
	}
	return cs
}

// PlaceCall initiates one outbound call. Call progress is not observed.
func (cs *CallService) PlaceCall(ctx context.Context, number string) error {
	normalized := utils.NormalizePhoneNumber(number)
	if normalized == "" {
		return utils.NewBadRequestError("dial number is empty after normalization")
	}

	if cs.client == nil {
		logrus.Warnf("Twilio not configured, emergency call to %s not placed", normalized)
		return nil
	}

	params := &openapi.CreateCallParams{}
	params.SetTo(normalized)
	params.SetFrom(cs.phoneNumber)
	params.SetTwiml("<Response><Say>" + cs.sayMessage + "</Say></Response>")

	resp, err := cs.client.Api.CreateCall(params)
	if err != nil {
		logrus.Errorf("Failed to place emergency call to %s: %v", normalized, err)
		return err
	}

	if resp.Sid != nil {
		logrus.Infof("Emergency call placed - SID: %s", *resp.Sid)
	}
	return nil
}
