package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMSSendSuccess(t *testing.T) {
	var receivedTo, receivedBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		receivedTo = r.FormValue("To")
		receivedBody = r.FormValue("Body")

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"SM123","status":"queued"}`))
	}))
	defer server.Close()

	svc := NewSMSServiceWithBase("AC_test", "token", "+15550001111", server.URL)

	result, err := svc.Send(context.Background(), "(082) 222-8000 ", "help is on the way")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "SM123", result.MessageID)
	assert.Equal(t, "0822228000", receivedTo)
	assert.Equal(t, "help is on the way", receivedBody)
}

func TestSMSSendProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"","error_code":30007,"error_message":"message filtered"}`))
	}))
	defer server.Close()

	svc := NewSMSServiceWithBase("AC_test", "token", "+15550001111", server.URL)

	result, err := svc.Send(context.Background(), "+639123456789", "hello")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "message filtered", result.ErrorReason)
}

func TestSMSSendUnparseableProviderResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("<html>gateway error page</html>"))
	}))
	defer server.Close()

	svc := NewSMSServiceWithBase("AC_test", "token", "+15550001111", server.URL)

	result, err := svc.Send(context.Background(), "+639123456789", "hello")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "unparseable provider response", result.ErrorReason)
}

func TestSMSSendHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":20003,"message":"Authenticate"}`))
	}))
	defer server.Close()

	svc := NewSMSServiceWithBase("AC_test", "bad-token", "+15550001111", server.URL)

	result, err := svc.Send(context.Background(), "+639123456789", "hello")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorReason, "SMS API error")
}

func TestSMSSendRejectsBadInput(t *testing.T) {
	svc := NewSMSService("AC_test", "token", "+15550001111")

	_, err := svc.Send(context.Background(), "+639123456789", "")
	assert.Error(t, err)

	_, err = svc.Send(context.Background(), "n/a", "hello")
	assert.Error(t, err)
}

func TestSMSSendUnconfigured(t *testing.T) {
	svc := NewSMSService("", "", "")

	result, err := svc.Send(context.Background(), "+639123456789", "hello")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "SMS gateway not configured", result.ErrorReason)
}
