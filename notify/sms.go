package notify

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// SMSSender posts one-time codes to an HTTP SMS gateway.
type SMSSender struct {
	client *resty.Client
	url    string
	apiKey string
}

func NewSMSSender(url, apiKey string) *SMSSender {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2)
	return &SMSSender{client: client, url: url, apiKey: apiKey}
}

// Enabled reports whether a gateway is configured.
func (s *SMSSender) Enabled() bool {
	return s != nil && s.url != ""
}

func (s *SMSSender) SendOTP(ctx context.Context, mobile, code string) error {
	if !s.Enabled() {
		return errors.New("sms gateway not configured")
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+s.apiKey).
		SetBody(map[string]string{
			"to":      mobile,
			"message": "Your " + appName + " verification code is " + code,
		}).
		Post(s.url)
	if err != nil {
		return errors.Wrap(err, "sms request")
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return errors.Errorf("sms gateway status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
