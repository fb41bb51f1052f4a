package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchDelivers(t *testing.T) {
	rec := &Recorder{}
	Dispatch(rec, EnrollmentEmail("a@b.test", "Ana", "Go 101", "110", "40"))

	require.Eventually(t, func() bool { return len(rec.Sent()) == 1 }, time.Second, 10*time.Millisecond)
	msg := rec.Sent()[0]
	assert.Equal(t, []string{"a@b.test"}, msg.To)
	assert.Contains(t, msg.Subject, "Go 101")
	assert.Contains(t, msg.HTML, "Points remaining: <strong>40</strong>")
}

func TestDispatchSwallowsFailures(t *testing.T) {
	rec := &Recorder{Err: errors.New("provider down")}

	assert.NotPanics(t, func() {
		Dispatch(rec, WelcomeEmail("a@b.test", "Ana"))
	})
	// nothing recorded, nothing returned
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, rec.Sent())
}

func TestDispatchSkipsEmptyRecipients(t *testing.T) {
	rec := &Recorder{}
	Dispatch(rec, Message{Subject: "nobody"})
	Dispatch(nil, WelcomeEmail("a@b.test", "Ana"))

	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, rec.Sent())
}

func TestTemplatesEscapeUserInput(t *testing.T) {
	msg := OTPEmail("a@b.test", "<script>", "123456")

	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.HTML, "123456")
	assert.Equal(t, "Your verification code is 123456", msg.Text)
}

func TestSendGridPrepare(t *testing.T) {
	sg := NewSendGrid("key", "Eduverse", "noreply@eduverse.test")
	m := sg.prepare(Message{To: []string{"a@b.test", "c@d.test"}, Subject: "Hi", HTML: "<p>x</p>"})

	require.Len(t, m.Personalizations, 1)
	assert.Equal(t, "[Eduverse] Hi", m.Personalizations[0].Subject)
	assert.Len(t, m.Personalizations[0].To, 2)
	require.Len(t, m.Content, 2)
	assert.Equal(t, "Hi", m.Content[0].Value)
}

func TestSMSSenderPostsCode(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSMSSender(srv.URL, "secret")
	require.NoError(t, s.SendOTP(context.Background(), "+620000", "654321"))
	assert.Equal(t, "+620000", got["to"])
	assert.Contains(t, got["message"], "654321")
}

func TestSMSSenderErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	assert.Error(t, NewSMSSender(srv.URL, "k").SendOTP(context.Background(), "1", "2"))
	assert.False(t, NewSMSSender("", "").Enabled())
	assert.Error(t, NewSMSSender("", "").SendOTP(context.Background(), "1", "2"))
}
