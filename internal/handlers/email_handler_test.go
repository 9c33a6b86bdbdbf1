package handlers_test

import (
	"NoteKeeper/internal/mailer"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestEmail_Notify(t *testing.T) {
	t.Run("sent", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.mail.On("Send", mock.Anything, mailer.Email{To: "user@example.com", Subject: "New comment", Text: "hi"}).Return(nil).Once()

		rr := env.do(t, http.MethodPost, "/email/notify", "", `{"email":"user@example.com","subject":"New comment","text":"hi"}`)
		assert.Equal(t, http.StatusOK, rr.Code)
		env.mail.AssertExpectations(t)
	})

	t.Run("delivery failure", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.mail.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()

		rr := env.do(t, http.MethodPost, "/email/notify", "", `{"email":"user@example.com"}`)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), "error")
	})

	t.Run("invalid address", func(t *testing.T) {
		env := newTestEnv(t, nil)
		rr := env.do(t, http.MethodPost, "/email/notify", "", `{"email":"not-an-email"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		env.mail.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	env.do(t, http.MethodGet, "/notes", "", nil)

	rr := env.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "notekeeper_http_requests_total")
}
