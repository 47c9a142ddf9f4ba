package mailer

import (
	"errors"
	"net"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{
			name:    "Auth rejected by status code",
			err:     &textproto.Error{Code: 535, Msg: "5.7.8 Username and Password not accepted"},
			wantErr: ErrAuthFailed,
		},
		{
			name:    "Auth rejected by message",
			err:     errors.New("535 5.7.8 Username and Password not accepted"),
			wantErr: ErrAuthFailed,
		},
		{
			name:    "Connection refused",
			err:     &net.OpError{Op: "dial", Err: errors.New("connection refused")},
			wantErr: ErrUnreachable,
		},
		{
			name:    "Unknown host by message",
			err:     errors.New("dial tcp: lookup smtp.example.com: no such host"),
			wantErr: ErrUnreachable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classify(tt.err), tt.wantErr)
		})
	}
}

func TestClassifyUnknown(t *testing.T) {
	err := classify(errors.New("552 message size exceeds limit"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrAuthFailed)
	assert.NotErrorIs(t, err, ErrUnreachable)
}

func TestDevModeSend(t *testing.T) {
	m := NewSMTPMailer(Config{Host: "smtp.example.com", Port: "587"})
	err := m.Send("user@example.com", "subject", "body")
	assert.NoError(t, err)
}
