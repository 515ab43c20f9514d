package smtp

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fransm/boe-watcher/internal/gazette"
)

func TestNewValidation(t *testing.T) {
	t.Parallel()

	_, err := New(Config{From: "x@example.com"}, nil)
	require.Error(t, err)

	_, err = New(Config{Host: "mail.example.com"}, nil)
	require.Error(t, err)

	n, err := New(Config{Host: "mail.example.com", From: "x@example.com"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 587, n.cfg.Port)
}

func TestNotifySendsDigest(t *testing.T) {
	t.Parallel()

	n, err := New(Config{Host: "mail.example.com", Port: 2525, From: "boe@example.com"}, nil)
	require.NoError(t, err)

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	var gotAuth smtp.Auth
	n.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotAuth, gotFrom, gotTo, gotMsg = addr, a, from, to, msg
		return nil
	}

	anns := []gazette.Announcement{{
		BOEID:           "BOE-A-2026-1001",
		Title:           "Convocatoria de plazas",
		PublicationDate: "20260109",
	}}
	err = n.Notify(context.Background(), []string{"a@example.com", "b@example.com"}, anns)
	require.NoError(t, err)

	assert.Equal(t, "mail.example.com:2525", gotAddr)
	assert.Nil(t, gotAuth)
	assert.Equal(t, "boe@example.com", gotFrom)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, gotTo)

	msg := string(gotMsg)
	assert.Contains(t, msg, "Subject: BOE oposiciones: 1 new announcement\r\n")
	assert.Contains(t, msg, "To: a@example.com, b@example.com\r\n")
	assert.Contains(t, msg, "Convocatoria de plazas")
}

func TestNotifyUsesPlainAuthWhenConfigured(t *testing.T) {
	t.Parallel()

	n, err := New(Config{
		Host:     "mail.example.com",
		From:     "boe@example.com",
		Username: "user",
		Password: "pass",
	}, nil)
	require.NoError(t, err)

	var gotAuth smtp.Auth
	n.send = func(_ string, a smtp.Auth, _ string, _ []string, _ []byte) error {
		gotAuth = a
		return nil
	}

	err = n.Notify(context.Background(), []string{"a@example.com"}, []gazette.Announcement{{BOEID: "x"}})
	require.NoError(t, err)
	assert.NotNil(t, gotAuth)
}

func TestNotifyEmptyInputIsNoOp(t *testing.T) {
	t.Parallel()

	n, err := New(Config{Host: "mail.example.com", From: "boe@example.com"}, nil)
	require.NoError(t, err)

	called := false
	n.send = func(string, smtp.Auth, string, []string, []byte) error {
		called = true
		return nil
	}

	require.NoError(t, n.Notify(context.Background(), nil, []gazette.Announcement{{BOEID: "x"}}))
	require.NoError(t, n.Notify(context.Background(), []string{"a@example.com"}, nil))
	assert.False(t, called)
}

func TestNotifySendFailure(t *testing.T) {
	t.Parallel()

	n, err := New(Config{Host: "mail.example.com", From: "boe@example.com"}, nil)
	require.NoError(t, err)

	n.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	err = n.Notify(context.Background(), []string{"a@example.com"}, []gazette.Announcement{{BOEID: "x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mail.example.com:587")
}
