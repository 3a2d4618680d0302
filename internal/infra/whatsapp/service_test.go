package whatsapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendText(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewService(srv.URL, "shop1", "secret")
	err := s.SendText(context.Background(), "+55 11 98888-7777", "olá")
	require.NoError(t, err)
	assert.Equal(t, "/instances/shop1/messages/text", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestSendTextNonSuccessIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewService(srv.URL, "shop1", "secret")
	err := s.SendText(context.Background(), "5511988887777", "olá")
	assert.Error(t, err)
}

func TestDeepLink(t *testing.T) {
	s := NewService("https://x", "i", "k")
	link := s.DeepLink("+55 (11) 98888-7777", "Olá Ana!")
	assert.Equal(t, "https://wa.me/5511988887777?text=Ol%C3%A1+Ana%21", link)
}
