package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoHSessionAcceptsNon200SuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted) // 202, a 2xx that isn't 200
		w.Write([]byte("dns-message-bytes"))
	}))
	defer srv.Close()

	sess := &dohSession{client: srv.Client(), url: srv.URL}
	body, err := sess.Exchange(context.Background(), []byte("query"))
	require.NoError(t, err)
	assert.Equal(t, []byte("dns-message-bytes"), body)
}

func TestDoHSessionRejectsNon2xxStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream error"))
	}))
	defer srv.Close()

	sess := &dohSession{client: srv.Client(), url: srv.URL}
	_, err := sess.Exchange(context.Background(), []byte("query"))
	require.Error(t, err)
	var statusErr *DoHStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
}
