package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osanchezp/casaflow/internal/models"
)

func TestClientSubmit(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotAuth, gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotPath = r.URL.Path
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"mv-1"}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "tok-123")
		err := c.Submit(context.Background(), MovementPayload{Type: models.TypeHousehold})
		require.NoError(t, err)
		assert.Equal(t, "Bearer tok-123", gotAuth)
		assert.Equal(t, "/movements", gotPath)
	})

	t.Run("income goes to its own endpoint", func(t *testing.T) {
		var gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.WriteHeader(http.StatusCreated)
		}))
		defer srv.Close()

		err := NewClient(srv.URL, "t").Submit(context.Background(), IncomePayload{MemberID: "u-1"})
		require.NoError(t, err)
		assert.Equal(t, "/income", gotPath)
	})

	t.Run("503 is degraded, not failed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"warning":"movement saved, but synchronization is pending","id":"mv-9"}`))
		}))
		defer srv.Close()

		err := NewClient(srv.URL, "t").Submit(context.Background(), MovementPayload{})
		require.Error(t, err)
		assert.True(t, IsDegraded(err))
		assert.Equal(t, "movement saved, but synchronization is pending", err.Error())
	})

	t.Run("4xx surfaces the server message verbatim", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"participant percentages must sum to 1"}`))
		}))
		defer srv.Close()

		err := NewClient(srv.URL, "t").Submit(context.Background(), MovementPayload{})
		var serr *ServerError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, http.StatusBadRequest, serr.Status)
		assert.Equal(t, "participant percentages must sum to 1", serr.Message)
		assert.False(t, IsDegraded(err))
	})

	t.Run("non-JSON error body falls back to the status text", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusForbidden)
		}))
		defer srv.Close()

		err := NewClient(srv.URL, "t").Submit(context.Background(), MovementPayload{})
		var serr *ServerError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, http.StatusText(http.StatusForbidden), serr.Message)
	})

	t.Run("transport failure wraps ErrCannotConnect", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // refuse the connection

		err := NewClient(srv.URL, "t").Submit(context.Background(), MovementPayload{})
		assert.True(t, errors.Is(err, ErrCannotConnect))
	})
}

func TestClientAccountsFiltersIncomeEligible(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":"a1","name":"Savings","type":"savings"},
			{"id":"a2","name":"Visa","type":"credit"},
			{"id":"a3","name":"Wallet","type":"cash"},
			{"id":"a4","name":"Checking","type":"checking"}
		]`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, "t").Accounts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a1", got[0].ID)
	assert.Equal(t, "a3", got[1].ID)
}

func TestClientUpdate(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Write([]byte(`{"id":"mv-7"}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "t").Update(context.Background(), "mv-7", models.MovementUpdate{Description: "fixed"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/movements/mv-7", gotPath)
}
