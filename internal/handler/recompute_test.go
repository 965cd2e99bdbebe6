package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecompute_200_ReturnsRunDate(t *testing.T) {
	rec := &mockRecomputer{
		runNow: func(_ context.Context) (string, error) { return "2025-06-15", nil },
	}
	h := newHTTPHandler(nil, nil, nil, nil, rec)

	res := doRequest(h, http.MethodPost, "/recompute", nil)

	require.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"date":"2025-06-15"}`, res.Body.String())
}

func TestRecompute_StorageFailure_500(t *testing.T) {
	rec := &mockRecomputer{
		runNow: func(_ context.Context) (string, error) {
			return "", fmt.Errorf("connection refused")
		},
	}
	h := newHTTPHandler(nil, nil, nil, nil, rec)

	res := doRequest(h, http.MethodPost, "/recompute", nil)

	require.Equal(t, http.StatusInternalServerError, res.Code)
}
