package storeerr

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errExecQuery = errors.New("repository: failed to execute query")

func TestWrap_ConnectivityErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"bad connection", driver.ErrBadConn},
		{"connection done", sql.ErrConnDone},
		{"deadline exceeded", context.DeadlineExceeded},
		{"network error", &net.OpError{Op: "dial", Err: errors.New("connection refused")}},
		{"wrapped network error", fmt.Errorf("query: %w", &net.OpError{Op: "read", Err: errors.New("reset")})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := Wrap(errExecQuery, "GetByID - execute query", tt.err)
			assert.ErrorIs(t, wrapped, ErrUnavailable)
			// Sentinel репозитория сохраняется рядом с признаком недоступности
			assert.ErrorIs(t, wrapped, errExecQuery)
		})
	}
}

func TestWrap_QueryErrorsAreNotUnavailable(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"constraint violation", errors.New(`pq: duplicate key value violates unique constraint "appointments_pkey"`)},
		{"syntax error", errors.New(`pq: syntax error at or near "SELEC"`)},
		{"no rows", sql.ErrNoRows},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := Wrap(errExecQuery, "GetByID - execute query", tt.err)
			assert.NotErrorIs(t, wrapped, ErrUnavailable)
			assert.ErrorIs(t, wrapped, errExecQuery)
		})
	}
}
