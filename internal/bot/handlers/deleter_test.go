package handlers

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tgbot "github.com/go-telegram/bot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleter_Delete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		deleteErr     error
		deleteNot     bool
		wantErr       bool
		wantForbidden bool
		wantNotFound  bool
	}{
		{name: "success"},
		{name: "forbidden", deleteErr: fmt.Errorf("%w, not enough rights", tgbot.ErrorForbidden), wantErr: true, wantForbidden: true},
		{name: "cannot be deleted", deleteErr: fmt.Errorf("%w, Bad Request: message can't be deleted", tgbot.ErrorBadRequest), wantErr: true, wantForbidden: true},
		{name: "already deleted", deleteErr: fmt.Errorf("%w, Bad Request: message to delete not found", tgbot.ErrorBadRequest), wantErr: true, wantNotFound: true},
		{name: "other bad request", deleteErr: fmt.Errorf("%w, Bad Request: chat not found", tgbot.ErrorBadRequest), wantErr: true},
		{name: "api returned false", deleteNot: true, wantErr: true, wantForbidden: true},
		{name: "transport error", deleteErr: errors.New("connection reset"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			api := newFakeAPI()
			api.deleteErr = tt.deleteErr
			api.deleteNot = tt.deleteNot
			d := NewDeleter(600, 10, discardLogger())

			err := d.Delete(context.Background(), api, testGroupID, 42)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, []int{42}, api.deletedIDs())
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantForbidden, errors.Is(err, ErrCannotDelete))
			assert.Equal(t, tt.wantNotFound, errors.Is(err, ErrMessageNotFound))
			assert.Empty(t, api.deletedIDs())
		})
	}
}

func TestDeleter_CancelledContext(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	d := NewDeleter(1, 1, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := d.Delete(ctx, api, testGroupID, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, api.deletedIDs())
}

func TestNewDeleter_ClampsLimits(t *testing.T) {
	t.Parallel()
	d := NewDeleter(0, 0, nil)
	assert.Equal(t, 1, d.limiter.Burst())
}
