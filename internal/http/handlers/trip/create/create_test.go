package create

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/reiseplaner/reiseplaner-sub001/internal/http/middlewarectx"
	"github.com/reiseplaner/reiseplaner-sub001/internal/models"
	"github.com/reiseplaner/reiseplaner-sub001/internal/services/trip"
)

type TripServiceMock struct {
	mock.Mock
}

func (m *TripServiceMock) Create(ctx context.Context, userUID string, req models.DummyTrip) (int, error) {
	args := m.Called(ctx, userUID, req)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCreateHandler_ServeHTTP(t *testing.T) {
	tripMock := new(TripServiceMock)
	logger := newNoopLogger()

	handler := New(logger, tripMock)

	validTrip := models.DummyTrip{
		Title:       "Alps hiking",
		Destination: "Innsbruck",
		StartDate:   "10-07-2026",
		EndDate:     "20-07-2026",
	}

	tests := []struct {
		name           string
		requestBody    any
		withUser       bool
		mockID         int
		mockErr        error
		wantStatusCode int
	}{
		{
			name:           "valid trip",
			requestBody:    validTrip,
			withUser:       true,
			mockID:         7,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			withUser:       true,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "validation error - bad date format",
			requestBody: models.DummyTrip{
				Title:       "Alps hiking",
				Destination: "Innsbruck",
				StartDate:   "2026-07-10",
				EndDate:     "2026-07-20",
			},
			withUser:       true,
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "user missing in context",
			requestBody:    validTrip,
			withUser:       false,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "plan limit reached",
			requestBody:    validTrip,
			withUser:       true,
			mockErr:        trip.ErrTripLimitReached,
			wantStatusCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tripMock.ExpectedCalls = nil
			tripMock.Calls = nil

			if tt.mockID != 0 || tt.mockErr != nil {
				tripMock.On("Create", mock.Anything, "uid-1", tt.requestBody.(models.DummyTrip)).
					Return(tt.mockID, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/api/trips", bytes.NewReader(bodyBytes))
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			if tt.withUser {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, "uid-1")
			}
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			if tt.wantStatusCode == http.StatusOK {
				var got map[string]any
				err = json.NewDecoder(rec.Body).Decode(&got)
				assert.NoError(t, err)
				assert.Equal(t, "OK", got["status"])
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, float64(tt.mockID), data["last_added_id"])
			}

			if tt.mockID != 0 || tt.mockErr != nil {
				tripMock.AssertExpectations(t)
			}
		})
	}
}
