package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-fleet-booking/internal/application"
	"github.com/sanosuguru/go-fleet-booking/internal/domain/booking"
	"github.com/sanosuguru/go-fleet-booking/internal/domain/vehicle"
)

// MockBookingService はBookingServiceInterfaceのモック
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) CreateBooking(ctx context.Context, input application.CreateBookingInput) (*booking.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingService) GetBooking(ctx context.Context, id string) (*booking.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingService) ListBookings(ctx context.Context) ([]*booking.WithVehicleName, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*booking.WithVehicleName), args.Error(1)
}

func (m *MockBookingService) CheckBookingConflict(ctx context.Context, vehicleID string, w booking.Window) (*booking.ConflictResult, error) {
	args := m.Called(ctx, vehicleID, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.ConflictResult), args.Error(1)
}

func (m *MockBookingService) CancelBooking(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func testBooking() *booking.Booking {
	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	return &booking.Booking{
		ID:          "booking-123",
		VehicleID:   "vehicle-123",
		CustomerID:  "customer-123",
		FromPincode: "100001",
		ToPincode:   "100005",
		StartTime:   start,
		EndTime:     start.Add(4 * time.Hour),
		EstimatedRideDurationHours: 4,
		CreatedAt:                  start,
	}
}

func TestBookingHandler_Create(t *testing.T) {
	e := NewTestEcho()

	reqBody := `{
		"vehicleId": "vehicle-123",
		"customerId": "customer-123",
		"fromPincode": "100001",
		"toPincode": "100005",
		"startTime": "2025-01-01T09:00:00Z"
	}`

	newContext := func(body string) (echo.Context, *httptest.ResponseRecorder) {
		req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		return e.NewContext(req, rec), rec
	}

	t.Run("正常に予約を作成できる", func(t *testing.T) {
		mockService := new(MockBookingService)
		mockService.On("CreateBooking", mock.Anything, mock.AnythingOfType("application.CreateBookingInput")).
			Return(testBooking(), nil)

		handler := NewBookingHandler(mockService)
		c, rec := newContext(reqBody)

		err := handler.Create(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp BookingResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "booking-123", resp.ID)
		assert.Equal(t, 4, resp.EstimatedRideDurationHours)
		assert.Equal(t, resp.StartTime.Add(4*time.Hour), resp.EndTime)

		mockService.AssertExpectations(t)
	})

	t.Run("競合時は409", func(t *testing.T) {
		mockService := new(MockBookingService)
		mockService.On("CreateBooking", mock.Anything, mock.Anything).
			Return(nil, booking.ErrBookingConflict)

		handler := NewBookingHandler(mockService)
		c, _ := newContext(reqBody)

		err := handler.Create(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusConflict, he.Code)
	})

	t.Run("車両が存在しない場合は404", func(t *testing.T) {
		mockService := new(MockBookingService)
		mockService.On("CreateBooking", mock.Anything, mock.Anything).
			Return(nil, vehicle.ErrVehicleNotFound)

		handler := NewBookingHandler(mockService)
		c, _ := newContext(reqBody)

		err := handler.Create(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, he.Code)
	})

	t.Run("不正なJSONは400", func(t *testing.T) {
		mockService := new(MockBookingService)
		handler := NewBookingHandler(mockService)
		c, _ := newContext("invalid")

		err := handler.Create(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Code)
		mockService.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	})

	t.Run("必須フィールド欠落は400", func(t *testing.T) {
		mockService := new(MockBookingService)
		handler := NewBookingHandler(mockService)
		c, _ := newContext(`{"vehicleId": "vehicle-123"}`)

		err := handler.Create(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	})

	t.Run("不正な開始時刻は400", func(t *testing.T) {
		mockService := new(MockBookingService)
		handler := NewBookingHandler(mockService)
		c, _ := newContext(`{
			"vehicleId": "vehicle-123",
			"customerId": "customer-123",
			"fromPincode": "100001",
			"toPincode": "100005",
			"startTime": "january first"
		}`)

		err := handler.Create(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	})
}

func TestBookingHandler_List(t *testing.T) {
	e := NewTestEcho()

	t.Run("車両名つきの一覧を返す", func(t *testing.T) {
		mockService := new(MockBookingService)
		mockService.On("ListBookings", mock.Anything).Return([]*booking.WithVehicleName{
			{Booking: *testBooking(), VehicleName: "Truck A"},
		}, nil)

		handler := NewBookingHandler(mockService)
		req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, handler.List(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp []BookingResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp, 1)
		assert.Equal(t, "Truck A", resp[0].VehicleName)
	})
}

func TestBookingHandler_Cancel(t *testing.T) {
	e := NewTestEcho()

	newContext := func(id string) (echo.Context, *httptest.ResponseRecorder) {
		req := httptest.NewRequest(http.MethodDelete, "/bookings/"+id, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(id)
		return c, rec
	}

	t.Run("正常にキャンセルできる", func(t *testing.T) {
		mockService := new(MockBookingService)
		mockService.On("CancelBooking", mock.Anything, "booking-123").Return(nil)

		handler := NewBookingHandler(mockService)
		c, rec := newContext("booking-123")

		require.NoError(t, handler.Cancel(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("存在しないIDは404", func(t *testing.T) {
		mockService := new(MockBookingService)
		mockService.On("CancelBooking", mock.Anything, "missing").Return(booking.ErrBookingNotFound)

		handler := NewBookingHandler(mockService)
		c, _ := newContext("missing")

		err := handler.Cancel(c)
		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, he.Code)
	})
}
