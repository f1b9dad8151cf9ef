package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-fleet-booking/internal/api"
	"github.com/sanosuguru/go-fleet-booking/internal/application"
	"github.com/sanosuguru/go-fleet-booking/internal/domain/booking"
	"github.com/sanosuguru/go-fleet-booking/internal/domain/route"
)

type BookingHandler struct {
	service BookingServiceInterface
}

func NewBookingHandler(s BookingServiceInterface) *BookingHandler {
	return &BookingHandler{service: s}
}

type CreateBookingRequest struct {
	VehicleID   string `json:"vehicleId" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	CustomerID  string `json:"customerId" validate:"required" example:"customer-123"`
	FromPincode string `json:"fromPincode" validate:"required" example:"100001"`
	ToPincode   string `json:"toPincode" validate:"required" example:"100005"`
	StartTime   string `json:"startTime" validate:"required" example:"2025-01-01T09:00:00Z"`
}

type BookingResponse struct {
	ID                         string    `json:"id"`
	VehicleID                  string    `json:"vehicleId"`
	VehicleName                string    `json:"vehicleName,omitempty"`
	CustomerID                 string    `json:"customerId"`
	FromPincode                string    `json:"fromPincode"`
	ToPincode                  string    `json:"toPincode"`
	StartTime                  time.Time `json:"startTime"`
	EndTime                    time.Time `json:"endTime"`
	EstimatedRideDurationHours int       `json:"estimatedRideDurationHours"`
	CreatedAt                  time.Time `json:"created_at"`
}

func toBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID: b.ID, VehicleID: b.VehicleID, CustomerID: b.CustomerID,
		FromPincode: string(b.FromPincode), ToPincode: string(b.ToPincode),
		StartTime: b.StartTime, EndTime: b.EndTime,
		EstimatedRideDurationHours: b.EstimatedRideDurationHours,
		CreatedAt:                  b.CreatedAt,
	}
}

// Create godoc
// @Summary 予約を作成
// @Description 指定車両・時間帯で予約を作成する。時間帯が既存予約と重なる場合は409
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body CreateBookingRequest true "予約情報"
// @Success 201 {object} BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string "車両が存在しない"
// @Failure 409 {object} map[string]string "時間帯が重複"
// @Router /bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	var req CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "startTime はRFC3339形式で指定してください")
	}

	b, err := h.service.CreateBooking(c.Request().Context(), application.CreateBookingInput{
		VehicleID:   req.VehicleID,
		CustomerID:  req.CustomerID,
		FromPincode: route.Code(req.FromPincode),
		ToPincode:   route.Code(req.ToPincode),
		StartTime:   startTime,
	})
	if err != nil {
		return echo.NewHTTPError(api.StatusForError(err), err.Error())
	}
	return c.JSON(http.StatusCreated, toBookingResponse(b))
}

// List godoc
// @Summary 予約一覧を取得
// @Description 車両名つきの全予約を開始時刻の降順で取得する
// @Tags bookings
// @Produce json
// @Success 200 {array} BookingResponse
// @Router /bookings [get]
func (h *BookingHandler) List(c echo.Context) error {
	bookings, err := h.service.ListBookings(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		r := toBookingResponse(&b.Booking)
		r.VehicleName = b.VehicleName
		resp[i] = r
	}
	return c.JSON(http.StatusOK, resp)
}

// GetByID godoc
// @Summary 予約を取得
// @Tags bookings
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} BookingResponse
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetByID(c echo.Context) error {
	b, err := h.service.GetBooking(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(api.StatusForError(err), err.Error())
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// Cancel godoc
// @Summary 予約をキャンセル
// @Description 予約を削除する。存在しないIDは404（何度呼んでも同じ結果）
// @Tags bookings
// @Param id path string true "予約ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [delete]
func (h *BookingHandler) Cancel(c echo.Context) error {
	if err := h.service.CancelBooking(c.Request().Context(), c.Param("id")); err != nil {
		return echo.NewHTTPError(api.StatusForError(err), err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
