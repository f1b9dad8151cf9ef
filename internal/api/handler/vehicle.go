package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-fleet-booking/internal/api"
	"github.com/sanosuguru/go-fleet-booking/internal/application"
	"github.com/sanosuguru/go-fleet-booking/internal/domain/route"
	"github.com/sanosuguru/go-fleet-booking/internal/domain/vehicle"
)

type VehicleHandler struct {
	service VehicleServiceInterface
}

func NewVehicleHandler(s VehicleServiceInterface) *VehicleHandler {
	return &VehicleHandler{service: s}
}

type CreateVehicleRequest struct {
	Name       string `json:"name" validate:"required" example:"Truck A"`
	CapacityKg int    `json:"capacityKg" validate:"required,gt=0" example:"5000"`
	Tyres      int    `json:"tyres" validate:"required,gt=0" example:"6"`
}

type VehicleResponse struct {
	ID         string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name       string    `json:"name" example:"Truck A"`
	CapacityKg int       `json:"capacityKg" example:"5000"`
	Tyres      int       `json:"tyres" example:"6"`
	CreatedAt  time.Time `json:"created_at"`
}

type AvailableVehicleResponse struct {
	VehicleResponse
	EstimatedRideDurationHours int `json:"estimatedRideDurationHours" example:"4"`
}

func toVehicleResponse(v *vehicle.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID: v.ID, Name: v.Name, CapacityKg: v.CapacityKg,
		Tyres: v.Tyres, CreatedAt: v.CreatedAt,
	}
}

// Create godoc
// @Summary 車両を登録
// @Description 管理用の車両追加操作
// @Tags vehicles
// @Accept json
// @Produce json
// @Param request body CreateVehicleRequest true "車両情報"
// @Success 201 {object} VehicleResponse
// @Failure 400 {object} map[string]string
// @Router /vehicles [post]
func (h *VehicleHandler) Create(c echo.Context) error {
	var req CreateVehicleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	v, err := h.service.CreateVehicle(c.Request().Context(), application.CreateVehicleInput{
		Name: req.Name, CapacityKg: req.CapacityKg, Tyres: req.Tyres,
	})
	if err != nil {
		return echo.NewHTTPError(api.StatusForError(err), err.Error())
	}
	return c.JSON(http.StatusCreated, toVehicleResponse(v))
}

// List godoc
// @Summary 車両一覧を取得
// @Tags vehicles
// @Produce json
// @Success 200 {array} VehicleResponse
// @Router /vehicles [get]
func (h *VehicleHandler) List(c echo.Context) error {
	vehicles, err := h.service.ListVehicles(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]VehicleResponse, len(vehicles))
	for i, v := range vehicles {
		resp[i] = toVehicleResponse(v)
	}
	return c.JSON(http.StatusOK, resp)
}

// FindAvailable godoc
// @Summary 空き車両を検索
// @Description 積載量と時間帯の条件で予約可能な車両を検索する
// @Tags vehicles
// @Produce json
// @Param capacityRequired query int true "必要積載量（kg）"
// @Param fromPincode query string true "出発地ピンコード"
// @Param toPincode query string true "目的地ピンコード"
// @Param startTime query string true "開始時刻（RFC3339）"
// @Success 200 {array} AvailableVehicleResponse
// @Failure 400 {object} map[string]string
// @Router /vehicles/available [get]
func (h *VehicleHandler) FindAvailable(c echo.Context) error {
	var req struct {
		CapacityRequired int    `query:"capacityRequired" validate:"required,gt=0"`
		FromPincode      string `query:"fromPincode" validate:"required"`
		ToPincode        string `query:"toPincode" validate:"required"`
		StartTime        string `query:"startTime" validate:"required"`
	}
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

	available, err := h.service.FindAvailableVehicles(c.Request().Context(), application.FindAvailableVehiclesInput{
		CapacityRequiredKg: req.CapacityRequired,
		FromPincode:        route.Code(req.FromPincode),
		ToPincode:          route.Code(req.ToPincode),
		StartTime:          startTime,
	})
	if err != nil {
		return echo.NewHTTPError(api.StatusForError(err), err.Error())
	}

	resp := make([]AvailableVehicleResponse, len(available))
	for i, av := range available {
		resp[i] = AvailableVehicleResponse{
			VehicleResponse:            toVehicleResponse(av.Vehicle),
			EstimatedRideDurationHours: av.EstimatedRideDurationHours,
		}
	}
	return c.JSON(http.StatusOK, resp)
}
