package handler

import (
	"context"

	"github.com/sanosuguru/go-fleet-booking/internal/application"
	"github.com/sanosuguru/go-fleet-booking/internal/domain/booking"
	"github.com/sanosuguru/go-fleet-booking/internal/domain/vehicle"
)

// VehicleServiceInterface は車両サービスのインターフェース
type VehicleServiceInterface interface {
	CreateVehicle(ctx context.Context, input application.CreateVehicleInput) (*vehicle.Vehicle, error)
	GetVehicle(ctx context.Context, id string) (*vehicle.Vehicle, error)
	ListVehicles(ctx context.Context) ([]*vehicle.Vehicle, error)
	FindAvailableVehicles(ctx context.Context, input application.FindAvailableVehiclesInput) ([]*application.AvailableVehicle, error)
}

// BookingServiceInterface は予約サービスのインターフェース
type BookingServiceInterface interface {
	CreateBooking(ctx context.Context, input application.CreateBookingInput) (*booking.Booking, error)
	GetBooking(ctx context.Context, id string) (*booking.Booking, error)
	ListBookings(ctx context.Context) ([]*booking.WithVehicleName, error)
	CheckBookingConflict(ctx context.Context, vehicleID string, w booking.Window) (*booking.ConflictResult, error)
	CancelBooking(ctx context.Context, id string) error
}
