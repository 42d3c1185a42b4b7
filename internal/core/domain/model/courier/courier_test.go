package courier_test

import (
	"testing"
	"time"

	"orderflow/internal/core/domain/model/courier"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lightVehicle(t *testing.T) *courier.Vehicle {
	t.Helper()
	v, err := courier.NewVehicle(kernel.NewUUID(), "PBX-1234", courier.CategoryLight, 1000)
	require.NoError(t, err)
	return v
}

func availableCourier(t *testing.T) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(kernel.NewUUID(), "Juan Perez", "URBAN-QUITO", courier.LicenseCar, lightVehicle(t))
	require.NoError(t, err)
	return c
}

func TestNewVehicle(t *testing.T) {
	t.Run("valid light vehicle", func(t *testing.T) {
		v := lightVehicle(t)
		assert.Equal(t, courier.CategoryLight, v.Category())
		assert.Equal(t, courier.VehicleActive, v.Status())
		assert.True(t, v.IsAvailable())
		require.NoError(t, v.Validate())
	})

	t.Run("capacity above category band", func(t *testing.T) {
		_, err := courier.NewVehicle(kernel.NewUUID(), "PBX-1", courier.CategoryMotorcycle, 50)
		require.Error(t, err)
	})

	t.Run("truck capacity must exceed light band", func(t *testing.T) {
		_, err := courier.NewVehicle(kernel.NewUUID(), "PBX-2", courier.CategoryTruck, 500)
		require.Error(t, err)

		_, err = courier.NewVehicle(kernel.NewUUID(), "PBX-3", courier.CategoryTruck, 5000)
		require.NoError(t, err)
	})

	t.Run("empty plate", func(t *testing.T) {
		_, err := courier.NewVehicle(kernel.NewUUID(), "", courier.CategoryLight, 500)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("maintenance vehicle is not available", func(t *testing.T) {
		v := lightVehicle(t)
		require.NoError(t, v.ChangeStatus(courier.VehicleMaintenance))
		assert.False(t, v.IsAvailable())
	})
}

func TestVehicle_CanCarry(t *testing.T) {
	v := lightVehicle(t)
	assert.True(t, v.CanCarry(50))
	assert.True(t, v.CanCarry(1000))
	assert.False(t, v.CanCarry(1500))
	assert.False(t, v.CanCarry(0))
}

func TestLicenseClass_CanOperate(t *testing.T) {
	cases := []struct {
		license  courier.LicenseClass
		category courier.VehicleCategory
		want     bool
	}{
		{courier.LicenseMotorcycle, courier.CategoryMotorcycle, true},
		{courier.LicenseMotorcycle, courier.CategoryLight, false},
		{courier.LicenseCar, courier.CategoryLight, true},
		{courier.LicenseCar, courier.CategoryTruck, false},
		{courier.LicenseHeavy, courier.CategoryLight, true},
		{courier.LicenseHeavy, courier.CategoryTruck, true},
		{courier.LicenseProfessional, courier.CategoryTruck, true},
		{courier.LicenseProfessional, courier.CategoryMotorcycle, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.license.CanOperate(tc.category),
			"%s operating %s", tc.license, tc.category)
	}
}

func TestNewCourier(t *testing.T) {
	t.Run("valid courier is available", func(t *testing.T) {
		c := availableCourier(t)
		assert.Equal(t, courier.StatusAvailable, c.Status())
		assert.True(t, c.IsActive())
		assert.True(t, c.IsAvailable())
		require.NoError(t, c.Validate())
	})

	t.Run("license mismatch fails closed", func(t *testing.T) {
		_, err := courier.NewCourier(kernel.NewUUID(), "Juan", "URBAN-QUITO", courier.LicenseMotorcycle, lightVehicle(t))
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("courier without vehicle is not available", func(t *testing.T) {
		c, err := courier.NewCourier(kernel.NewUUID(), "Juan", "URBAN-QUITO", courier.LicenseCar, nil)
		require.NoError(t, err)
		assert.False(t, c.IsAvailable())
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var c courier.Courier
		require.ErrorIs(t, c.Validate(), courier.ErrCourierIsNotConstructed)
	})
}

func TestCourier_Availability(t *testing.T) {
	t.Run("inactive courier is not available", func(t *testing.T) {
		c, err := courier.RestoreCourier(
			kernel.NewUUID(), "Juan", courier.StatusAvailable, "URBAN-QUITO",
			courier.LicenseCar, lightVehicle(t), nil, false,
		)
		require.NoError(t, err)
		assert.False(t, c.IsAvailable())
	})

	t.Run("courier with maintenance vehicle is not available", func(t *testing.T) {
		v := lightVehicle(t)
		require.NoError(t, v.ChangeStatus(courier.VehicleOutOfService))
		c, err := courier.RestoreCourier(
			kernel.NewUUID(), "Juan", courier.StatusAvailable, "URBAN-QUITO",
			courier.LicenseCar, v, nil, true,
		)
		require.NoError(t, err)
		assert.False(t, c.IsAvailable())
	})
}

func TestCourier_RouteTransitions(t *testing.T) {
	t.Run("available goes on route and back", func(t *testing.T) {
		c := availableCourier(t)
		require.NoError(t, c.MarkOnRoute())
		assert.Equal(t, courier.StatusOnRoute, c.Status())
		assert.False(t, c.IsAvailable())

		require.NoError(t, c.MarkAvailable())
		assert.Equal(t, courier.StatusAvailable, c.Status())
	})

	t.Run("on route twice is rejected", func(t *testing.T) {
		c := availableCourier(t)
		require.NoError(t, c.MarkOnRoute())
		require.ErrorIs(t, c.MarkOnRoute(), errs.ErrInvalidStateTransition)
	})

	t.Run("release of an available courier is rejected", func(t *testing.T) {
		c := availableCourier(t)
		require.ErrorIs(t, c.MarkAvailable(), errs.ErrInvalidStateTransition)
	})
}

func TestCourier_ReportLocation(t *testing.T) {
	c := availableCourier(t)
	point, err := kernel.NewGeoPoint(-0.18, -78.47)
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, c.ReportLocation(point, now))
	require.NotNil(t, c.LastLocation())
	assert.True(t, c.LastLocation().Point.IsEqual(point))
	assert.Equal(t, now, c.LastLocation().ReportedAt)
}

func TestAssignment(t *testing.T) {
	t.Run("valid link", func(t *testing.T) {
		orderID, courierID, vehicleID := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
		a, err := courier.NewAssignment(orderID, courierID, vehicleID)
		require.NoError(t, err)
		assert.True(t, a.OrderID().IsEqual(orderID))
		assert.True(t, a.CourierID().IsEqual(courierID))
		assert.True(t, a.VehicleID().IsEqual(vehicleID))
		require.NoError(t, a.Validate())
	})

	t.Run("invalid ids rejected", func(t *testing.T) {
		var zero kernel.UUID
		_, err := courier.NewAssignment(zero, kernel.NewUUID(), kernel.NewUUID())
		require.Error(t, err)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var a courier.Assignment
		require.ErrorIs(t, a.Validate(), courier.ErrAssignmentIsNotConstructed)
	})
}
