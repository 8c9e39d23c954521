package service

import (
	"context"
	"fmt"
	"math"

	"irrigation_console/internal/logger"
)

// MaxIrrigationVolumeL is the largest manual irrigation accepted.
const MaxIrrigationVolumeL = 5.0

// ControlService sends commands to the bound device.
type ControlService struct {
	backend DeviceBackend
	devices deviceBinding
	log     *logger.Logger
}

func NewControlService(backend DeviceBackend, devices deviceBinding, log *logger.Logger) *ControlService {
	return &ControlService{backend: backend, devices: devices, log: log}
}

// Irrigate queues a manual irrigation of volumeL litres.
func (c *ControlService) Irrigate(ctx context.Context, volumeL float64) error {
	if math.IsNaN(volumeL) || volumeL <= 0 || volumeL > MaxIrrigationVolumeL {
		return ErrInvalidVolume
	}
	deviceID := c.devices.DeviceID()
	if err := c.backend.Irrigate(ctx, deviceID, volumeL); err != nil {
		c.log.Errorw("irrigate_failed", "device_id", deviceID, "volume_l", volumeL, "err", err)
		return fmt.Errorf("irrigate: %w", err)
	}
	c.log.Infow("irrigate_queued", "device_id", deviceID, "volume_l", volumeL)
	return nil
}

// RecomputePlan asks the backend to rebuild today's plan.
func (c *ControlService) RecomputePlan(ctx context.Context) error {
	deviceID := c.devices.DeviceID()
	if err := c.backend.RecomputePlan(ctx, deviceID); err != nil {
		c.log.Errorw("plan_recompute_failed", "device_id", deviceID, "err", err)
		return fmt.Errorf("recompute plan: %w", err)
	}
	c.log.Infow("plan_recomputed", "device_id", deviceID)
	return nil
}
