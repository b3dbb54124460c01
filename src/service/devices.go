// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package service

import (
	"context"

	"github.com/H0llyW00dzZ/dnsunblock/src/adguard"
)

// Devices lists the account's devices, bypassing the name cache.
func (s *Service) Devices(ctx context.Context) ([]adguard.Device, error) {
	return s.gw.Devices(ctx)
}

// DeviceNames returns the device id to name map, served from a cache that
// is refreshed once per device TTL.
func (s *Service) DeviceNames(ctx context.Context) (map[string]string, error) {
	return s.devices.GetOrFetch(ctx, deviceCacheKey, func(ctx context.Context) (map[string]string, error) {
		list, err := s.gw.Devices(ctx)
		if err != nil {
			return nil, err
		}
		names := make(map[string]string, len(list))
		for _, d := range list {
			names[d.ID] = d.Name
		}
		return names, nil
	})
}

// DeviceName resolves one device id. Unknown ids resolve to themselves.
func (s *Service) DeviceName(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", nil
	}
	names, err := s.DeviceNames(ctx)
	if err != nil {
		return id, err
	}
	if n, ok := names[id]; ok && n != "" {
		return n, nil
	}
	return id, nil
}

// ForgetDevices drops the cached device names.
func (s *Service) ForgetDevices() {
	s.devices.Flush()
}
