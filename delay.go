// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mipidsi

import (
	"context"
	"time"
)

// Delayer waits for hardware settling times.
type Delayer interface {
	// DelayUs blocks for us microseconds or until ctx is done.
	DelayUs(ctx context.Context, us uint32) error
}

// SleepDelayer is a Delayer backed by a timer.
type SleepDelayer struct{}

// DelayUs implements Delayer.
func (SleepDelayer) DelayUs(ctx context.Context, us uint32) error {
	t := time.NewTimer(time.Duration(us) * time.Microsecond)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
