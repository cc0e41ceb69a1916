// Copyright 2025 Digigaia
// SPDX-License-Identifier: LGPL-3.0-only

package types

import (
	"fmt"
	"time"
)

// Timestamps are formatted with millisecond precision and no timezone
// designator; the zone is always UTC.
const timeFormat = "2006-01-02T15:04:05.000"

const (
	// blockTimestampEpochMs is the block timestamp epoch (2000-01-01T00:00:00Z)
	// in milliseconds since the Unix epoch.
	blockTimestampEpochMs = int64(946684800000)
	blockIntervalMs       = int64(500)
)

func parseTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(timeFormat, s, time.UTC)
	if err == nil {
		return t, nil
	}
	// also admit timestamps without the fractional part
	t, err2 := time.ParseInLocation("2006-01-02T15:04:05", s, time.UTC)
	if err2 == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("could not parse date: %w", err)
}

// TimePoint is a timestamp with microsecond resolution.
type TimePoint int64

func TimePointFromString(s string) (TimePoint, error) {
	t, err := parseTime(s)
	if err != nil {
		return 0, err
	}
	return TimePoint(t.UnixMicro()), nil
}

func (t TimePoint) Time() time.Time {
	return time.UnixMicro(int64(t)).UTC()
}

func (t TimePoint) String() string {
	return t.Time().Format(timeFormat)
}

// TimePointSec is a timestamp with second resolution.
type TimePointSec uint32

func TimePointSecFromString(s string) (TimePointSec, error) {
	t, err := parseTime(s)
	if err != nil {
		return 0, err
	}
	sec := t.Unix()
	if sec < 0 || sec > int64(^uint32(0)) {
		return 0, fmt.Errorf("date not representable as a uint32: %q", s)
	}
	return TimePointSec(sec), nil
}

func (t TimePointSec) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

func (t TimePointSec) String() string {
	return t.Time().Format(timeFormat)
}

// BlockTimestamp counts 500 ms block slots since 2000-01-01T00:00:00Z.
type BlockTimestamp uint32

func BlockTimestampFromString(s string) (BlockTimestamp, error) {
	t, err := parseTime(s)
	if err != nil {
		return 0, err
	}
	msSinceEpoch := t.UnixMilli() - blockTimestampEpochMs
	slot := msSinceEpoch / blockIntervalMs
	if slot < 0 || slot > int64(^uint32(0)) {
		return 0, fmt.Errorf("timestamp out of range for a block slot: %q", s)
	}
	return BlockTimestamp(slot), nil
}

func (t BlockTimestamp) Time() time.Time {
	return time.UnixMilli(int64(t)*blockIntervalMs + blockTimestampEpochMs).UTC()
}

func (t BlockTimestamp) String() string {
	return t.Time().Format(timeFormat)
}
