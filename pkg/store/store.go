// hab/pkg/store/store.go

package store

import (
	"fmt"
	"regexp"

	"smarthab/hab/pkg/logging"
)

// Store holds the current value of every device and sensor in the home.
// The key set is fixed for the life of the process; only values change.
type Store interface {
	GetDevice(key string) (interface{}, bool)
	SetDevice(key string, value interface{}) error
	Snapshot() []DeviceEntry
}

// DeviceEntry is one key/value pair of a snapshot, in declaration order.
type DeviceEntry struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

type valueKind int

const (
	kindBool valueKind = iota
	kindInt
	kindString
)

// deviceKeys fixes both the key set and the snapshot display order.
var deviceKeys = []string{
	"lights",
	"ac",
	"heating",
	"security",
	"temperature",
	"motion",
	"time",
}

var deviceKinds = map[string]valueKind{
	"lights":      kindBool,
	"ac":          kindBool,
	"heating":     kindBool,
	"security":    kindBool,
	"temperature": kindInt,
	"motion":      kindBool,
	"time":        kindString,
}

// BoolDeviceKeys returns the switchable devices, in declaration order.
func BoolDeviceKeys() []string {
	keys := make([]string, 0, len(deviceKeys))
	for _, k := range deviceKeys {
		if deviceKinds[k] == kindBool {
			keys = append(keys, k)
		}
	}
	return keys
}

// MemoryStore is the canonical in-process device state. It is not safe
// for concurrent use; the engine owns it from a single goroutine.
type MemoryStore struct {
	values map[string]interface{}
}

// NewMemoryStore returns a store initialized to the default home state:
// every switchable device off, 22 degrees, clock at 17:00.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: map[string]interface{}{
			"lights":      false,
			"ac":          false,
			"heating":     false,
			"security":    false,
			"temperature": 22,
			"motion":      false,
			"time":        "17:00",
		},
	}
}

func (s *MemoryStore) GetDevice(key string) (interface{}, bool) {
	value, ok := s.values[key]
	return value, ok
}

// SetDevice overwrites the value for a known key. It checks the value's
// type against the key's kind but deliberately does not clamp ranges or
// validate time format; that is the job of the validated entry points.
func (s *MemoryStore) SetDevice(key string, value interface{}) error {
	kind, ok := deviceKinds[key]
	if !ok {
		return logging.NewError(logging.ErrorTypeStore,
			fmt.Sprintf("unknown device key %q", key), nil,
			map[string]interface{}{"key": key})
	}
	switch kind {
	case kindBool:
		if _, ok := value.(bool); !ok {
			return logging.NewError(logging.ErrorTypeStore,
				fmt.Sprintf("device %q requires a bool value", key), nil,
				map[string]interface{}{"key": key, "value": value})
		}
	case kindInt:
		if _, ok := value.(int); !ok {
			return logging.NewError(logging.ErrorTypeStore,
				fmt.Sprintf("device %q requires an int value", key), nil,
				map[string]interface{}{"key": key, "value": value})
		}
	case kindString:
		if _, ok := value.(string); !ok {
			return logging.NewError(logging.ErrorTypeStore,
				fmt.Sprintf("device %q requires a string value", key), nil,
				map[string]interface{}{"key": key, "value": value})
		}
	}
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Snapshot() []DeviceEntry {
	entries := make([]DeviceEntry, 0, len(deviceKeys))
	for _, key := range deviceKeys {
		entries = append(entries, DeviceEntry{Key: key, Value: s.values[key]})
	}
	return entries
}

const (
	MinTemperature = 15
	MaxTemperature = 35
)

var timeFormat = regexp.MustCompile(`^\d{2}:\d{2}$`)

// SetTemperatureValidated is the manual-control entry point for the
// temperature sensor. Values outside [15, 35] are rejected.
func SetTemperatureValidated(s Store, temp int) error {
	if temp < MinTemperature || temp > MaxTemperature {
		return logging.NewError(logging.ErrorTypeStore,
			fmt.Sprintf("temperature %d outside [%d, %d]", temp, MinTemperature, MaxTemperature),
			nil, map[string]interface{}{"temperature": temp})
	}
	return s.SetDevice("temperature", temp)
}

// SetTimeValidated is the manual-control entry point for the clock.
// Only HH:MM strings are accepted.
func SetTimeValidated(s Store, clock string) error {
	if !timeFormat.MatchString(clock) {
		return logging.NewError(logging.ErrorTypeStore,
			fmt.Sprintf("invalid time %q, expected HH:MM", clock),
			nil, map[string]interface{}{"time": clock})
	}
	return s.SetDevice("time", clock)
}
