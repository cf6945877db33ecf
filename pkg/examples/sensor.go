package examples

import (
	"context"
	"fmt"
	"sync"

	"github.com/wot-protocol/wot-go/pkg/exposed"
	"github.com/wot-protocol/wot-go/pkg/servient"
	"github.com/wot-protocol/wot-go/pkg/thing"
)

// ThresholdCrossing is the payload of the sensor's threshold-crossed event.
type ThresholdCrossing struct {
	Temperature float64 `json:"temperature"`
	Threshold   float64 `json:"threshold"`
}

// sensorSource simulates the hardware a real sensor would sample. The
// calibration offset shifts every reading.
type sensorSource struct {
	mu       sync.Mutex
	baseline float64
	offset   float64
}

func (s *sensorSource) read() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseline + s.offset
}

func (s *sensorSource) calibrate(delta float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offset += delta
	return s.offset
}

// NewSensor creates a demo temperature sensor exposed on the given
// servient. Its observable "temperature" property is read-only and served
// by a custom read handler over a simulated source; the writable "units"
// property switches readings between celsius and fahrenheit. The
// "calibrate" action shifts the source offset, and threshold violations
// are reported through the "threshold-crossed" event (see
// EmitThresholdCrossed).
//
// The sensor is registered but not yet exposed; call Expose on the result
// to make it visible to the bindings.
func NewSensor(sv *servient.Servient) (*exposed.ExposedThing, error) {
	sensor, err := sv.Produce("Temperature Sensor")
	if err != nil {
		return nil, err
	}

	if err := sensor.AddProperty("temperature", thing.PropertyDefinition{
		Label:      "Temperature",
		Schema:     &thing.DataSchema{Type: thing.TypeNumber},
		Writable:   false,
		Observable: true,
	}); err != nil {
		return nil, err
	}

	if err := sensor.AddProperty("units", thing.PropertyDefinition{
		Label: "Units",
		Schema: &thing.DataSchema{
			Type: thing.TypeString,
			Enum: []any{"celsius", "fahrenheit"},
		},
		Writable: true,
		Value:    "celsius",
	}); err != nil {
		return nil, err
	}

	if err := sensor.AddAction("calibrate", thing.ActionDefinition{
		Label:  "Calibrate",
		Input:  &thing.DataSchema{Type: thing.TypeNumber},
		Output: &thing.DataSchema{Type: thing.TypeNumber},
	}); err != nil {
		return nil, err
	}

	if err := sensor.AddEvent("threshold-crossed", thing.EventDefinition{
		Label: "Threshold Crossed",
		Data:  &thing.DataSchema{Type: thing.TypeObject},
	}); err != nil {
		return nil, err
	}

	source := &sensorSource{baseline: 21.5}

	// Readings come from the simulated source, not the state store, and
	// honor the current units setting.
	if err := sensor.SetPropertyReadHandler("temperature", func(ctx context.Context, _ string) (any, error) {
		value := source.read()
		units, err := sensor.ReadProperty(ctx, "units")
		if err != nil {
			return nil, err
		}
		if units == "fahrenheit" {
			value = value*9/5 + 32
		}
		return value, nil
	}); err != nil {
		return nil, err
	}

	if err := sensor.SetActionHandler("calibrate", func(_ context.Context, _ string, input any) (any, error) {
		delta, err := calibrationDelta(input)
		if err != nil {
			return nil, err
		}
		return source.calibrate(delta), nil
	}); err != nil {
		return nil, err
	}

	return sensor, nil
}

// calibrationDelta accepts a bare number or an {"offset": n} object, the
// two shapes clients send.
func calibrationDelta(input any) (float64, error) {
	switch v := input.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case map[string]any:
		if offset, ok := v["offset"].(float64); ok {
			return offset, nil
		}
	}
	return 0, fmt.Errorf("calibrate expects a number or {\"offset\": n}, got %T", input)
}

// EmitThresholdCrossed publishes a threshold-crossed event on the sensor.
func EmitThresholdCrossed(sensor *exposed.ExposedThing, temperature, threshold float64) error {
	return sensor.EmitEvent("threshold-crossed", ThresholdCrossing{
		Temperature: temperature,
		Threshold:   threshold,
	})
}
