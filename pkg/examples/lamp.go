package examples

import (
	"context"

	"github.com/wot-protocol/wot-go/pkg/exposed"
	"github.com/wot-protocol/wot-go/pkg/servient"
	"github.com/wot-protocol/wot-go/pkg/thing"
)

// NewLamp creates a demo lamp exposed on the given servient. It has a
// writable, observable "on" switch, a "brightness" level bounded to
// 0..100, a "toggle" action that flips the switch through the facade,
// and an "overheated" event.
//
// The lamp is registered but not yet exposed; call Expose on the result
// to make it visible to the bindings.
func NewLamp(sv *servient.Servient) (*exposed.ExposedThing, error) {
	lamp, err := sv.Produce("My Lamp")
	if err != nil {
		return nil, err
	}

	if err := lamp.AddProperty("on", thing.PropertyDefinition{
		Label:      "On/Off",
		Schema:     &thing.DataSchema{Type: thing.TypeBoolean},
		Writable:   true,
		Observable: true,
		Value:      false,
	}); err != nil {
		return nil, err
	}

	min, max := 0.0, 100.0
	if err := lamp.AddProperty("brightness", thing.PropertyDefinition{
		Label: "Brightness",
		Schema: &thing.DataSchema{
			Type:    thing.TypeInteger,
			Unit:    "percent",
			Minimum: &min,
			Maximum: &max,
		},
		Writable:   true,
		Observable: true,
		Value:      0,
	}); err != nil {
		return nil, err
	}

	if err := lamp.AddAction("toggle", thing.ActionDefinition{
		Label:  "Toggle",
		Output: &thing.DataSchema{Type: thing.TypeBoolean},
	}); err != nil {
		return nil, err
	}

	if err := lamp.AddEvent("overheated", thing.EventDefinition{
		Label: "Overheated",
		Data:  &thing.DataSchema{Type: thing.TypeNumber, Unit: "celsius"},
	}); err != nil {
		return nil, err
	}

	// The toggle handler drives "on" through the facade, so the default
	// handlers keep the state and observers see the flip.
	if err := lamp.SetActionHandler("toggle", func(ctx context.Context, _ string, _ any) (any, error) {
		cur, err := lamp.ReadProperty(ctx, "on")
		if err != nil {
			return nil, err
		}
		on, _ := cur.(bool)
		if err := lamp.WriteProperty(ctx, "on", !on); err != nil {
			return nil, err
		}
		return !on, nil
	}); err != nil {
		return nil, err
	}

	return lamp, nil
}
