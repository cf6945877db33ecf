package events

import (
	"testing"

	"github.com/wot-protocol/wot-go/pkg/thing"
)

func TestTypeString(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{TypePropertyChange, "PropertyChange"},
		{TypeActionInvocation, "ActionInvocation"},
		{TypeDescriptionChange, "DescriptionChange"},
		{TypeThingEvent, "ThingEvent"},
		{Type(99), "Unknown"},
	}

	for _, tc := range tests {
		if got := tc.typ.String(); got != tc.want {
			t.Errorf("Type(%d).String() = %s, want %s", tc.typ, got, tc.want)
		}
	}
}

func TestConstructors(t *testing.T) {
	t.Run("PropertyChange", func(t *testing.T) {
		ev := NewPropertyChange("on", true)
		if ev.Type != TypePropertyChange || ev.Name != NamePropertyChange {
			t.Errorf("unexpected event %+v", ev)
		}
		p := ev.Payload.(*PropertyChange)
		if p.Name != "on" || p.Value != true {
			t.Errorf("unexpected payload %+v", p)
		}
	})

	t.Run("ActionInvocation", func(t *testing.T) {
		ev := NewActionInvocation("toggle", "done")
		if ev.Type != TypeActionInvocation || ev.Name != NameActionInvocation {
			t.Errorf("unexpected event %+v", ev)
		}
		p := ev.Payload.(*ActionInvocation)
		if p.ActionName != "toggle" || p.ReturnValue != "done" {
			t.Errorf("unexpected payload %+v", p)
		}
	})

	t.Run("DescriptionChange", func(t *testing.T) {
		ev := NewDescriptionChange(thing.KindProperty, MethodAdd, "on", map[string]any{"writable": true}, nil)
		if ev.Type != TypeDescriptionChange || ev.Name != NameDescriptionChange {
			t.Errorf("unexpected event %+v", ev)
		}
		p := ev.Payload.(*DescriptionChange)
		if p.ChangeType != thing.KindProperty || p.Method != MethodAdd || p.Name != "on" {
			t.Errorf("unexpected payload %+v", p)
		}
		if p.Data == nil || p.Description != nil {
			t.Errorf("unexpected payload data %+v", p)
		}
	})

	t.Run("ThingEvent", func(t *testing.T) {
		ev := NewThingEvent("overheated", 120)
		if ev.Type != TypeThingEvent || ev.Name != "overheated" || ev.Payload != 120 {
			t.Errorf("unexpected event %+v", ev)
		}
	})
}
