package trace

import (
	"testing"
	"time"
)

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{OpRead, "READ"},
		{OpWrite, "WRITE"},
		{OpInvoke, "INVOKE"},
		{OpEmit, "EMIT"},
		{OpSubscribe, "SUBSCRIBE"},
		{OpAdd, "ADD"},
		{OpRemove, "REMOVE"},
		{OpExpose, "EXPOSE"},
		{OpDestroy, "DESTROY"},
		{Op(99), "UNKNOWN"},
	}

	for _, tc := range tests {
		if got := tc.op.String(); got != tc.want {
			t.Errorf("Op(%d).String() = %s, want %s", tc.op, got, tc.want)
		}
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusOK, "OK"},
		{StatusError, "ERROR"},
		{Status(99), "UNKNOWN"},
	}

	for _, tc := range tests {
		if got := tc.status.String(); got != tc.want {
			t.Errorf("Status(%d).String() = %s, want %s", tc.status, got, tc.want)
		}
	}
}

func TestRecordRoundTrip(t *testing.T) {
	rec := Record{
		Time:    time.Now().UTC(),
		Op:      OpWrite,
		ThingID: "urn:uuid:1234",
		Name:    "brightness",
		Status:  StatusOK,
		Value:   uint64(80),
	}

	data, err := EncodeRecord(rec)
	if err != nil {
		t.Fatalf("EncodeRecord failed: %v", err)
	}

	decoded, err := DecodeRecord(data)
	if err != nil {
		t.Fatalf("DecodeRecord failed: %v", err)
	}

	if decoded.Op != rec.Op {
		t.Errorf("Op: got %v, want %v", decoded.Op, rec.Op)
	}
	if decoded.ThingID != rec.ThingID {
		t.Errorf("ThingID: got %q, want %q", decoded.ThingID, rec.ThingID)
	}
	if decoded.Name != rec.Name {
		t.Errorf("Name: got %q, want %q", decoded.Name, rec.Name)
	}
	if decoded.Status != rec.Status {
		t.Errorf("Status: got %v, want %v", decoded.Status, rec.Status)
	}
	if decoded.Value != rec.Value {
		t.Errorf("Value: got %v (%T), want %v", decoded.Value, decoded.Value, rec.Value)
	}
	if !decoded.Time.Equal(rec.Time) {
		t.Errorf("Time: got %v, want %v", decoded.Time, rec.Time)
	}
}

func TestRecordErrorRoundTrip(t *testing.T) {
	rec := Record{
		Time:    time.Now().UTC(),
		Op:      OpInvoke,
		ThingID: "urn:uuid:1234",
		Name:    "toggle",
		Status:  StatusError,
		Err:     "undefined action handler",
	}

	data, err := EncodeRecord(rec)
	if err != nil {
		t.Fatalf("EncodeRecord failed: %v", err)
	}

	decoded, err := DecodeRecord(data)
	if err != nil {
		t.Fatalf("DecodeRecord failed: %v", err)
	}

	if decoded.Err != rec.Err {
		t.Errorf("Err: got %q, want %q", decoded.Err, rec.Err)
	}
	if decoded.Value != nil {
		t.Errorf("Value: got %v, want nil", decoded.Value)
	}
}

func TestEncodingDeterministic(t *testing.T) {
	rec := Record{
		Time:    time.Date(2025, 6, 1, 12, 0, 0, 123456789, time.UTC),
		Op:      OpRead,
		ThingID: "urn:uuid:abcd",
		Name:    "temperature",
		Status:  StatusOK,
		Value:   21.5,
	}

	first, err := EncodeRecord(rec)
	if err != nil {
		t.Fatalf("EncodeRecord failed: %v", err)
	}
	second, err := EncodeRecord(rec)
	if err != nil {
		t.Fatalf("EncodeRecord failed: %v", err)
	}

	if string(first) != string(second) {
		t.Error("encoding is not deterministic")
	}
}
