package trace

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestFileRecorderCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.trace")

	rec, err := NewFileRecorder(path)
	if err != nil {
		t.Fatalf("NewFileRecorder failed: %v", err)
	}
	defer rec.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("trace file was not created")
	}
}

func TestFileRecorderWritesCBOR(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.trace")

	rec, err := NewFileRecorder(path)
	if err != nil {
		t.Fatalf("NewFileRecorder failed: %v", err)
	}

	rec.Record(Record{
		Time:    time.Now(),
		Op:      OpRead,
		ThingID: "urn:uuid:1",
		Name:    "on",
		Status:  StatusOK,
		Value:   true,
	})
	rec.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read trace file: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("trace file is empty")
	}

	decoded, err := DecodeRecord(data)
	if err != nil {
		t.Fatalf("failed to decode record: %v", err)
	}
	if decoded.ThingID != "urn:uuid:1" || decoded.Name != "on" {
		t.Errorf("unexpected record %+v", decoded)
	}
}

func TestFileRecorderAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.trace")

	first, err := NewFileRecorder(path)
	if err != nil {
		t.Fatalf("NewFileRecorder failed: %v", err)
	}
	first.Record(Record{Time: time.Now(), Op: OpRead, ThingID: "urn:uuid:1", Name: "a"})
	first.Close()

	second, err := NewFileRecorder(path)
	if err != nil {
		t.Fatalf("NewFileRecorder second open failed: %v", err)
	}
	second.Record(Record{Time: time.Now(), Op: OpWrite, ThingID: "urn:uuid:1", Name: "b"})
	second.Close()

	records, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Name != "a" || records[1].Name != "b" {
		t.Errorf("unexpected order: %+v", records)
	}
}

func TestFileRecorderThreadSafe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.trace")

	rec, err := NewFileRecorder(path)
	if err != nil {
		t.Fatalf("NewFileRecorder failed: %v", err)
	}

	const goroutines = 10
	const perGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				rec.Record(Record{
					Time:    time.Now(),
					Op:      OpRead,
					ThingID: "urn:uuid:" + string(rune('A'+id)),
					Name:    "on",
				})
			}
		}(i)
	}
	wg.Wait()
	rec.Close()

	records, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(records) != goroutines*perGoroutine {
		t.Errorf("record count: got %d, want %d", len(records), goroutines*perGoroutine)
	}
}

func TestFileRecorderClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.trace")

	rec, err := NewFileRecorder(path)
	if err != nil {
		t.Fatalf("NewFileRecorder failed: %v", err)
	}

	rec.Record(Record{Time: time.Now(), Op: OpRead, ThingID: "urn:uuid:1"})

	if err := rec.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}

	// Recording after close must not panic.
	rec.Record(Record{Time: time.Now(), Op: OpWrite, ThingID: "urn:uuid:1"})

	records, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected 1 record, got %d", len(records))
	}
}

func TestMultiRecorder(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.trace")
	pathB := filepath.Join(dir, "b.trace")

	recA, err := NewFileRecorder(pathA)
	if err != nil {
		t.Fatalf("NewFileRecorder failed: %v", err)
	}
	recB, err := NewFileRecorder(pathB)
	if err != nil {
		t.Fatalf("NewFileRecorder failed: %v", err)
	}

	multi := NewMultiRecorder(recA, recB, NopRecorder{})
	multi.Record(Record{Time: time.Now(), Op: OpEmit, ThingID: "urn:uuid:1", Name: "overheated"})

	if err := multi.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}

	for _, path := range []string{pathA, pathB} {
		records, err := ReadAll(path)
		if err != nil {
			t.Fatalf("ReadAll(%s) failed: %v", path, err)
		}
		if len(records) != 1 || records[0].Name != "overheated" {
			t.Errorf("%s: unexpected records %+v", path, records)
		}
	}
}
