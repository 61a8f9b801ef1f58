package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGet(t *testing.T) {
	s := openStore(t)

	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	r := NewRecord("talk.txt", start)
	r.Status = StatusSucceeded
	r.Chunks = 3
	r.TotalTokens = 7200
	r.Attempts = 4
	r.Duration = 12 * time.Second
	r.Outputs = []string{"out/talk.txt"}

	if err := s.Put(r); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, found, err := s.Get(r.ID)
	if err != nil || !found {
		t.Fatalf("Get() = found %v, error %v", found, err)
	}
	if diff := cmp.Diff(r, got); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}

	if _, found, err := s.Get("missing"); err != nil || found {
		t.Errorf("Get(missing) = found %v, error %v", found, err)
	}
}

func TestListOrdersByStart(t *testing.T) {
	s := openStore(t)
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for _, offset := range []int{3, 1, 2} {
		r := NewRecord("f", base.Add(time.Duration(offset)*time.Hour))
		r.Status = StatusFailed
		if err := s.Put(r); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}

	records, err := s.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("List() returned %d records, want 3", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].StartedAt.Before(records[i-1].StartedAt) {
			t.Errorf("records out of order at %d", i)
		}
	}
}

func TestNewRecordUniqueIDs(t *testing.T) {
	a, b := NewRecord("x", time.Now()), NewRecord("x", time.Now())
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("ids %q and %q should be distinct and non-empty", a.ID, b.ID)
	}
}

func TestPutRequiresID(t *testing.T) {
	s := openStore(t)
	if err := s.Put(Record{}); err == nil {
		t.Error("Put() should reject a record without id")
	}
}
