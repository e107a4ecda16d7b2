package stats

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestStore_RecordMonotonic(t *testing.T) {
	s := NewStore(zerolog.Nop())

	durations := []uint64{10, 20, 30}
	for _, d := range durations {
		s.Record(0x1000, d)
	}

	st := s.GetStatsOrDefault(0x1000)
	if st.Count != 3 {
		t.Errorf("Expected count=3, got %d", st.Count)
	}
	if st.TotalNs != 60 {
		t.Errorf("Expected total=60, got %d", st.TotalNs)
	}
	if st.MinNs != 10 {
		t.Errorf("Expected min=10, got %d", st.MinNs)
	}
	if st.MaxNs != 30 {
		t.Errorf("Expected max=30, got %d", st.MaxNs)
	}
	if st.AverageNs() != 20 {
		t.Errorf("Expected average=20, got %d", st.AverageNs())
	}
}

func TestStore_MinIsNotStuckAtZero(t *testing.T) {
	s := NewStore(zerolog.Nop())

	// First recorded duration must seed min, not compare against zero.
	s.Record(0x1000, 500)
	s.Record(0x1000, 200)

	st := s.GetStatsOrDefault(0x1000)
	if st.MinNs != 200 {
		t.Errorf("Expected min=200, got %d", st.MinNs)
	}
	if st.MaxNs != 500 {
		t.Errorf("Expected max=500, got %d", st.MaxNs)
	}
}

func TestStore_GetStatsOrDefault_NoData(t *testing.T) {
	s := NewStore(zerolog.Nop())

	st := s.GetStatsOrDefault(0xdead)
	if st.Count != 0 || st.TotalNs != 0 || st.MinNs != 0 || st.MaxNs != 0 {
		t.Errorf("Expected zero-valued record, got %+v", st)
	}
	if st.AverageNs() != 0 {
		t.Errorf("Expected average=0 for empty record, got %d", st.AverageNs())
	}
}

func TestStore_Reset(t *testing.T) {
	s := NewStore(zerolog.Nop())

	s.Record(0x1000, 10)
	s.Record(0x2000, 20)
	if s.Len() != 2 {
		t.Fatalf("Expected 2 tracked functions, got %d", s.Len())
	}

	s.Reset()

	if s.Len() != 0 {
		t.Errorf("Expected empty store after reset, got %d entries", s.Len())
	}
	st := s.GetStatsOrDefault(0x1000)
	if st.Count != 0 {
		t.Errorf("Expected zero record after reset, got count=%d", st.Count)
	}
}

func TestStore_Addresses(t *testing.T) {
	s := NewStore(zerolog.Nop())

	s.Record(0x1000, 1)
	s.Record(0x2000, 1)
	s.Record(0x1000, 1)

	addrs := s.Addresses()
	if len(addrs) != 2 {
		t.Errorf("Expected 2 addresses, got %d", len(addrs))
	}
}
