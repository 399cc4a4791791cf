package solarsync

import (
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want time.Time
		ok   bool
	}{
		{
			name: "rfc3339 with zone",
			in:   "2025-06-01T12:30:00Z",
			want: time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "python isoformat with microseconds, no zone",
			in:   "2025-06-01T12:30:00.123456",
			want: time.Date(2025, 6, 1, 12, 30, 0, 123456000, time.UTC),
			ok:   true,
		},
		{
			name: "iso without fraction or zone",
			in:   "2025-06-01T12:30:00",
			want: time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "space separated",
			in:   "2025-06-01 12:30:00",
			want: time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC),
			ok:   true,
		},
		{name: "garbage", in: "not-a-time", ok: false},
		{name: "empty", in: "", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseTimestamp(tc.in)
			if ok != tc.ok {
				t.Fatalf("ok: got %v, want %v", ok, tc.ok)
			}
			if ok && !got.Equal(tc.want) {
				t.Errorf("time: got %v, want %v", got, tc.want)
			}
		})
	}
}
