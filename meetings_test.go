package meetings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationBetween_FloorsAtFifteen(t *testing.T) {
	start := time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		end  time.Time
		want int
	}{
		{"one hour", start.Add(time.Hour), 60},
		{"exactly fifteen", start.Add(15 * time.Minute), 15},
		{"below floor", start.Add(5 * time.Minute), 15},
		{"zero window", start, 15},
		{"negative window", start.Add(-30 * time.Minute), 15},
		{"rounds to nearest minute", start.Add(29*time.Minute + 40*time.Second), 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DurationBetween(start, tt.end))
		})
	}
}

func TestResolveMeetingURL(t *testing.T) {
	now := time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)

	t.Run("video without explicit URL synthesizes one", func(t *testing.T) {
		url := ResolveMeetingURL(TypeVideo, "", now)
		assert.NotEmpty(t, url)
		assert.Equal(t, VideoRoomURL(now), url)
	})

	t.Run("explicit URL wins", func(t *testing.T) {
		url := ResolveMeetingURL(TypeVideo, "https://example.com/room", now)
		assert.Equal(t, "https://example.com/room", url)
	})

	t.Run("phone and in-person never synthesize", func(t *testing.T) {
		assert.Empty(t, ResolveMeetingURL(TypePhone, "", now))
		assert.Empty(t, ResolveMeetingURL(TypeInPerson, "", now))
	})
}

func TestSplitAttendees(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"two attendees", "a@x.com, b@x.com", []string{"a@x.com", "b@x.com"}},
		{"keeps order and duplicates", "b, a, b", []string{"b", "a", "b"}},
		{"drops empties", "a,,  ,b", []string{"a", "b"}},
		{"empty input", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitAttendees(tt.input))
		})
	}
}

func TestStatus_Terminal(t *testing.T) {
	assert.False(t, StatusUpcoming.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
}

func TestMeetingInput_Validate(t *testing.T) {
	valid := MeetingInput{
		Title: "Sync",
		Type:  TypeVideo,
		Date:  NewDate(2025, time.May, 1, time.UTC),
		Time:  "09:00",
	}
	require.NoError(t, valid.Validate())

	noTitle := valid
	noTitle.Title = "   "
	assert.Error(t, noTitle.Validate())

	badType := valid
	badType.Type = "carrier-pigeon"
	assert.Error(t, badType.Validate())

	badTime := valid
	badTime.Time = "9 o'clock"
	assert.Error(t, badTime.Validate())
}

func TestMeetingInput_StartsAt(t *testing.T) {
	in := MeetingInput{
		Date:            NewDate(2025, time.May, 1, time.UTC),
		Time:            "09:30",
		DurationMinutes: 45,
	}
	assert.Equal(t, time.Date(2025, time.May, 1, 9, 30, 0, 0, time.UTC), in.StartsAt())
	assert.Equal(t, time.Date(2025, time.May, 1, 10, 15, 0, 0, time.UTC), in.EndsAt())

	in.Time = "nonsense"
	assert.Equal(t, in.Date.Time, in.StartsAt(), "unparseable clock falls back to midnight")
}

func TestMeeting_DateAndClock(t *testing.T) {
	m := Meeting{StartsAt: time.Date(2025, time.May, 1, 14, 45, 0, 0, time.Local)}
	assert.Equal(t, "2025-05-01", m.Date().String())
	assert.Equal(t, "14:45", m.Clock())
}
