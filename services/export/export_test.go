package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kien-ship-it/event-matcher-sub000/models"
)

func sampleInstances() []models.ExpandedInstance {
	return []models.ExpandedInstance{
		{
			ID:       "slot-1-2025-01-06T09:00:00Z",
			OriginID: "slot-1",
			Start:    time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC),
			End:      time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:       "slot-1-2025-01-13T09:00:00Z",
			OriginID: "slot-1",
			Start:    time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC),
			End:      time.Date(2025, 1, 13, 10, 0, 0, 0, time.UTC),
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleInstances()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"id", "originId", "start", "end"}, records[0])
	assert.Equal(t, "slot-1", records[1][1])
	assert.Equal(t, "2025-01-06T09:00:00Z", records[1][2])
	assert.Equal(t, "2025-01-13T10:00:00Z", records[2][3])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "id,originId,start,end\n", buf.String())
}

func TestICSWriter(t *testing.T) {
	iw := NewICSWriter("Team schedule")
	iw.Now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }

	var buf bytes.Buffer
	require.NoError(t, iw.Write(&buf, sampleInstances()))
	out := buf.String()

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "X-WR-CALNAME:Team schedule")
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "UID:slot-1-2025-01-06T09:00:00Z")
	assert.Contains(t, out, "DTSTART:20250106T090000Z")
	// Flattened occurrences only; the exporter must never re-emit recurrence.
	assert.NotContains(t, out, "RRULE")
}
