package export

import (
	"io"
	"time"

	"github.com/emersion/go-ical"

	"github.com/kien-ship-it/event-matcher-sub000/models"
)

// ICSWriter renders instances as an iCalendar document. Every instance
// becomes its own VEVENT; recurrence was already flattened by the expander,
// so no RRULEs are emitted.
type ICSWriter struct {
	CalendarName string
	Now          func() time.Time // injectable for deterministic DTSTAMPs
}

// NewICSWriter constructs a writer with wall-clock timestamps.
func NewICSWriter(name string) *ICSWriter {
	return &ICSWriter{CalendarName: name, Now: time.Now}
}

// Write encodes the instances into w.
func (iw *ICSWriter) Write(w io.Writer, instances []models.ExpandedInstance) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//event-matcher//schedule export//EN")
	if iw.CalendarName != "" {
		cal.Props.SetText("X-WR-CALNAME", iw.CalendarName)
	}

	stamp := iw.Now().UTC()
	for _, inst := range instances {
		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, inst.ID)
		event.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
		event.Props.SetDateTime(ical.PropDateTimeStart, inst.Start.UTC())
		event.Props.SetDateTime(ical.PropDateTimeEnd, inst.End.UTC())
		cal.Children = append(cal.Children, event.Component)
	}

	return ical.NewEncoder(w).Encode(cal)
}
