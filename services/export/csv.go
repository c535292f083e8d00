// Package export renders already-expanded schedule instances. It never
// interprets recurrence rules itself; callers hand it the expander's flat
// output.
package export

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/kien-ship-it/event-matcher-sub000/models"
)

// WriteCSV renders instances as CSV with a header row.
func WriteCSV(w io.Writer, instances []models.ExpandedInstance) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "originId", "start", "end"}); err != nil {
		return err
	}
	for _, inst := range instances {
		record := []string{
			inst.ID,
			inst.OriginID,
			inst.Start.UTC().Format(time.RFC3339),
			inst.End.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
