package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/kien-ship-it/event-matcher-sub000/models"
)

// FeedResult carries the busy blocks parsed from one external calendar feed
// plus warnings for events that could not be mapped.
type FeedResult struct {
	Blocks   []models.BusyBlock
	Warnings []string
}

// FeedFetcher downloads and parses external ICS calendars into busy blocks.
type FeedFetcher struct {
	Client *http.Client
}

// NewFeedFetcher constructs a fetcher with a 15-second request timeout.
func NewFeedFetcher() *FeedFetcher {
	return &FeedFetcher{Client: &http.Client{Timeout: 15 * time.Second}}
}

// Fetch downloads one ICS feed and converts it.
func (f *FeedFetcher) Fetch(ctx context.Context, sourceID, url string, participantIDs []string) (FeedResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return FeedResult{}, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return FeedResult{}, fmt.Errorf("failed to fetch feed %s: %w", sourceID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return FeedResult{}, fmt.Errorf("feed %s returned status %d", sourceID, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return FeedResult{}, err
	}
	return ParseBusyFeed(sourceID, body, participantIDs)
}

// ParseBusyFeed converts raw ICS bytes into busy blocks attributed to the
// given participants. Events the engine cannot represent (unsupported
// frequencies, missing times) are skipped with a warning rather than
// failing the whole feed.
func ParseBusyFeed(sourceID string, data []byte, participantIDs []string) (FeedResult, error) {
	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	if err != nil {
		return FeedResult{}, fmt.Errorf("failed to decode feed %s: %w", sourceID, err)
	}

	var result FeedResult
	for _, comp := range cal.Children {
		if comp.Name != ical.CompEvent {
			continue
		}
		block, warn := eventToBusyBlock(sourceID, comp, participantIDs)
		if warn != "" {
			result.Warnings = append(result.Warnings, warn)
			continue
		}
		result.Blocks = append(result.Blocks, *block)
	}
	return result, nil
}

func eventToBusyBlock(sourceID string, comp *ical.Component, participantIDs []string) (*models.BusyBlock, string) {
	uid := propValue(comp, ical.PropUID)
	if uid == "" {
		return nil, fmt.Sprintf("feed %s: event without UID skipped", sourceID)
	}

	start, err := comp.Props.DateTime(ical.PropDateTimeStart, time.UTC)
	if err != nil {
		return nil, fmt.Sprintf("feed %s: event %s has no usable DTSTART", sourceID, uid)
	}
	end, err := comp.Props.DateTime(ical.PropDateTimeEnd, time.UTC)
	if err != nil || !end.After(start) {
		// DTEND is optional; fall back to a one-hour block.
		end = start.Add(time.Hour)
	}

	rule := models.RecurrenceRule{Kind: models.RecurrenceNone}
	if rruleProp := comp.Props.Get(ical.PropRecurrenceRule); rruleProp != nil && rruleProp.Value != "" {
		rule, err = RuleFromRRule(rruleProp.Value, exceptionDates(comp))
		if err != nil {
			return nil, fmt.Sprintf("feed %s: event %s: %v", sourceID, uid, err)
		}
	}

	return &models.BusyBlock{
		TimeSlot: models.TimeSlot{
			ID:    fmt.Sprintf("%s:%s", sourceID, uid),
			Start: start.UTC(),
			End:   end.UTC(),
			Rule:  rule,
		},
		Title:          propValue(comp, ical.PropSummary),
		ParticipantIDs: participantIDs,
		Source:         sourceID,
	}, ""
}

// exceptionDates collects every EXDATE entry of the event. Both date-only
// and date-time values are truncated to calendar dates downstream.
func exceptionDates(comp *ical.Component) []time.Time {
	var out []time.Time
	for _, prop := range comp.Props[ical.PropExceptionDates] {
		for _, raw := range strings.Split(prop.Value, ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			if t, err := parseICSTime(raw); err == nil {
				out = append(out, t)
			}
		}
	}
	return out
}

func parseICSTime(raw string) (time.Time, error) {
	for _, layout := range []string{"20060102T150405Z", "20060102T150405", "20060102"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

func propValue(comp *ical.Component, name string) string {
	if prop := comp.Props.Get(name); prop != nil {
		return prop.Value
	}
	return ""
}
