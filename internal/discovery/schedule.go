package discovery

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// parseClock normalizes the two clock grammars found in stored schedules:
//
//	24-hour:  "14:30", "09:05"
//	12-hour:  "2:30 PM", "11:00 pm", "12:05 AM"
//
// The meridiem, when present, must start with 'a' or 'p' (case-insensitive).
// Anything else is an unparseable entry.
func parseClock(s string) (hour, minute int, err error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 || len(fields) > 2 {
		return 0, 0, fmt.Errorf("unparseable clock %q", s)
	}

	parts := strings.Split(fields[0], ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("unparseable clock %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("unparseable clock %q: %v", s, err)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("unparseable clock %q: %v", s, err)
	}

	if len(fields) == 2 {
		meridiem := strings.ToLower(fields[1])
		switch {
		case strings.HasPrefix(meridiem, "p"):
			if hour < 12 {
				hour += 12
			}
		case strings.HasPrefix(meridiem, "a"):
			if hour == 12 {
				hour = 0
			}
		default:
			return 0, 0, fmt.Errorf("unparseable meridiem %q", s)
		}
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("clock %q out of range", s)
	}
	return hour, minute, nil
}

// EndInstant combines a schedule entry's date and end time into a single
// instant in the server's local timezone.
func EndInstant(s Schedule) (time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, s.Date, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable date %q: %v", s.Date, err)
	}
	hour, minute, err := parseClock(s.EndTime)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.Local), nil
}

// IsEventOpen reports whether an event is still attendable at the given
// instant. Open-ended events are always open. Dated events are open when at
// least one schedule entry ends strictly after now.
//
// A malformed entry is a data-quality problem, not a reason to abort: it is
// logged and excluded from eligibility, so an event whose every entry is
// malformed comes out closed rather than permanently shown.
func IsEventOpen(e EventRecord, now time.Time) bool {
	if e.IsOpenEnded {
		return true
	}
	for _, s := range e.Schedules {
		end, err := EndInstant(s)
		if err != nil {
			log.Printf("⚠️ event %d: skipping malformed schedule entry (%s / %s): %v", e.ID, s.Date, s.EndTime, err)
			continue
		}
		if end.After(now) {
			return true
		}
	}
	return false
}
