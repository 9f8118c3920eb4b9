package document

import "time"

// timeFields derives searchable metadata from the ingestion time, so that
// queries like "article read last sunday evening" have something to match.
func timeFields(t time.Time) map[string]any {
	weekday := map[time.Weekday]string{
		time.Monday:    "monday",
		time.Tuesday:   "tuesday",
		time.Wednesday: "wednesday",
		time.Thursday:  "thursday",
		time.Friday:    "friday",
		time.Saturday:  "saturday",
		time.Sunday:    "sunday",
	}[t.Weekday()]

	month := map[time.Month]string{
		time.January:   "january",
		time.February:  "february",
		time.March:     "march",
		time.April:     "april",
		time.May:       "may",
		time.June:      "june",
		time.July:      "july",
		time.August:    "august",
		time.September: "september",
		time.October:   "october",
		time.November:  "november",
		time.December:  "december",
	}[t.Month()]

	var daypart string
	switch hour := t.Hour(); {
	case hour >= 6 && hour <= 11:
		daypart = "morning"
	case hour >= 12 && hour <= 13:
		daypart = "noon"
	case hour >= 14 && hour <= 17:
		daypart = "afternoon"
	case hour >= 18 && hour <= 22:
		daypart = "evening"
	default:
		daypart = "night"
	}

	var season string
	switch t.Month() {
	case time.March, time.April, time.May:
		season = "spring"
	case time.June, time.July, time.August:
		season = "summer"
	case time.September, time.October, time.November:
		season = "autumn"
	default:
		season = "winter"
	}

	return map[string]any{
		"weekday": weekday,
		"month":   month,
		"daypart": daypart,
		"season":  season,
	}
}
