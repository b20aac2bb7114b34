package render

import "time"

// nowISO8601 formats the current instant per spec 4.D.1's "showTimestamps
// attaches an ISO-8601 timestamp field".
func nowISO8601() string {
	return time.Now().UTC().Format(time.RFC3339)
}
