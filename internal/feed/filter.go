package feed

// IsCurrentOrFuture reports whether an event's date window reaches today or
// later. Both sides are compared as YYYY-MM-DD strings, which sort
// lexicographically in chronological order; no instant parsing happens here,
// so a UTC date-boundary crossing can never shift the comparison.
func IsCurrentOrFuture(startDate string, endDate *string, today string) bool {
	if startDate >= today {
		return true
	}
	return endDate != nil && *endDate >= today
}
