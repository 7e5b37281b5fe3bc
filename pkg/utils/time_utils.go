package utils

import "time"

// Daraja expects timestamps in East Africa Time (+03:00).
var eatLoc = func() *time.Location {
	if loc, err := time.LoadLocation("Africa/Nairobi"); err == nil {
		return loc
	}
	return time.FixedZone("EAT", 3*3600)
}()

const DarajaTimestampLayout = "20060102150405"

// DarajaTimestamp formats t as YYYYMMDDHHmmss in Nairobi time.
func DarajaTimestamp(t time.Time) string {
	return t.In(eatLoc).Format(DarajaTimestampLayout)
}

// ParseDarajaTimestamp is the inverse of DarajaTimestamp. Callback
// TransactionDate values use the same layout.
func ParseDarajaTimestamp(s string) (time.Time, error) {
	return time.ParseInLocation(DarajaTimestampLayout, s, eatLoc)
}

func NowUnixSeconds() int64 { return time.Now().Unix() }
