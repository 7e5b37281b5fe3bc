package utils

import (
	"encoding/base64"
	"strconv"
	"strings"
)

const kenyaCountryCode = "254"

// NormalizePhone rewrites a local number ("07...") to the international
// form Daraja expects ("2547..."). Anything else is returned unchanged.
func NormalizePhone(phone string) string {
	if strings.HasPrefix(phone, "0") {
		return kenyaCountryCode + phone[1:]
	}
	return phone
}

// JoinSeats renders seat numbers as a comma separated list of decimals.
func JoinSeats(seats []int) string {
	parts := make([]string, 0, len(seats))
	for _, s := range seats {
		parts = append(parts, strconv.Itoa(s))
	}
	return strings.Join(parts, ",")
}

// SplitSeats parses the stored comma separated seat list. Blank and
// non-numeric entries are skipped.
func SplitSeats(s string) []int {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var seats []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		seats = append(seats, n)
	}
	return seats
}

// StkPassword is base64(shortcode + passkey + timestamp).
func StkPassword(shortcode, passkey, timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(shortcode + passkey + timestamp))
}
