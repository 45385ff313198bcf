// SPDX-License-Identifier: GPL-3.0-or-later

package bridge

import "time"

// parsePutTimestamp combines the message descriptor's put date (YYYYMMDD)
// and put time (HHMMSSTH, hundredths in the last two digits) into a UTC
// timestamp. Returns false when either field is absent or malformed; a
// message without a usable timestamp is still a valid message.
func parsePutTimestamp(putDate, putTime string) (time.Time, bool) {
	if len(putDate) != 8 || len(putTime) != 8 {
		return time.Time{}, false
	}
	year, ok1 := atoiField(putDate[0:4])
	month, ok2 := atoiField(putDate[4:6])
	day, ok3 := atoiField(putDate[6:8])
	hour, ok4 := atoiField(putTime[0:2])
	minute, ok5 := atoiField(putTime[2:4])
	second, ok6 := atoiField(putTime[4:6])
	hundredths, ok7 := atoiField(putTime[6:8])
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6 && ok7) {
		return time.Time{}, false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, hour, minute, second, hundredths*10_000_000, time.UTC), true
}

func atoiField(s string) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
