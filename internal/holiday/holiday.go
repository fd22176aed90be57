// Package holiday carries the Malaysian public-holiday table the
// calendar decorates its day cells with.
package holiday

import (
	"fmt"
	"time"
)

type Holiday struct {
	Date string `json:"date"` // MM-DD
	Name string `json:"name"`
}

// Malaysian public holidays 2025 (Penang observances included).
var Malaysia2025 = []Holiday{
	{Date: "01-01", Name: "New Year's Day"},
	{Date: "02-01", Name: "Thaipusam"},
	{Date: "02-02", Name: "Thaipusam (Observed)"},
	{Date: "02-17", Name: "Chinese New Year"},
	{Date: "02-18", Name: "Chinese New Year (2nd Day)"},
	{Date: "03-07", Name: "Nuzul Al-Quran"},
	{Date: "03-21", Name: "Hari Raya Aidilfitri"},
	{Date: "03-22", Name: "Hari Raya Aidilfitri (2nd Day)"},
	{Date: "03-23", Name: "Replacement Holiday (Raya)"},
	{Date: "05-01", Name: "Labour Day"},
	{Date: "05-27", Name: "Hari Raya Haji"},
	{Date: "05-31", Name: "Wesak Day"},
	{Date: "06-01", Name: "Agong's Birthday / Wesak Replacement"},
	{Date: "06-17", Name: "Awal Muharram"},
	{Date: "07-07", Name: "George Town World Heritage City Day"},
	{Date: "07-11", Name: "Governor of Penang's Birthday"},
	{Date: "08-25", Name: "Maulidur Rasul"},
	{Date: "08-31", Name: "National Day"},
	{Date: "09-16", Name: "Malaysia Day"},
	{Date: "11-08", Name: "Deepavali"},
	{Date: "11-09", Name: "Deepavali (Observed)"},
	{Date: "12-25", Name: "Christmas Day"},
}

// ForDate returns the holiday falling on the given day, if any.
func ForDate(t time.Time) (Holiday, bool) {
	monthDay := fmt.Sprintf("%02d-%02d", t.Month(), t.Day())
	for _, h := range Malaysia2025 {
		if h.Date == monthDay {
			return h, true
		}
	}
	return Holiday{}, false
}

func IsHoliday(t time.Time) bool {
	_, ok := ForDate(t)
	return ok
}
