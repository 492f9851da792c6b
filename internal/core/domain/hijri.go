package domain

import (
	"fmt"
	"time"
)

// islamicEpoch is the Julian Day Number of 1 Muharram 1 AH in the civil tabular calendar.
const islamicEpoch = 1948440

var hijriMonthsAr = [12]string{
	"محرم", "صفر", "ربيع الأول", "ربيع الآخر", "جمادى الأولى", "جمادى الآخرة",
	"رجب", "شعبان", "رمضان", "شوال", "ذو القعدة", "ذو الحجة",
}

var hijriMonthsEn = [12]string{
	"Muharram", "Safar", "Rabi al-Awwal", "Rabi al-Thani", "Jumada al-Awwal", "Jumada al-Thani",
	"Rajab", "Shaban", "Ramadan", "Shawwal", "Dhu al-Qadah", "Dhu al-Hijjah",
}

// HijriDate is a date of the tabular Islamic calendar.
type HijriDate struct {
	Year  int
	Month int // 1..12
	Day   int
}

// ToHijri converts the calendar date of t (its own location) to the Hijri calendar.
func ToHijri(t time.Time) HijriDate {
	return hijriFromJDN(gregorianToJDN(t.Year(), int(t.Month()), t.Day()))
}

// ToGregorian converts a Hijri date to midnight UTC of the matching Gregorian day.
func ToGregorian(h HijriDate) time.Time {
	y, m, d := jdnToGregorian(hijriToJDN(h.Year, h.Month, h.Day))
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

// ParseGregorianToHijri accepts YYYY-MM-DD.
func ParseGregorianToHijri(date string) (HijriDate, error) {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return HijriDate{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidFieldValue)
	}
	return ToHijri(t), nil
}

// MonthName returns the month name in Arabic for "ar" and in English otherwise.
func (h HijriDate) MonthName(lang string) string {
	if h.Month < 1 || h.Month > 12 {
		return ""
	}
	if lang == "ar" {
		return hijriMonthsAr[h.Month-1]
	}
	return hijriMonthsEn[h.Month-1]
}

// Format renders e.g. "1 Ramadan 1445 AH" or "1 رمضان 1445 هـ".
func (h HijriDate) Format(lang string) string {
	if lang == "ar" {
		return fmt.Sprintf("%d %s %d هـ", h.Day, h.MonthName(lang), h.Year)
	}
	return fmt.Sprintf("%d %s %d AH", h.Day, h.MonthName(lang), h.Year)
}

func (h HijriDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", h.Year, h.Month, h.Day)
}

func gregorianToJDN(year, month, day int) int {
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3
	return day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}

func jdnToGregorian(jdn int) (year, month, day int) {
	a := jdn + 32044
	b := (4*a + 3) / 146097
	c := a - 146097*b/4
	d := (4*c + 3) / 1461
	e := c - 1461*d/4
	m := (5*e + 2) / 153
	day = e - (153*m+2)/5 + 1
	month = m + 3 - 12*(m/10)
	year = 100*b + d - 4800 + m/10
	return year, month, day
}

func hijriToJDN(year, month, day int) int {
	return day + ceilDiv(59*(month-1), 2) + (year-1)*354 + (3+11*year)/30 + islamicEpoch - 1
}

func hijriFromJDN(jdn int) HijriDate {
	year := (30*(jdn-islamicEpoch) + 10646) / 10631
	month := ceilDiv(2*(jdn-(29+hijriToJDN(year, 1, 1))), 59) + 1
	if month > 12 {
		month = 12
	}
	if month < 1 {
		month = 1
	}
	day := jdn - hijriToJDN(year, month, 1) + 1
	return HijriDate{Year: year, Month: month, Day: day}
}

// ceilDiv is ceil(a/b) for b > 0.
func ceilDiv(a, b int) int {
	if a <= 0 {
		return a / b
	}
	return (a + b - 1) / b
}
