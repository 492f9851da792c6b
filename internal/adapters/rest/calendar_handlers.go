package rest

import (
	"net/http"
	"time"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
)

type CalendarHandlers struct {
	translator Translator
	now        func() time.Time
}

func NewCalendarHandlers(translator Translator) *CalendarHandlers {
	return &CalendarHandlers{translator: translator, now: time.Now}
}

// Hijri handles GET /api/v1/calendar/hijri?date=YYYY-MM-DD. Without a date
// it converts today.
func (h *CalendarHandlers) Hijri(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = h.now().Format(time.DateOnly)
	}
	hijri, err := domain.ParseGregorianToHijri(date)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	lang := h.translator.LanguageOf(r)
	RespondWithJSON(w, http.StatusOK, HijriResponse{
		Gregorian: date,
		Year:      hijri.Year,
		Month:     hijri.Month,
		Day:       hijri.Day,
		MonthName: hijri.MonthName(lang),
		Formatted: hijri.Format(lang),
	})
}
