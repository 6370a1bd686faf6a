package nlu

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"staybot/models"
)

// Extractor pulls dates, quantities and monthly markers out of Spanish
// free-text messages. It raises no errors: unparseable fragments are skipped.
type Extractor struct {
	now func() time.Time

	datePatterns    []datePattern
	numberPatterns  []numberPattern
	monthlyPatterns []monthlyPattern
}

// datePattern is one entry of the ordered parsing cascade: the first entry
// whose parser yields dates wins and extraction stops, so a phrase already
// consumed by a strict pattern is never re-split by a looser one further down.
type datePattern struct {
	re    *regexp.Regexp
	parse func(e *Extractor, groups []string) []string
	// monthlyFlag entries contribute no explicit date but mark the monthly
	// path and still terminate the cascade.
	monthlyFlag bool
}

type numberPattern struct {
	re    *regexp.Regexp
	apply func(p *models.QueryParameters, n int)
}

type monthlyPattern struct {
	re    *regexp.Regexp
	parse func(e *Extractor, groups []string) []string
}

// Spanish month names, full plus 3-letter abbreviations.
var spanishMonths = map[string]int{
	"enero": 1, "febrero": 2, "marzo": 3, "abril": 4,
	"mayo": 5, "junio": 6, "julio": 7, "agosto": 8,
	"septiembre": 9, "octubre": 10, "noviembre": 11, "diciembre": 12,
	"ene": 1, "feb": 2, "mar": 3, "abr": 4,
	"may": 5, "jun": 6, "jul": 7, "ago": 8,
	"sep": 9, "oct": 10, "nov": 11, "dic": 12,
}

// Simple date expressions used to decide whether a message re-opens an
// already-answered topic.
var freshDatePatterns = compileAll(
	`\d{1,2}[-/]\d{1,2}[-/]\d{2,4}`,
	`\d{1,2}\s+de\s+\p{L}+`,
	`\p{L}+\s+\d{1,2}`,
	`mañana|hoy|pasado mañana`,
	`próxim[ao]\s+\p{L}+`,
)

// HasDateExpression reports whether the message contains any date-like
// phrasing at all.
func HasDateExpression(message string) bool {
	lower := strings.ToLower(message)
	for _, re := range freshDatePatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

func NewExtractor() *Extractor {
	e := &Extractor{now: time.Now}

	// RE2 has no lookaheads, so the original guards ("not followed by de/a
	// qualifier/another digit") are expressed as optional trailing capture
	// groups the parsers reject on.
	e.datePatterns = []datePattern{
		// Day ranges with an explicit month name.
		{re: regexp.MustCompile(`(?i)del\s+(\d{1,2})\s+al\s+(\d{1,2})\s+de\s+(\p{L}+)`), parse: (*Extractor).parseRangeMonth},
		{re: regexp.MustCompile(`(?i)desde\s+(\d{1,2})\s+hasta\s+(\d{1,2})\s+de\s+(\p{L}+)`), parse: (*Extractor).parseRangeMonth},
		{re: regexp.MustCompile(`(?i)entre\s+(\d{1,2})\s+y\s+(\d{1,2})\s+de\s+(\p{L}+)`), parse: (*Extractor).parseRangeMonth},
		// Numeric D/M/Y or D-M-Y.
		{re: regexp.MustCompile(`(\d{1,2})[/\-](\d{1,2})[/\-](\d{2,4})`), parse: (*Extractor).parseDMY},
		// Single day with month name.
		{re: regexp.MustCompile(`(?i)(\d{1,2})\s+de\s+(\p{L}+)`), parse: (*Extractor).parseDayMonth},
		// Day ranges without a month: assume the current month unless the
		// range is actually followed by "de <month>".
		{re: regexp.MustCompile(`(?i)del\s+(\d{1,2})\s+al\s+(\d{1,2})(\s+de)?`), parse: (*Extractor).parseRangeCurrentMonth},
		{re: regexp.MustCompile(`(?i)desde\s+(\d{1,2})\s+hasta\s+(\d{1,2})(\s+de)?`), parse: (*Extractor).parseRangeCurrentMonth},
		{re: regexp.MustCompile(`(?i)(\d{1,2})\s+al\s+(\d{1,2})(\s+de)?`), parse: (*Extractor).parseRangeCurrentMonth},
		// "el D": current month; reject a third digit or a trailing month.
		{re: regexp.MustCompile(`(?i)el\s+(\d{1,2})(\d|\s+de\s+\p{L}+)?`), parse: (*Extractor).parseGuardedSingleDay},
		// Bare 1-2 digit number: current month; rejected when followed by a
		// quantity qualifier so "6 personas" is not read as day 6.
		{re: regexp.MustCompile(`(?i)\b(\d{1,2})(\s*(?:de\b|al\b|/|\-|\d|personas?|huéspedes?|noches?|días?|habitaciones?))?`), parse: (*Extractor).parseGuardedSingleDay},
		// "este mes" flags the monthly path without contributing a date.
		{re: regexp.MustCompile(`(?i)este\s+mes`), monthlyFlag: true},
		// "este fin de semana": upcoming Friday through Sunday.
		{re: regexp.MustCompile(`(?i)este\s+(?:fin\s+de\s+semana|finde)`), parse: (*Extractor).parseThisWeekend},
	}

	e.numberPatterns = []numberPattern{
		{regexp.MustCompile(`(?i)(\d+)\s*personas?`), func(p *models.QueryParameters, n int) { p.Guests = n }},
		{regexp.MustCompile(`(?i)(\d+)\s*huéspedes?`), func(p *models.QueryParameters, n int) { p.Guests = n }},
		{regexp.MustCompile(`(?i)(\d+)\s*noches?`), func(p *models.QueryParameters, n int) { p.Nights = n }},
		{regexp.MustCompile(`(?i)(\d+)\s*días?`), func(p *models.QueryParameters, n int) { p.Days = n }},
		{regexp.MustCompile(`(?i)(\d+)\s*habitaciones?`), func(p *models.QueryParameters, n int) { p.Rooms = n }},
	}

	e.monthlyPatterns = []monthlyPattern{
		{regexp.MustCompile(`(?i)este\s+mes`), (*Extractor).parseCurrentMonthly},
		{regexp.MustCompile(`(?i)(?:en|para|durante)\s+este\s+mes`), (*Extractor).parseCurrentMonthly},
		{regexp.MustCompile(`(?i)en\s+el\s+mes\s+de\s+(\p{L}+)`), (*Extractor).parseSingleMonth},
		{regexp.MustCompile(`(?i)(?:en|para|durante)\s+(\p{L}+)`), (*Extractor).parseSingleMonth},
		{regexp.MustCompile(`(?i)(\p{L}+)(?:\s*,\s*(\p{L}+))*\s+y\s+(\p{L}+)`), (*Extractor).parseMonthList},
	}

	return e
}

// Extract produces the structured parameters for one message: the date
// cascade, the independent numeric-entity pass and the monthly pass.
func (e *Extractor) Extract(message string) models.QueryParameters {
	lower := strings.ToLower(strings.TrimSpace(message))
	params := models.QueryParameters{}

	var raw []string
	for _, dp := range e.datePatterns {
		if dp.monthlyFlag {
			if dp.re.MatchString(lower) {
				params.IsMonthlyQuery = true
				break
			}
			continue
		}
		for _, m := range dp.re.FindAllStringSubmatch(lower, -1) {
			raw = append(raw, dp.parse(e, m)...)
		}
		if len(raw) > 0 {
			break
		}
	}

	raw = dedupeSorted(raw)
	switch {
	case len(raw) == 1:
		params.HasDates = true
		params.SingleDate = raw[0]
	case len(raw) >= 2:
		params.HasDates = true
		params.CheckIn = raw[0]
		params.CheckOut = raw[1]
	}

	for _, np := range e.numberPatterns {
		for _, m := range np.re.FindAllStringSubmatch(lower, -1) {
			if n, err := strconv.Atoi(m[1]); err == nil {
				np.apply(&params, n)
			}
		}
	}

	var months []string
	for _, mp := range e.monthlyPatterns {
		for _, m := range mp.re.FindAllStringSubmatch(lower, -1) {
			months = append(months, mp.parse(e, m)...)
		}
	}
	months = dedupeKeepOrder(months)
	if len(months) > 0 {
		params.IsMonthlyQuery = true
		if len(months) == 1 {
			params.SingleMonth = months[0]
		} else {
			params.MultipleMonths = months
		}
	}

	return params
}

func (e *Extractor) parseDMY(groups []string) []string {
	day, _ := strconv.Atoi(groups[1])
	month, _ := strconv.Atoi(groups[2])
	year := groups[3]
	if len(year) == 2 {
		year = "20" + year
	}
	y, _ := strconv.Atoi(year)
	if date, ok := validDate(y, month, day); ok {
		return []string{date}
	}
	return nil
}

func (e *Extractor) parseDayMonth(groups []string) []string {
	day, _ := strconv.Atoi(groups[1])
	month, ok := spanishMonths[strings.ToLower(groups[2])]
	if !ok {
		return nil
	}
	if date, ok := validDate(e.now().Year(), month, day); ok {
		return []string{date}
	}
	return nil
}

func (e *Extractor) parseRangeMonth(groups []string) []string {
	start, _ := strconv.Atoi(groups[1])
	end, _ := strconv.Atoi(groups[2])
	month, ok := spanishMonths[strings.ToLower(groups[3])]
	if !ok {
		return nil
	}
	year := e.now().Year()
	from, ok1 := validDate(year, month, start)
	to, ok2 := validDate(year, month, end)
	if !ok1 || !ok2 {
		return nil
	}
	return []string{from, to}
}

func (e *Extractor) parseRangeCurrentMonth(groups []string) []string {
	if groups[3] != "" {
		// Followed by "de <month>"; the month-qualified patterns own it.
		return nil
	}
	start, _ := strconv.Atoi(groups[1])
	end, _ := strconv.Atoi(groups[2])
	now := e.now()
	from, ok1 := validDate(now.Year(), int(now.Month()), start)
	to, ok2 := validDate(now.Year(), int(now.Month()), end)
	if !ok1 || !ok2 {
		return nil
	}
	return []string{from, to}
}

func (e *Extractor) parseGuardedSingleDay(groups []string) []string {
	if groups[2] != "" {
		// Guard hit: part of a larger number, a numeric date, or a quantity
		// like "6 personas".
		return nil
	}
	day, _ := strconv.Atoi(groups[1])
	now := e.now()
	if date, ok := validDate(now.Year(), int(now.Month()), day); ok {
		return []string{date}
	}
	return nil
}

func (e *Extractor) parseThisWeekend(groups []string) []string {
	today := e.now()
	daysUntilFriday := (int(time.Friday) - int(today.Weekday()) + 7) % 7
	friday := today.AddDate(0, 0, daysUntilFriday)
	sunday := friday.AddDate(0, 0, 2)
	return []string{friday.Format("2006-01-02"), sunday.Format("2006-01-02")}
}

func (e *Extractor) parseCurrentMonthly(groups []string) []string {
	now := e.now()
	return []string{fmt.Sprintf("%04d-%02d", now.Year(), int(now.Month()))}
}

func (e *Extractor) parseSingleMonth(groups []string) []string {
	month, ok := spanishMonths[strings.ToLower(groups[1])]
	if !ok {
		return nil
	}
	return []string{fmt.Sprintf("%04d-%02d", e.now().Year(), month)}
}

func (e *Extractor) parseMonthList(groups []string) []string {
	var months []string
	for _, g := range groups[1:] {
		if g == "" {
			continue
		}
		if month, ok := spanishMonths[strings.ToLower(g)]; ok {
			months = append(months, fmt.Sprintf("%04d-%02d", e.now().Year(), month))
		}
	}
	return months
}

// validDate formats a Y-M-D triple, rejecting values the calendar normalizes
// away (day 32, month 13).
func validDate(year, month, day int) (string, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

func dedupeSorted(dates []string) []string {
	if len(dates) == 0 {
		return dates
	}
	seen := map[string]bool{}
	out := dates[:0]
	for _, d := range dates {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out
}

func dedupeKeepOrder(values []string) []string {
	if len(values) == 0 {
		return values
	}
	seen := map[string]bool{}
	out := values[:0]
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
