package chat

import (
	"regexp"
	"strconv"
	"strings"

	"staybot/models"
)

// assembleContext merges the three per-turn sources into one view. Field
// precedence: current-message extraction first, then the frontend's live
// context, then persisted session memory. Fields merge independently, so a
// date from the client widget and a room from session memory coexist.
func assembleContext(conversationID string, params models.QueryParameters, clientCtx *models.ClientContext, mem *models.SessionMemory) *models.ConversationContext {
	ctx := &models.ConversationContext{
		ConversationID: conversationID,
		Params:         params,
		Memory:         mem,
	}

	var query *models.CurrentQuery
	if clientCtx != nil {
		ctx.RecentMessages = clientCtx.ConversationHistory
		query = clientCtx.CurrentQuery
	}

	if query != nil {
		ctx.SelectedRoomName = query.Room
		ctx.RoomCleared = query.RoomCleared
		ctx.ConfirmedAvailability = query.LastAvailability
	}

	// Dates.
	switch {
	case params.CheckIn != "" && params.CheckOut != "":
		ctx.ConfirmedDates = &models.DateRange{CheckIn: params.CheckIn, CheckOut: params.CheckOut}
	case params.SingleDate != "":
		ctx.ConfirmedDates = &models.DateRange{CheckIn: params.SingleDate, CheckOut: params.SingleDate}
	case query != nil && query.Dates != nil && (query.Dates.CheckIn != "" || query.Dates.SingleDate != ""):
		d := query.Dates
		if d.SingleDate != "" {
			ctx.ConfirmedDates = &models.DateRange{CheckIn: d.SingleDate, CheckOut: d.SingleDate}
		} else {
			ctx.ConfirmedDates = &models.DateRange{CheckIn: d.CheckIn, CheckOut: d.CheckOut}
		}
		ctx.Params.DatesInferred = true
	case mem != nil && mem.LastDates != nil:
		ctx.ConfirmedDates = mem.LastDates
		ctx.Params.DatesInferred = true
	}

	// Guests.
	switch {
	case params.Guests > 0:
		ctx.PendingGuests = params.Guests
	case query != nil && query.Guests > 0:
		ctx.PendingGuests = query.Guests
	case mem != nil && mem.LastGuests > 0:
		ctx.PendingGuests = mem.LastGuests
	}

	// Room: the client widget fills the gap; deeper recovery happens in
	// identifyRoom once the availability set is known.
	if ctx.SelectedRoomName == "" && mem != nil {
		ctx.SelectedRoomName = mem.LastRoom
	}

	return ctx
}

// Interest phrasing referencing a room in the visitor's own words.
var (
	interestPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)me\s+interesa\s+la\s+(?:suite|habitaci[oó]n)\s+([\p{L}\d][\p{L}\d ]*)`),
		regexp.MustCompile(`(?i)quiero\s+(?:reservar\s+)?la\s+(?:suite|habitaci[oó]n)\s+([\p{L}\d][\p{L}\d ]*)`),
		regexp.MustCompile(`(?i)reservar\s+la\s+(?:suite|habitaci[oó]n)\s+([\p{L}\d][\p{L}\d ]*)`),
	}
	backRefPattern = regexp.MustCompile(`(?i)\b(?:esa|esta|la|dicha)\s+(?:suite|habitaci[oó]n)\b`)

	// The interest capture is greedy; trailing date or guest phrasing gets
	// trimmed at the first connective so "la suite Martina del 11 al 14"
	// yields just "Martina".
	roomNameStop = regexp.MustCompile(`(?i)\s+(?:del|desde|entre|para|por|con|en|este|esta)\b.*$`)
)

// identifyRoom resolves which room the conversation is about. Priority:
// interest phrasing in the visitor's own messages (current message first), a
// back-reference to the assistant's last named room, the assistant naming a
// room, the client widget, session memory, and finally a singleton
// availability set. The explicit flag reports whether the room was named in
// the current message rather than inferred.
func identifyRoom(currentMsg string, recent []models.ChatTurnMessage, convCtx *models.ConversationContext, rooms []models.RoomCandidate) (models.RoomCandidate, bool, bool) {
	// (a) Interest phrasing, preferring the current message, then the
	// visitor's recent messages newest first.
	if room, ok := roomFromInterest(currentMsg, rooms); ok {
		return room, true, true
	}
	for i := len(recent) - 1; i >= 0; i-- {
		if recent[i].Role != "user" {
			continue
		}
		if room, ok := roomFromInterest(recent[i].Message, rooms); ok {
			return room, false, true
		}
	}

	// Back-reference ("esa suite") resolves against the assistant's most
	// recent message naming a room.
	if backRefPattern.MatchString(currentMsg) {
		if room, ok := roomFromAssistant(recent, rooms); ok {
			return room, false, true
		}
	}

	// (b) Assistant's most recent message naming a known room.
	if room, ok := roomFromAssistant(recent, rooms); ok {
		return room, false, true
	}

	// (c) Client widget / (d) session memory, both already merged into the
	// assembled context.
	if convCtx.SelectedRoomName != "" && !convCtx.RoomCleared {
		if room, ok := matchRoomName(convCtx.SelectedRoomName, rooms); ok {
			return room, false, true
		}
		return models.RoomCandidate{Name: convCtx.SelectedRoomName}, false, true
	}

	// (e) Singleton availability set.
	if len(rooms) == 1 {
		return rooms[0], false, true
	}

	return models.RoomCandidate{}, false, false
}

func roomFromInterest(message string, rooms []models.RoomCandidate) (models.RoomCandidate, bool) {
	for _, re := range interestPatterns {
		m := re.FindStringSubmatch(message)
		if m == nil {
			continue
		}
		candidate := strings.TrimSpace(roomNameStop.ReplaceAllString(m[1], ""))
		if room, ok := matchRoomName(candidate, rooms); ok {
			return room, true
		}
		// The phrase names a room the availability set doesn't know; carry
		// the name so downstream can still ask the backend about it.
		if candidate != "" {
			return models.RoomCandidate{Name: candidate}, true
		}
	}
	return models.RoomCandidate{}, false
}

func roomFromAssistant(recent []models.ChatTurnMessage, rooms []models.RoomCandidate) (models.RoomCandidate, bool) {
	for i := len(recent) - 1; i >= 0; i-- {
		if recent[i].Role != "assistant" {
			continue
		}
		content := strings.ToLower(recent[i].Message)
		for _, room := range rooms {
			if room.Name != "" && strings.Contains(content, strings.ToLower(room.Name)) {
				return room, true
			}
		}
	}
	return models.RoomCandidate{}, false
}

// matchRoomName matches case-insensitively: exact, then substring either
// way, then at least two shared significant tokens.
func matchRoomName(name string, rooms []models.RoomCandidate) (models.RoomCandidate, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return models.RoomCandidate{}, false
	}
	for _, room := range rooms {
		if strings.ToLower(room.Name) == needle {
			return room, true
		}
	}
	for _, room := range rooms {
		haystack := strings.ToLower(room.Name)
		if strings.Contains(haystack, needle) || strings.Contains(needle, haystack) {
			return room, true
		}
	}
	needleTokens := significantTokens(needle)
	for _, room := range rooms {
		shared := 0
		for _, t := range significantTokens(strings.ToLower(room.Name)) {
			for _, n := range needleTokens {
				if t == n {
					shared++
				}
			}
		}
		if shared >= 2 {
			return room, true
		}
	}
	return models.RoomCandidate{}, false
}

func significantTokens(s string) []string {
	var out []string
	for _, tok := range strings.Fields(s) {
		if len([]rune(tok)) > 3 {
			out = append(out, tok)
		}
	}
	return out
}

// Guest-count recovery from conversational phrasing.
var guestPhrasePattern = regexp.MustCompile(`(?i)(?:para|somos)\s+(\d{1,2})(?:\s*personas?)?`)

// recoverGuestsFromHistory scans the visitor's recent messages newest-first
// for "para N"/"somos N" phrasing.
func recoverGuestsFromHistory(recent []models.ChatTurnMessage) int {
	for i := len(recent) - 1; i >= 0; i-- {
		if recent[i].Role != "user" {
			continue
		}
		if m := guestPhrasePattern.FindStringSubmatch(recent[i].Message); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				return n
			}
		}
	}
	return 0
}

// Bot questions about group size, and the bare replies that answer them.
var (
	guestQuestionPattern = regexp.MustCompile(`(?i)cu[aá]nt[ao]s\s+(?:personas|hu[eé]spedes)|para\s+cu[aá]nt[ao]s`)
	bareGuestReplies     = []*regexp.Regexp{
		regexp.MustCompile(`^\s*(\d{1,2})\s*$`),
		regexp.MustCompile(`(?i)^\s*(?:somos|para)\s+(\d{1,2})\s*$`),
		regexp.MustCompile(`(?i)^\s*(\d{1,2})\s+personas?\s*$`),
	}
)

// interceptGuestReply recognizes a bare numeric answer to the assistant's
// pending guest-count question. Such turns skip normal extraction and force
// the reservation flow.
func interceptGuestReply(message string, recent []models.ChatTurnMessage) (int, bool) {
	var lastAssistant string
	for i := len(recent) - 1; i >= 0; i-- {
		if recent[i].Role == "assistant" {
			lastAssistant = recent[i].Message
			break
		}
	}
	if lastAssistant == "" || !guestQuestionPattern.MatchString(lastAssistant) {
		return 0, false
	}
	for _, re := range bareGuestReplies {
		if m := re.FindStringSubmatch(message); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				return n, true
			}
		}
	}
	return 0, false
}
