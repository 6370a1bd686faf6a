package nlu

import (
	"math"
	"regexp"
	"strings"

	"staybot/models"
	"staybot/utils"

	"go.uber.org/zap"
)

// Result is the classifier's verdict for one message.
type Result struct {
	Category Category `json:"category"`
	Score    float64  `json:"score"`
}

// Context carries the conversational signals the classifier consults when a
// message is ambiguous or a topic was already answered in recent turns.
type Context struct {
	RecentMessages []models.ChatTurnMessage
	// ClientQueryPresent reports whether the frontend sent live widget state
	// at all; with it present, an empty ClientRoom means the visitor cleared
	// the room selection.
	ClientQueryPresent           bool
	ClientRoom                   string
	SessionRoom                  string
	SessionConfirmedAvailability bool
	AvailableRooms               []models.RoomCandidate
}

// Classifier maps a message to exactly one Category. It never fails: any
// message it cannot place lands in CategoryGeneral.
type Classifier struct {
	logger *zap.Logger
}

func NewClassifier() *Classifier {
	return &Classifier{logger: utils.GetLogger().Named("classifier")}
}

// Keyword lists steering the boosted scoring regimes.
var (
	priceScoreKeywords = []string{"precio", "costo", "tarifa", "cuanto", "cuánto", "valor", "importe", "sale", "abonar", "pagar"}
	serviceKeywords    = []string{"servicios", "comodidades", "amenities", "instalaciones", "facilidades"}
	bookingScoreWords  = []string{"reservar", "reserva", "quiero", "me interesa", "proceder", "confirmar", "asegurar", "apartar"}

	// bookingKeywords drive the conversational-suppression boost.
	bookingKeywords = []string{"reservar", "reserva", "quiero", "me interesa", "proceder", "confirmar"}

	// priceFallbackKeywords force pricing when everything else fell through.
	priceFallbackKeywords = []string{"precio", "costo", "tarifa", "cuanto", "cuánto", "valor", "importe", "sale", "abonar", "pagar", "cobran", "dinero"}
)

// Topic keywords for the "already answered" heuristic: two or more of them in
// the last assistant messages mark the topic as handled.
var topicKeywords = map[Category][]string{
	CategoryAvailability: {"disponible", "disponibilidad", "habitaciones disponibles", "suites disponibles", "lugar", "libre"},
	CategoryPricing:      {"precio", "cuesta", "costo", "tarifa", "ars", "$", "pesos", "importe"},
}

// Classify evaluates every category's pattern table against the message and
// returns the winning category with its score.
func (c *Classifier) Classify(message string, params models.QueryParameters, cctx Context) Result {
	lower := strings.ToLower(strings.TrimSpace(message))

	// A bare numeric reply to a pending guest-count question skips scoring.
	if params.InterceptedGuestReply {
		return Result{Category: CategoryReservationProcess, Score: 1}
	}

	// Conversational suppression: topics already answered in recent assistant
	// turns are excluded unless the message brings fresh dates.
	excluded := map[Category]bool{}
	freshDates := HasDateExpression(lower)
	for topic, keywords := range topicKeywords {
		if topicAnswered(cctx.RecentMessages, keywords) && !freshDates {
			excluded[topic] = true
			c.logger.Debug("suppressing answered topic", zap.String("category", string(topic)))
		}
	}
	prioritizeReservation := len(excluded) > 0

	scores := map[Category]float64{}
	for _, cat := range categoryOrder {
		if excluded[cat] {
			continue
		}
		if s := scoreCategory(lower, categoryPatterns[cat]); s > 0 {
			scores[cat] = s
		}
	}

	if len(scores) == 0 {
		if prioritizeReservation && containsAny(lower, bookingKeywords) {
			return Result{Category: CategoryReservationProcess, Score: 0.3}
		}
		return Result{Category: CategoryGeneral, Score: 0}
	}

	if prioritizeReservation && containsAny(lower, bookingKeywords) {
		if s, ok := scores[CategoryReservationProcess]; ok {
			scores[CategoryReservationProcess] = math.Min(s+0.3, 1.0)
		}
	}

	best := bestCategory(scores)
	score := scores[best]

	switch {
	case (best == CategoryLodgingServices || best == CategoryRoomServices) && score >= 0.4:
		return Result{Category: best, Score: score}
	case best == CategoryPricing && score >= 0.15:
		return Result{Category: best, Score: score}
	case score >= 0.3:
		return Result{Category: best, Score: score}
	}

	// Ambiguous: resolve scope from context before giving up.
	if cat, ok := resolveAmbiguousService(lower, cctx); ok {
		return Result{Category: cat, Score: score}
	}
	if containsAny(lower, priceFallbackKeywords) {
		return Result{Category: CategoryPricing, Score: score}
	}
	return Result{Category: CategoryGeneral, Score: score}
}

// bestCategory picks the max-scoring category; on a tie the reservation flow
// wins unconditionally, otherwise the earliest category in evaluation order.
func bestCategory(scores map[Category]float64) Category {
	best := CategoryGeneral
	max := 0.0
	for _, cat := range categoryOrder {
		s, ok := scores[cat]
		if !ok {
			continue
		}
		if s > max {
			max, best = s, cat
		}
	}
	if s, ok := scores[CategoryReservationProcess]; ok && s == max {
		best = CategoryReservationProcess
	}
	return best
}

// scoreCategory computes the match score of one pattern table. Messages
// carrying pricing, service or booking vocabulary use a boosted regime that
// resists dilution from long sentences; everything else normalizes raw match
// count by word count.
func scoreCategory(lower string, patterns []*regexp.Regexp) float64 {
	totalMatches := 0
	distinct := 0
	for _, re := range patterns {
		if n := len(re.FindAllString(lower, -1)); n > 0 {
			totalMatches += n
			distinct++
		}
	}
	words := len(strings.Fields(lower))
	if words == 0 {
		return 0
	}
	if totalMatches > 0 {
		switch {
		case containsAny(lower, priceScoreKeywords):
			return boostedScore(0.8, distinct, 0.1, 0.2, words, 0.05, 0.7)
		case containsAny(lower, serviceKeywords):
			return boostedScore(0.6, distinct, 0.15, 0.3, words, 0.02, 0.8)
		case containsAny(lower, bookingScoreWords):
			return boostedScore(0.7, distinct, 0.2, 0.3, words, 0.01, 0.85)
		}
	}
	return math.Min(float64(totalMatches)/float64(words), 1.0)
}

func boostedScore(base float64, distinct int, bonusStep, bonusCap float64, words int, decay, floor float64) float64 {
	bonus := math.Min(float64(distinct)*bonusStep, bonusCap)
	lengthFactor := math.Max(floor, 1.0-float64(words)*decay)
	return math.Min((base+bonus)*lengthFactor, 1.0)
}

// topicAnswered reports whether any assistant message in the window contains
// at least two of the topic's keywords.
func topicAnswered(messages []models.ChatTurnMessage, keywords []string) bool {
	for _, msg := range messages {
		if msg.Role != "assistant" || msg.Message == "" {
			continue
		}
		content := strings.ToLower(msg.Message)
		hits := 0
		for _, kw := range keywords {
			if strings.Contains(content, kw) {
				hits++
			}
		}
		if hits >= 2 {
			return true
		}
	}
	return false
}

// Ambiguous "what does it include"-style phrasing, without an explicit
// lodging-wide scope. RE2 has no lookaheads, so the scope exclusion is a
// separate check.
var (
	ambiguousServicePatterns = compileAll(
		`servicios?`,
		`que.*tiene`,
		`cuenta\s+con`,
		`incluye`,
		`comodidades?`,
		`amenities`,
	)
	scopedServicePattern = regexp.MustCompile(`(?i)(del|el|la)\s+(hospedaje|hotel|lugar|estad[ií]a)|generales|comunes`)
)

func isAmbiguousServiceQuery(lower string) bool {
	if scopedServicePattern.MatchString(lower) {
		return false
	}
	for _, re := range ambiguousServicePatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// resolveAmbiguousService decides between room-scoped and lodging-scoped
// services for vague queries, walking a fixed priority chain: live client
// widget state, recent assistant messages naming a room, session memory,
// a singleton availability set, lodging-wide default.
func resolveAmbiguousService(lower string, cctx Context) (Category, bool) {
	if containsAny(lower, priceFallbackKeywords) {
		return "", false
	}
	if !isAmbiguousServiceQuery(lower) {
		return "", false
	}
	if cctx.ClientQueryPresent {
		if cctx.ClientRoom == "" {
			return CategoryLodgingServices, true
		}
		return CategoryRoomServices, true
	}
	for _, msg := range cctx.RecentMessages {
		if msg.Role != "assistant" {
			continue
		}
		content := strings.ToLower(msg.Message)
		if containsAny(content, []string{"suite", "habitación", "cuarto", "room"}) {
			return CategoryRoomServices, true
		}
	}
	if cctx.SessionRoom != "" || cctx.SessionConfirmedAvailability {
		return CategoryRoomServices, true
	}
	if len(cctx.AvailableRooms) == 1 {
		return CategoryRoomServices, true
	}
	return CategoryLodgingServices, true
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
