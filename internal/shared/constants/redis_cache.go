package constants

import (
	"time"

	"ticketera/pkg/cache"
)

// Redis key layout: ticketera:{module}:{kind}:{identifier...}

// ================== CACHE TTL DURATIONS ==================

const (
	TTL_STATIC_LONG        = 24 * time.Hour
	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour
	TTL_DYNAMIC_SHORT      = 5 * time.Minute
)

const (
	CACHE_PREFIX = cache.Prefix
)

// ================== CATALOGUE ==================

const (
	CACHE_KEY_EVENT_DETAIL = CACHE_PREFIX + ":events:detail:uuid:"
	CACHE_KEY_VENUE_DETAIL = CACHE_PREFIX + ":venues:detail:uuid:"
	CACHE_KEY_ROUTE_DETAIL = CACHE_PREFIX + ":transport:route:uuid:"
	CACHE_KEY_SEARCH       = CACHE_PREFIX + ":search:catalogue"
	CACHE_KEY_SETTINGS     = CACHE_PREFIX + ":settings:all"
	CACHE_KEY_DASHBOARD    = CACHE_PREFIX + ":analytics:dashboard"
)

const (
	TTL_EVENT_DETAIL = TTL_SEMI_STATIC_MEDIUM
	TTL_VENUE_DETAIL = TTL_STATIC_LONG
	TTL_ROUTE_DETAIL = TTL_SEMI_STATIC_MEDIUM
	TTL_SETTINGS     = TTL_STATIC_LONG
	TTL_DASHBOARD    = TTL_DYNAMIC_SHORT
)

// ================== SEAT RESERVATIONS ==================

const (
	KEY_SEAT_HOLD      = CACHE_PREFIX + ":seats:hold:"      // + event-id:seat-id -> user-id
	KEY_SEAT_SELECTION = CACHE_PREFIX + ":seats:selection:" // + event-id:user-id -> set of seat-ids
)

// ================== PAYMENTS ==================

const (
	KEY_PAYMENT_SESSION = CACHE_PREFIX + ":payments:session:"   // + payment-id
	KEY_PAYMENT_WEBHOOK = CACHE_PREFIX + ":payments:webhook:"   // + provider event id
	KEY_PAYMENT_BY_REF  = CACHE_PREFIX + ":payments:reference:" // + QR reference -> payment-id
	TTL_WEBHOOK_DEDUPE  = 24 * time.Hour
)

// ================== INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_EVENT_ALL     = CACHE_PREFIX + ":events:*"
	PATTERN_INVALIDATE_TRANSPORT_ALL = CACHE_PREFIX + ":transport:*"
)

// ================== HELPER FUNCTIONS ==================

func BuildEventDetailKey(eventID string) string {
	return CACHE_KEY_EVENT_DETAIL + eventID
}

func BuildVenueDetailKey(venueID string) string {
	return CACHE_KEY_VENUE_DETAIL + venueID
}

func BuildRouteDetailKey(routeID string) string {
	return CACHE_KEY_ROUTE_DETAIL + routeID
}

func BuildSeatHoldKey(eventID, seatID string) string {
	return KEY_SEAT_HOLD + eventID + ":" + seatID
}

func BuildSeatSelectionKey(eventID, userID string) string {
	return KEY_SEAT_SELECTION + eventID + ":" + userID
}

func BuildPaymentSessionKey(paymentID string) string {
	return KEY_PAYMENT_SESSION + paymentID
}

func BuildPaymentReferenceKey(reference string) string {
	return KEY_PAYMENT_BY_REF + reference
}

func BuildWebhookDedupeKey(eventID string) string {
	return KEY_PAYMENT_WEBHOOK + eventID
}
