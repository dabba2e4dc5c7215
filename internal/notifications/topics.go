package notifications

// Fixed push-topic catalogue. Subscription requests for topics outside this
// table are rejected.
var Catalogue = []string{
	// Org-wide
	"org_announcements",
	"org_alerts",

	// Role-based
	"role_admin",
	"role_staff",
	"role_user",

	// Geographic
	"region_houston",
	"region_texas",
	"region_national",

	// Priority
	"priority_high",
	"priority_critical",
}

var catalogueSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Catalogue))
	for _, t := range Catalogue {
		set[t] = struct{}{}
	}
	return set
}()

// IsKnownTopic reports whether name appears in the fixed catalogue.
func IsKnownTopic(name string) bool {
	_, ok := catalogueSet[name]
	return ok
}

// DefaultTopicsForRole returns the topic set a user is auto-subscribed to
// when their first device registers.
func DefaultTopicsForRole(role string) []string {
	base := []string{"org_announcements", "org_alerts", "region_houston"}
	switch role {
	case "admin":
		return append(base, "role_admin", "priority_high", "priority_critical")
	case "staff":
		return append(base, "role_staff", "priority_high")
	default:
		return append(base, "role_user")
	}
}
