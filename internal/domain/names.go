package domain

import (
	"regexp"
	"strings"
)

var (
	namePunctuation   = regexp.MustCompile(`[\s\p{Zs}\-.,']`)
	corporateSuffixes = regexp.MustCompile(`inc|corp|llc|ltd`)
	phonePunctuation  = regexp.MustCompile(`[\s\p{Zs}\-().]`)
)

// NormalizeCompanyName returns the key under which the target schema treats
// two company names as the same: lowercased, without any Unicode space or
// -.,' and with every inc, corp, llc and ltd substring removed.
func NormalizeCompanyName(name string) string {
	n := namePunctuation.ReplaceAllString(strings.ToLower(name), "")
	return corporateSuffixes.ReplaceAllString(n, "")
}

// NormalizePhone strips whitespace and -(). from a phone number.
func NormalizePhone(phone string) string {
	return phonePunctuation.ReplaceAllString(phone, "")
}

// Sectors are the company sectors accepted by the target schema.
var Sectors = []string{"Technology", "Healthcare", "Finance", "Manufacturing", "Retail", "Other"}

// Stages are the deal stages accepted by the target schema, in pipeline order.
var Stages = []string{"lead", "qualified", "proposal", "negotiation", "closed-won", "closed-lost"}

// StageProbability is the win probability each stage implies.
var StageProbability = map[string]float64{
	"lead":        10,
	"qualified":   25,
	"proposal":    50,
	"negotiation": 75,
	"closed-won":  100,
	"closed-lost": 0,
}

// IsClosedStage reports whether a deal in this stage needs a close date.
func IsClosedStage(stage string) bool {
	return stage == "closed-won" || stage == "closed-lost"
}

// TaskTypes are the activity types accepted by the target schema.
var TaskTypes = []string{"Call", "Email", "Meeting", "Follow-up", "Demo", "Proposal", "Other"}

// TagEntityTypes are the record kinds a tag may point at.
var TagEntityTypes = []string{"contact", "deal", "company"}
