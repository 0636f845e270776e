// Package intent is the reference IntentClassifier: bilingual (English
// and Arabic) keyword scoring plus regex slot extraction. It exists so
// the engine can run end to end without an external NLU service; the
// port stays the boundary and any classifier can replace it.
package intent

import (
	"context"
	"regexp"
	"strings"

	"github.com/peoplehub/hrflow/internal/workflow"
	"github.com/peoplehub/hrflow/pkg/domain"
	"github.com/peoplehub/hrflow/pkg/ports"
)

// Classifier scores keyword tables per intent. Cancel always wins;
// confirm/deny are checked next so a bare "yes" inside a flow is not
// mistaken for a new request.
type Classifier struct{}

// NewClassifier creates the keyword classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

var keywords = map[string][]string{
	domain.IntentCancel: {
		"cancel", "stop", "abort", "never mind",
		"إلغاء", "توقف", "لا أريد", "خلاص", "الغاء", "كنسل",
	},
	domain.IntentConfirm: {
		"yes", "yeah", "ok", "sure", "confirm", "proceed", "go ahead",
		"نعم", "اه", "تمام", "موافق", "أكد",
	},
	domain.IntentDeny: {
		"no thanks", "don't", "deny", "رفض", "لا شكرا",
	},
	workflow.IntentLeaveBalance: {
		"balance", "رصيد", "how many days", "كم يوم", "remaining", "متبقي",
		"leave balance", "رصيد اجازات", "رصيد الاجازات",
	},
	string(domain.ActionLeaveRequest): {
		"want leave", "request leave", "take leave", "need leave", "leave request",
		"اريد اجازة", "ابغى اجازة", "بدي اجازة", "طلب اجازة",
		"annual leave", "sick leave", "اجازة سنوية", "اجازة مرضية",
	},
	string(domain.ActionExcuseRequest): {
		"late", "excuse", "arrived late", "left early", "early departure",
		"تأخر", "تأخرت", "متأخر", "استئذان", "مغادرة",
		"وصلت متأخر", "غادرت مبكر",
	},
	workflow.IntentPayslip: {
		"payslip", "pay slip", "salary", "راتب", "قسيمة", "كشف راتب",
		"كشف الراتب", "معاش",
	},
	workflow.IntentTicketStatus: {
		"ticket status", "status of", "حالة التذكرة", "حالة الشكوى",
	},
	string(domain.ActionSupportTicket): {
		"ticket", "complaint", "support request", "raise a", "open a",
		"issue with", "problem with", "not working",
		"شكوى", "تذكرة", "مشكلة", "بلاغ", "لا يعمل",
	},
	"greeting": {
		"hello", "hi", "hey", "مرحبا", "السلام", "اهلا", "صباح", "مساء",
	},
}

// intentOrder fixes the scan order so score ties resolve the same way
// on every run. More specific intents come before broader ones.
var intentOrder = []string{
	domain.IntentConfirm,
	domain.IntentDeny,
	workflow.IntentLeaveBalance,
	workflow.IntentPayslip,
	workflow.IntentTicketStatus,
	string(domain.ActionLeaveRequest),
	string(domain.ActionExcuseRequest),
	string(domain.ActionSupportTicket),
	"greeting",
}

var (
	dateRe   = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	timeRe   = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	ticketRe = regexp.MustCompile(`\btk-\d{4}\b`)
	itRe     = regexp.MustCompile(`\b(it|vpn|laptop|computer|email|network|printer)\b`)
	hrRe     = regexp.MustCompile(`\bhr\b`)
)

// Classify detects the intent and extracts slot values. The output is
// untrusted by contract; the engine re-validates every value.
func (c *Classifier) Classify(ctx context.Context, utterance, locale string) (ports.Classification, error) {
	lower := strings.ToLower(strings.TrimSpace(utterance))

	intent := c.detect(lower)

	// A ticket number in the message means the user is asking about an
	// existing ticket, whatever else scored.
	if id := ticketRe.FindString(lower); id != "" && intent != domain.IntentCancel {
		return ports.Classification{
			Intent: workflow.IntentTicketStatus,
			Slots:  map[string]any{"ticket_id": strings.ToUpper(id)},
		}, nil
	}

	slots := extractSlots(lower, intent)

	if intent == "" {
		if len(slots) > 0 {
			intent = workflow.IntentSlotFill
		} else {
			intent = "general"
		}
	}
	return ports.Classification{Intent: intent, Slots: slots}, nil
}

func (c *Classifier) detect(lower string) string {
	// Cancel has the highest priority regardless of anything else in
	// the message.
	for _, kw := range keywords[domain.IntentCancel] {
		if strings.Contains(lower, kw) {
			return domain.IntentCancel
		}
	}

	best, bestScore := "", 0
	for _, intent := range intentOrder {
		score := 0
		for _, kw := range keywords[intent] {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = intent, score
		}
	}
	return best
}

// extractSlots pulls structured values out of the utterance.
func extractSlots(lower, intent string) map[string]any {
	slots := make(map[string]any)

	dates := dateRe.FindAllString(lower, -1)
	times := timeRe.FindAllString(lower, -1)

	switch intent {
	case string(domain.ActionExcuseRequest):
		if len(dates) > 0 {
			slots["date"] = dates[0]
		}
		if len(times) > 0 {
			slots["time"] = padTime(times[0])
		}
		if t := excuseType(lower); t != "" {
			slots["excuse_type"] = t
		}
	case string(domain.ActionSupportTicket):
		if cat := ticketCategory(lower); cat != "" {
			slots["category"] = cat
		}
	default:
		if len(dates) > 0 {
			slots["start_date"] = dates[0]
		}
		if len(dates) > 1 {
			slots["end_date"] = dates[1]
		}
		if t := leaveType(lower); t != "" {
			slots["leave_type"] = t
		}
		// A bare category word is the answer to the ticket category
		// prompt, never a leave value.
		if cat := bareCategory(lower); cat != "" {
			slots["category"] = cat
		}
	}

	if len(slots) == 0 {
		return nil
	}
	return slots
}

func leaveType(lower string) string {
	switch {
	case strings.Contains(lower, "annual") || strings.Contains(lower, "سنوية"):
		return "annual"
	case strings.Contains(lower, "sick") || strings.Contains(lower, "مرضية"):
		return "sick"
	case strings.Contains(lower, "unpaid") || strings.Contains(lower, "بدون راتب"):
		return "unpaid"
	}
	return ""
}

// ticketCategory infers the support-ticket category from context words
// once the ticket intent itself is established.
func ticketCategory(lower string) string {
	switch {
	case strings.Contains(lower, "facilities") || strings.Contains(lower, "مرافق"):
		return "facilities"
	case itRe.MatchString(lower) || strings.Contains(lower, "تقنية"):
		return "it"
	case hrRe.MatchString(lower) || strings.Contains(lower, "موارد بشرية"):
		return "hr"
	}
	return ""
}

// bareCategory matches a whole-message category answer ("it", "hr",
// "facilities"); anything longer is left to the intent tables.
func bareCategory(lower string) string {
	switch lower {
	case "it", "تقنية":
		return "it"
	case "hr", "موارد بشرية":
		return "hr"
	case "facilities", "مرافق":
		return "facilities"
	}
	return ""
}

func excuseType(lower string) string {
	switch {
	case strings.Contains(lower, "late") || strings.Contains(lower, "تأخر"):
		return "late_arrival"
	case strings.Contains(lower, "early") || strings.Contains(lower, "مبكر") || strings.Contains(lower, "مغادرة"):
		return "early_departure"
	}
	return ""
}

// padTime normalizes "8:17" to "08:17".
func padTime(t string) string {
	if i := strings.Index(t, ":"); i == 1 {
		return "0" + t
	}
	return t
}
