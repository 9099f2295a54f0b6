package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"roofline_backend/internal/leads/repository"
)

// Follow-up type identifiers. Unrecognized types render the general
// fallback rather than failing.
const (
	TypeInitialContact   = "initial_contact"
	TypeQuoteReminder    = "quote_reminder"
	TypeQuoteFollowUp    = "quote_followup"
	TypeNegotiationNudge = "negotiation_nudge"
	TypeGeneralFollowUp  = "general_followup"
)

// Message is a rendered follow-up ready for delivery.
type Message struct {
	Subject string
	Body    string
}

type renderer func(lead repository.Lead, now time.Time) Message

// templates maps each follow-up type to its pure renderer. Modeling the
// set as data keeps rendering testable without network or clock
// dependencies beyond the injected now.
var templates = map[string]renderer{
	TypeInitialContact:   renderInitialContact,
	TypeQuoteReminder:    renderQuoteReminder,
	TypeQuoteFollowUp:    renderQuoteFollowUp,
	TypeNegotiationNudge: renderNegotiationNudge,
	TypeGeneralFollowUp:  renderGeneralFollowUp,
}

// IsKnownType reports whether followUpType has a dedicated template.
func IsKnownType(followUpType string) bool {
	_, ok := templates[followUpType]
	return ok
}

// Render produces the subject and body for the given follow-up type.
// Unrecognized types fall back to the general follow-up template.
func Render(followUpType string, lead repository.Lead, now time.Time) Message {
	render, ok := templates[followUpType]
	if !ok {
		render = renderGeneralFollowUp
	}
	return render(lead, now)
}

func renderInitialContact(lead repository.Lead, now time.Time) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", firstName(lead.Name))
	fmt.Fprintf(&b, "Thanks for reaching out about the roof at %s. ", orPlaceholder(lead.Address, "your property"))
	b.WriteString("We'd love to schedule a free inspection and walk you through your options.\n\n")
	b.WriteString(seasonalNote(now))
	b.WriteString("\n\nWould this week or next work better for a visit?\n\nBest,\nThe Roofline Team")

	return Message{
		Subject: "Your free roof inspection is waiting",
		Body:    b.String(),
	}
}

func renderQuoteReminder(lead repository.Lead, now time.Time) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", firstName(lead.Name))
	b.WriteString("Just following up on our recent conversation about your roof. ")
	b.WriteString("We're ready to put together a detailed quote whenever you are.\n\n")
	b.WriteString(seasonalNote(now))
	b.WriteString("\n\nReply to this email or give us a call and we'll take it from there.\n\nBest,\nThe Roofline Team")

	return Message{
		Subject: "Ready for your roofing quote?",
		Body:    b.String(),
	}
}

func renderQuoteFollowUp(lead repository.Lead, now time.Time) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", firstName(lead.Name))
	if lead.QuoteValueCents != nil {
		fmt.Fprintf(&b, "We wanted to check in on the %s quote we sent for %s. ",
			FormatCurrency(*lead.QuoteValueCents), orPlaceholder(lead.Address, "your property"))
	} else {
		fmt.Fprintf(&b, "We wanted to check in on the quote we sent for %s. ",
			orPlaceholder(lead.Address, "your property"))
	}
	b.WriteString("Your quote is valid for 30 days, and we're happy to answer any questions about materials, timeline, or financing.\n\n")
	b.WriteString(seasonalNote(now))
	b.WriteString("\n\nIs there anything holding you back that we can help with?\n\nBest,\nThe Roofline Team")

	return Message{
		Subject: "Any questions about your roofing quote?",
		Body:    b.String(),
	}
}

func renderNegotiationNudge(lead repository.Lead, now time.Time) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", firstName(lead.Name))
	b.WriteString("Thanks for working through the details with us. ")
	if lead.QuoteValueCents != nil {
		fmt.Fprintf(&b, "We still have your %s proposal on the table and we're confident we can find terms that work for you. ",
			FormatCurrency(*lead.QuoteValueCents))
	} else {
		b.WriteString("We still have your proposal on the table and we're confident we can find terms that work for you. ")
	}
	b.WriteString("\n\n")
	b.WriteString(seasonalNote(now))
	b.WriteString("\n\nCan we set up a quick call this week to close the remaining gaps?\n\nBest,\nThe Roofline Team")

	return Message{
		Subject: "Let's finalize your roofing project",
		Body:    b.String(),
	}
}

func renderGeneralFollowUp(lead repository.Lead, now time.Time) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", firstName(lead.Name))
	fmt.Fprintf(&b, "We wanted to touch base about the roof at %s. ", orPlaceholder(lead.Address, "your property"))
	b.WriteString("If now isn't the right time, no problem — we're here whenever you're ready.\n\n")
	b.WriteString(seasonalNote(now))
	b.WriteString("\n\nBest,\nThe Roofline Team")

	return Message{
		Subject: "Checking in on your roofing project",
		Body:    b.String(),
	}
}

// seasonalNote derives an urgency phrase from the calendar month. This is
// the only calendar dependency in rendering.
func seasonalNote(now time.Time) string {
	switch now.Month() {
	case time.December, time.January, time.February:
		return "Winter weather can turn small leaks into expensive repairs, so it pays to get ahead of it."
	case time.March, time.April, time.May:
		return "Spring storm season is around the corner and our installation calendar fills up quickly."
	case time.June, time.July, time.August:
		return "Summer is our busiest season and installation slots are going fast."
	default:
		return "Fall is the ideal window to get your roof ready before winter arrives."
	}
}

func firstName(fullName string) string {
	trimmed := strings.TrimSpace(fullName)
	if trimmed == "" {
		return "there"
	}
	if idx := strings.IndexByte(trimmed, ' '); idx > 0 {
		return trimmed[:idx]
	}
	return trimmed
}

func orPlaceholder(value, placeholder string) string {
	if strings.TrimSpace(value) == "" {
		return placeholder
	}
	return value
}

// FormatCurrency renders whole dollars with thousands separators, e.g.
// 2850000 cents -> "$28,500". Shared with the insights report so quote
// values read the same everywhere.
func FormatCurrency(cents int64) string {
	dollars := cents / 100
	digits := strconv.FormatInt(dollars, 10)

	negative := strings.HasPrefix(digits, "-")
	if negative {
		digits = digits[1:]
	}

	var b strings.Builder
	for i, digit := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	if negative {
		return "-$" + b.String()
	}
	return "$" + b.String()
}
