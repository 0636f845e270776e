// Package localize renders the engine's locale-agnostic directives into
// user-facing text. Message templates live in embedded YAML catalogs,
// one per locale, so adding a language is a catalog file, not code.
package localize

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/peoplehub/hrflow/pkg/domain"
)

//go:embed catalog/*.yaml
var catalogFS embed.FS

// DefaultLocale is used when a requested locale has no catalog.
const DefaultLocale = "en"

type catalog struct {
	Actions   map[string]string `yaml:"actions"`
	Fields    map[string]string `yaml:"fields"`
	Templates map[string]string `yaml:"templates"`
	Fragments map[string]string `yaml:"fragments"`
}

// Renderer implements ports.Localizer over the embedded catalogs.
type Renderer struct {
	catalogs map[string]*catalog
}

// New loads every embedded catalog. It fails if a catalog is malformed
// or the default locale is missing.
func New() (*Renderer, error) {
	entries, err := catalogFS.ReadDir("catalog")
	if err != nil {
		return nil, fmt.Errorf("read catalog dir: %w", err)
	}
	catalogs := make(map[string]*catalog, len(entries))
	for _, e := range entries {
		locale := strings.TrimSuffix(e.Name(), ".yaml")
		raw, err := catalogFS.ReadFile("catalog/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", e.Name(), err)
		}
		var c catalog
		if err := yaml.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", e.Name(), err)
		}
		catalogs[locale] = &c
	}
	if _, ok := catalogs[DefaultLocale]; !ok {
		return nil, fmt.Errorf("missing %q catalog", DefaultLocale)
	}
	return &Renderer{catalogs: catalogs}, nil
}

// MustNew panics on catalog errors. Catalogs are compiled in, so a
// failure here is a build defect, not a runtime condition.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Locales lists the available catalog locales, sorted.
func (r *Renderer) Locales() []string {
	out := make([]string, 0, len(r.catalogs))
	for l := range r.catalogs {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Render produces the user-facing text for one directive. Unknown
// locales fall back to the default catalog.
func (r *Renderer) Render(d domain.Directive, locale string) string {
	c, ok := r.catalogs[locale]
	if !ok {
		c = r.catalogs[DefaultLocale]
	}

	switch d.Kind {
	case domain.DirectiveAskForSlot:
		prompt, ok := c.Fields[d.MissingField]
		if !ok {
			prompt = d.MissingField + "?"
		}
		return expand(c.Templates["ask_for_slot"], map[string]string{"prompt": prompt})

	case domain.DirectivePresentConfirmation:
		return expand(c.Templates["present_confirmation"], map[string]string{
			"action":    c.action(d.ActionKind),
			"frame":     frameLines(c, d.Frame),
			"summary":   balanceSummary(c, d),
			"conflicts": conflictLines(c, d.Validation),
		})

	case domain.DirectiveValidationFailed:
		requested := 0
		if d.Validation != nil {
			requested = d.Validation.RequestedDays
		}
		return expand(c.Templates["validation_failed"], map[string]string{
			"action":      c.action(d.ActionKind),
			"requested":   fmt.Sprintf("%d", requested),
			"alternative": alternative(c, d.Alternative),
		})

	case domain.DirectiveCommitResult:
		if !d.Success {
			return expand(c.Templates["commit_failed"], map[string]string{
				"action": c.action(d.ActionKind),
				"reason": d.FailureReason,
			})
		}
		tmpl := c.Templates["commit_ok"]
		if d.Replayed {
			tmpl = c.Templates["commit_ok_replayed"]
		}
		return expand(tmpl, map[string]string{
			"action": c.action(d.ActionKind),
			"id":     d.Commit.ID,
			"status": string(d.Commit.Status),
		})

	case domain.DirectiveCancelAck:
		if d.ActionKind == "" {
			return c.Templates["cancel_ack_bare"]
		}
		return expand(c.Templates["cancel_ack"], map[string]string{
			"action": c.action(d.ActionKind),
		})

	case domain.DirectiveDeferred:
		return expand(c.Templates["deferred"], map[string]string{
			"action": c.action(d.ActionKind),
		})

	case domain.DirectiveSchemaViolation:
		return expand(c.Templates["schema_violation"], map[string]string{
			"reason":  d.FailureReason,
			"dropped": droppedFields(c, d.DroppedFields),
		})

	case domain.DirectiveProtocolViolation:
		return expand(c.Templates["protocol_violation"], map[string]string{
			"intent": d.DeferredIntent,
		})

	case domain.DirectiveSystemError:
		return expand(c.Templates["system_error"], map[string]string{
			"reason": d.FailureReason,
		})

	case domain.DirectiveInfo:
		if balances, ok := d.Info["balances"].(map[string]int); ok {
			return expand(c.Templates["info_balance"], map[string]string{
				"balances": formatBalances(balances),
			})
		}
		if breakdown, ok := d.Info["payslip"].(map[string]int); ok {
			period, _ := d.Info["period"].(string)
			net, _ := d.Info["net"].(int)
			return expand(c.Templates["info_payslip"], map[string]string{
				"period":    period,
				"breakdown": formatBalances(breakdown),
				"net":       fmt.Sprintf("%d", net),
			})
		}
		if ticket, ok := d.Info["ticket"].(domain.TicketInfo); ok {
			return expand(c.Templates["info_ticket"], map[string]string{
				"id":       ticket.ID,
				"category": ticket.Category,
				"status":   string(ticket.Status),
				"opened":   ticket.CreatedAt,
			})
		}
		switch d.Info["intent"] {
		case "payslip":
			return c.Templates["info_payslip_none"]
		case "ticket_status":
			if id, ok := d.Info["ticket_id"].(string); ok && id != "" {
				return expand(c.Templates["info_ticket_none"], map[string]string{"id": id})
			}
			return c.Templates["info_ticket_prompt"]
		}
		return c.Templates["info_generic"]
	}

	return c.Templates["info_generic"]
}

func (c *catalog) action(kind domain.ActionKind) string {
	if name, ok := c.Actions[string(kind)]; ok {
		return name
	}
	return string(kind)
}

// frameLines renders the confirmed slot values, one per line, in the
// schema's declared order.
func frameLines(c *catalog, frame *domain.SlotFrame) string {
	if frame == nil {
		return ""
	}
	schema, ok := domain.SchemaFor(frame.Kind)
	if !ok {
		return ""
	}
	var b strings.Builder
	for _, f := range schema.Fields {
		v, ok := frame.Values[f.Name]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "- %s: %s\n", f.Name, v)
	}
	return b.String()
}

func balanceSummary(c *catalog, d domain.Directive) string {
	if d.Validation == nil || d.Validation.RequestedDays == 0 {
		return ""
	}
	return expand(c.Fragments["balance_summary"], map[string]string{
		"requested": fmt.Sprintf("%d", d.Validation.RequestedDays),
		"remaining": fmt.Sprintf("%d", d.Validation.RemainingAfter),
	})
}

func conflictLines(c *catalog, outcome *domain.ValidationOutcome) string {
	if outcome == nil || len(outcome.Conflicts) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(c.Fragments["conflicts_header"])
	for _, cf := range outcome.Conflicts {
		b.WriteString(expand(c.Fragments["conflict_line"], map[string]string{
			"name": cf.EmployeeName,
			"from": cf.StartDate,
			"to":   cf.EndDate,
		}))
	}
	return b.String()
}

func alternative(c *catalog, alt domain.Alternative) string {
	switch alt {
	case domain.AlternativeUnpaidLeave:
		return c.Fragments["alternative_unpaid"]
	case domain.AlternativeShorteneDates:
		return c.Fragments["alternative_shorten"]
	}
	return ""
}

func droppedFields(c *catalog, fields []string) string {
	if len(fields) == 0 {
		return ""
	}
	return expand(c.Fragments["dropped_fields"], map[string]string{
		"fields": strings.Join(fields, ", "),
	})
}

func formatBalances(balances map[string]int) string {
	keys := make([]string, 0, len(balances))
	for k := range balances {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %d", k, balances[k]))
	}
	return strings.Join(parts, ", ")
}

// expand substitutes {name} placeholders.
func expand(tmpl string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
