package fulfillment

import (
	"fmt"

	"github.com/DanielPopoola/connect-fulfillment/internal/domain"
)

// OutcomeKind selects the reconciling call made for an item.
type OutcomeKind int

const (
	KindTile OutcomeKind = iota
	KindTemplate
	KindInquire
	KindFail
	KindSkip
)

func (k OutcomeKind) String() string {
	switch k {
	case KindTile:
		return "tile"
	case KindTemplate:
		return "template"
	case KindInquire:
		return "inquire"
	case KindFail:
		return "fail"
	case KindSkip:
		return "skip"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is the decision business logic makes for one item.
// The zero value approves with an empty activation tile.
type Outcome struct {
	kind       OutcomeKind
	tile       string
	templateID string
	params     domain.Params
	reason     string
}

// Tile approves with free-form activation content.
func Tile(content string) Outcome {
	return Outcome{kind: KindTile, tile: content}
}

// Template approves with a platform-side template.
func Template(id string) Outcome {
	return Outcome{kind: KindTemplate, templateID: id}
}

// Inquire asks the customer for corrections. The params are pushed to the
// platform before the item moves to inquiring.
func Inquire(params ...domain.Param) Outcome {
	return Outcome{kind: KindInquire, params: append(domain.Params(nil), params...)}
}

// Fail rejects the item with a reason shown to the customer.
func Fail(reason string) Outcome {
	return Outcome{kind: KindFail, reason: reason}
}

// Skip leaves the item untouched until the next cycle.
func Skip() Outcome {
	return Outcome{kind: KindSkip}
}

func (o Outcome) Kind() OutcomeKind     { return o.kind }
func (o Outcome) Content() string       { return o.tile }
func (o Outcome) TemplateID() string    { return o.templateID }
func (o Outcome) Params() domain.Params { return o.params }
func (o Outcome) Reason() string        { return o.reason }

// Err wraps the outcome as an error so nested business logic can return it
// through ordinary error paths.
func (o Outcome) Err() error {
	return &Signal{Outcome: o}
}

// Signal carries an Outcome through an error return.
type Signal struct {
	Outcome Outcome
}

func (s *Signal) Error() string {
	switch s.Outcome.kind {
	case KindFail:
		return "fail: " + s.Outcome.reason
	case KindInquire:
		return fmt.Sprintf("inquire: %d params", len(s.Outcome.params))
	default:
		return s.Outcome.kind.String()
	}
}
