package domain

import (
	"errors"
	"strings"
)

// maxProgramCodeLength bounds the program code fragment inside an order number.
const maxProgramCodeLength = 35

var ErrOrderNumberConfig = errors.New("order number configuration is invalid")

// OrderNumberConfiguration controls how order codes are composed. It is a
// singleton setting injected at construction time; the service cannot operate
// without a valid one.
type OrderNumberConfiguration struct {
	Prefix             string
	IncludePrefix      bool
	IncludeProgramCode bool
	IncludeTypeSuffix  bool
}

// Validate rejects configurations that would produce unusable order codes.
func (c OrderNumberConfiguration) Validate() error {
	if c.IncludePrefix && strings.TrimSpace(c.Prefix) == "" {
		return ErrOrderNumberConfig
	}
	return nil
}

// Generate composes a human-readable order code from the configuration, the
// order and its program code. The function is pure: the same inputs always
// yield the same code.
func (c OrderNumberConfiguration) Generate(order *Order, programCode string) string {
	var b strings.Builder
	if c.IncludePrefix {
		b.WriteString(c.Prefix)
	}
	if c.IncludeProgramCode {
		b.WriteString(truncateProgramCode(programCode))
	}
	b.WriteString(order.ExternalID.String())
	if c.IncludeTypeSuffix {
		if order.Emergency {
			b.WriteString("E")
		} else {
			b.WriteString("R")
		}
	}
	return b.String()
}

func truncateProgramCode(code string) string {
	code = strings.TrimSpace(code)
	if len(code) > maxProgramCodeLength {
		return code[:maxProgramCodeLength]
	}
	return code
}
