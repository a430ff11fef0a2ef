package chronic

import (
	"fmt"
	"strconv"
)

// Kind names a tag variant or a family of variants. Grammar patterns are
// sequences of kinds.
type Kind int

const (
	KindRepeater Kind = iota + 1
	KindRepeaterMonthName
	KindRepeaterDayName
	KindRepeaterDayPortion
	KindRepeaterTime
	KindGrabber
	KindPointer
	KindScalar
	KindScalarDay
	KindScalarMonth
	KindScalarYear
	KindOrdinal
	KindOrdinalDay
	KindSeparator
	KindSeparatorAt
	KindSeparatorComma
	KindSeparatorSlashOrDash
	KindSeparatorIn
	KindSeparatorOn
)

var kindNames = map[Kind]string{
	KindRepeater:             "repeater",
	KindRepeaterMonthName:    "repeater_month_name",
	KindRepeaterDayName:      "repeater_day_name",
	KindRepeaterDayPortion:   "repeater_day_portion",
	KindRepeaterTime:         "repeater_time",
	KindGrabber:              "grabber",
	KindPointer:              "pointer",
	KindScalar:               "scalar",
	KindScalarDay:            "scalar_day",
	KindScalarMonth:          "scalar_month",
	KindScalarYear:           "scalar_year",
	KindOrdinal:              "ordinal",
	KindOrdinalDay:           "ordinal_day",
	KindSeparator:            "separator",
	KindSeparatorAt:          "separator_at",
	KindSeparatorComma:       "separator_comma",
	KindSeparatorSlashOrDash: "separator_slash_or_dash",
	KindSeparatorIn:          "separator_in",
	KindSeparatorOn:          "separator_on",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = k
	}
	return m
}()

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Tag is a semantic role attached to a token. The set of implementations is
// closed: repeaters, Grabber, Pointer, Scalar, Ordinal and Separator.
type Tag interface {
	// Is reports whether the tag belongs to kind k.
	Is(k Kind) bool
	String() string
	tag()
}

// Pointer is a direction in time.
type Pointer int

const (
	None Pointer = iota
	Past
	Future
)

func (p Pointer) Is(k Kind) bool { return k == KindPointer }

func (p Pointer) String() string {
	switch p {
	case Past:
		return "past"
	case Future:
		return "future"
	case None:
		return "none"
	}
	return "pointer(" + strconv.Itoa(int(p)) + ")"
}

func (Pointer) tag() {}

// direction maps a pointer to +1 or -1. None has no direction.
func direction(p Pointer) (int, error) {
	switch p {
	case Future:
		return 1, nil
	case Past:
		return -1, nil
	}
	return 0, fmt.Errorf("%w: %s has no direction", ErrInvalidPointer, p)
}

// Grabber selects the last, current or next occurrence of a repeater.
type Grabber int

const (
	GrabLast Grabber = iota + 1
	GrabThis
	GrabNext
)

func (g Grabber) Is(k Kind) bool { return k == KindGrabber }

func (g Grabber) String() string {
	switch g {
	case GrabLast:
		return "grabber(last)"
	case GrabThis:
		return "grabber(this)"
	case GrabNext:
		return "grabber(next)"
	}
	return "grabber(?)"
}

func (Grabber) tag() {}

// ScalarKind narrows what a bare number may stand for.
type ScalarKind int

const (
	ScalarPlain ScalarKind = iota
	ScalarDay
	ScalarMonth
	ScalarYear
)

// Scalar is an integer literal.
type Scalar struct {
	Kind  ScalarKind
	Value int
}

func (s Scalar) Is(k Kind) bool {
	switch k {
	case KindScalar:
		return true
	case KindScalarDay:
		return s.Kind == ScalarDay
	case KindScalarMonth:
		return s.Kind == ScalarMonth
	case KindScalarYear:
		return s.Kind == ScalarYear
	}
	return false
}

func (s Scalar) String() string {
	switch s.Kind {
	case ScalarDay:
		return fmt.Sprintf("scalar_day(%d)", s.Value)
	case ScalarMonth:
		return fmt.Sprintf("scalar_month(%d)", s.Value)
	case ScalarYear:
		return fmt.Sprintf("scalar_year(%d)", s.Value)
	}
	return fmt.Sprintf("scalar(%d)", s.Value)
}

func (Scalar) tag() {}

// Ordinal is a number written with an ordinal suffix ("3rd").
type Ordinal struct {
	Day   bool
	Value int
}

func (o Ordinal) Is(k Kind) bool {
	return k == KindOrdinal || (k == KindOrdinalDay && o.Day)
}

func (o Ordinal) String() string {
	if o.Day {
		return fmt.Sprintf("ordinal_day(%d)", o.Value)
	}
	return fmt.Sprintf("ordinal(%d)", o.Value)
}

func (Ordinal) tag() {}

// Separator is punctuation or a linking word.
type Separator int

const (
	SeparatorComma Separator = iota + 1
	SeparatorSlashOrDash
	SeparatorAt
	SeparatorIn
	SeparatorOn
)

func (s Separator) Is(k Kind) bool {
	switch k {
	case KindSeparator:
		return true
	case KindSeparatorComma:
		return s == SeparatorComma
	case KindSeparatorSlashOrDash:
		return s == SeparatorSlashOrDash
	case KindSeparatorAt:
		return s == SeparatorAt
	case KindSeparatorIn:
		return s == SeparatorIn
	case KindSeparatorOn:
		return s == SeparatorOn
	}
	return false
}

func (s Separator) String() string {
	switch s {
	case SeparatorComma:
		return "separator(comma)"
	case SeparatorSlashOrDash:
		return "separator(slash_or_dash)"
	case SeparatorAt:
		return "separator(at)"
	case SeparatorIn:
		return "separator(in)"
	case SeparatorOn:
		return "separator(on)"
	}
	return "separator(?)"
}

func (Separator) tag() {}
