package chronic

import (
	"fmt"
	"strings"

	"github.com/basecamp/when/internal/span"
)

// Handler groups, tried in this order.
const (
	GroupDate   = "date"
	GroupAnchor = "anchor"
	GroupArrow  = "arrow"
	GroupNarrow = "narrow"
)

var groupOrder = []string{GroupDate, GroupAnchor, GroupArrow, GroupNarrow}

type resolveFunc func(r *resolver, tokens []*Token) (*span.Span, error)

// element is one position of a handler pattern: a tag kind or a reference
// to a sub-definition that must consume the remaining tokens.
type element struct {
	kind     Kind
	ref      string
	optional bool
}

type handler struct {
	name    string
	pattern string
	elems   []element
	resolve resolveFunc
}

// Definition describes one grammar rule.
type Definition struct {
	Group   string `json:"group" yaml:"group"`
	Name    string `json:"name" yaml:"name"`
	Pattern string `json:"pattern" yaml:"pattern"`
}

// subDefinitions are pattern fragments referenced by name.
var subDefinitions = map[string][]*handler{
	"time": {
		newHandler("time", "repeater_time repeater_day_portion?", nil),
	},
}

var definitions map[string][]*handler

func init() {
	definitions = map[string][]*handler{
		GroupDate: {
			newHandler("rdn_rmn_sd_t_sy", "repeater_day_name separator_comma? repeater_month_name scalar_day repeater_time scalar_year", (*resolver).rdnRmnSdTSy),
			newHandler("rdn_rmn_sd_sy", "repeater_day_name separator_comma? repeater_month_name scalar_day separator_comma? scalar_year", (*resolver).rdnRmnSdSy),
			newHandler("rdn_rmn_sd", "repeater_day_name separator_comma? repeater_month_name scalar_day separator_at? time?", (*resolver).rdnRmnSd),
			newHandler("rdn_rmn_od", "repeater_day_name separator_comma? repeater_month_name ordinal_day separator_at? time?", (*resolver).rdnRmnOd),
			newHandler("rmn_sd_sy", "repeater_month_name scalar_day separator_comma? scalar_year separator_at? time?", (*resolver).rmnSdSy),
			newHandler("rmn_od_sy", "repeater_month_name ordinal_day separator_comma? scalar_year separator_at? time?", (*resolver).rmnOdSy),
			newHandler("rmn_sd", "repeater_month_name scalar_day separator_at? time?", (*resolver).rmnSd),
			newHandler("rmn_sd_on", "repeater_time repeater_day_portion? separator_on? repeater_month_name scalar_day", (*resolver).rmnSdOn),
			newHandler("rmn_od", "repeater_month_name ordinal_day separator_at? time?", (*resolver).rmnOd),
			newHandler("od_rmn_sy", "ordinal_day repeater_month_name scalar_year separator_at? time?", (*resolver).odRmnSy),
			newHandler("od_rmn", "ordinal_day repeater_month_name separator_at? time?", (*resolver).odRmn),
			newHandler("rmn_od_on", "repeater_time repeater_day_portion? separator_on? repeater_month_name ordinal_day", (*resolver).rmnOdOn),
			newHandler("rmn_sy", "repeater_month_name scalar_year", (*resolver).rmnSy),
			newHandler("sd_rmn_sy", "scalar_day repeater_month_name scalar_year separator_at? time?", (*resolver).sdRmnSy),
			newHandler("sd_rmn", "scalar_day repeater_month_name separator_at? time?", (*resolver).sdRmn),
			newHandler("sy_sm_sd", "scalar_year separator_slash_or_dash scalar_month separator_slash_or_dash scalar_day separator_at? time?", (*resolver).sySmSd),
			newHandler("sm_sd_sy", "scalar_month separator_slash_or_dash scalar_day separator_slash_or_dash scalar_year separator_at? time?", (*resolver).smSdSy),
			newHandler("sd_sm_sy", "scalar_day separator_slash_or_dash scalar_month separator_slash_or_dash scalar_year separator_at? time?", (*resolver).sdSmSy),
			newHandler("sm_sy", "scalar_month separator_slash_or_dash scalar_year", (*resolver).smSy),
		},
		GroupAnchor: {
			newHandler("r", "separator_on? grabber? repeater separator_at? repeater? repeater?", (*resolver).anchor),
			newHandler("r", "grabber? repeater repeater separator? repeater? repeater?", (*resolver).anchor),
			newHandler("r_g_r", "repeater grabber repeater", (*resolver).rgr),
		},
		GroupArrow: {
			newHandler("s_r_p", "scalar repeater pointer", (*resolver).srp),
			newHandler("p_s_r", "pointer scalar repeater", (*resolver).psr),
			newHandler("s_r_p_a", "scalar repeater pointer anchor", (*resolver).srpa),
		},
		GroupNarrow: {
			newHandler("o_r_s_r", "ordinal repeater separator_in repeater", (*resolver).orsr),
			newHandler("o_r_g_r", "ordinal repeater grabber repeater", (*resolver).orgr),
		},
	}
	subDefinitions["anchor"] = definitions[GroupAnchor]
}

// newHandler compiles a pattern of space separated kind names. A trailing
// '?' marks an element optional; "time" and "anchor" name sub-definitions.
func newHandler(name, pattern string, resolve resolveFunc) *handler {
	h := &handler{name: name, pattern: pattern, resolve: resolve}
	for _, field := range strings.Fields(pattern) {
		e := element{optional: strings.HasSuffix(field, "?")}
		field = strings.TrimSuffix(field, "?")
		switch field {
		case "time", "anchor":
			e.ref = field
		default:
			k, ok := kindsByName[field]
			if !ok {
				panic(fmt.Sprintf("chronic: handler %s: unknown kind %q", name, field))
			}
			e.kind = k
		}
		h.elems = append(h.elems, e)
	}
	return h
}

// match reports whether the pattern accounts for every token.
func (h *handler) match(tokens []*Token) bool {
	i := 0
	for _, e := range h.elems {
		if e.ref != "" {
			if e.optional && i == len(tokens) {
				return true
			}
			for _, sub := range subDefinitions[e.ref] {
				if sub.match(tokens[i:]) {
					return true
				}
			}
			if e.optional {
				continue
			}
			return false
		}
		if i < len(tokens) && tokens[i].Has(e.kind) {
			i++
			continue
		}
		if !e.optional {
			return false
		}
	}
	return i == len(tokens)
}

// Definitions returns the grammar in priority order.
func Definitions() []Definition {
	var defs []Definition
	for _, group := range groupOrder {
		for _, h := range definitions[group] {
			defs = append(defs, Definition{Group: group, Name: h.name, Pattern: h.pattern})
		}
	}
	for _, h := range subDefinitions["time"] {
		defs = append(defs, Definition{Group: "time", Name: h.name, Pattern: h.pattern})
	}
	return defs
}

// groupTokens returns the tokens a group's resolvers receive.
func groupTokens(group string, tokens []*Token) []*Token {
	switch group {
	case GroupDate, GroupAnchor:
		return without(tokens, KindSeparator)
	case GroupArrow:
		return without(tokens, KindSeparatorAt, KindSeparatorSlashOrDash, KindSeparatorComma)
	}
	return tokens
}
