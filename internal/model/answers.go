package model

import (
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MultiSelectSeparator joins multi-select answers into a single display
// or export cell.
const MultiSelectSeparator = "; "

// ResolveAnswer looks up a logical question id (plus optional matrix
// sub-key) in a raw answers map. Three key-naming schemes have been
// live over the survey's lifetime: bare number ("3"), zero-padded
// ("03"), and Q-prefixed ("Q3"), with matrix sub-questions appending
// "_<subKey>". Candidates are tried in that fixed priority order and
// the first key present with a non-nil value wins. An empty string or
// "0" is a present answer; only a missing key (or explicit nil) is
// absent.
//
// The second return value is false when no candidate matched. Callers
// never see a panic or a nil-map failure from a missing key.
func ResolveAnswer(answers map[string]any, questionID int, subKey string) (any, bool) {
	if len(answers) == 0 {
		return nil, false
	}

	suffix := ""
	if subKey != "" {
		suffix = "_" + subKey
	}

	candidates := [3]string{
		strconv.Itoa(questionID) + suffix,
		fmt.Sprintf("%02d", questionID) + suffix,
		"Q" + strconv.Itoa(questionID) + suffix,
	}

	for _, key := range candidates {
		if v, ok := answers[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// AnswerText renders an answer value as a single string. Multi-select
// answers are joined with MultiSelectSeparator; numeric scalars from a
// JSON or BSON decode are formatted without a trailing exponent.
func AnswerText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []string:
		return strings.Join(t, MultiSelectSeparator)
	case []any:
		return strings.Join(anySliceToStrings(t), MultiSelectSeparator)
	case primitive.A:
		return strings.Join(anySliceToStrings(t), MultiSelectSeparator)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// AnswerList returns the individual selections of a multi-select
// answer, or nil for scalar values.
func AnswerList(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		return anySliceToStrings(t)
	case primitive.A:
		return anySliceToStrings(t)
	default:
		return nil
	}
}

// AnswerFloat parses an answer as a number. Rating-scale answers are
// stored as numeric strings ("4"); decodes from the store may also
// yield native numerics. Returns false for absent, empty, or
// non-numeric values.
func AnswerFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func anySliceToStrings(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, AnswerText(item))
	}
	return out
}
