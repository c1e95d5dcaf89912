package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	DefaultQuizQuestions = 5
	MinQuizQuestions     = 3
	MaxQuizQuestions     = 15
)

// Recovery tiers, in the order they are attempted.
const (
	TierDirect = "direct"
	TierFenced = "fenced"
	TierBraces = "braces"
	TierNone   = "none"
)

// QuizQuestion is one multiple-choice question.
type QuizQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation"`
}

// QuizResult holds either the recovered quiz object or the raw model text.
type QuizResult struct {
	Quiz json.RawMessage
	Text string
	Tier string
}

// Recovered reports whether structured output was found.
func (r QuizResult) Recovered() bool {
	return r.Quiz != nil
}

type recoveryAttempt struct {
	tier    string
	extract func(text string) (string, bool)
}

var fencePattern = regexp.MustCompile("(?i)```(?:json)?\n([\\s\\S]*?)\n```")

var recoveryChain = []recoveryAttempt{
	{tier: TierDirect, extract: func(text string) (string, bool) { return text, true }},
	{tier: TierFenced, extract: fencedBlock},
	{tier: TierBraces, extract: braceSlice},
}

// RecoverQuiz runs the recovery chain over model text. The first attempt whose
// candidate parses as an object with a "questions" array wins.
func RecoverQuiz(text string) QuizResult {
	for _, attempt := range recoveryChain {
		candidate, ok := attempt.extract(text)
		if !ok {
			continue
		}
		if quiz, ok := parseQuiz(candidate); ok {
			return QuizResult{Quiz: quiz, Tier: attempt.tier}
		}
	}
	return QuizResult{Text: text, Tier: TierNone}
}

func fencedBlock(text string) (string, bool) {
	m := fencePattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func braceSlice(text string) (string, bool) {
	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first == -1 || last == -1 || last <= first {
		return "", false
	}
	return text[first : last+1], true
}

func parseQuiz(candidate string) (json.RawMessage, bool) {
	raw := json.RawMessage(strings.TrimSpace(candidate))
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, false
	}
	questions, ok := obj["questions"]
	if !ok {
		return nil, false
	}
	var list []json.RawMessage
	if err := json.Unmarshal(questions, &list); err != nil || list == nil {
		return nil, false
	}
	return raw, true
}

// QuestionCount interprets a client-supplied question count and clamps it.
// The value is read the way a JavaScript parseInt reads it: numbers and arrays are
// stringified first, then the leading integer is taken ("7abc" is 7, [7] is 7,
// 1e-7 is 1). Anything absent, zero or non-numeric selects the default.
func QuestionCount(raw json.RawMessage) int {
	return clampQuestions(leadingCount(raw))
}

func clampQuestions(n int) int {
	if n == 0 {
		n = DefaultQuizQuestions
	}
	if n < MinQuizQuestions {
		return MinQuizQuestions
	}
	if n > MaxQuizQuestions {
		return MaxQuizQuestions
	}
	return n
}

func leadingCount(raw json.RawMessage) int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0
	}
	s, ok := scriptString(v)
	if !ok {
		return 0
	}
	return leadingInt(s)
}

// scriptString renders a decoded JSON value as JavaScript's String() would.
// Objects and booleans report false since they never start with a digit.
func scriptString(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", true
	case string:
		return val, true
	case json.Number:
		f, err := val.Float64()
		if err != nil || math.IsNaN(f) {
			return "", false
		}
		return numberString(f), true
	case []any:
		parts := make([]string, len(val))
		for i, elem := range val {
			s, ok := scriptString(elem)
			if !ok {
				return "", false
			}
			parts[i] = s
		}
		return strings.Join(parts, ","), true
	default:
		return "", false
	}
}

// numberString switches to exponent notation outside [1e-6, 1e21).
func numberString(f float64) string {
	if f == 0 {
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e21 || abs < 1e-6 {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// leadingInt parses an optional sign and the leading decimal digits of s.
func leadingInt(s string) int {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	sign := 1.0
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}
	var n float64
	digits := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + float64(r-'0')
		digits++
	}
	if digits == 0 {
		return 0
	}
	return saturate(sign * n)
}

func saturate(f float64) int {
	const limit = 1 << 30
	if f > limit {
		return limit
	}
	if f < -limit {
		return -limit
	}
	return int(f)
}

// Score is the outcome of grading a quiz attempt.
type Score struct {
	Score      int `json:"score"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// ScoreQuiz counts answers matching each question's correctIndex. Every
// question must have an answer.
func ScoreQuiz(questions []QuizQuestion, answers []*int) (Score, error) {
	if len(questions) == 0 {
		return Score{}, fmt.Errorf("%w: questions are required", ErrInvalidInput)
	}
	if len(answers) != len(questions) {
		return Score{}, ErrUnanswered
	}
	score := 0
	for i, q := range questions {
		if answers[i] == nil {
			return Score{}, ErrUnanswered
		}
		if *answers[i] == q.CorrectIndex {
			score++
		}
	}
	total := len(questions)
	pct := int(math.Floor(float64(score)/float64(total)*100 + 0.5))
	return Score{Score: score, Total: total, Percentage: pct}, nil
}
