// Package rangeexpr parses the two numeric range notations accepted in axis
// value fields:
//
//	step-range:  START-END        or  START-END(STEP)
//	count-range: START-END[COUNT]
//
// START, END and STEP are optionally signed numbers (spaces allowed between
// sign and digits), COUNT is an unsigned integer. A bare START-END is a
// step-range with step 1; negative steps walk downward. Input matching
// neither production is not an error; callers fall back to scalar parsing.
package rangeexpr

import (
	"strconv"
	"strings"
)

// Kind discriminates the two mutually exclusive productions.
type Kind string

const (
	KindStep  Kind = "step"
	KindCount Kind = "count"
)

// IntRange is a parsed integer range expression.
type IntRange struct {
	Kind  Kind
	Start int64
	End   int64
	Step  int64
	Count int
}

// FloatRange is a parsed float range expression.
type FloatRange struct {
	Kind  Kind
	Start float64
	End   float64
	Step  float64
	Count int
}

// ParseInt attempts to read field as an integer range expression. The second
// return is false when the field does not match the grammar, including a
// degenerate zero step.
func ParseInt(field string) (IntRange, bool) {
	p, ok := parse(field, false)
	if !ok {
		return IntRange{}, false
	}
	out := IntRange{Kind: p.kind}
	var err error
	if out.Start, err = strconv.ParseInt(p.start, 10, 64); err != nil {
		return IntRange{}, false
	}
	if out.End, err = strconv.ParseInt(p.end, 10, 64); err != nil {
		return IntRange{}, false
	}
	switch p.kind {
	case KindStep:
		out.Step = 1
		if p.suffix != "" {
			if out.Step, err = strconv.ParseInt(p.suffix, 10, 64); err != nil {
				return IntRange{}, false
			}
		}
		if out.Step == 0 {
			return IntRange{}, false
		}
	case KindCount:
		out.Count = 1
		if p.suffix != "" {
			if out.Count, err = strconv.Atoi(p.suffix); err != nil {
				return IntRange{}, false
			}
		}
		if out.Count < 1 {
			return IntRange{}, false
		}
	}
	return out, true
}

// ParseFloat attempts to read field as a float range expression.
func ParseFloat(field string) (FloatRange, bool) {
	p, ok := parse(field, true)
	if !ok {
		return FloatRange{}, false
	}
	out := FloatRange{Kind: p.kind}
	var err error
	if out.Start, err = strconv.ParseFloat(p.start, 64); err != nil {
		return FloatRange{}, false
	}
	if out.End, err = strconv.ParseFloat(p.end, 64); err != nil {
		return FloatRange{}, false
	}
	switch p.kind {
	case KindStep:
		out.Step = 1
		if p.suffix != "" {
			if out.Step, err = strconv.ParseFloat(p.suffix, 64); err != nil {
				return FloatRange{}, false
			}
		}
		if out.Step == 0 {
			return FloatRange{}, false
		}
	case KindCount:
		out.Count = 1
		if p.suffix != "" {
			if out.Count, err = strconv.Atoi(p.suffix); err != nil {
				return FloatRange{}, false
			}
		}
		if out.Count < 1 {
			return FloatRange{}, false
		}
	}
	return out, true
}

// Values expands a step-range to the arithmetic sequence from Start toward
// End (stop bound End+1, so descending steps keep the original asymmetric
// inclusivity), or a count-range to Count evenly spaced samples truncated to
// integers.
func (r IntRange) Values() []int64 {
	switch r.Kind {
	case KindStep:
		var out []int64
		stop := r.End + 1
		if r.Step > 0 {
			for v := r.Start; v < stop; v += r.Step {
				out = append(out, v)
			}
		} else {
			for v := r.Start; v > stop; v += r.Step {
				out = append(out, v)
			}
		}
		return out
	case KindCount:
		out := make([]int64, 0, r.Count)
		for _, v := range linspace(float64(r.Start), float64(r.End), r.Count) {
			out = append(out, int64(v))
		}
		return out
	}
	return nil
}

// Values expands a step-range with stop bound End+Step, guaranteeing the end
// value survives floating step accumulation, or a count-range to Count evenly
// spaced samples ending exactly at End.
func (r FloatRange) Values() []float64 {
	switch r.Kind {
	case KindStep:
		var out []float64
		stop := r.End + r.Step
		if r.Step > 0 {
			for v := r.Start; v < stop; v += r.Step {
				out = append(out, v)
			}
		} else {
			for v := r.Start; v > stop; v += r.Step {
				out = append(out, v)
			}
		}
		return out
	case KindCount:
		return linspace(r.Start, r.End, r.Count)
	}
	return nil
}

func linspace(start, end float64, count int) []float64 {
	if count < 1 {
		return nil
	}
	if count == 1 {
		return []float64{start}
	}
	out := make([]float64, count)
	span := (end - start) / float64(count-1)
	for i := range out {
		out[i] = start + float64(i)*span
	}
	out[count-1] = end
	return out
}

type parsed struct {
	kind   Kind
	start  string
	end    string
	suffix string
}

// parse scans "NUMBER - NUMBER [suffix]" and classifies the suffix. It
// normalizes sign/digit spacing so strconv can finish the job.
func parse(field string, float bool) (parsed, bool) {
	s := scanner{input: field}

	start, ok := s.signedNumber(float)
	if !ok {
		return parsed{}, false
	}
	s.skipSpaces()
	if !s.consume('-') {
		return parsed{}, false
	}
	end, ok := s.signedNumber(float)
	if !ok {
		return parsed{}, false
	}
	s.skipSpaces()

	out := parsed{kind: KindStep, start: start, end: end}
	switch {
	case s.consume('('):
		step, ok := s.signedNumber(float)
		if !ok {
			return parsed{}, false
		}
		s.skipSpaces()
		if !s.consume(')') {
			return parsed{}, false
		}
		out.suffix = step
	case s.consume('['):
		s.skipSpaces()
		count := s.digits()
		if count == "" {
			return parsed{}, false
		}
		s.skipSpaces()
		if !s.consume(']') {
			return parsed{}, false
		}
		out.kind = KindCount
		out.suffix = count
	}
	s.skipSpaces()
	if !s.done() {
		return parsed{}, false
	}
	return out, true
}

type scanner struct {
	input string
	pos   int
}

func (s *scanner) done() bool { return s.pos >= len(s.input) }

func (s *scanner) peek() byte {
	if s.done() {
		return 0
	}
	return s.input[s.pos]
}

func (s *scanner) consume(c byte) bool {
	if s.peek() != c {
		return false
	}
	s.pos++
	return true
}

func (s *scanner) skipSpaces() {
	for !s.done() && (s.input[s.pos] == ' ' || s.input[s.pos] == '\t') {
		s.pos++
	}
}

func (s *scanner) digits() string {
	begin := s.pos
	for !s.done() && s.input[s.pos] >= '0' && s.input[s.pos] <= '9' {
		s.pos++
	}
	return s.input[begin:s.pos]
}

// signedNumber reads an optionally signed number, tolerating spaces between
// the sign and the digits.
func (s *scanner) signedNumber(float bool) (string, bool) {
	s.skipSpaces()
	var b strings.Builder
	switch s.peek() {
	case '+':
		s.pos++
	case '-':
		s.pos++
		b.WriteByte('-')
	}
	s.skipSpaces()
	whole := s.digits()
	if whole == "" {
		return "", false
	}
	b.WriteString(whole)
	if float && s.peek() == '.' {
		s.pos++
		b.WriteByte('.')
		frac := s.digits()
		if frac == "" {
			frac = "0"
		}
		b.WriteString(frac)
	}
	return b.String(), true
}
