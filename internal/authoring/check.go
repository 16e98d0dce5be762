package authoring

import (
	"fmt"

	"github.com/AaronLay10/SentientCutscene/internal/cutscene"
)

// checker accumulates field errors for one authored object.
type checker struct {
	fields cutscene.Fields
	path   string
	errs   []AuthoringError
}

func newChecker(fields cutscene.Fields, path string) *checker {
	return &checker{fields: fields, path: path}
}

func (c *checker) at(key string) string {
	return c.path + "." + key
}

func (c *checker) add(code, path, format string, args ...interface{}) {
	c.errs = append(c.errs, newError(code, path, format, args...))
}

// str checks that key holds a string. Empty strings are rejected when
// nonEmpty is set.
func (c *checker) str(key string, nonEmpty bool) (string, bool) {
	if !c.fields.Has(key) || c.fields[key] == nil {
		c.add(CodeFieldMissing, c.at(key), "%s is required", key)
		return "", false
	}
	s, ok := c.fields.String(key)
	if !ok {
		c.add(CodeFieldNotString, c.at(key), "%s must be a string", key)
		return "", false
	}
	if nonEmpty && s == "" {
		c.add(CodeFieldEmpty, c.at(key), "%s must not be empty", key)
		return "", false
	}
	return s, true
}

func (c *checker) boolean(key string) {
	if !c.fields.Has(key) || c.fields[key] == nil {
		c.add(CodeFieldMissing, c.at(key), "%s is required", key)
		return
	}
	if _, ok := c.fields.Bool(key); !ok {
		c.add(CodeFieldNotBoolean, c.at(key), "%s must be a boolean", key)
	}
}

func (c *checker) optionalBoolean(key string) {
	if !c.fields.Has(key) {
		return
	}
	c.boolean(key)
}

// nonNegativeInt checks a millisecond duration.
func (c *checker) nonNegativeInt(key string) {
	if !c.fields.Has(key) || c.fields[key] == nil {
		c.add(CodeFieldMissing, c.at(key), "%s is required", key)
		return
	}
	n, ok := c.fields.Int(key)
	if !ok {
		c.add(CodeFieldNotInteger, c.at(key), "%s must be an integer", key)
		return
	}
	if n < 0 {
		c.add(CodeNumberOutOfRange, c.at(key), "%s must be >= 0, got %d", key, n)
	}
}

// number checks that key holds a number within [lo, hi].
func (c *checker) number(key string, lo, hi float64) {
	if !c.fields.Has(key) || c.fields[key] == nil {
		c.add(CodeFieldMissing, c.at(key), "%s is required", key)
		return
	}
	c.numberValue(key, lo, hi)
}

func (c *checker) optionalNumber(key string, lo, hi float64) {
	if !c.fields.Has(key) {
		return
	}
	c.number(key, lo, hi)
}

func (c *checker) numberValue(key string, lo, hi float64) {
	v, ok := c.fields.Float(key)
	if !ok {
		c.add(CodeFieldNotNumber, c.at(key), "%s must be a number", key)
		return
	}
	if v < lo || v > hi {
		c.add(CodeNumberOutOfRange, c.at(key), "%s must be within [%s, %s], got %s", key, fmtNum(lo), fmtNum(hi), fmtNum(v))
	}
}

// optionalPositiveNumber checks a strictly positive number such as pitch.
func (c *checker) optionalPositiveNumber(key string) {
	if !c.fields.Has(key) {
		return
	}
	v, ok := c.fields.Float(key)
	if !ok {
		c.add(CodeFieldNotNumber, c.at(key), "%s must be a number", key)
		return
	}
	if v <= 0 {
		c.add(CodeNumberOutOfRange, c.at(key), "%s must be > 0, got %s", key, fmtNum(v))
	}
}

func (c *checker) transition() {
	s, ok := c.str("transition", true)
	if !ok {
		return
	}
	if _, ok := cutscene.ParseTransition(s); !ok {
		c.add(CodeInvalidTransition, c.at("transition"), "unknown transition %q", s)
	}
}

func (c *checker) position() {
	s, ok := c.str("position", true)
	if !ok {
		return
	}
	if _, ok := cutscene.ParsePosition(s); !ok {
		c.add(CodeInvalidPosition, c.at("position"), "unknown position %q", s)
	}
}

// bus checks the bus field. allowed narrows the accepted buses.
func (c *checker) bus(allowed ...cutscene.Bus) {
	s, ok := c.str("bus", true)
	if !ok {
		return
	}
	b, ok := cutscene.ParseBus(s)
	if !ok {
		c.add(CodeInvalidBus, c.at("bus"), "unknown bus %q", s)
		return
	}
	if len(allowed) == 0 {
		return
	}
	for _, a := range allowed {
		if a == b {
			return
		}
	}
	c.add(CodeInvalidBus, c.at("bus"), "bus %q is not supported here", s)
}

func (c *checker) character(ctx *ValidationCtx, key string) (string, bool) {
	id, ok := c.str(key, true)
	if !ok {
		return "", false
	}
	if !ctx.HasCharacter(id) {
		c.add(CodeUnknownCharacter, c.at(key), "character %q is not declared", id)
		return id, false
	}
	return id, true
}

func fmtNum(v float64) string {
	return fmt.Sprintf("%g", v)
}
