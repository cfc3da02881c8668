package docxtiptap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

const (
	// MaxListLevels is the number of nesting depths a list can use (0..9)
	MaxListLevels = 10
	// NoListID is the numId that explicitly turns numbering off
	NoListID = "0"
	// BulletGlyph is rendered for every bullet level regardless of its counter
	BulletGlyph = "•"
)

// Numbering format kinds
const (
	FormatDecimal     = "decimal"
	FormatLowerLetter = "lowerLetter"
	FormatUpperLetter = "upperLetter"
	FormatLowerRoman  = "lowerRoman"
	FormatUpperRoman  = "upperRoman"
	FormatBullet      = "bullet"
	FormatNone        = "none"
)

var (
	abstractNumExpr = xpath.MustCompile("//*[local-name()='abstractNum']")
	numInstanceExpr = xpath.MustCompile("//*[local-name()='num']")
)

// LevelFormat is the rendering rule for one list level
type LevelFormat struct {
	Format string
	Text   string
	Start  int
}

type listInstance struct {
	abstractID string
	// startOverrides maps level -> start value from w:lvlOverride
	startOverrides map[int]int
}

// NumberingDefinitions is the parsed word/numbering.xml part
type NumberingDefinitions struct {
	abstract map[string]map[int]LevelFormat
	lists    map[string]listInstance
}

// ParseNumbering reads abstract list definitions and their numId bindings.
func ParseNumbering(root *xmlquery.Node) *NumberingDefinitions {
	defs := &NumberingDefinitions{
		abstract: make(map[string]map[int]LevelFormat),
		lists:    make(map[string]listInstance),
	}
	if root == nil {
		return defs
	}

	for _, an := range xmlquery.QuerySelectorAll(root, abstractNumExpr) {
		abstractID := attrValue(an, "abstractNumId")
		levels := make(map[int]LevelFormat)
		for _, lvl := range childElements(an, "lvl") {
			ilvl, ok := attrInt(lvl, "ilvl")
			if !ok {
				continue
			}
			lf := LevelFormat{Format: FormatDecimal, Text: defaultLevelText(ilvl), Start: 1}
			if fmtNode := childElement(lvl, "numFmt"); fmtNode != nil {
				lf.Format = attrValue(fmtNode, "val")
			}
			if textNode := childElement(lvl, "lvlText"); textNode != nil {
				lf.Text = attrValue(textNode, "val")
			}
			if start, ok := attrInt(childElement(lvl, "start"), "val"); ok {
				lf.Start = start
			}
			levels[ilvl] = lf
		}
		defs.abstract[abstractID] = levels
	}

	for _, num := range xmlquery.QuerySelectorAll(root, numInstanceExpr) {
		numID := attrValue(num, "numId")
		if numID == "" {
			continue
		}
		inst := listInstance{
			abstractID:     childVal(num, "abstractNumId"),
			startOverrides: make(map[int]int),
		}
		for _, ov := range childElements(num, "lvlOverride") {
			ilvl, ok := attrInt(ov, "ilvl")
			if !ok {
				continue
			}
			if start, ok := attrInt(childElement(ov, "startOverride"), "val"); ok {
				inst.startOverrides[ilvl] = start
			}
		}
		defs.lists[numID] = inst
	}

	return defs
}

// HasList reports whether listID is bound to an abstract definition
func (d *NumberingDefinitions) HasList(listID string) bool {
	if d == nil || listID == NoListID {
		return false
	}
	inst, ok := d.lists[listID]
	if !ok {
		return false
	}
	_, ok = d.abstract[inst.abstractID]
	return ok
}

// Level returns the format for a list level, defaulting to decimal "%N."
func (d *NumberingDefinitions) Level(listID string, level int) LevelFormat {
	lf := LevelFormat{Format: FormatDecimal, Text: defaultLevelText(level), Start: 1}
	if d == nil {
		return lf
	}
	inst, ok := d.lists[listID]
	if !ok {
		return lf
	}
	if def, ok := d.abstract[inst.abstractID][level]; ok {
		lf = def
	}
	if start, ok := inst.startOverrides[level]; ok {
		lf.Start = start
	}
	return lf
}

func defaultLevelText(level int) string {
	return fmt.Sprintf("%%%d.", level+1)
}

// NumberingResolver renders list labels. It owns the per-list counters for a
// single conversion pass; create one per document.
type NumberingResolver struct {
	defs     *NumberingDefinitions
	counters map[string]*[MaxListLevels]int
	logger   *Logger
	warned   map[string]bool
}

// NewNumberingResolver creates a resolver over the given definitions (may be nil)
func NewNumberingResolver(defs *NumberingDefinitions, logger *Logger) *NumberingResolver {
	if logger == nil {
		logger = GetLogger()
	}
	return &NumberingResolver{
		defs:     defs,
		counters: make(map[string]*[MaxListLevels]int),
		logger:   logger,
		warned:   make(map[string]bool),
	}
}

// NextLabel advances the counter for listID at level and returns the rendered
// label. It is not idempotent: call it exactly once per numbered paragraph, in
// document order. The second result is false when no label applies, in which
// case no counter moved.
func (r *NumberingResolver) NextLabel(listID string, level int) (string, bool) {
	if !r.defs.HasList(listID) {
		return "", false
	}
	if level < 0 {
		level = 0
	}
	if level >= MaxListLevels {
		level = MaxListLevels - 1
	}

	counters, ok := r.counters[listID]
	if !ok {
		counters = &[MaxListLevels]int{}
		r.counters[listID] = counters
	}
	counters[level]++
	for i := level + 1; i < MaxListLevels; i++ {
		counters[i] = 0
	}

	current := r.defs.Level(listID, level)
	if current.Format == FormatBullet {
		return BulletGlyph, true
	}

	label := current.Text
	// deepest first so %10 is not read as %1
	for i := level; i >= 0; i-- {
		placeholder := "%" + strconv.Itoa(i+1)
		if !strings.Contains(label, placeholder) {
			continue
		}
		lf := r.defs.Level(listID, i)
		value := counters[i] + lf.Start - 1
		rendered, err := FormatNumber(value, lf.Format)
		if err != nil {
			r.warnFormat(&NumberingFormatError{ListID: listID, Level: i, Format: lf.Format})
		}
		label = strings.ReplaceAll(label, placeholder, rendered)
	}
	return label, true
}

// warnFormat logs each unrecognized list/level/format combination once per pass
func (r *NumberingResolver) warnFormat(err *NumberingFormatError) {
	key := err.ListID + "/" + strconv.Itoa(err.Level) + "/" + err.Format
	if r.warned[key] {
		return
	}
	r.warned[key] = true
	r.logger.WithFields(Fields{"list": err.ListID, "level": err.Level}).Warn("%v; rendering as decimal", err)
}

// FormatNumber renders n in the given format kind. Unrecognized kinds render
// as decimal and return a *NumberingFormatError alongside the decimal text.
func FormatNumber(n int, format string) (string, error) {
	switch format {
	case FormatDecimal, "":
		return strconv.Itoa(n), nil
	case FormatLowerLetter:
		return letter(n, 'a'), nil
	case FormatUpperLetter:
		return letter(n, 'A'), nil
	case FormatLowerRoman:
		return strings.ToLower(roman(n)), nil
	case FormatUpperRoman:
		return roman(n), nil
	case FormatBullet:
		return BulletGlyph, nil
	case FormatNone:
		return "", nil
	}
	return strconv.Itoa(n), &NumberingFormatError{Format: format}
}

// letter maps 1..26 to a single letter and falls back to digits outside that range
func letter(n int, base rune) string {
	if n < 1 || n > 26 {
		return strconv.Itoa(n)
	}
	return string(base + rune(n-1))
}

var romanNumerals = []struct {
	value   int
	numeral string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// roman renders subtractive numerals with no upper bound (thousands repeat M).
func roman(n int) string {
	if n <= 0 {
		return strconv.Itoa(n)
	}
	var b strings.Builder
	for _, rn := range romanNumerals {
		for n >= rn.value {
			b.WriteString(rn.numeral)
			n -= rn.value
		}
	}
	return b.String()
}
