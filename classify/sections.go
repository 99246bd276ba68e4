// Copyright 2025 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package classify

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v2"
)

// Curve is an ABC curve class.
type Curve string

const (
	CurveNone Curve = ""
	CurveA    Curve = "A"
	CurveB    Curve = "B"
	CurveC    Curve = "C"
)

// Valid reports whether c is one of A, B or C.
func (c Curve) Valid() bool { return c == CurveA || c == CurveB || c == CurveC }

// IsCurveMarker returns the curve announced by a "Curva X" row.
func IsCurveMarker(rowText string) Curve {
	switch {
	case strings.Contains(rowText, "Curva A"):
		return CurveA
	case strings.Contains(rowText, "Curva B"):
		return CurveB
	case strings.Contains(rowText, "Curva C"):
		return CurveC
	}
	return CurveNone
}

const maxLabelLen = 50

// DefaultFamily is the family of stock rows preceding any family header.
const DefaultFamily = "Sin familia"

var rFamilyHeader = regexp.MustCompile(`^\d+\s+[A-ZÁÉÍÓÚÑÜ\s]+$`)

// IsFamilyHeader reports whether the whole row text is a numeric family
// code followed by an all-caps family name.
func IsFamilyHeader(rowText string) bool {
	return rFamilyHeader.MatchString(strings.TrimSpace(rowText))
}

var rLeadingNumber = regexp.MustCompile(`^\d+\s*`)

// FamilyName returns the family name of a family header row.
func FamilyName(rowText string) string {
	name := strings.TrimSpace(rLeadingNumber.ReplaceAllString(strings.TrimSpace(rowText), ""))
	if name == "" {
		return DefaultFamily
	}
	return truncate(name, maxLabelLen)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}

// ServiceLabel names a service when Keyword appears in a header row.
type ServiceLabel struct {
	Keyword string `yaml:"keyword"`
	Label   string `yaml:"label"`
}

// ServiceID marks a service header by a numeric id leading the row and
// a keyword anywhere in it, for exports that drop the generic
// "Servicio:" marker.
type ServiceID struct {
	ID      string `yaml:"id"`
	Keyword string `yaml:"keyword"`
	Label   string `yaml:"label"`
}

// Rules is the section-header configuration of the curve report.
type Rules struct {
	// Marker is the generic header word, recognized together with a colon.
	Marker string `yaml:"marker"`
	// Default is the service of rows before any header.
	Default string         `yaml:"default"`
	Labels  []ServiceLabel `yaml:"labels"`
	IDs     []ServiceID    `yaml:"ids"`
}

// DefaultRules returns the built-in section rules.
func DefaultRules() *Rules {
	return &Rules{
		Marker:  "Servicio",
		Default: "Servicio General",
		Labels: []ServiceLabel{
			{Keyword: "Desayuno", Label: "Desayuno"},
			{Keyword: "Almuerzo", Label: "Almuerzo"},
			{Keyword: "Cena", Label: "Cena"},
			{Keyword: "Colacion", Label: "Colación"},
			{Keyword: "Colación", Label: "Colación"},
			{Keyword: "Once", Label: "Once"},
		},
		IDs: []ServiceID{
			{ID: "1", Keyword: "DESAYUNO", Label: "Desayuno"},
			{ID: "2", Keyword: "ALMUERZO", Label: "Almuerzo"},
			{ID: "3", Keyword: "CENA", Label: "Cena"},
			{ID: "4", Keyword: "COLACION", Label: "Colación"},
		},
	}
}

// LoadRules reads the rules from a YAML file.
// Missing fields are taken from DefaultRules.
func LoadRules(path string) (*Rules, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRules(b)
}

// ParseRules parses YAML rules. Missing fields are taken from DefaultRules.
func ParseRules(b []byte) (*Rules, error) {
	var r Rules
	if err := yaml.UnmarshalStrict(b, &r); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	def := DefaultRules()
	if r.Marker == "" {
		r.Marker = def.Marker
	}
	if r.Default == "" {
		r.Default = def.Default
	}
	if r.Labels == nil {
		r.Labels = def.Labels
	}
	if r.IDs == nil {
		r.IDs = def.IDs
	}
	for i, id := range r.IDs {
		if id.ID == "" || id.Keyword == "" {
			return nil, fmt.Errorf("ids[%d]: both id and keyword are required", i)
		}
	}
	return &r, nil
}

// Marshal returns the YAML form of the rules.
func (r *Rules) Marshal() ([]byte, error) { return yaml.Marshal(r) }

func (r *Rules) orDefault() *Rules {
	if r == nil {
		return DefaultRules()
	}
	return r
}

// IsServiceHeader reports whether the row text announces a service section:
// the generic marker with a colon, or a known (id, keyword) pair.
func (r *Rules) IsServiceHeader(rowText string) bool {
	r = r.orDefault()
	if r.Marker != "" && strings.Contains(rowText, r.Marker) && strings.Contains(rowText, ":") {
		return true
	}
	_, ok := r.matchID(rowText)
	return ok
}

func (r *Rules) matchID(rowText string) (ServiceID, bool) {
	if len(r.IDs) == 0 {
		return ServiceID{}, false
	}
	first, _, _ := strings.Cut(strings.TrimSpace(rowText), " ")
	first = strings.TrimRight(first, ".-:")
	if first == "" {
		return ServiceID{}, false
	}
	upper := strings.ToUpper(rowText)
	for _, id := range r.IDs {
		if first == id.ID && strings.Contains(upper, strings.ToUpper(id.Keyword)) {
			return id, true
		}
	}
	return ServiceID{}, false
}

// ServiceLabel returns the name of the service announced by a header row.
func (r *Rules) ServiceLabel(rowText string) string {
	r = r.orDefault()
	for _, l := range r.Labels {
		if strings.Contains(rowText, l.Keyword) {
			return l.Label
		}
	}
	if id, ok := r.matchID(rowText); ok {
		if id.Label != "" {
			return id.Label
		}
		return id.Keyword
	}
	if _, after, ok := strings.Cut(rowText, ":"); ok {
		if s := strings.TrimSpace(after); s != "" {
			return truncate(s, maxLabelLen)
		}
	}
	if r.Marker != "" {
		return r.Marker
	}
	return "Servicio"
}

// DefaultService returns the service of rows preceding any header.
func (r *Rules) DefaultService() string { return r.orDefault().Default }
