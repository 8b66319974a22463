// Package settings implements the typed, serializable configuration
// tree described in spec.md §3 and §6.3: a tree of sections ->
// categories -> groups -> settings, loaded from an XML-shaped
// definition and snapshotted to/from XML fragments carrying only
// non-default leaves.
package settings

import (
	"encoding/xml"
	"errors"
	"fmt"

	"mediaimport/importerrors"
)

// ValueType enumerates the primitive kinds a Setting can hold.
type ValueType string

const (
	TypeBool   ValueType = "bool"
	TypeInt    ValueType = "int"
	TypeNumber ValueType = "number"
	TypeString ValueType = "string"
	TypeList   ValueType = "list"
	TypeAction ValueType = "action"
)

// Setting is a single leaf value in the settings tree.
type Setting struct {
	ID      string
	Type    ValueType
	Default any
	Value   any
}

// IsDefault reports whether the setting currently holds its default
// value (used when snapshotting: only non-default leaves are written).
func (s *Setting) IsDefault() bool {
	return valuesEqual(s.Value, s.Default)
}

func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	as, aok := a.(fmt.Stringer)
	bs, bok := b.(fmt.Stringer)
	if aok && bok {
		return as.String() == bs.String()
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

// Group is a named collection of Settings.
type Group struct {
	ID       string
	Settings map[string]*Setting
}

// Category is a named collection of Groups.
type Category struct {
	ID     string
	Groups map[string]*Group
}

// Section is a named collection of Categories.
type Section struct {
	ID         string
	Categories map[string]*Category
}

// Settings is the root of the configuration tree carried by every
// Source and Import (§3). It is serializable to/from XML and supports
// deep cloning so that per-job mutation never leaks back into the
// registry copy.
type Settings struct {
	Sections map[string]*Section
}

// NewSettings constructs an empty Settings tree with the default
// sync.* leaves required on every Import by §3.
func NewSettings() *Settings {
	s := &Settings{Sections: make(map[string]*Section)}
	s.ensureSyncDefaults()
	return s
}

func (s *Settings) ensureSyncDefaults() {
	sec := s.ensureSection("sync")
	cat := sec.ensureCategory("sync")
	grp := cat.ensureGroup("sync")
	grp.ensureSetting("importtrigger", TypeString, "auto")
	grp.ensureSetting("updateimporteditems", TypeBool, true)
	grp.ensureSetting("updateplaybackmetadatafromsource", TypeBool, true)
	grp.ensureSetting("updateplaybackmetadataonsource", TypeBool, true)
}

func (s *Settings) ensureSection(id string) *Section {
	if s.Sections == nil {
		s.Sections = make(map[string]*Section)
	}
	sec, ok := s.Sections[id]
	if !ok {
		sec = &Section{ID: id, Categories: make(map[string]*Category)}
		s.Sections[id] = sec
	}
	return sec
}

func (sec *Section) ensureCategory(id string) *Category {
	if sec.Categories == nil {
		sec.Categories = make(map[string]*Category)
	}
	cat, ok := sec.Categories[id]
	if !ok {
		cat = &Category{ID: id, Groups: make(map[string]*Group)}
		sec.Categories[id] = cat
	}
	return cat
}

func (cat *Category) ensureGroup(id string) *Group {
	if cat.Groups == nil {
		cat.Groups = make(map[string]*Group)
	}
	grp, ok := cat.Groups[id]
	if !ok {
		grp = &Group{ID: id, Settings: make(map[string]*Setting)}
		cat.Groups[id] = grp
	}
	return grp
}

func (grp *Group) ensureSetting(id string, t ValueType, def any) *Setting {
	if grp.Settings == nil {
		grp.Settings = make(map[string]*Setting)
	}
	st, ok := grp.Settings[id]
	if !ok {
		st = &Setting{ID: id, Type: t, Default: def, Value: def}
		grp.Settings[id] = st
	}
	return st
}

// syncPath is the fixed location of the four mandatory sync.* leaves.
var syncPath = []string{"sync", "sync", "sync"}

// get finds a leaf by its section, category, group and key, e.g.
// ("sync", "sync", "sync", "importtrigger").
func (s *Settings) get(section, category, group, key string) (*Setting, bool) {
	sec, ok := s.Sections[section]
	if !ok {
		return nil, false
	}
	cat, ok := sec.Categories[category]
	if !ok {
		return nil, false
	}
	grp, ok := cat.Groups[group]
	if !ok {
		return nil, false
	}
	st, ok := grp.Settings[key]
	return st, ok
}

// GetBool returns the named sync.* bool setting's current value,
// defaulting to def if unset.
func (s *Settings) GetBool(key string, def bool) bool {
	st, ok := s.get(syncPath[0], syncPath[1], syncPath[2], key)
	if !ok {
		return def
	}
	if v, ok := st.Value.(bool); ok {
		return v
	}
	return def
}

// SetBool sets the named sync.* bool setting.
func (s *Settings) SetBool(key string, value bool) {
	grp := s.ensureSection(syncPath[0]).ensureCategory(syncPath[1]).ensureGroup(syncPath[2])
	st := grp.ensureSetting(key, TypeBool, false)
	st.Value = value
}

// GetString returns the named sync.* string setting's current value.
func (s *Settings) GetString(key string, def string) string {
	st, ok := s.get(syncPath[0], syncPath[1], syncPath[2], key)
	if !ok {
		return def
	}
	if v, ok := st.Value.(string); ok {
		return v
	}
	return def
}

// SetString sets the named sync.* string setting.
func (s *Settings) SetString(key string, value string) {
	grp := s.ensureSection(syncPath[0]).ensureCategory(syncPath[1]).ensureGroup(syncPath[2])
	st := grp.ensureSetting(key, TypeString, "")
	st.Value = value
}

// ImportTrigger values (§3).
const (
	TriggerAuto   = "auto"
	TriggerManual = "manual"
)

// ApplyParentGate enforces the §3 dependency rule: when
// updateimporteditems is false, updateplaybackmetadatafromsource must
// also be disabled.
func (s *Settings) ApplyParentGate() {
	if !s.GetBool("updateimporteditems", true) {
		s.SetBool("updateplaybackmetadatafromsource", false)
	}
}

// Clone performs a deep copy of the settings tree.
func (s *Settings) Clone() *Settings {
	if s == nil {
		return nil
	}
	out := &Settings{Sections: make(map[string]*Section, len(s.Sections))}
	for sid, sec := range s.Sections {
		newSec := &Section{ID: sec.ID, Categories: make(map[string]*Category, len(sec.Categories))}
		for cid, cat := range sec.Categories {
			newCat := &Category{ID: cat.ID, Groups: make(map[string]*Group, len(cat.Groups))}
			for gid, grp := range cat.Groups {
				newGrp := &Group{ID: grp.ID, Settings: make(map[string]*Setting, len(grp.Settings))}
				for kid, st := range grp.Settings {
					copySt := *st
					newGrp.Settings[kid] = &copySt
				}
				newCat.Groups[gid] = newGrp
			}
			newSec.Categories[cid] = newCat
		}
		out.Sections[sid] = newSec
	}
	return out
}

// Equal compares two settings trees for deep value equality.
func (s *Settings) Equal(other *Settings) bool {
	if s == nil || other == nil {
		return s == other
	}
	if len(s.Sections) != len(other.Sections) {
		return false
	}
	for sid, sec := range s.Sections {
		osec, ok := other.Sections[sid]
		if !ok || len(sec.Categories) != len(osec.Categories) {
			return false
		}
		for cid, cat := range sec.Categories {
			ocat, ok := osec.Categories[cid]
			if !ok || len(cat.Groups) != len(ocat.Groups) {
				return false
			}
			for gid, grp := range cat.Groups {
				ogrp, ok := ocat.Groups[gid]
				if !ok || len(grp.Settings) != len(ogrp.Settings) {
					return false
				}
				for kid, st := range grp.Settings {
					ost, ok := ogrp.Settings[kid]
					if !ok || !valuesEqual(st.Value, ost.Value) {
						return false
					}
				}
			}
		}
	}
	return true
}

// ParseError is returned when a settings XML definition or snapshot is
// malformed (§4.A, §7 kind 7 "Configuration").
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("settings: parse error: %v", e.Cause)
}

func (e *ParseError) Unwrap() error { return errors.Join(importerrors.ErrConfiguration, e.Cause) }

// xmlDocument mirrors the wire shape described in §6.3: a root
// <settings version="1"> containing a flat list of non-default leaf
// values, addressed by dotted path.
type xmlDocument struct {
	XMLName xml.Name  `xml:"settings"`
	Version int       `xml:"version,attr"`
	Values  []xmlValue `xml:"value"`
}

type xmlValue struct {
	Path  string `xml:"path,attr"`
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

// Serialize writes only the non-default leaves of s as an XML fragment,
// per §6.3.
func (s *Settings) Serialize() ([]byte, error) {
	doc := xmlDocument{Version: 1}
	for _, sec := range sortedSections(s) {
		for _, cat := range sortedCategories(sec) {
			for _, grp := range sortedGroups(cat) {
				for _, st := range sortedSettings(grp) {
					if st.IsDefault() {
						continue
					}
					doc.Values = append(doc.Values, xmlValue{
						Path:  fmt.Sprintf("%s.%s.%s.%s", sec.ID, cat.ID, grp.ID, st.ID),
						Type:  string(st.Type),
						Value: fmt.Sprintf("%v", st.Value),
					})
				}
			}
		}
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, &ParseError{Cause: err}
	}
	return out, nil
}

// Parse reconstructs a Settings snapshot from an XML fragment produced
// by Serialize, applying the non-default leaves onto a fresh default
// tree so that parse(serialize(s)) == s (§6.3 round-trip property).
func Parse(data []byte) (*Settings, error) {
	var doc xmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Cause: err}
	}
	out := NewSettings()
	for _, v := range doc.Values {
		sec, cat, grp, key, err := splitPath(v.Path)
		if err != nil {
			return nil, &ParseError{Cause: err}
		}
		st := out.ensureSection(sec).ensureCategory(cat).ensureGroup(grp).ensureSetting(key, ValueType(v.Type), nil)
		st.Type = ValueType(v.Type)
		st.Value = decodeValue(ValueType(v.Type), v.Value)
	}
	return out, nil
}

func splitPath(path string) (sec, cat, grp, key string, err error) {
	var parts [4]string
	n := 0
	start := 0
	for i := 0; i <= len(path); i++ {
		if i == len(path) || path[i] == '.' {
			if n >= 4 {
				return "", "", "", "", fmt.Errorf("malformed settings path %q", path)
			}
			parts[n] = path[start:i]
			n++
			start = i + 1
		}
	}
	if n != 4 {
		return "", "", "", "", fmt.Errorf("malformed settings path %q", path)
	}
	return parts[0], parts[1], parts[2], parts[3], nil
}

func decodeValue(t ValueType, raw string) any {
	switch t {
	case TypeBool:
		return raw == "true"
	case TypeInt:
		var i int
		fmt.Sscanf(raw, "%d", &i)
		return i
	case TypeNumber:
		var f float64
		fmt.Sscanf(raw, "%f", &f)
		return f
	default:
		return raw
	}
}

func sortedSections(s *Settings) []*Section {
	return sortedValues(s.Sections, func(a, b *Section) bool { return a.ID < b.ID })
}
func sortedCategories(sec *Section) []*Category {
	return sortedValues(sec.Categories, func(a, b *Category) bool { return a.ID < b.ID })
}
func sortedGroups(cat *Category) []*Group {
	return sortedValues(cat.Groups, func(a, b *Group) bool { return a.ID < b.ID })
}
func sortedSettings(grp *Group) []*Setting {
	return sortedValues(grp.Settings, func(a, b *Setting) bool { return a.ID < b.ID })
}

func sortedValues[K comparable, V any](m map[K]V, less func(a, b V) bool) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && less(out[j], out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
