package prefs

import (
	"bytes"
	"encoding/xml"
	"slices"

	"github.com/thoreinstein/prefkeep/internal/errors"
)

// Entry kinds understood by the XML map format.
const (
	kindString  = "string"
	kindBoolean = "boolean"
	kindInt     = "int"
	kindLong    = "long"
	kindFloat   = "float"
	kindSet     = "set"
)

// entry is one typed value in a store. Sets keep their members in items.
// Elements of any other kind are carried through untouched in attrs and raw.
type entry struct {
	kind  string
	value string
	items []string
	attrs []xml.Attr
	raw   []byte
}

type xmlMap struct {
	XMLName xml.Name   `xml:"map"`
	Entries []xmlEntry `xml:",any"`
}

type xmlEntry struct {
	XMLName xml.Name
	Name    string `xml:"name,attr"`
	Value   string     `xml:"value,attr,omitempty"`
	Attrs   []xml.Attr `xml:",any,attr"`
	Text    string     `xml:",chardata"`
	Items   []string   `xml:"string"`
	Inner   []byte     `xml:",innerxml"`
}

// decode parses a shared-preferences style XML map. Empty input is an empty map.
func decode(data []byte) (map[string]entry, error) {
	entries := make(map[string]entry)
	if len(bytes.TrimSpace(data)) == 0 {
		return entries, nil
	}

	var m xmlMap
	if err := xml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "parsing preference XML")
	}

	for _, e := range m.Entries {
		if e.Name == "" {
			continue
		}
		switch kind := e.XMLName.Local; kind {
		case kindString:
			entries[e.Name] = entry{kind: kind, value: e.Text}
		case kindBoolean, kindInt, kindLong, kindFloat:
			entries[e.Name] = entry{kind: kind, value: e.Value}
		case kindSet:
			entries[e.Name] = entry{kind: kind, items: e.Items}
		default:
			entries[e.Name] = entry{kind: kind, value: e.Value, attrs: e.Attrs, raw: e.Inner}
		}
	}
	return entries, nil
}

// encode renders entries sorted by key.
func encode(entries map[string]entry) ([]byte, error) {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	m := xmlMap{Entries: make([]xmlEntry, 0, len(keys))}
	for _, k := range keys {
		e := entries[k]
		xe := xmlEntry{XMLName: xml.Name{Local: e.kind}, Name: k}
		switch e.kind {
		case kindString:
			xe.Text = e.value
		case kindSet:
			xe.Items = e.items
		case kindBoolean, kindInt, kindLong, kindFloat:
			xe.Value = e.value
		default:
			xe.Value = e.value
			xe.Attrs = e.attrs
			xe.Inner = e.raw
		}
		m.Entries = append(m.Entries, xe)
	}

	body, err := xml.MarshalIndent(m, "", "    ")
	if err != nil {
		return nil, errors.Wrap(err, "encoding preference XML")
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.Write(body)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
