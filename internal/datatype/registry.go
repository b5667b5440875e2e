package datatype

import "strings"

const xsdNS = "http://www.w3.org/2001/XMLSchema#"

// URI returns the fully-qualified XML Schema datatype URI for a bare local
// name, e.g. URI("integer") -> "http://www.w3.org/2001/XMLSchema#integer".
func URI(localName string) string {
	return xsdNS + localName
}

// shorthands maps the CSV-W metadata vocabulary's shorthand datatype names
// to their canonical local names, applied before URI lookup (§4.6).
var shorthands = map[string]string{
	"number":   "double",
	"binary":   "base64Binary",
	"datetime": "dateTime",
	"any":      "anyAtomicType",
	"xml":      "XMLLiteral",
	"html":     "HTML",
	"json":     "JSON",
}

// ResolveLocalName applies the shorthand mapping. Names not present in the
// map pass through unchanged.
func ResolveLocalName(name string) string {
	if mapped, ok := shorthands[name]; ok {
		return mapped
	}
	return name
}

// LocalNameFromURI strips the XML Schema namespace prefix, or returns s
// unchanged if it isn't namespaced (callers already resolved shorthands).
func LocalNameFromURI(s string) string {
	if strings.HasPrefix(s, xsdNS) {
		return strings.TrimPrefix(s, xsdNS)
	}
	return s
}

// ParseFunc parses one cell-item's text into a Value, given the column's
// optional format (pattern + separator chars). A nil format means "no
// format provided".
type ParseFunc func(raw string, format *FormatInfo) (Value, *ParseError)

// FormatInfo is the subset of schema.Format the datatype layer needs,
// re-declared here to avoid an import cycle with internal/schema.
type FormatInfo struct {
	Pattern     string
	GroupChar   rune
	DecimalChar rune
}

// FormatValidateFunc checks a raw item against format.pattern for
// string-like datatypes. Per the open question in SPEC_FULL.md §9(c),
// non-text datatypes have noAdditionalValidation: their registry entries
// carry no FormatValidateFunc (Lookup returns nil), and internal/column only
// calls it for the string-like family.
type FormatValidateFunc func(raw, pattern string) bool

type registryEntry struct {
	parse          ParseFunc
	formatValidate FormatValidateFunc
	stringLike     bool
}

var registry map[string]registryEntry

func init() {
	registry = map[string]registryEntry{}

	rawString := func(localName string, trim bool) {
		registry[URI(localName)] = registryEntry{
			parse:          stringParser(trim),
			formatValidate: regexFormatValidate,
			stringLike:     true,
		}
	}

	rawString("string", false)
	rawString("anyAtomicType", false)
	for _, n := range []string{
		"normalizedString", "token", "language", "Name", "NMTOKEN",
		"anyURI", "base64Binary", "hexBinary", "QName", "XMLLiteral",
		"HTML", "JSON",
	} {
		rawString(n, true)
	}

	registry[URI("boolean")] = registryEntry{parse: parseBoolean}

	registry[URI("decimal")] = registryEntry{parse: parseDecimal}

	for _, n := range []string{"integer", "long", "int", "short", "byte"} {
		registry[URI(n)] = registryEntry{parse: signedIntParser(n)}
	}
	for _, n := range []string{
		"nonNegativeInteger", "positiveInteger", "unsignedLong",
		"unsignedInt", "unsignedShort", "unsignedByte",
		"nonPositiveInteger", "negativeInteger",
	} {
		registry[URI(n)] = registryEntry{parse: boundedIntParser(n)}
	}

	registry[URI("double")] = registryEntry{parse: floatParser("double")}
	registry[URI("float")] = registryEntry{parse: floatParser("float")}

	for _, n := range []string{
		"date", "dateTime", "dateTimeStamp", "gDay", "gMonth",
		"gMonthDay", "gYear", "gYearMonth", "time",
	} {
		registry[URI(n)] = registryEntry{parse: dateTimeParser(n)}
	}

	for _, n := range []string{"duration", "dayTimeDuration", "yearMonthDuration"} {
		registry[URI(n)] = registryEntry{parse: durationParser(n)}
	}
}

// Lookup returns the parse function for a resolved datatype URI, and
// whether format_validate should be invoked for it (string-like family
// only, per §9(c)).
func Lookup(datatypeURI string) (ParseFunc, FormatValidateFunc, bool) {
	entry, ok := registry[datatypeURI]
	if !ok {
		return nil, nil, false
	}
	return entry.parse, entry.formatValidate, entry.stringLike
}
