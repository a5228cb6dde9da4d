package feature

import "strings"

// Attribute is one tag=value pair of the GFF3 attribute column. Values are
// kept verbatim, including any percent-encoding and comma-separated lists.
type Attribute struct {
	Tag, Value string
}

// Attributes is the ordered attribute column of a feature.
type Attributes []Attribute

// Get returns the value for tag.
func (a Attributes) Get(tag string) (string, bool) {
	for _, attr := range a {
		if attr.Tag == tag {
			return attr.Value, true
		}
	}
	return "", false
}

// Set replaces the value for tag, or appends the pair if tag is absent.
func (a *Attributes) Set(tag, value string) {
	for i := range *a {
		if (*a)[i].Tag == tag {
			(*a)[i].Value = value
			return
		}
	}
	*a = append(*a, Attribute{Tag: tag, Value: value})
}

// Delete removes tag.
func (a *Attributes) Delete(tag string) {
	out := (*a)[:0]
	for _, attr := range *a {
		if attr.Tag != tag {
			out = append(out, attr)
		}
	}
	*a = out
}

// String formats the attributes as a GFF3 column 9, "." when empty.
func (a Attributes) String() string {
	if len(a) == 0 {
		return "."
	}
	var b strings.Builder
	for i, attr := range a {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(attr.Tag)
		b.WriteByte('=')
		b.WriteString(attr.Value)
	}
	return b.String()
}

// ParseAttributes parses a GFF3 column 9. "." and "" yield nil. Pairs
// without "=" are kept with an empty value.
func ParseAttributes(col string) Attributes {
	col = strings.TrimSpace(col)
	if col == "" || col == "." {
		return nil
	}
	var attrs Attributes
	for _, field := range strings.Split(col, ";") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		eq := strings.IndexByte(field, '=')
		if eq < 0 {
			attrs = append(attrs, Attribute{Tag: field})
			continue
		}
		attrs = append(attrs, Attribute{Tag: field[:eq], Value: field[eq+1:]})
	}
	return attrs
}
