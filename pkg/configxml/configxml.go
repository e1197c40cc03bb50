package configxml

import (
	"bytes"
	"slices"
	"sort"
	"strings"
)

const (
	// DefaultRootElement is the configuration root of a Cordova config.xml.
	DefaultRootElement = "widget"

	// VersionAttr is the attribute holding the app version.
	VersionAttr = "version"
)

// DefaultBuildNumberAttrs are the platform build-number attributes Cordova
// reads from the configuration root.
var DefaultBuildNumberAttrs = []string{
	"android-versionCode",
	"ios-CFBundleVersion",
	"osx-CFBundleVersion",
}

type options struct {
	buildNumber      *string
	rootElement      string
	buildNumberAttrs []string
}

// Option configures [Upsert] and [Read].
type Option func(*options)

// WithBuildNumber sets every build-number attribute to n. Without it, existing
// build-number attributes are left untouched and none are added.
func WithBuildNumber(n string) Option {
	return func(o *options) {
		o.buildNumber = &n
	}
}

// WithRootElement overrides the name of the configuration root element.
func WithRootElement(name string) Option {
	return func(o *options) {
		if name != "" {
			o.rootElement = name
		}
	}
}

// WithBuildNumberAttrs overrides the build-number attribute names. The names
// are cleaned with [BuildNumberAttrs]; calling it without names keeps the
// defaults.
func WithBuildNumberAttrs(names ...string) Option {
	return func(o *options) {
		if len(names) > 0 {
			o.buildNumberAttrs = BuildNumberAttrs(names...)
		}
	}
}

// BuildNumberAttrs returns names in their original order without empty
// names, repeated names, or [VersionAttr].
func BuildNumberAttrs(names ...string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" || name == VersionAttr || slices.Contains(out, name) {
			continue
		}

		out = append(out, name)
	}

	return out
}

func newOptions(opts []Option) *options {
	o := &options{
		rootElement:      DefaultRootElement,
		buildNumberAttrs: DefaultBuildNumberAttrs,
	}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Info describes the version attributes currently set on the configuration
// root.
type Info struct {
	// BuildNumbers maps each build-number attribute that is present to its
	// value.
	BuildNumbers map[string]string
	Version      string
	HasVersion   bool
}

// Read returns the version attributes of the configuration root in src.
func Read(src []byte, opts ...Option) (Info, error) {
	o := newOptions(opts)

	root, err := locateRoot(src, o.rootElement)
	if err != nil {
		return Info{}, err
	}

	info := Info{BuildNumbers: map[string]string{}}

	for _, a := range root.elem.Attr {
		if a.Name.Space != "" {
			continue
		}

		switch {
		case a.Name.Local == VersionAttr:
			info.Version = a.Value
			info.HasVersion = true
		case slices.Contains(o.buildNumberAttrs, a.Name.Local):
			info.BuildNumbers[a.Name.Local] = a.Value
		}
	}

	return info, nil
}

// Upsert returns a copy of src with the version attribute of the
// configuration root set to version, inserting the attribute if it is
// missing. See [WithBuildNumber] for build numbers.
func Upsert(src []byte, version string, opts ...Option) ([]byte, error) {
	o := newOptions(opts)

	root, err := locateRoot(src, o.rootElement)
	if err != nil {
		return nil, err
	}

	edits := []edit{root.tag.set(VersionAttr, version)}

	if o.buildNumber != nil {
		for _, name := range o.buildNumberAttrs {
			edits = append(edits, root.tag.set(name, *o.buildNumber))
		}
	}

	return apply(src, edits), nil
}

// edit replaces src[at:at+del] with text.
type edit struct {
	text string
	at   int
	del  int
}

func apply(src []byte, edits []edit) []byte {
	// Inserts at the same offset keep their relative order.
	sort.SliceStable(edits, func(i, j int) bool {
		return edits[i].at < edits[j].at
	})

	var b bytes.Buffer

	b.Grow(len(src) + 64)

	pos := 0
	for _, e := range edits {
		b.Write(src[pos:e.at])
		b.WriteString(e.text)
		pos = e.at + e.del
	}

	b.Write(src[pos:])

	return b.Bytes()
}

func (t *startTag) set(name, value string) edit {
	if a := t.find(name); a != nil {
		return edit{
			at:   a.valStart,
			del:  a.valEnd - a.valStart,
			text: escapeAttr(value, a.quote),
		}
	}

	quote := byte('"')
	sep := " "

	if n := len(t.attrs); n > 0 {
		last := t.attrs[n-1]
		quote = last.quote

		if strings.Contains(last.lead, "\n") {
			sep = last.lead
		}
	}

	q := string(quote)

	return edit{
		at:   t.insertAt(),
		text: sep + name + "=" + q + escapeAttr(value, quote) + q,
	}
}

var (
	doubleQuoteEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		`"`, "&quot;",
		"\n", "&#xA;",
		"\r", "&#xD;",
		"\t", "&#x9;",
	)
	singleQuoteEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		"'", "&apos;",
		"\n", "&#xA;",
		"\r", "&#xD;",
		"\t", "&#x9;",
	)
)

func escapeAttr(s string, quote byte) string {
	if quote == '\'' {
		return singleQuoteEscaper.Replace(s)
	}

	return doubleQuoteEscaper.Replace(s)
}
