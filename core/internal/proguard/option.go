package proguard

import "strings"

// Names of the options the orchestrator emits itself.
const (
	InJars        = "injars"
	LibraryJars   = "libraryjars"
	OutJars       = "outjars"
	Include       = "include"
	DontObfuscate = "dontobfuscate"
	DontShrink    = "dontshrink"
	DontWarn      = "dontwarn"
	PrintMapping  = "printmapping"
	PrintSeeds    = "printseeds"
	Verbose       = "verbose"
)

// Option is a single tool argument rendered as "-name value" or "-name".
type Option struct {
	Name  string
	Value string
}

func NewOption(name string, value ...string) Option {
	o := Option{Name: name}
	if len(value) > 0 {
		o.Value = value[0]
	}
	return o
}

func (o Option) String() string {
	if o.Name == "" {
		return ""
	}
	if o.Value == "" {
		return "-" + o.Name
	}
	return "-" + o.Name + " " + o.Value
}

// Options is an ordered argument list. Order is significant.
type Options []Option

func (opts Options) Strings() []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		if s := o.String(); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (opts Options) String() string {
	return strings.Join(opts.Strings(), " ")
}

// Named returns the options with the given name, in order.
func (opts Options) Named(name string) Options {
	var out Options
	for _, o := range opts {
		if o.Name == name {
			out = append(out, o)
		}
	}
	return out
}
