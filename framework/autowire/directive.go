package autowire

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ConfigType selects how a config directive is rendered.
type ConfigType string

const (
	ConfigArray  ConfigType = "array"
	ConfigObject ConfigType = "object"
	ConfigYAML   ConfigType = "yaml"
)

// DirectiveSpec holds the raw fields of a directive before validation.
type DirectiveSpec struct {
	Config     string
	ConfigType ConfigType
	Service    string
	Container  string
}

// Directive tells the factory how to resolve one constructor parameter
// instead of deriving a service name from its type.
//
// It injects either a configuration (Config, rendered per ConfigType) or a
// service (Service, optionally fetched from the sub-container Container).
// A Directive is immutable once built.
type Directive struct {
	spec DirectiveSpec
}

// NewDirective validates spec and returns the Directive.
func NewDirective(spec DirectiveSpec) (*Directive, error) {
	if spec.Config != "" {
		if spec.Service != "" {
			return nil, &DirectiveValidationError{Reason: "cannot contain both config and service"}
		}
		if spec.Container != "" {
			return nil, &DirectiveValidationError{Reason: "cannot contain both config and container"}
		}
	} else if spec.ConfigType != "" {
		return nil, &DirectiveValidationError{Reason: "cannot contain configType without config"}
	}
	return &Directive{spec: spec}, nil
}

// Config returns a directive injecting the named configuration.
// An empty configType means ConfigArray. It panics when name is empty and
// configType is not.
func Config(name string, configType ConfigType) *Directive {
	return mustDirective(DirectiveSpec{Config: name, ConfigType: configType})
}

// Service returns a directive injecting the named service, looked up in the
// sub-container named by in when it is not empty.
func Service(name, in string) *Directive {
	return mustDirective(DirectiveSpec{Service: name, Container: in})
}

// FromContainer returns a directive that keeps type-derived naming but looks
// the service up in the named sub-container.
func FromContainer(in string) *Directive {
	return mustDirective(DirectiveSpec{Container: in})
}

func mustDirective(spec DirectiveSpec) *Directive {
	d, err := NewDirective(spec)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Directive) Config() string    { return d.spec.Config }
func (d *Directive) Service() string   { return d.spec.Service }
func (d *Directive) Container() string { return d.spec.Container }

// ConfigType returns the configured type, ConfigArray when unset.
func (d *Directive) ConfigType() ConfigType {
	if d.spec.ConfigType == "" {
		return ConfigArray
	}
	return d.spec.ConfigType
}

// String renders the directive in tag syntax.
func (d *Directive) String() string {
	var parts []string
	add := func(key, val string) {
		if val != "" {
			parts = append(parts, key+"="+val)
		}
	}
	add("config", d.spec.Config)
	add("configType", string(d.spec.ConfigType))
	add("service", d.spec.Service)
	add("container", d.spec.Container)
	return strings.Join(parts, ",")
}

// ── Tag syntax ────────────────────────────────────────────────────────────────

type directiveAST struct {
	Pairs []*pairAST `parser:"( @@ ( ',' @@ )* )?"`
}

type pairAST struct {
	Key   string `parser:"@Word '='"`
	Value string `parser:"@( String | Word )"`
}

var directiveParser = participle.MustBuild[directiveAST](
	participle.Lexer(lexer.MustSimple([]lexer.SimpleRule{
		{Name: "String", Pattern: `"(\\"|[^"])*"`},
		{Name: "Word", Pattern: `[a-zA-Z_][a-zA-Z0-9_./\-]*`},
		{Name: "Punct", Pattern: `[=,]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})),
	participle.Unquote("String"),
	participle.Elide("Whitespace"),
)

// ParseDirective parses a directive written as comma separated key=value
// pairs. Values are bare words (dots, slashes and dashes allowed) or double
// quoted strings:
//
//	config=searches, configType=yaml
//	service="github.com/acme/ils.Connection"
//	container=view.helpers
//
// Blank text yields a nil Directive and no error.
func ParseDirective(tag string) (*Directive, error) {
	if strings.TrimSpace(tag) == "" {
		return nil, nil
	}
	ast, err := directiveParser.ParseString("", tag)
	if err != nil {
		return nil, &DirectiveValidationError{Tag: tag, Reason: err.Error()}
	}

	var spec DirectiveSpec
	seen := make(map[string]bool, len(ast.Pairs))
	for _, p := range ast.Pairs {
		if seen[p.Key] {
			return nil, &DirectiveValidationError{Tag: tag, Reason: "duplicate key " + p.Key}
		}
		seen[p.Key] = true
		switch p.Key {
		case "config":
			spec.Config = p.Value
		case "configType":
			spec.ConfigType = ConfigType(p.Value)
		case "service":
			spec.Service = p.Value
		case "container":
			spec.Container = p.Value
		default:
			return nil, &DirectiveValidationError{Tag: tag, Reason: "unknown key " + p.Key}
		}
	}

	d, err := NewDirective(spec)
	if err != nil {
		err.(*DirectiveValidationError).Tag = tag
		return nil, err
	}
	return d, nil
}

// MustParseDirective is like ParseDirective but panics on error. Intended
// for package-level class definitions.
func MustParseDirective(tag string) *Directive {
	d, err := ParseDirective(tag)
	if err != nil {
		panic(err)
	}
	return d
}
