package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// AnchorStyle selects how method headings are rendered
type AnchorStyle string

const (
	// AnchorPlain renders "### Method"
	AnchorPlain AnchorStyle = "plain"
	// AnchorExplicit renders "### Method {#anchor}"
	AnchorExplicit AnchorStyle = "explicit"
)

// Parameter keys
const (
	KeyOutput      = "output"
	KeyAnchorStyle = "anchor_style"
)

// Options holds generator configuration
type Options struct {
	// Output names the single aggregated document. Empty selects one
	// document per input file.
	Output      string      `yaml:"output" validate:"omitempty,max=255"`
	AnchorStyle AnchorStyle `yaml:"anchor_style" validate:"required,oneof=plain explicit"`
}

// DefaultOptions returns per-file output with plain headings
func DefaultOptions() *Options {
	return &Options{
		AnchorStyle: AnchorPlain,
	}
}

// SingleFile reports whether all files render into one document
func (o *Options) SingleFile() bool {
	return o.Output != ""
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report option keys rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks option values
func (o *Options) Validate() error {
	err := validate.Struct(o)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &InvalidOptionError{Reason: err.Error()}
	}

	first := verrs[0]
	reason := fmt.Sprintf("failed %q validation", first.Tag())
	switch first.Tag() {
	case "required":
		reason = "value required"
	case "oneof":
		reason = fmt.Sprintf("must be one of: %s", strings.ReplaceAll(first.Param(), " ", ", "))
	case "max":
		reason = fmt.Sprintf("must be at most %s characters", first.Param())
	}
	return &InvalidOptionError{
		Key:    first.Field(),
		Value:  fmt.Sprint(first.Value()),
		Reason: reason,
	}
}

// ParseParameter parses the protoc plugin parameter string
func ParseParameter(parameter string) (*Options, error) {
	opts := DefaultOptions()
	seen := make(map[string]bool)

	for _, pair := range strings.Split(parameter, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, &InvalidOptionError{Key: pair, Reason: "expected key=value"}
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if seen[key] {
			return nil, &InvalidOptionError{Key: key, Value: value, Reason: "option given more than once"}
		}
		seen[key] = true

		switch key {
		case KeyOutput:
			if value == "" {
				return nil, &InvalidOptionError{Key: key, Reason: "document name must not be empty"}
			}
			opts.Output = value
		case KeyAnchorStyle:
			opts.AnchorStyle = AnchorStyle(value)
		default:
			return nil, &InvalidOptionError{Key: key, Value: value, Reason: "unknown option"}
		}
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// LoadFile reads options from a YAML file. Unknown keys are rejected.
func LoadFile(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Load(bytes.NewReader(data))
}

// Load reads YAML options from r
func Load(r io.Reader) (*Options, error) {
	opts := DefaultOptions()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(opts); err != nil && !errors.Is(err, io.EOF) {
		return nil, &InvalidOptionError{Reason: err.Error()}
	}

	if opts.AnchorStyle == "" {
		opts.AnchorStyle = AnchorPlain
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}
