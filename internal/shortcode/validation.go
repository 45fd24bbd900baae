package shortcode

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-masthead/pkg/interfaces"
)

var (
	// ErrMissingParameter indicates a required attribute was not provided.
	ErrMissingParameter = errors.New("shortcode: missing required parameter")
	// ErrParameterType indicates an attribute could not be coerced to its declared type.
	ErrParameterType = errors.New("shortcode: parameter type mismatch")
)

// Validator checks definitions and coerces attributes.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateDefinition requires a name, a handler or template, and uniquely
// named parameters of known types. Templates are parsed eagerly.
func (v *Validator) ValidateDefinition(def interfaces.ShortcodeDefinition) error {
	if strings.TrimSpace(def.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDefinition)
	}
	if def.Handler == nil && strings.TrimSpace(def.Template) == "" {
		return fmt.Errorf("%w: %s needs a handler or template", ErrInvalidDefinition, def.Name)
	}
	if def.Handler == nil {
		if _, err := parseTemplate(def); err != nil {
			return fmt.Errorf("%w: %s template: %v", ErrInvalidDefinition, def.Name, err)
		}
	}

	seen := make(map[string]struct{}, len(def.Params))
	for _, param := range def.Params {
		name := strings.TrimSpace(param.Name)
		if name == "" {
			return fmt.Errorf("%w: parameter name required", ErrInvalidDefinition)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate parameter %q", ErrInvalidDefinition, name)
		}
		seen[name] = struct{}{}

		switch param.Type {
		case "", interfaces.ShortcodeParamString,
			interfaces.ShortcodeParamInt,
			interfaces.ShortcodeParamBool,
			interfaces.ShortcodeParamURL:
		default:
			return fmt.Errorf("%w: parameter %q unknown type %q", ErrInvalidDefinition, name, param.Type)
		}
	}
	return nil
}

// CoerceParams applies defaults and converts supplied attributes to their
// declared types. Attributes the definition does not declare are dropped.
func (v *Validator) CoerceParams(def interfaces.ShortcodeDefinition, supplied map[string]any, sanitizer interfaces.ShortcodeSanitizer) (map[string]any, error) {
	out := make(map[string]any, len(def.Params))
	for _, param := range def.Params {
		value, ok := supplied[param.Name]
		if !ok {
			if param.Required {
				return nil, fmt.Errorf("%w: %s", ErrMissingParameter, param.Name)
			}
			if param.Default != nil {
				out[param.Name] = param.Default
			}
			continue
		}

		coerced, err := coerceValue(param.Type, value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %v", ErrParameterType, param.Name, err)
		}
		if param.Type == interfaces.ShortcodeParamURL && sanitizer != nil {
			if err := sanitizer.ValidateURL(coerced.(string)); err != nil {
				return nil, err
			}
		}
		if param.Validate != nil {
			if err := param.Validate(coerced); err != nil {
				return nil, err
			}
		}
		out[param.Name] = coerced
	}
	return out, nil
}

func coerceValue(paramType interfaces.ShortcodeParamType, value any) (any, error) {
	switch paramType {
	case "", interfaces.ShortcodeParamString:
		return fmt.Sprint(value), nil
	case interfaces.ShortcodeParamInt:
		return coerceInt(value)
	case interfaces.ShortcodeParamBool:
		return coerceBool(value)
	case interfaces.ShortcodeParamURL:
		raw := strings.TrimSpace(fmt.Sprint(value))
		if _, err := url.Parse(raw); err != nil {
			return nil, err
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("unsupported parameter type %q", paramType)
	}
}

func coerceInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(v))
	default:
		return 0, fmt.Errorf("cannot convert %T to int", value)
	}
}

func coerceBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on":
			return true, nil
		case "", "0", "false", "no", "off":
			return false, nil
		}
		return false, fmt.Errorf("cannot convert %q to bool", v)
	default:
		return false, fmt.Errorf("cannot convert %T to bool", value)
	}
}
