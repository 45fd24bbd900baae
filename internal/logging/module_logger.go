package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-masthead/pkg/interfaces"
)

const (
	rootModule       = "masthead"
	headerModule     = "masthead.header"
	navigationModule = "masthead.navigation"
	httpModule       = "masthead.http"
	commandsModule   = "masthead.commands"
)

const (
	fieldObjectKind = "object_kind"
	fieldObjectID   = "object_id"
	fieldLocation   = "location"
	fieldURL        = "url"
)

// ModuleLogger returns a logger scoped to module. A nil provider, or one that
// hands back nil, yields NoOp. The module name is attached as the "module"
// field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return WithFields(logger, map[string]any{"module": module})
}

// HeaderLogger returns the logger used by header resolution.
func HeaderLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, headerModule)
}

// NavigationLogger returns the logger used by menu rendering and fetching.
func NavigationLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, navigationModule)
}

// HTTPLogger returns the logger used by the preview API.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// CommandsLogger returns the logger used by command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// WithObject annotates logger with the kind and id of a queried object.
// Blank values are skipped.
func WithObject(logger interfaces.Logger, kind, id string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(kind); trimmed != "" {
		fields[fieldObjectKind] = trimmed
	}
	if trimmed := strings.TrimSpace(id); trimmed != "" {
		fields[fieldObjectID] = trimmed
	}
	return WithFields(logger, fields)
}

// WithMenuSource annotates logger with the menu location and remote URL in use.
func WithMenuSource(logger interfaces.Logger, location, url string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(location); trimmed != "" {
		fields[fieldLocation] = trimmed
	}
	if trimmed := strings.TrimSpace(url); trimmed != "" {
		fields[fieldURL] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that discards everything.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger { return n }

func (n noopLogger) WithContext(context.Context) interfaces.Logger { return n }
