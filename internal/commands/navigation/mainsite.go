package navigationcmd

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-masthead/internal/commands"
	"github.com/goliatone/go-masthead/internal/logging"
	"github.com/goliatone/go-masthead/internal/navigation"
	"github.com/goliatone/go-masthead/pkg/interfaces"
)

const (
	refreshMainsiteMenuMessageType    = "masthead.navigation.mainsite.refresh"
	invalidateMainsiteMenuMessageType = "masthead.navigation.mainsite.invalidate"
)

// ErrEmptyDocument is returned when a refresh yields no items and the
// command does not allow it.
var ErrEmptyDocument = navigation.ErrEmptyDocument

// MainsiteMenu is the slice of the navigation service the commands drive.
type MainsiteMenu interface {
	Refresh(ctx context.Context, allowEmpty bool) (*navigation.Document, error)
	Invalidate(ctx context.Context) error
}

// RefreshMainsiteMenuCommand refetches the mainsite menu and replaces the
// cached copy.
type RefreshMainsiteMenuCommand struct {
	// Reason is recorded in the log entry.
	Reason string `json:"reason,omitempty"`
	// AllowEmpty accepts a document without items.
	AllowEmpty bool `json:"allow_empty,omitempty"`
}

func (RefreshMainsiteMenuCommand) Type() string { return refreshMainsiteMenuMessageType }

func (c RefreshMainsiteMenuCommand) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Reason, validation.Length(0, 200)),
	)
}

// InvalidateMainsiteMenuCommand drops the cached mainsite menu so the next
// render fetches it again.
type InvalidateMainsiteMenuCommand struct {
	Reason string `json:"reason,omitempty"`
}

func (InvalidateMainsiteMenuCommand) Type() string { return invalidateMainsiteMenuMessageType }

func (c InvalidateMainsiteMenuCommand) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Reason, validation.Length(0, 200)),
	)
}

// RefreshMainsiteMenuHandler executes RefreshMainsiteMenuCommand.
type RefreshMainsiteMenuHandler struct {
	inner *commands.Handler[RefreshMainsiteMenuCommand]
}

func NewRefreshMainsiteMenuHandler(menu MainsiteMenu, logger interfaces.Logger, opts ...commands.HandlerOption[RefreshMainsiteMenuCommand]) *RefreshMainsiteMenuHandler {
	if logger == nil {
		logger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg RefreshMainsiteMenuCommand) error {
		doc, err := menu.Refresh(ctx, msg.AllowEmpty)
		if err != nil {
			return err
		}
		items := 0
		if doc != nil {
			items = len(doc.Items)
		}
		logging.WithFields(logger, map[string]any{
			"items":  items,
			"reason": strings.TrimSpace(msg.Reason),
		}).Info("navigation.command.mainsite.refreshed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[RefreshMainsiteMenuCommand]{
		commands.WithLogger[RefreshMainsiteMenuCommand](logger),
		commands.WithOperation[RefreshMainsiteMenuCommand]("navigation.mainsite.refresh"),
	}
	return &RefreshMainsiteMenuHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

func (h *RefreshMainsiteMenuHandler) Execute(ctx context.Context, msg RefreshMainsiteMenuCommand) error {
	return h.inner.Execute(ctx, msg)
}

// InvalidateMainsiteMenuHandler executes InvalidateMainsiteMenuCommand.
type InvalidateMainsiteMenuHandler struct {
	inner *commands.Handler[InvalidateMainsiteMenuCommand]
}

func NewInvalidateMainsiteMenuHandler(menu MainsiteMenu, logger interfaces.Logger, opts ...commands.HandlerOption[InvalidateMainsiteMenuCommand]) *InvalidateMainsiteMenuHandler {
	if logger == nil {
		logger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg InvalidateMainsiteMenuCommand) error {
		if err := menu.Invalidate(ctx); err != nil {
			return err
		}
		logging.WithFields(logger, map[string]any{
			"reason": strings.TrimSpace(msg.Reason),
		}).Info("navigation.command.mainsite.invalidated")
		return nil
	}

	handlerOpts := []commands.HandlerOption[InvalidateMainsiteMenuCommand]{
		commands.WithLogger[InvalidateMainsiteMenuCommand](logger),
		commands.WithOperation[InvalidateMainsiteMenuCommand]("navigation.mainsite.invalidate"),
	}
	return &InvalidateMainsiteMenuHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

func (h *InvalidateMainsiteMenuHandler) Execute(ctx context.Context, msg InvalidateMainsiteMenuCommand) error {
	return h.inner.Execute(ctx, msg)
}
