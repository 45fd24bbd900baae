package shortcode

import (
	"fmt"
	"html/template"

	"github.com/goliatone/go-masthead/pkg/interfaces"
)

// SectionMenuName is the shortcode that renders an object's sub-navigation.
const SectionMenuName = "section-menu"

// SectionMenuDefinition renders provider's menu for the object being
// processed. [section-menu] with no object renders nothing.
func SectionMenuDefinition(provider interfaces.SectionMenuProvider) interfaces.ShortcodeDefinition {
	return interfaces.ShortcodeDefinition{
		Name:        SectionMenuName,
		Description: "Renders the section sub-navigation of the current object",
		Params: []interfaces.ShortcodeParam{
			{Name: "class", Type: interfaces.ShortcodeParamString},
		},
		Handler: func(ctx interfaces.ShortcodeContext, params map[string]any, _ string) (template.HTML, error) {
			if ctx.Object == nil {
				return "", nil
			}
			menu, err := provider.SectionMenu(ctx.Context, ctx.Object)
			if err != nil {
				return "", err
			}
			if class, _ := params["class"].(string); class != "" && menu != "" {
				return template.HTML(fmt.Sprintf(`<div class="%s">%s</div>`, template.HTMLEscapeString(class), menu)), nil
			}
			return menu, nil
		},
	}
}

// RegisterBuiltIns registers the shortcodes backed by the given
// collaborators. section-menu is only registered when provider is set.
func RegisterBuiltIns(registry interfaces.ShortcodeRegistry, provider interfaces.SectionMenuProvider) error {
	if registry == nil {
		return fmt.Errorf("shortcode: registry is required")
	}
	if provider == nil {
		return nil
	}
	return registry.Register(SectionMenuDefinition(provider))
}
