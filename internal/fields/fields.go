package fields

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-masthead/pkg/interfaces"
	"github.com/goliatone/go-masthead/query"
)

// Custom field keys read while resolving a header.
const (
	KeyImage         = "page_header_image"
	KeyImageXS       = "page_header_image_xs"
	KeyVideoMP4      = "page_header_mp4"
	KeyVideoWebM     = "page_header_webm"
	KeyTitle         = "page_header_title"
	KeySubtitle      = "page_header_subtitle"
	KeyH1            = "page_header_h1"
	KeyContentType   = "page_header_content_type"
	KeyHeight        = "page_header_height"
	KeyIncludeSubnav = "page_header_include_subnav"
	KeyCustomContent = "page_header_content"
)

// Keys lists every header field in a stable order.
var Keys = []string{
	KeyImage, KeyImageXS, KeyVideoMP4, KeyVideoWebM, KeyTitle,
	KeySubtitle, KeyH1, KeyContentType, KeyHeight, KeyIncludeSubnav,
	KeyCustomContent,
}

// Get reads key for obj. A nil store or nil object reads as a missing field.
func Get(ctx context.Context, store interfaces.FieldStore, obj *query.Object, key string) (any, error) {
	ref := obj.Ref()
	if store == nil || ref.IsZero() {
		return nil, nil
	}
	return store.Field(ctx, ref, key)
}

// String coerces a stored value to text. nil, false and empty values become "".
func String(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "1"
		}
		return ""
	case []byte:
		return string(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Bool reports whether a stored value is truthy: true, non-zero numbers and
// strings other than "", "0" and "false".
func Bool(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "0", "false":
			return false
		}
		return true
	default:
		return String(v) != ""
	}
}
