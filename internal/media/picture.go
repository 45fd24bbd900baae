package media

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-masthead/pkg/interfaces"
)

// PictureSources returns the <picture> source URL per breakpoint for a header
// of the given height. Fullscreen headers use background sizes from Full and
// take only the xs source from Small. Breakpoints that cannot be resolved are
// left out.
func PictureSources(ctx context.Context, resolver interfaces.AttachmentResolver, height string, images Images) (map[string]string, error) {
	if resolver == nil || images.IsZero() {
		return map[string]string{}, nil
	}

	if strings.TrimSpace(height) == HeightFullscreen {
		srcs, err := backgroundSources(ctx, resolver, "", images.Full, SizeBackground)
		if err != nil {
			return nil, err
		}
		xs, err := backgroundSources(ctx, resolver, images.Small, "", SizeHeaderImage)
		if err != nil {
			return nil, err
		}
		if src, ok := xs["xs"]; ok {
			srcs["xs"] = src
		}
		return srcs, nil
	}

	return backgroundSources(ctx, resolver, images.Small, images.Full, SizeHeaderImage)
}

// backgroundSources resolves xs from small, or from large when small is
// unset, and sm through xl from large. Size names are prefix-breakpoint.
func backgroundSources(ctx context.Context, resolver interfaces.AttachmentResolver, small, large, prefix string) (map[string]string, error) {
	srcs := map[string]string{}
	xsRef := small
	if xsRef == "" {
		xsRef = large
	}

	for _, bp := range Breakpoints {
		ref := large
		if bp == "xs" {
			ref = xsRef
		}
		if ref == "" {
			continue
		}
		src, err := resolver.Source(ctx, ref, prefix+"-"+bp)
		if err != nil {
			if errors.Is(err, ErrAttachmentNotFound) || errors.Is(err, ErrSizeMissing) {
				continue
			}
			return nil, err
		}
		if src != "" {
			srcs[bp] = src
		}
	}
	return srcs, nil
}
