package backend

import "strings"

const pngDataURIPrefix = "data:image/png;base64,"

// DataURI wraps base64 image data in a displayable data URI. Data that
// already carries a data: prefix is returned unchanged.
func DataURI(imageData string) string {
	if strings.HasPrefix(imageData, "data:") {
		return imageData
	}
	return pngDataURIPrefix + imageData
}

// StripDataURI returns the raw base64 payload of a data URI. Plain base64
// input is returned unchanged.
func StripDataURI(ref string) string {
	if !strings.HasPrefix(ref, "data:") {
		return ref
	}
	if i := strings.Index(ref, ","); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

// ImageRefs converts a generation response into displayable image references.
func ImageRefs(resp *GenerateResponse) []string {
	if resp == nil {
		return nil
	}
	refs := make([]string, 0, len(resp.Images))
	for _, img := range resp.Images {
		if img.ImageData == "" {
			continue
		}
		refs = append(refs, DataURI(img.ImageData))
	}
	return refs
}
