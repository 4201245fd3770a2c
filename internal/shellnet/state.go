package shellnet

import (
	"strings"

	"github.com/born-ml/shellnet/internal/tensor"
)

// mergeStateDict copies src entries into dst under the given prefix.
func mergeStateDict(dst map[string]*tensor.RawTensor, prefix string, src map[string]*tensor.RawTensor) {
	for name, raw := range src {
		dst[prefix+"."+name] = raw
	}
}

// subStateDict extracts the entries under the given prefix, with the
// prefix stripped.
func subStateDict(stateDict map[string]*tensor.RawTensor, prefix string) map[string]*tensor.RawTensor {
	sub := make(map[string]*tensor.RawTensor)
	for key, raw := range stateDict {
		if strings.HasPrefix(key, prefix+".") {
			sub[strings.TrimPrefix(key, prefix+".")] = raw
		}
	}
	return sub
}
