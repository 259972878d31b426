package probe

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseProfiles reads a "code=modifier,code=modifier" list.
func ParseProfiles(s string) (map[string]int, error) {
	out := make(map[string]int)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		code, raw, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(code) == "" {
			return nil, fmt.Errorf("profile %q: want code=modifier", pair)
		}
		modifier, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("profile %q: %w", pair, err)
		}
		out[strings.TrimSpace(code)] = modifier
	}
	return out, nil
}
