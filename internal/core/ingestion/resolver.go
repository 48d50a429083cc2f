package ingestion

import (
	"strings"

	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/domain"
)

// ResolveColumns maps canonical fields to source headers using a layered
// heuristic, strongest first: exact case-insensitive alias match, then
// normalized-exact match, then normalized substring containment in either
// direction. The first match locks the field; a later, weaker layer never
// reassigns it. Fields are resolved independently, so at most one header is
// assigned per field per file.
//
// Resolution gaps are not errors. The second return value lists the required
// fields that stayed unresolved so callers can log them; the extractor
// applies its own per-row fallbacks afterwards.
func ResolveColumns(headers []string) (domain.ColumnMap, []domain.CanonicalField) {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
	}

	cm := make(domain.ColumnMap, len(fieldOrder))
	for _, field := range fieldOrder {
		if header, ok := resolveField(field, headers, normalized); ok {
			cm[field] = header
		}
	}

	var missing []domain.CanonicalField
	for _, field := range RequiredFields {
		if _, ok := cm[field]; !ok {
			missing = append(missing, field)
		}
	}
	return cm, missing
}

func resolveField(field domain.CanonicalField, headers, normalized []string) (string, bool) {
	aliases := fieldAliases[field]

	// Layer 1: exact, case-insensitive.
	for _, alias := range aliases {
		for _, h := range headers {
			if strings.EqualFold(strings.TrimSpace(h), alias) {
				return h, true
			}
		}
	}

	// Layer 2: equal after normalization.
	for _, alias := range aliases {
		na := normalizeHeader(alias)
		if na == "" {
			continue
		}
		for i, nh := range normalized {
			if nh == na {
				return headers[i], true
			}
		}
	}

	// Layer 3: normalized containment, either direction.
	for _, alias := range aliases {
		na := normalizeHeader(alias)
		if na == "" {
			continue
		}
		for i, nh := range normalized {
			if nh == "" {
				continue
			}
			if strings.Contains(nh, na) || strings.Contains(na, nh) {
				return headers[i], true
			}
		}
	}

	return "", false
}
