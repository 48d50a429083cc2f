package port

import "context"

// ForeclosureSignalPort exposes the independently-maintained foreclosure/sale
// feed. Removed accounts that do not appear in it are presumed dead leads;
// the inference is conservative and the signal itself is external to this
// service.
type ForeclosureSignalPort interface {
	// KnownForeclosures filters the given accounts down to those with a
	// foreclosure or sale record.
	KnownForeclosures(ctx context.Context, accounts []string) (map[string]struct{}, error)
}
