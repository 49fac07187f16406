package socialcore

import "context"

// SearchByName finds accounts whose full name matches the query. Admin
// accounts never appear in results, and no visible match is reported as
// ErrNoSearchMatches.
func (e *Engine) SearchByName(ctx context.Context, query string) ([]AccountSummary, error) {
	if e == nil || !e.ready {
		return nil, ErrEngineNotReady
	}
	if query == "" {
		return nil, ErrInvalidInput
	}

	accounts, err := e.users.SearchByFullName(ctx, query)
	if err != nil {
		return nil, err
	}

	out := make([]AccountSummary, 0, len(accounts))
	for _, a := range accounts {
		if a.Role == RoleAdmin {
			continue
		}
		out = append(out, AccountSummary{
			ID:             a.ID,
			FullName:       a.FullName,
			UserName:       a.UserName,
			ProfilePicture: a.ProfilePicture,
		})
	}

	if len(out) == 0 {
		e.metrics.Inc(MetricSearchMiss)
		return nil, ErrNoSearchMatches
	}

	e.metrics.Inc(MetricSearchHit)
	return out, nil
}
