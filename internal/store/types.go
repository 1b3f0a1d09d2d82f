package store

// Bounds for FetchQuery.Limit.
const (
	DefaultFetchQueryLimit = 20
	MaxFetchQueryLimit     = 200
)

// FetchQuery filters RecentFetches.
type FetchQuery struct {
	Limit   int
	Outcome string // empty matches every outcome
}

func (q FetchQuery) normalized() FetchQuery {
	if q.Limit <= 0 {
		q.Limit = DefaultFetchQueryLimit
	}
	if q.Limit > MaxFetchQueryLimit {
		q.Limit = MaxFetchQueryLimit
	}
	return q
}
