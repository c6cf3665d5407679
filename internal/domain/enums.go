// Package domain defines the order, transaction and record types shared by the
// analysis core and the simulation runtime.
package domain

// Side order side.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// PositionEffect whether an order opens or closes a position.
type PositionEffect string

const (
	PositionEffectOpen  PositionEffect = "open"
	PositionEffectClose PositionEffect = "close"
)

// Direction exposure direction of a position or order.
type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// DirectionFilter narrows a position query. Querying with DirectionAll must
// yield the same unified result as querying long and short separately.
type DirectionFilter string

const (
	DirectionFilterAll   DirectionFilter = "all"
	DirectionFilterLong  DirectionFilter = "long"
	DirectionFilterShort DirectionFilter = "short"
)

// Matches reports whether a position direction passes the filter.
func (f DirectionFilter) Matches(d Direction) bool {
	switch f {
	case DirectionFilterLong:
		return d == DirectionLong
	case DirectionFilterShort:
		return d == DirectionShort
	default:
		return true
	}
}
