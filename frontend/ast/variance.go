package ast

// Variance is the declaration-site annotation of a type parameter
type Variance uint8

const (
	Invariant Variance = iota
	// Producer is written 'out': the parameter only flows out of the type
	Producer
	// Consumer is written 'in': the parameter only flows into the type
	Consumer
)

func (v Variance) String() string {
	switch v {
	case Invariant:
		return "invariant"
	case Producer:
		return "out"
	case Consumer:
		return "in"
	default:
		return "invalid"
	}
}

// Projection is the use-site annotation of a type argument
type Projection uint8

const (
	ProjectionNone Projection = iota
	ProjectionOut
	ProjectionIn
	// ProjectionStar is the wildcard argument '*'
	ProjectionStar
)

func (p Projection) String() string {
	switch p {
	case ProjectionNone:
		return "none"
	case ProjectionOut:
		return "out"
	case ProjectionIn:
		return "in"
	case ProjectionStar:
		return "*"
	default:
		return "invalid"
	}
}

// Keyword is the source representation of the projection, the empty string for ProjectionNone
func (p Projection) Keyword() string {
	if p == ProjectionNone {
		return ""
	}
	return p.String()
}

// Position classifies where a type occurs in a signature
type Position uint8

const (
	// InvariantPosition is a mutable property or an argument of an invariant type parameter
	InvariantPosition Position = iota
	// ProducerPosition is return-like
	ProducerPosition
	// ConsumerPosition is parameter-like
	ConsumerPosition
)

func (p Position) String() string {
	switch p {
	case InvariantPosition:
		return "invariant"
	case ProducerPosition:
		return "out"
	case ConsumerPosition:
		return "in"
	default:
		return "invalid"
	}
}

// Flip swaps producer and consumer positions, as happens when crossing a
// contravariant type argument. Invariant positions stay invariant.
func (p Position) Flip() Position {
	switch p {
	case ProducerPosition:
		return ConsumerPosition
	case ConsumerPosition:
		return ProducerPosition
	default:
		return p
	}
}
