package instrument

// Registerer is the registration target a constructed metric is handed to.
type Registerer interface {
	Register(m *Metric)
}

// InertRegistry accepts every registration and keeps nothing, so building
// metrics for analysis never touches a real collector registry.
type InertRegistry struct{}

// NewInertRegistry returns the inert registration target. Callers create one
// per process and share it.
func NewInertRegistry() *InertRegistry {
	return &InertRegistry{}
}

// Register is a no-op.
func (*InertRegistry) Register(*Metric) {}
