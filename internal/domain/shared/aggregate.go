package shared

// BaseAggregateRoot is the base type for aggregate roots.
// It tracks a version for optimistic concurrency control and collects
// domain events raised by the aggregate until they are published.
type BaseAggregateRoot struct {
	BaseEntity
	Version int `json:"version" gorm:"default:1"`

	domainEvents []DomainEvent `gorm:"-"`
}

// NewBaseAggregateRoot creates a new aggregate root at version 1.
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

// AddDomainEvent records an event to be published after the aggregate is persisted.
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns the recorded events.
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents discards the recorded events. Called after publishing.
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// IncrementVersion bumps the aggregate version. Must be called on every
// state-changing operation so that stale writers are rejected at save time.
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
	a.Touch()
}
