package address

// StreetRegistry maps street display names to identity keys and back. Every
// key of a mapped AddressPoint has exactly one entry; the first display name
// registered for a key is the one kept.
type StreetRegistry struct {
	keyByName map[string]string
	nameByKey map[string]string
	order     []string
}

// NewStreetRegistry creates an empty registry
func NewStreetRegistry() *StreetRegistry {
	return &StreetRegistry{
		keyByName: make(map[string]string),
		nameByKey: make(map[string]string),
	}
}

// Register records a display name under key. Display names that collapse to
// an already known key keep resolving to that key.
func (r *StreetRegistry) Register(displayName, key string) {
	if _, ok := r.keyByName[displayName]; !ok {
		r.keyByName[displayName] = key
	}
	if _, ok := r.nameByKey[key]; !ok {
		r.nameByKey[key] = displayName
		r.order = append(r.order, key)
	}
}

// KeyFor returns the key registered for a display name
func (r *StreetRegistry) KeyFor(displayName string) (string, bool) {
	key, ok := r.keyByName[displayName]
	return key, ok
}

// NameFor returns the display name registered for a key
func (r *StreetRegistry) NameFor(key string) (string, bool) {
	name, ok := r.nameByKey[key]
	return name, ok
}

// Has reports whether key is registered
func (r *StreetRegistry) Has(key string) bool {
	_, ok := r.nameByKey[key]
	return ok
}

// Keys returns registered keys in first-registered order
func (r *StreetRegistry) Keys() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of distinct keys
func (r *StreetRegistry) Len() int {
	return len(r.order)
}

// Clone returns an independent copy
func (r *StreetRegistry) Clone() *StreetRegistry {
	c := NewStreetRegistry()
	for name, key := range r.keyByName {
		c.keyByName[name] = key
	}
	for key, name := range r.nameByKey {
		c.nameByKey[key] = name
	}
	c.order = append(c.order, r.order...)
	return c
}
