package bundle

// Module is one module record declared in a bundle.
type Module struct {
	// ID is the bundler-assigned module id. Ids are opaque tokens: they are
	// compared as strings and never assumed to be dense or sequential.
	ID string `json:"id" yaml:"id" bson:"id"`

	// VerboseName is the module's name at bundle time, usually its source
	// path. It is not unique.
	VerboseName string `json:"name" yaml:"name" bson:"name"`

	// Dependencies lists the ids this module requires, in declaration order.
	// Ids may be absent from the module set. Never nil after parsing.
	Dependencies []string `json:"dependencies" yaml:"dependencies" bson:"dependencies"`
}

// Index maps each module id to its position in modules. When an id repeats,
// the last position wins.
func Index(modules []Module) map[string]int {
	idx := make(map[string]int, len(modules))
	for i, m := range modules {
		idx[m.ID] = i
	}
	return idx
}
