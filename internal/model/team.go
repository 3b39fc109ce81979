package model

// Team is an organization team with an optional parent link. Parent links
// are what hierarchical sponsor discovery walks: child teams are derived
// from them, so no elevated "list child teams" permission is needed.
type Team struct {
	Slug       string `json:"slug"`
	Name       string `json:"name,omitempty"`
	ParentSlug string `json:"parentSlug,omitempty"`
}
