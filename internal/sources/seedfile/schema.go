package seedfile

// BookmarkEntry is a single bookmark in the seed file.
type BookmarkEntry struct {
	URL         string   `yaml:"url"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
}

// CollectionEntry is a named collection with its member bookmarks.
type CollectionEntry struct {
	Name      string          `yaml:"name"`
	Bookmarks []BookmarkEntry `yaml:"bookmarks"`
}

// SeedConfig is the root structure of the seed YAML file.
type SeedConfig struct {
	Collections []CollectionEntry `yaml:"collections"`
	Unsorted    []BookmarkEntry   `yaml:"unsorted"`
	Tags        []string          `yaml:"tags"`
}
