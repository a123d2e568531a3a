package content

import "fmt"

// Identifier is the normalized key an URL resolves to.
type Identifier struct {
	Platform Platform `json:"platform"`
	ID       string   `json:"id"`
	URL      string   `json:"url"`
}

// UnknownIdentifier is returned when no platform recognizes an URL.
var UnknownIdentifier = Identifier{Platform: Unknown}

func NewIdentifier(platform Platform, id, url string) Identifier {
	return Identifier{Platform: platform, ID: id, URL: url}
}

// Equal compares identifiers by ID only, so cosmetic URL variants are the same post.
func (i Identifier) Equal(other Identifier) bool {
	return i.ID == other.ID
}

func (i Identifier) IsUnknown() bool {
	return i.Platform == Unknown || i.ID == ""
}

// CacheKey is the "{platform}-{id}" key content results are cached under.
func (i Identifier) CacheKey() string {
	return fmt.Sprintf("%s-%s", i.Platform, i.ID)
}

func (i Identifier) String() string {
	if i.IsUnknown() {
		return "unknown"
	}
	return fmt.Sprintf("%s:%s", i.Platform, i.ID)
}
