package playlist

import (
	"time"
)

// Kind is the immutable tag distinguishing an item variant.
type Kind string

const (
	KindLink   Kind = "link"
	KindText   Kind = "text"
	KindVideo  Kind = "video"
	KindAudio  Kind = "audio"
	KindImage  Kind = "image"
	KindSocial Kind = "social"
)

// kindAliases maps the legacy frontend names onto canonical kinds.
var kindAliases = map[Kind]Kind{
	"youtube": KindVideo,
	"twitter": KindSocial,
}

// CanonicalKind resolves aliases ("youtube", "twitter") to their
// canonical kind. Unknown kinds pass through unchanged so the registry
// can report them.
func CanonicalKind(k Kind) Kind {
	if c, ok := kindAliases[k]; ok {
		return c
	}
	return k
}

// Item is one entry in a playlist. It is a tagged variant: Type decides
// which of the kind-specific fields are legal. The registry enforces
// that an item never carries fields of a kind other than its own tag.
type Item struct {
	ID           string     `json:"id"`
	Type         Kind       `json:"type"`
	Title        string     `json:"title,omitempty"`
	AddedContext string     `json:"addedContext,omitempty"`
	AddedAt      *time.Time `json:"addedAt,omitempty"`

	// link, video, audio, social
	URL string `json:"url,omitempty"`
	// link
	Preview string `json:"preview,omitempty"`
	// text
	Content string `json:"content,omitempty"`
	// video, audio (seconds)
	Duration int `json:"duration,omitempty"`
	// video
	Thumbnail string `json:"thumbnail,omitempty"`
	// audio
	Artist   string `json:"artist,omitempty"`
	AlbumArt string `json:"albumArt,omitempty"`
	// image
	Image   string `json:"image,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// Playlist is a named, ordered collection of items. Items order is the
// canonical presentation order. Item ids are unique within a playlist.
type Playlist struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Items       []Item    `json:"items"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FindItem returns a pointer to the item with the given id, or nil.
func (p *Playlist) FindItem(id string) *Item {
	for i := range p.Items {
		if p.Items[i].ID == id {
			return &p.Items[i]
		}
	}
	return nil
}

// HasItem reports whether an item with the given id exists.
func (p *Playlist) HasItem(id string) bool {
	return p.FindItem(id) != nil
}
