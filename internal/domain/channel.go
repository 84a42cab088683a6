package domain

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
	"time"
)

var ErrInvalidChannelRef = errors.New("invalid channel reference")

type Channel struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Thumbnails  map[string]string `json:"thumbnails,omitempty"`
}

type Comment struct {
	ID     string `json:"id"`
	Author string `json:"author"`

	// Text est renvoyé tel quel (peut contenir du balisage).
	Text string `json:"text"`

	PublishedAt time.Time `json:"publishedAt"`
	LikeCount   int64     `json:"likeCount"`
}

// CommentThread: un seul niveau de réponses.
type CommentThread struct {
	Comment
	Replies []Comment `json:"replies"`
}

type CommentPage struct {
	Threads    []CommentThread `json:"threads"`
	NextCursor string          `json:"nextCursor,omitempty"`
}

type ChannelRefKind string

const (
	ChannelRefID     ChannelRefKind = "id"
	ChannelRefHandle ChannelRefKind = "handle"
	ChannelRefCustom ChannelRefKind = "custom"
)

// ChannelRef est une référence de chaîne extraite d'une saisie utilisateur.
// Value garde le "@" pour les handles.
type ChannelRef struct {
	Kind  ChannelRefKind `json:"kind"`
	Value string         `json:"value"`
}

func (r ChannelRef) String() string { return r.Value }

var channelIDRe = regexp.MustCompile(`^UC[A-Za-z0-9_-]{22}$`)

// ParseChannelRef accepte:
//   - https://www.youtube.com/channel/UC..., /c/name, /@handle
//   - @handle (ou %40handle)
//   - un identifiant brut
func ParseChannelRef(input string) (ChannelRef, error) {
	in := strings.TrimSpace(input)
	if in == "" {
		return ChannelRef{}, ErrInvalidChannelRef
	}

	if strings.HasPrefix(in, "%40") {
		if dec, err := url.PathUnescape(in); err == nil {
			in = dec
		}
	}
	if strings.HasPrefix(in, "@") {
		handle := firstSegment(strings.TrimPrefix(in, "@"))
		if handle == "" {
			return ChannelRef{}, ErrInvalidChannelRef
		}
		return ChannelRef{Kind: ChannelRefHandle, Value: "@" + handle}, nil
	}

	if !strings.Contains(in, "://") {
		if strings.ContainsAny(in, "/?# ") {
			return ChannelRef{}, ErrInvalidChannelRef
		}
		return ChannelRef{Kind: ChannelRefID, Value: in}, nil
	}

	u, err := url.Parse(in)
	if err != nil {
		return ChannelRef{}, ErrInvalidChannelRef
	}
	path := u.Path
	switch {
	case strings.HasPrefix(path, "/channel/"):
		if id := firstSegment(strings.TrimPrefix(path, "/channel/")); id != "" {
			return ChannelRef{Kind: ChannelRefID, Value: id}, nil
		}
	case strings.HasPrefix(path, "/c/"):
		if name := firstSegment(strings.TrimPrefix(path, "/c/")); name != "" {
			return ChannelRef{Kind: ChannelRefCustom, Value: name}, nil
		}
	case strings.HasPrefix(path, "/@"):
		if handle := firstSegment(strings.TrimPrefix(path, "/@")); handle != "" {
			return ChannelRef{Kind: ChannelRefHandle, Value: "@" + handle}, nil
		}
	}
	return ChannelRef{}, ErrInvalidChannelRef
}

// IsCanonicalChannelID indique si v a la forme d'un identifiant de chaîne (UC + 22 caractères).
func IsCanonicalChannelID(v string) bool {
	return channelIDRe.MatchString(v)
}

func firstSegment(s string) string {
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
