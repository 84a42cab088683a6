package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// VideoSummary est une entrée du catalogue d'une chaîne, telle que renvoyée par l'API amont.
type VideoSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	PublishedAt  time.Time `json:"publishedAt"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	// Duration est une durée ISO-8601 (ex: PT4M13S), vide si inconnue.
	Duration string `json:"duration,omitempty"`
}

// FeedPage: un curseur vide signifie qu'il n'y a plus de page en amont.
type FeedPage struct {
	Videos     []VideoSummary `json:"videos"`
	NextCursor string         `json:"nextCursor,omitempty"`
}

func (p FeedPage) HasMore() bool { return p.NextCursor != "" }

// Les jours (P1DT2H) sont repliés en heures ; au moins une composante est requise.
var isoDurationRe = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// FormatDuration convertit une durée ISO-8601 en "h:mm:ss" / "mm:ss".
// Renvoie "" si le format n'est pas reconnu.
func FormatDuration(iso string) string {
	iso = strings.TrimSpace(iso)
	m := isoDurationRe.FindStringSubmatch(iso)
	if m == nil || (m[1] == "" && m[2] == "" && m[3] == "" && m[4] == "") || strings.HasSuffix(iso, "T") {
		return ""
	}
	days, _ := strconv.Atoi(m[1])
	hours, _ := strconv.Atoi(m[2])
	hours += days * 24

	var b strings.Builder
	if hours > 0 {
		b.WriteString(strconv.Itoa(hours))
		b.WriteString(":")
	}
	b.WriteString(padLeft(m[3], 2))
	b.WriteString(":")
	b.WriteString(padLeft(m[4], 2))
	return b.String()
}

func padLeft(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat("0", n-len(s)) + s
}
