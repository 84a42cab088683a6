package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"text/tabwriter"
	"time"

	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/domain"
)

const usage = `Usage: ytv [flags] <commande>

  health | version
  open <url|@handle|id>        ouvre une chaîne et liste ses vidéos
  more <viewId>                charge la page suivante
  channel <url|@handle|id>
  comments <videoId>
  watched | history | blacklist
  watch <videoId> [titre]      marque une vidéo comme vue
  block <terme> | unblock <terme>`

func main() {
	baseURL := flag.String("server", envOr("YTV_SERVER_URL", "http://127.0.0.1:8080"), "URL du serveur (ex: http://127.0.0.1:8080)")
	timeout := flag.Duration("timeout", 20*time.Second, "Timeout HTTP")
	raw := flag.Bool("json", false, "Affiche la réponse JSON brute")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	c := &cli{client: &http.Client{Timeout: *timeout}, base: *baseURL + "/api/v1", raw: *raw}
	arg := func(i int) string {
		if len(args) <= i {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		return args[i]
	}

	switch args[0] {
	case "health":
		c.print(c.call(http.MethodGet, "/health", nil))
	case "version":
		c.print(c.call(http.MethodGet, "/version", nil))
	case "open":
		c.printView(c.call(http.MethodPost, "/views", map[string]string{"input": arg(1)}))
	case "more":
		b := c.call(http.MethodPost, "/views/"+url.PathEscape(arg(1))+"/more", nil)
		var res struct {
			View json.RawMessage `json:"view"`
		}
		if err := json.Unmarshal(b, &res); err != nil || c.raw {
			c.print(b)
			return
		}
		c.printView(res.View)
	case "channel":
		c.print(c.call(http.MethodGet, "/channels?url="+url.QueryEscape(arg(1)), nil))
	case "comments":
		c.print(c.call(http.MethodGet, "/videos/"+url.PathEscape(arg(1))+"/comments", nil))
	case "watched":
		c.print(c.call(http.MethodGet, "/watched", nil))
	case "watch":
		title := ""
		if len(args) > 2 {
			title = args[2]
		}
		c.print(c.call(http.MethodPost, "/watched", map[string]string{"videoId": arg(1), "title": title}))
	case "history":
		c.print(c.call(http.MethodGet, "/history", nil))
	case "blacklist":
		c.print(c.call(http.MethodGet, "/blacklist", nil))
	case "block":
		c.print(c.call(http.MethodPost, "/blacklist", map[string]string{"term": arg(1)}))
	case "unblock":
		c.print(c.call(http.MethodDelete, "/blacklist/"+url.PathEscape(arg(1)), nil))
	default:
		fmt.Fprintln(os.Stderr, "Commande inconnue:", args[0])
		os.Exit(2)
	}
}

type cli struct {
	client *http.Client
	base   string
	raw    bool
}

// call sort du programme en cas d'erreur réseau ou de statut >= 400.
func (c *cli) call(method, path string, body any) []byte {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			fail(err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.base+path, rd)
	if err != nil {
		fail(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		fail(err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		c.print(b)
		os.Exit(1)
	}
	return b
}

func (c *cli) print(b []byte) {
	if len(bytes.TrimSpace(b)) == 0 {
		return
	}
	var pretty any
	if err := json.Unmarshal(b, &pretty); err != nil {
		os.Stdout.Write(b)
		os.Stdout.Write([]byte("\n"))
		return
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(pretty)
}

type viewOutput struct {
	ID        string                `json:"id"`
	ChannelID string                `json:"channelId"`
	State     string                `json:"state"`
	Error     string                `json:"error"`
	Videos    []domain.VideoSummary `json:"videos"`
	HasMore   bool                  `json:"hasMore"`
	Watched   []string              `json:"watched"`
	Total     int                   `json:"total"`
}

func (c *cli) printView(b []byte) {
	var v viewOutput
	if c.raw || json.Unmarshal(b, &v) != nil {
		c.print(b)
		return
	}
	fmt.Printf("vue %s  chaîne %s  (%s, %d/%d visibles)\n", v.ID, v.ChannelID, v.State, len(v.Videos), v.Total)
	if v.Error != "" {
		fmt.Println("erreur:", v.Error)
	}

	watched := make(map[string]bool, len(v.Watched))
	for _, id := range v.Watched {
		watched[id] = true
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, video := range v.Videos {
		mark := " "
		if watched[video.ID] {
			mark = "✓"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", mark, video.ID, domain.FormatDuration(video.Duration), video.PublishedAt.Format("2006-01-02"), video.Title)
	}
	_ = tw.Flush()
	if v.HasMore {
		fmt.Printf("suite: ytv more %s\n", v.ID)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "Erreur:", err)
	os.Exit(1)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
