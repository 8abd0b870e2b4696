package selflink

import (
	"net/url"
	"strings"

	"go.uber.org/fx"

	"tweet2sky/internal/config"
)

var sourceHosts = map[string]bool{
	"twitter.com":     true,
	"www.twitter.com": true,
	"x.com":           true,
	"www.x.com":       true,
	"mobile.twitter.com": true,
}

var targetHosts = map[string]bool{
	"bsky.app":     true,
	"www.bsky.app": true,
}

// Recognizer classifies expanded URLs against the author's configured past
// handles on the source platform. Matching is exact on the handle path
// segment, case-insensitive.
type Recognizer struct {
	handles map[string]bool
}

type Opts struct {
	fx.In

	Config *config.Config
}

func New(opts Opts) *Recognizer {
	handles := make(map[string]bool)
	for _, h := range opts.Config.PastHandleList() {
		handles[h] = true
	}
	return &Recognizer{handles: handles}
}

// SelfStatusID returns the source-platform status ID when rawURL points at a
// post authored under one of the past handles.
func (r *Recognizer) SelfStatusID(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || !sourceHosts[strings.ToLower(u.Host)] {
		return "", false
	}

	segs := splitPath(u.Path)
	// Expected shape: /<handle>/status/<id>[/...]
	if len(segs) < 3 || segs[1] != "status" {
		return "", false
	}
	if !r.handles[strings.ToLower(segs[0])] {
		return "", false
	}
	return segs[2], true
}

// IsMediaLink reports whether rawURL is a photo or video permalink of a
// source-platform post, i.e. content already carried by an uploaded embed.
func (r *Recognizer) IsMediaLink(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Host)
	if host == "pic.twitter.com" || host == "pic.x.com" {
		return true
	}
	if !sourceHosts[host] {
		return false
	}
	segs := splitPath(u.Path)
	for _, s := range segs {
		if s == "photo" || s == "video" {
			return true
		}
	}
	return false
}

// TargetPostRef returns the profile identifier and record key when rawURL is
// a post link on the target platform.
func (r *Recognizer) TargetPostRef(rawURL string) (ident, rkey string, ok bool) {
	u, err := url.Parse(rawURL)
	if err != nil || !targetHosts[strings.ToLower(u.Host)] {
		return "", "", false
	}
	segs := splitPath(u.Path)
	// Expected shape: /profile/<ident>/post/<rkey>
	if len(segs) != 4 || segs[0] != "profile" || segs[2] != "post" {
		return "", "", false
	}
	return segs[1], segs[3], true
}

func splitPath(p string) []string {
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}
