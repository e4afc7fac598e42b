package opml

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/tengjizhang/drawer/internal/model"
)

type opmlDoc struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr,omitempty"`
	Head    opmlHead `xml:"head"`
	Body    opmlBody `xml:"body"`
}

type opmlHead struct {
	Title string `xml:"title,omitempty"`
}

type opmlBody struct {
	Outlines []opmlOutline `xml:"outline"`
}

type opmlOutline struct {
	ID          string        `xml:"id,attr,omitempty"`
	Text        string        `xml:"text,attr,omitempty"`
	Title       string        `xml:"title,attr,omitempty"`
	Type        string        `xml:"type,attr,omitempty"`
	XMLURL      string        `xml:"xmlUrl,attr,omitempty"`
	XMLURLLower string        `xml:"xmlurl,attr,omitempty"`
	Outlines    []opmlOutline `xml:"outline,omitempty"`
}

// ReadTree reads an OPML document from a file or an http(s) URL and maps it
// onto a subscription tree: top-level folders become categories, feeds
// inside them their subscriptions, and top-level feeds root subscriptions.
// Folders nested deeper than one level are flattened into their top-level
// category.
func ReadTree(path string) (*model.Payload, error) {
	r, err := openOPML(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return Decode(r)
}

func Decode(r io.Reader) (*model.Payload, error) {
	var doc opmlDoc
	decoder := xml.NewDecoder(r)
	decoder.Strict = false
	decoder.Entity = xml.HTMLEntity
	decoder.CharsetReader = charset.NewReaderLabel
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode opml: %w", err)
	}

	root := &model.RootCategory{}
	for _, o := range doc.Body.Outlines {
		if o.FeedURL() != "" {
			root.Subscriptions = append(root.Subscriptions, o.subscription())
			continue
		}
		if len(o.Outlines) == 0 {
			continue
		}
		cat := &model.Category{ID: fallback(o.ID, o.label()), Name: o.label()}
		var walk func([]opmlOutline)
		walk = func(outlines []opmlOutline) {
			for _, child := range outlines {
				if child.FeedURL() != "" {
					cat.Subscriptions = append(cat.Subscriptions, child.subscription())
				}
				if len(child.Outlines) > 0 {
					walk(child.Outlines)
				}
			}
		}
		walk(o.Outlines)
		root.Categories = append(root.Categories, cat)
	}
	return &model.Payload{Categories: []*model.RootCategory{root}}, nil
}

func openOPML(path string) (io.ReadCloser, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		resp, err := http.Get(path)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch %s: %s", path, resp.Status)
		}
		return resp.Body, nil
	}
	return os.Open(path)
}

func (o opmlOutline) subscription() *model.Subscription {
	feedURL := o.FeedURL()
	return &model.Subscription{
		ID:    fallback(o.ID, feedURL),
		Title: fallback(o.label(), feedURL),
		URL:   feedURL,
	}
}

func (o opmlOutline) label() string {
	return fallback(strings.TrimSpace(o.Title), strings.TrimSpace(o.Text))
}

func (o opmlOutline) FeedURL() string {
	if v := strings.TrimSpace(o.XMLURL); v != "" {
		return v
	}
	if v := strings.TrimSpace(o.XMLURLLower); v != "" {
		return v
	}
	return ""
}

func fallback(v, fb string) string {
	if strings.TrimSpace(v) == "" {
		return fb
	}
	return v
}
