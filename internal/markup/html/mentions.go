package html

import (
	"fmt"
	"regexp"
	"strings"

	nethtml "golang.org/x/net/html"
)

var objectID = regexp.MustCompile(`^[a-fA-F0-9]{24}$`)

// ExtractMentions returns the unique user ids mentioned in src, in
// document order. Ids that are not 24 hex digits are ignored.
func ExtractMentions(src string) ([]string, error) {
	root, err := nethtml.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var ids []string
	seen := make(map[string]bool)
	var walk func(*nethtml.Node)
	walk = func(n *nethtml.Node) {
		if n.Type == nethtml.ElementNode && attrOf(n, attrMention) == "true" {
			uid := attrOf(n, attrUID)
			if objectID.MatchString(uid) && !seen[uid] {
				seen[uid] = true
				ids = append(ids, uid)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return ids, nil
}
