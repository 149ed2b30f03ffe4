// Package assets classifies auxiliary reference images against the logical
// pieces of a generated form: the search screen, the detail screen, one of
// the named tabs, or general context. The generation worker receives the
// result as an artifact and uses it to pick reference material per screen.
package assets

import (
	"path/filepath"
	"strings"
)

// Category keys. Tab categories are rendered as "tab:<name>" with the tab's
// original spelling.
const (
	CategorySearch  = "search"
	CategoryDetail  = "detail"
	CategoryGeneral = "general"
)

// TabCategory builds the bucket key for a named tab.
func TabCategory(name string) string {
	return "tab:" + name
}

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".svg":  true,
	".bmp":  true,
}

var searchTokens = []string{"search", "list", "index"}
var detailTokens = []string{"detail", "edit", "view"}

// Classification maps category keys to file paths in discovery order. The
// category list preserves first-seen order so downstream consumption is
// deterministic.
type Classification struct {
	order   []string
	buckets map[string][]string
}

// Categories returns the bucket keys in first-seen order.
func (c Classification) Categories() []string {
	return append([]string{}, c.order...)
}

// Files returns the paths classified under a category, in discovery order.
func (c Classification) Files(category string) []string {
	return append([]string{}, c.buckets[category]...)
}

// Buckets returns the full mapping, suitable for JSON serialization.
func (c Classification) Buckets() map[string][]string {
	out := make(map[string][]string, len(c.buckets))
	for key, files := range c.buckets {
		out[key] = append([]string{}, files...)
	}
	return out
}

// Len reports how many files were classified.
func (c Classification) Len() int {
	total := 0
	for _, files := range c.buckets {
		total += len(files)
	}
	return total
}

func (c *Classification) add(category, file string) {
	if c.buckets == nil {
		c.buckets = map[string][]string{}
	}
	if _, seen := c.buckets[category]; !seen {
		c.order = append(c.order, category)
	}
	c.buckets[category] = append(c.buckets[category], file)
}

// Classify assigns every image file to exactly one bucket. Matching is
// best-effort and name-based:
//
//  1. search/list/index token in the normalized name -> search
//  2. detail/edit/view token -> detail
//  3. first tab (in tabs order) whose normalized name and the normalized
//     filename contain each other -> tab:<name>
//  4. otherwise -> general
//
// When a filename plausibly matches several tabs, the first tab in the given
// order wins. That order dependence is inherited behavior, kept as-is.
// Files outside the image extension allow-list are ignored.
func Classify(files []string, tabs []string) Classification {
	var result Classification
	for _, file := range files {
		if !imageExtensions[strings.ToLower(filepath.Ext(file))] {
			continue
		}
		result.add(categorize(file, tabs), file)
	}
	return result
}

func categorize(file string, tabs []string) string {
	name := normalize(file)
	if containsAny(name, searchTokens) {
		return CategorySearch
	}
	if containsAny(name, detailTokens) {
		return CategoryDetail
	}
	for _, tab := range tabs {
		tabName := strings.ToLower(strings.TrimSpace(tab))
		if tabName == "" {
			continue
		}
		if strings.Contains(name, tabName) || strings.Contains(tabName, name) {
			return TabCategory(tab)
		}
	}
	return CategoryGeneral
}

// normalize reduces a path to a comparable token: base name, extension
// stripped, case-folded, and the structural "tab" marker removed from either
// end.
func normalize(file string) string {
	base := filepath.Base(file)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ToLower(base)
	base = strings.TrimPrefix(base, "tab")
	base = strings.TrimSuffix(base, "tab")
	return strings.Trim(base, "-_ ")
}

func containsAny(name string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(name, token) {
			return true
		}
	}
	return false
}
