package utils

import "strings"

var stemReplacer = strings.NewReplacer("/", "_", "\\", "_", ":", "_", "\x00", "")

// FileStem makes an entity or ticker name safe to use as a file name prefix.
// Spaces are kept, so "Tesla Inc" stays "Tesla Inc".
func FileStem(name string) string {
	s := stemReplacer.Replace(strings.TrimSpace(name))
	if s == "" || s == "." || s == ".." {
		return "untitled"
	}
	return s
}

// ArtifactName joins a stem and a suffix: ArtifactName("TSLA", "stock_price.csv")
// → "TSLA_stock_price.csv".
func ArtifactName(stem, suffix string) string {
	return FileStem(stem) + "_" + suffix
}
